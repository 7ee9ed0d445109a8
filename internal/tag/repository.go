package tag

import (
	"context"

	"terminal-terrace/guideline-wiki/internal/model/wiki"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Transaction(ctx context.Context, fn func(repo *TagRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TagRepository{db: tx})
	})
}

// List 按名称排序，附带使用次数
func (r *TagRepository) List(ctx context.Context) ([]TagSummary, error) {
	var items []TagSummary
	err := r.db.WithContext(ctx).
		Model(&wiki.Tag{}).
		Select("tags.id, tags.name, tags.slug, tags.description, (SELECT COUNT(*) FROM guideline_tags WHERE guideline_tags.tag_id = tags.id) AS guideline_count").
		Order("tags.name ASC").
		Scan(&items).Error
	return items, err
}

func (r *TagRepository) GetByID(ctx context.Context, id uint) (*wiki.Tag, error) {
	var t wiki.Tag
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

// GuidelinesOf 使用该标签的指南，按标题排序
func (r *TagRepository) GuidelinesOf(ctx context.Context, tagID uint) ([]GuidelineRef, error) {
	var refs []GuidelineRef
	err := r.db.WithContext(ctx).
		Model(&wiki.Guideline{}).
		Select("guidelines.id, guidelines.title, guidelines.slug").
		Joins("JOIN guideline_tags ON guideline_tags.guideline_id = guidelines.id").
		Where("guideline_tags.tag_id = ?", tagID).
		Order("guidelines.title ASC").
		Scan(&refs).Error
	return refs, err
}

func (r *TagRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&wiki.Tag{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *TagRepository) Create(ctx context.Context, t *wiki.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TagRepository) Update(ctx context.Context, t *wiki.Tag) error {
	return r.db.WithContext(ctx).Model(t).Select("name", "slug", "description", "updated_at").Updates(t).Error
}

// Disconnect 解除标签与所有指南的关联，返回解除的数量
func (r *TagRepository) Disconnect(ctx context.Context, tagID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&wiki.GuidelineTag{})
	return res.RowsAffected, res.Error
}

func (r *TagRepository) Delete(ctx context.Context, tagID uint) error {
	return r.db.WithContext(ctx).Delete(&wiki.Tag{}, tagID).Error
}
