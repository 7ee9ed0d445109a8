package guideline

import (
	"context"
	"time"

	"terminal-terrace/guideline-wiki/internal/model/wiki"

	"gorm.io/gorm"
)

type GuidelineRepository struct {
	db *gorm.DB
}

func NewGuidelineRepository(db *gorm.DB) *GuidelineRepository {
	return &GuidelineRepository{db: db}
}

func (r *GuidelineRepository) Transaction(ctx context.Context, fn func(repo *GuidelineRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GuidelineRepository{db: tx})
	})
}

// List 按标题排序分页
func (r *GuidelineRepository) List(ctx context.Context, offset, limit int) ([]wiki.Guideline, int64, error) {
	var (
		items []wiki.Guideline
		total int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&wiki.Guideline{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Category").
		Preload("Tags", orderTags).
		Order("title ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

// Recent 最近更新的指南
func (r *GuidelineRepository) Recent(ctx context.Context, limit int) ([]wiki.Guideline, error) {
	var items []wiki.Guideline
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// GetByID 加载分类、标签、引用和最近的修订
func (r *GuidelineRepository) GetByID(ctx context.Context, id uint) (*wiki.Guideline, error) {
	var g wiki.Guideline
	err := r.withDetail(ctx).First(&g, id).Error
	return &g, err
}

func (r *GuidelineRepository) GetBySlug(ctx context.Context, slug string) (*wiki.Guideline, error) {
	var g wiki.Guideline
	err := r.withDetail(ctx).Where("slug = ?", slug).First(&g).Error
	return &g, err
}

// GetPlain 只读指南本身，不加载关联
func (r *GuidelineRepository) GetPlain(ctx context.Context, id uint) (*wiki.Guideline, error) {
	var g wiki.Guideline
	err := r.db.WithContext(ctx).First(&g, id).Error
	return &g, err
}

func (r *GuidelineRepository) withDetail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", orderTags).
		Preload("References", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC").Limit(DetailRevisionWindow)
		})
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

func (r *GuidelineRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&wiki.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// ExistingTagIDs 返回 ids 中实际存在的标签
func (r *GuidelineRepository) ExistingTagIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(&wiki.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (r *GuidelineRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&wiki.Guideline{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Create 只写指南本身，关联由调用方单独写入
func (r *GuidelineRepository) Create(ctx context.Context, g *wiki.Guideline) error {
	return r.db.WithContext(ctx).Omit("Category", "Tags", "References", "Revisions").Create(g).Error
}

func (r *GuidelineRepository) UpdateFields(ctx context.Context, id uint, title, slug, content string, categoryID uint) error {
	return r.db.WithContext(ctx).Model(&wiki.Guideline{ID: id}).Updates(map[string]any{
		"title":       title,
		"slug":        slug,
		"content":     content,
		"category_id": categoryID,
		"updated_at":  time.Now(),
	}).Error
}

func (r *GuidelineRepository) CurrentTagIDs(ctx context.Context, guidelineID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&wiki.GuidelineTag{}).
		Where("guideline_id = ?", guidelineID).
		Order("tag_id ASC").
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *GuidelineRepository) ConnectTags(ctx context.Context, guidelineID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]wiki.GuidelineTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, wiki.GuidelineTag{GuidelineID: guidelineID, TagID: id})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *GuidelineRepository) DisconnectTags(ctx context.Context, guidelineID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("guideline_id = ? AND tag_id IN ?", guidelineID, tagIDs).
		Delete(&wiki.GuidelineTag{}).Error
}

// ReplaceReferences 整体替换引用列表
func (r *GuidelineRepository) ReplaceReferences(ctx context.Context, guidelineID uint, refs []wiki.Reference) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("guideline_id = ?", guidelineID).Delete(&wiki.Reference{}).Error; err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}
	for i := range refs {
		refs[i].ID = 0
		refs[i].GuidelineID = guidelineID
	}
	return db.Create(&refs).Error
}

func (r *GuidelineRepository) AddRevision(ctx context.Context, rev *wiki.Revision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

// ListRevisions 最新的在前
func (r *GuidelineRepository) ListRevisions(ctx context.Context, guidelineID uint, limit int) ([]wiki.Revision, error) {
	var revs []wiki.Revision
	err := r.db.WithContext(ctx).
		Where("guideline_id = ?", guidelineID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&revs).Error
	return revs, err
}

// FindAlias 根据旧 slug 找到指南 ID
func (r *GuidelineRepository) FindAlias(ctx context.Context, slug string) (*wiki.SlugAlias, error) {
	var a wiki.SlugAlias
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error
	return &a, err
}

func (r *GuidelineRepository) AddAlias(ctx context.Context, guidelineID uint, slug string) error {
	return r.db.WithContext(ctx).Create(&wiki.SlugAlias{GuidelineID: guidelineID, Slug: slug}).Error
}

// DeleteAlias 当前 slug 优先于任何旧 slug
func (r *GuidelineRepository) DeleteAlias(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&wiki.SlugAlias{}).Error
}

// Delete 删除指南及其标签关联、引用、修订和旧 slug
func (r *GuidelineRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	for _, m := range []any{&wiki.GuidelineTag{}, &wiki.Reference{}, &wiki.Revision{}, &wiki.SlugAlias{}} {
		if err := db.Where("guideline_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	return db.Delete(&wiki.Guideline{}, id).Error
}
