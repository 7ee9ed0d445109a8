package category

import (
	"context"

	"terminal-terrace/guideline-wiki/internal/model/wiki"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Transaction(ctx context.Context, fn func(repo *CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// List 按名称排序，附带每个分类的指南数量
func (r *CategoryRepository) List(ctx context.Context) ([]CategorySummary, error) {
	var items []CategorySummary
	err := r.db.WithContext(ctx).
		Model(&wiki.Category{}).
		Select("categories.id, categories.name, categories.slug, categories.description, categories.created_at, categories.updated_at, (SELECT COUNT(*) FROM guidelines WHERE guidelines.category_id = categories.id) AS guideline_count").
		Order("categories.name ASC").
		Scan(&items).Error
	return items, err
}

// GetByID 包含该分类下的指南（按标题排序，不含正文）
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*wiki.Category, error) {
	var c wiki.Category
	err := r.db.WithContext(ctx).
		Preload("Guidelines", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug", "category_id", "created_at", "updated_at").Order("title ASC")
		}).
		First(&c, id).Error
	return &c, err
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*wiki.Category, error) {
	var c wiki.Category
	err := r.db.WithContext(ctx).
		Preload("Guidelines", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug", "category_id", "created_at", "updated_at").Order("title ASC")
		}).
		Where("slug = ?", slug).
		First(&c).Error
	return &c, err
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&wiki.Category{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// SlugTaken excludeID 为 0 时不排除任何记录
func (r *CategoryRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&wiki.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *wiki.Category) error {
	return r.db.WithContext(ctx).Omit("Guidelines").Create(c).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *wiki.Category) error {
	return r.db.WithContext(ctx).Model(c).Select("name", "slug", "description", "updated_at").Updates(c).Error
}

// DeleteCascade 删除分类及其全部指南，连同指南的标签关联、引用、修订和旧 slug
// 需要在事务中调用；返回删除的指南数量
func (r *CategoryRepository) DeleteCascade(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	guidelineIDs := db.Model(&wiki.Guideline{}).Select("id").Where("category_id = ?", id)

	for _, m := range []any{&wiki.GuidelineTag{}, &wiki.Reference{}, &wiki.Revision{}, &wiki.SlugAlias{}} {
		if err := db.Where("guideline_id IN (?)", guidelineIDs).Delete(m).Error; err != nil {
			return 0, err
		}
	}

	res := db.Where("category_id = ?", id).Delete(&wiki.Guideline{})
	if res.Error != nil {
		return 0, res.Error
	}
	deleted := res.RowsAffected

	if err := db.Delete(&wiki.Category{}, id).Error; err != nil {
		return 0, err
	}
	return deleted, nil
}
