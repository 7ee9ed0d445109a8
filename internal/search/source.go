package search

import (
	"context"
	"fmt"

	"terminal-terrace/guideline-wiki/internal/model/wiki"
	dbPkg "terminal-terrace/guideline-wiki/packages/database"

	"gorm.io/gorm"
)

// GormSource 在数据库中做不区分大小写的子串匹配
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Guidelines(ctx context.Context, pattern string, limit int) ([]wiki.Guideline, error) {
	var items []wiki.Guideline
	err := s.db.WithContext(ctx).
		Select("id", "title", "slug", "content", "category_id", "updated_at").
		Where(s.matches("title", "content"), pattern, pattern).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (s *GormSource) Categories(ctx context.Context, pattern string, limit int) ([]wiki.Category, error) {
	var items []wiki.Category
	err := s.db.WithContext(ctx).
		Where(s.matches("name", "COALESCE(description, '')"), pattern, pattern).
		Order("name ASC, id ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// matches 两列任一匹配；SQLite 用注册的 Unicode 小写函数
func (s *GormSource) matches(a, b string) string {
	lower := "LOWER"
	if s.db.Dialector.Name() == "sqlite" {
		lower = dbPkg.LowerFunc
	}
	return fmt.Sprintf(`%[1]s(%[2]s) LIKE ? ESCAPE '\' OR %[1]s(%[3]s) LIKE ? ESCAPE '\'`, lower, a, b)
}
