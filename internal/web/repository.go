package web

import (
	"context"

	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/model/wiki"

	"gorm.io/gorm"
)

// DashboardCounts 管理首页的数量统计
type DashboardCounts struct {
	Guidelines int64
	Categories int64
	Tags       int64
	Users      int64
}

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Counts(ctx context.Context) (DashboardCounts, error) {
	var out DashboardCounts
	db := r.db.WithContext(ctx)
	targets := []struct {
		model any
		dst   *int64
	}{
		{&wiki.Guideline{}, &out.Guidelines},
		{&wiki.Category{}, &out.Categories},
		{&wiki.Tag{}, &out.Tags},
		{&userModel.User{}, &out.Users},
	}
	for _, t := range targets {
		if err := db.Model(t.model).Count(t.dst).Error; err != nil {
			return DashboardCounts{}, err
		}
	}
	return out, nil
}
