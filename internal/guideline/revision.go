package guideline

import (
	"context"

	"terminal-terrace/guideline-wiki/internal/database"
	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/packages/response"
)

const (
	// DetailRevisionWindow 详情页展示的修订数量
	DetailRevisionWindow = 5
	defaultRevisionLimit = 20
	maxRevisionLimit     = 100
)

// recordRevision 创建时总是写入初始快照；更新时只有正文变化才追加
func recordRevision(ctx context.Context, repo *GuidelineRepository, guidelineID uint, previous *string, content string) (bool, error) {
	if previous != nil && *previous == content {
		return false, nil
	}
	return true, repo.AddRevision(ctx, &wiki.Revision{GuidelineID: guidelineID, Content: content})
}

// Revisions 修订历史，最新的在前
func (s *GuidelineService) Revisions(ctx context.Context, guidelineID uint, limit int) ([]wiki.Revision, *response.BusinessError) {
	if limit <= 0 {
		limit = defaultRevisionLimit
	}
	if limit > maxRevisionLimit {
		limit = maxRevisionLimit
	}

	if _, err := s.repo.GetPlain(ctx, guidelineID); err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取指南失败", err)
	}

	revs, err := s.repo.ListRevisions(ctx, guidelineID, limit)
	if err != nil {
		return nil, failed("获取修订历史失败", err)
	}
	return revs, nil
}
