package tag

import (
	"context"
	"strings"

	"terminal-terrace/guideline-wiki/internal/database"
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/internal/permission"
	"terminal-terrace/guideline-wiki/internal/slug"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TagService struct {
	repo *TagRepository
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{repo: NewTagRepository(db)}
}

func (s *TagService) List(ctx context.Context) ([]TagSummary, *response.BusinessError) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, failed("获取标签列表失败", err)
	}
	return items, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*TagDetail, *response.BusinessError) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取标签失败", err)
	}

	guidelines, err := s.repo.GuidelinesOf(ctx, id)
	if err != nil {
		return nil, failed("获取标签关联的指南失败", err)
	}
	return &TagDetail{Tag: *t, Guidelines: guidelines}, nil
}

func (s *TagService) Create(ctx context.Context, actor *authsdk.UserContext, req dto.TagRequest) (*wiki.Tag, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	t := &wiki.Tag{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if bizErr := s.assignSlug(ctx, t, 0); bizErr != nil {
		return nil, bizErr
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(t.Slug)
		}
		return nil, failed("创建标签失败", err)
	}
	return t, nil
}

func (s *TagService) Update(ctx context.Context, actor *authsdk.UserContext, id uint, req dto.TagRequest) (*wiki.Tag, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取标签失败", err)
	}

	t.Name = strings.TrimSpace(req.Name)
	t.Description = req.Description
	if bizErr := s.assignSlug(ctx, t, id); bizErr != nil {
		return nil, bizErr
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(t.Slug)
		}
		return nil, failed("更新标签失败", err)
	}
	return t, nil
}

// Delete 先解除与所有指南的关联再删除标签，两步在同一事务内
// 指南本身不受影响
func (s *TagService) Delete(ctx context.Context, actor *authsdk.UserContext, id uint) (*DeleteTagResponse, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var disconnected int64
	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *TagRepository) error {
		if _, err := repo.GetByID(ctx, id); err != nil {
			if database.IsNotFound(err) {
				bizErr = notFound()
				return bizErr
			}
			return err
		}

		var err error
		if disconnected, err = repo.Disconnect(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if bizErr != nil {
		return nil, bizErr
	}
	if err != nil {
		return nil, failed("删除标签失败", err)
	}

	log.Info().Uint("tag_id", id).Int64("disconnected", disconnected).Uint("actor", actor.UserID).Msg("标签已删除")
	return &DeleteTagResponse{DisconnectedGuidelines: disconnected}, nil
}

func (s *TagService) assignSlug(ctx context.Context, t *wiki.Tag, excludeID uint) *response.BusinessError {
	t.Slug = slug.Make(t.Name)
	if t.Slug == "" {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("标签名称不能为空"),
		)
	}

	taken, err := s.repo.SlugTaken(ctx, t.Slug, excludeID)
	if err != nil {
		return failed("检查标签 slug 失败", err)
	}
	if taken {
		return slugConflict(t.Slug)
	}
	return nil
}

func notFound() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("标签不存在"),
	)
}

func slugConflict(s string) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage("标签 slug 已存在: "+s),
	)
}

func failed(msg string, err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
