package guideline

import (
	"context"
	"fmt"
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

// DefaultPageSize 列表默认返回前 10 条
const DefaultPageSize = 10

type GuidelineService struct {
	repo *GuidelineRepository
}

func NewGuidelineService(db *gorm.DB) *GuidelineService {
	return &GuidelineService{repo: NewGuidelineRepository(db)}
}

// List 按标题字母序分页
func (s *GuidelineService) List(ctx context.Context, q dto.ListQuery) ([]wiki.Guideline, int64, *response.BusinessError) {
	q.Normalize(DefaultPageSize)
	items, total, err := s.repo.List(ctx, q.Offset(), q.PageSize)
	if err != nil {
		return nil, 0, failed("获取指南列表失败", err)
	}
	return items, total, nil
}

// Recent 首页展示的最近更新
func (s *GuidelineService) Recent(ctx context.Context, limit int) ([]wiki.Guideline, *response.BusinessError) {
	items, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, failed("获取最近更新失败", err)
	}
	return items, nil
}

func (s *GuidelineService) Get(ctx context.Context, id uint) (*wiki.Guideline, *response.BusinessError) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取指南失败", err)
	}
	return g, nil
}

// GetBySlug API 按 slug 查询需要登录
func (s *GuidelineService) GetBySlug(ctx context.Context, actor *authsdk.UserContext, slugStr string) (*wiki.Guideline, *response.BusinessError) {
	if err := permission.RequireSession(actor); err != nil {
		return nil, err
	}
	g, _, bizErr := s.Resolve(ctx, slugStr)
	return g, bizErr
}

// Resolve 按当前 slug 查找，找不到再查旧 slug
// moved 为 true 表示命中的是旧 slug，调用方应跳转到 g.Slug
func (s *GuidelineService) Resolve(ctx context.Context, slugStr string) (g *wiki.Guideline, moved bool, bizErr *response.BusinessError) {
	g, err := s.repo.GetBySlug(ctx, slugStr)
	if err == nil {
		return g, false, nil
	}
	if !database.IsNotFound(err) {
		return nil, false, failed("获取指南失败", err)
	}

	alias, err := s.repo.FindAlias(ctx, slugStr)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, false, notFound()
		}
		return nil, false, failed("获取指南失败", err)
	}

	g, bizErr = s.Get(ctx, alias.GuidelineID)
	if bizErr != nil {
		return nil, false, bizErr
	}
	return g, true, nil
}

// Create 创建指南并写入初始修订
func (s *GuidelineService) Create(ctx context.Context, actor *authsdk.UserContext, req dto.GuidelineRequest) (*wiki.Guideline, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	g := &wiki.Guideline{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug.Make(req.Title),
		Content:    req.Content,
		CategoryID: req.CategoryID,
	}
	if g.Slug == "" {
		return nil, emptyTitle()
	}
	tagIDs := uniqueIDs(req.TagIDs)

	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *GuidelineRepository) error {
		if bizErr = s.checkReferences(ctx, repo, g.CategoryID, tagIDs); bizErr != nil {
			return bizErr
		}
		if bizErr = s.claimSlug(ctx, repo, g.Slug, 0); bizErr != nil {
			return bizErr
		}

		if err := repo.Create(ctx, g); err != nil {
			return err
		}
		if err := repo.ConnectTags(ctx, g.ID, tagIDs); err != nil {
			return err
		}
		if err := repo.ReplaceReferences(ctx, g.ID, toReferences(req.References)); err != nil {
			return err
		}
		_, err := recordRevision(ctx, repo, g.ID, nil, g.Content)
		return err
	})
	if bizErr != nil {
		return nil, bizErr
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(g.Slug)
		}
		return nil, failed("创建指南失败", err)
	}

	log.Info().Uint("guideline_id", g.ID).Str("slug", g.Slug).Uint("actor", actor.UserID).Msg("指南已创建")
	return s.Get(ctx, g.ID)
}

// Update 整体替换标题、正文、分类、标签和引用
// 标签按差集增删；正文变化时追加修订；改名时保留旧 slug
func (s *GuidelineService) Update(ctx context.Context, actor *authsdk.UserContext, id uint, req dto.GuidelineRequest) (*wiki.Guideline, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	newSlug := slug.Make(title)
	if newSlug == "" {
		return nil, emptyTitle()
	}
	tagIDs := uniqueIDs(req.TagIDs)

	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *GuidelineRepository) error {
		current, err := repo.GetPlain(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				bizErr = notFound()
				return bizErr
			}
			return err
		}

		if bizErr = s.checkReferences(ctx, repo, req.CategoryID, tagIDs); bizErr != nil {
			return bizErr
		}

		if newSlug != current.Slug {
			if bizErr = s.claimSlug(ctx, repo, newSlug, id); bizErr != nil {
				return bizErr
			}
			if err := repo.AddAlias(ctx, id, current.Slug); err != nil {
				return err
			}
		}

		if err := repo.UpdateFields(ctx, id, title, newSlug, req.Content, req.CategoryID); err != nil {
			return err
		}

		currentTags, err := repo.CurrentTagIDs(ctx, id)
		if err != nil {
			return err
		}
		toConnect, toDisconnect := diffTags(currentTags, tagIDs)
		if err := repo.DisconnectTags(ctx, id, toDisconnect); err != nil {
			return err
		}
		if err := repo.ConnectTags(ctx, id, toConnect); err != nil {
			return err
		}

		if err := repo.ReplaceReferences(ctx, id, toReferences(req.References)); err != nil {
			return err
		}

		_, err = recordRevision(ctx, repo, id, &current.Content, req.Content)
		return err
	})
	if bizErr != nil {
		return nil, bizErr
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(newSlug)
		}
		return nil, failed("更新指南失败", err)
	}

	return s.Get(ctx, id)
}

func (s *GuidelineService) Delete(ctx context.Context, actor *authsdk.UserContext, id uint) *response.BusinessError {
	if err := permission.RequireAdmin(actor); err != nil {
		return err
	}

	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *GuidelineRepository) error {
		if _, err := repo.GetPlain(ctx, id); err != nil {
			if database.IsNotFound(err) {
				bizErr = notFound()
				return bizErr
			}
			return err
		}
		return repo.Delete(ctx, id)
	})
	if bizErr != nil {
		return bizErr
	}
	if err != nil {
		return failed("删除指南失败", err)
	}

	log.Info().Uint("guideline_id", id).Uint("actor", actor.UserID).Msg("指南已删除")
	return nil
}

// checkReferences 分类和标签必须存在，否则返回 404 而不是外键错误
func (s *GuidelineService) checkReferences(ctx context.Context, repo *GuidelineRepository, categoryID uint, tagIDs []uint) *response.BusinessError {
	ok, err := repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return failed("检查分类失败", err)
	}
	if !ok {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("分类不存在"),
		)
	}

	found, err := repo.ExistingTagIDs(ctx, tagIDs)
	if err != nil {
		return failed("检查标签失败", err)
	}
	if missing := missingIDs(tagIDs, found); len(missing) > 0 {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage(fmt.Sprintf("标签不存在: %v", missing)),
		)
	}
	return nil
}

// claimSlug 当前 slug 冲突返回 409；旧 slug 冲突时让出给新指南
func (s *GuidelineService) claimSlug(ctx context.Context, repo *GuidelineRepository, slugStr string, excludeID uint) *response.BusinessError {
	taken, err := repo.SlugTaken(ctx, slugStr, excludeID)
	if err != nil {
		return failed("检查指南 slug 失败", err)
	}
	if taken {
		return slugConflict(slugStr)
	}
	if err := repo.DeleteAlias(ctx, slugStr); err != nil {
		return failed("清理旧 slug 失败", err)
	}
	return nil
}

func toReferences(in []dto.ReferenceInput) []wiki.Reference {
	refs := make([]wiki.Reference, 0, len(in))
	for _, r := range in {
		refs = append(refs, wiki.Reference{
			Title:       strings.TrimSpace(r.Title),
			URL:         r.URL,
			Description: r.Description,
		})
	}
	return refs
}

func notFound() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("指南不存在"),
	)
}

func emptyTitle() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.InvalidParameter),
		response.WithErrorMessage("指南标题不能为空"),
	)
}

func slugConflict(s string) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage("指南 slug 已存在: "+s),
	)
}

func failed(msg string, err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
