package category

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

type CategoryService struct {
	repo *CategoryRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		repo: NewCategoryRepository(db),
	}
}

// List 公开接口
func (s *CategoryService) List(ctx context.Context) ([]CategorySummary, *response.BusinessError) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, failed("获取分类列表失败", err)
	}
	return items, nil
}

// Get 公开接口，包含分类下的指南
func (s *CategoryService) Get(ctx context.Context, id uint) (*wiki.Category, *response.BusinessError) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取分类失败", err)
	}
	return c, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slugStr string) (*wiki.Category, *response.BusinessError) {
	c, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, notFound()
		}
		return nil, failed("获取分类失败", err)
	}
	return c, nil
}

// Create 仅管理员
func (s *CategoryService) Create(ctx context.Context, actor *authsdk.UserContext, req dto.CategoryRequest) (*wiki.Category, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	c := &wiki.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if bizErr := s.assignSlug(ctx, c, 0); bizErr != nil {
		return nil, bizErr
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(c.Slug)
		}
		return nil, failed("创建分类失败", err)
	}

	log.Info().Uint("category_id", c.ID).Str("slug", c.Slug).Uint("actor", actor.UserID).Msg("分类已创建")
	return c, nil
}

// Update 整体替换名称和描述，slug 随名称重新生成
func (s *CategoryService) Update(ctx context.Context, actor *authsdk.UserContext, id uint, req dto.CategoryRequest) (*wiki.Category, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, failed("获取分类失败", err)
	}
	if !exists {
		return nil, notFound()
	}

	c := &wiki.Category{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if bizErr := s.assignSlug(ctx, c, id); bizErr != nil {
		return nil, bizErr
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, slugConflict(c.Slug)
		}
		return nil, failed("更新分类失败", err)
	}

	return s.Get(ctx, id)
}

// Delete 级联删除分类下的所有指南，不可恢复
func (s *CategoryService) Delete(ctx context.Context, actor *authsdk.UserContext, id uint) (*DeleteCategoryResponse, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var deleted int64
	var bizErr *response.BusinessError
	err := s.repo.Transaction(ctx, func(repo *CategoryRepository) error {
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			bizErr = notFound()
			return bizErr
		}

		deleted, err = repo.DeleteCascade(ctx, id)
		return err
	})
	if bizErr != nil {
		return nil, bizErr
	}
	if err != nil {
		return nil, failed("删除分类失败", err)
	}

	log.Info().Uint("category_id", id).Int64("deleted_guidelines", deleted).Uint("actor", actor.UserID).Msg("分类已删除")
	return &DeleteCategoryResponse{DeletedGuidelines: deleted}, nil
}

// assignSlug 生成 slug 并预先检查唯一性，存储层的唯一约束兜底
func (s *CategoryService) assignSlug(ctx context.Context, c *wiki.Category, excludeID uint) *response.BusinessError {
	c.Slug = slug.Make(c.Name)
	if c.Slug == "" {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("分类名称不能为空"),
		)
	}

	taken, err := s.repo.SlugTaken(ctx, c.Slug, excludeID)
	if err != nil {
		return failed("检查分类 slug 失败", err)
	}
	if taken {
		return slugConflict(c.Slug)
	}
	return nil
}

func notFound() *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("分类不存在"),
	)
}

func slugConflict(s string) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Conflict),
		response.WithErrorMessage("分类 slug 已存在: "+s),
	)
}

func failed(msg string, err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
