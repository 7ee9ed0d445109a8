package category

import (
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *CategoryService
}

func NewCategoryHandler(categoryService *CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories 分类列表
// @Summary 分类列表
// @Description 按名称排序，附带每个分类的指南数量
// @Tags 分类
// @Produce json
// @Success 200 {object} response.Response{data=[]CategorySummary}
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	items, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// GetCategory 获取分类
// @Summary 获取分类及其指南
// @Tags 分类
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response{data=wiki.Category}
// @Failure 404 {object} response.Response
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := dto.ParseID(c, "分类")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, category)
}

// CreateCategory 创建分类
// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body dto.CategoryRequest true "分类"
// @Success 201 {object} response.Response{data=wiki.Category}
// @Failure 400,401,403,409 {object} response.Response
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.CreatedResponse(c, category)
}

// UpdateCategory 更新分类
// @Summary 更新分类（整体替换）
// @Tags 分类
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "分类ID"
// @Param request body dto.CategoryRequest true "分类"
// @Success 200 {object} response.Response{data=wiki.Category}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := dto.ParseID(c, "分类")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, category)
}

// DeleteCategory 删除分类
// @Summary 删除分类
// @Description 同时删除该分类下的全部指南
// @Tags 分类
// @Produce json
// @Security CookieAuth
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response{data=DeleteCategoryResponse}
// @Failure 400,401,403,404 {object} response.Response
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := dto.ParseID(c, "分类")
	if !ok {
		return
	}

	result, err := h.categoryService.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
