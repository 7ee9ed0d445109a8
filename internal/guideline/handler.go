package guideline

import (
	"strconv"

	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

type GuidelineHandler struct {
	guidelineService *GuidelineService
}

func NewGuidelineHandler(guidelineService *GuidelineService) *GuidelineHandler {
	return &GuidelineHandler{guidelineService: guidelineService}
}

// ListGuidelines 指南列表
// @Summary 指南列表
// @Description 按标题字母序，默认前 10 条
// @Tags 指南
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /guidelines [get]
func (h *GuidelineHandler) ListGuidelines(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	items, total, err := h.guidelineService.List(c.Request.Context(), q)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	q.Normalize(DefaultPageSize)
	dto.PageResponse(c, items, total, q.Page, q.PageSize)
}

// GetGuideline 指南详情
// @Summary 获取指南
// @Description 包含分类、标签、引用和最近 5 条修订
// @Tags 指南
// @Produce json
// @Param id path int true "指南ID"
// @Success 200 {object} response.Response{data=wiki.Guideline}
// @Failure 404 {object} response.Response
// @Router /guidelines/{id} [get]
func (h *GuidelineHandler) GetGuideline(c *gin.Context) {
	id, ok := dto.ParseID(c, "指南")
	if !ok {
		return
	}

	g, err := h.guidelineService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, g)
}

// GetGuidelineBySlug 按 slug 获取指南
// @Summary 按 slug 获取指南
// @Description 需要登录；旧 slug 同样可以命中
// @Tags 指南
// @Produce json
// @Security CookieAuth
// @Param slug path string true "slug"
// @Success 200 {object} response.Response{data=wiki.Guideline}
// @Failure 401,404 {object} response.Response
// @Router /guidelines/slug/{slug} [get]
func (h *GuidelineHandler) GetGuidelineBySlug(c *gin.Context) {
	g, err := h.guidelineService.GetBySlug(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, g)
}

// ListRevisions 修订历史
// @Summary 修订历史
// @Tags 指南
// @Produce json
// @Param id path int true "指南ID"
// @Param limit query int false "数量，默认 20，最多 100"
// @Success 200 {object} response.Response{data=[]wiki.Revision}
// @Failure 404 {object} response.Response
// @Router /guidelines/{id}/revisions [get]
func (h *GuidelineHandler) ListRevisions(c *gin.Context) {
	id, ok := dto.ParseID(c, "指南")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	revs, err := h.guidelineService.Revisions(c.Request.Context(), id, limit)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, revs)
}

// CreateGuideline 创建指南
// @Summary 创建指南
// @Description 同时写入初始修订
// @Tags 指南
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body dto.GuidelineRequest true "指南"
// @Success 201 {object} response.Response{data=wiki.Guideline}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /guidelines [post]
func (h *GuidelineHandler) CreateGuideline(c *gin.Context) {
	var req dto.GuidelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	g, err := h.guidelineService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.CreatedResponse(c, g)
}

// UpdateGuideline 更新指南
// @Summary 更新指南（整体替换）
// @Description tagIds 与 references 为完整的新集合；正文变化时追加修订
// @Tags 指南
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "指南ID"
// @Param request body dto.GuidelineRequest true "指南"
// @Success 200 {object} response.Response{data=wiki.Guideline}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /guidelines/{id} [put]
func (h *GuidelineHandler) UpdateGuideline(c *gin.Context) {
	id, ok := dto.ParseID(c, "指南")
	if !ok {
		return
	}

	var req dto.GuidelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	g, err := h.guidelineService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, g)
}

// DeleteGuideline 删除指南
// @Summary 删除指南
// @Tags 指南
// @Produce json
// @Security CookieAuth
// @Param id path int true "指南ID"
// @Success 200 {object} response.Response
// @Failure 400,401,403,404 {object} response.Response
// @Router /guidelines/{id} [delete]
func (h *GuidelineHandler) DeleteGuideline(c *gin.Context) {
	id, ok := dto.ParseID(c, "指南")
	if !ok {
		return
	}

	if err := h.guidelineService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, gin.H{"id": id})
}
