package tag

import (
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService *TagService
}

func NewTagHandler(tagService *TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags 标签列表
// @Summary 标签列表
// @Tags 标签
// @Produce json
// @Success 200 {object} response.Response{data=[]TagSummary}
// @Router /tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	items, err := h.tagService.List(c.Request.Context())
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, items)
}

// GetTag 标签详情
// @Summary 获取标签及使用它的指南
// @Tags 标签
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=TagDetail}
// @Failure 404 {object} response.Response
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := dto.ParseID(c, "标签")
	if !ok {
		return
	}

	detail, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, detail)
}

// CreateTag 创建标签
// @Summary 创建标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body dto.TagRequest true "标签"
// @Success 201 {object} response.Response{data=wiki.Tag}
// @Failure 400,401,403,409 {object} response.Response
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	t, err := h.tagService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.CreatedResponse(c, t)
}

// UpdateTag 更新标签
// @Summary 更新标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "标签ID"
// @Param request body dto.TagRequest true "标签"
// @Success 200 {object} response.Response{data=wiki.Tag}
// @Failure 400,401,403,404,409 {object} response.Response
// @Router /tags/{id} [put]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := dto.ParseID(c, "标签")
	if !ok {
		return
	}

	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	t, err := h.tagService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, t)
}

// DeleteTag 删除标签
// @Summary 删除标签
// @Description 先解除与所有指南的关联，指南本身保留
// @Tags 标签
// @Produce json
// @Security CookieAuth
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=DeleteTagResponse}
// @Failure 400,401,403,404 {object} response.Response
// @Router /tags/{id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := dto.ParseID(c, "标签")
	if !ok {
		return
	}

	result, err := h.tagService.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
