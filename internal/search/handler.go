package search

import (
	"terminal-terrace/guideline-wiki/internal/dto"

	"github.com/gin-gonic/gin"
)

// Response 搜索结果
type Response struct {
	Results []Result `json:"results"`
}

type SearchHandler struct {
	searchService *SearchService
}

func NewSearchHandler(searchService *SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 搜索
// @Summary 搜索指南和分类
// @Description 少于 2 个字符返回空结果
// @Tags 搜索
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} response.Response{data=Response}
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		dto.ErrorResponse(c, err)
		return
	}
	dto.SuccessResponse(c, Response{Results: results})
}

func RegisterRoutes(r *gin.RouterGroup, h *SearchHandler) {
	r.GET("/search", h.Search)
}
