package validation

import (
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
)

// ListSchemas 全部表单的校验规则
// @Summary 全部表单校验规则
// @Tags 校验
// @Produce json
// @Success 200 {object} response.Response{data=[]FormSchema}
// @Router /schema [get]
func ListSchemas(c *gin.Context) {
	names := FormNames()
	out := make([]FormSchema, 0, len(names))
	for _, name := range names {
		s, _ := Schema(name)
		out = append(out, s)
	}
	dto.SuccessResponse(c, out)
}

// GetSchema 单个表单的校验规则
// @Summary 单个表单校验规则
// @Tags 校验
// @Produce json
// @Param form path string true "表单名" Enums(category, tag, guideline, user-create, user-update, login)
// @Success 200 {object} response.Response{data=FormSchema}
// @Failure 404 {object} response.Response
// @Router /schema/{form} [get]
func GetSchema(c *gin.Context) {
	s, ok := Schema(c.Param("form"))
	if !ok {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("表单不存在"),
		))
		return
	}
	dto.SuccessResponse(c, s)
}

func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/schema", ListSchemas)
	r.GET("/schema/:form", GetSchema)
}
