package category

import (
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *CategoryHandler, auth *middleware.Auth) {
	categories := r.Group("/categories")
	{
		// 查询类接口（公开）
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)

		// 编辑类接口（管理员）
		admin := categories.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.POST("", h.CreateCategory)
			admin.PUT("/:id", h.UpdateCategory)
			admin.DELETE("/:id", h.DeleteCategory)
		}
	}
}
