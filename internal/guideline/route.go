package guideline

import (
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *GuidelineHandler, auth *middleware.Auth) {
	guidelines := r.Group("/guidelines")
	{
		// 查询类接口（公开）
		guidelines.GET("", h.ListGuidelines)
		guidelines.GET("/:id", h.GetGuideline)
		guidelines.GET("/:id/revisions", h.ListRevisions)

		// 按 slug 查询需要登录
		guidelines.GET("/slug/:slug", auth.JWTAuth(), h.GetGuidelineBySlug)

		// 编辑类接口（管理员）
		admin := guidelines.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.POST("", h.CreateGuideline)
			admin.PUT("/:id", h.UpdateGuideline)
			admin.DELETE("/:id", h.DeleteGuideline)
		}
	}
}
