package web

import (
	"net/http"

	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 页面路由，全部经过路由守卫
// limiter 与 /api/auth/login 共用，表单登录同样按 IP 限流
func RegisterRoutes(r *gin.Engine, h *Handler, auth *middleware.Auth, limiter *middleware.RateLimiter) {
	assets := http.FS(StaticFiles())
	r.StaticFileFS("/static/site.css", "site.css", assets)
	r.StaticFileFS("/static/app.js", "app.js", assets)

	pages := r.Group("", auth.RouteGuard())
	{
		pages.GET("/", h.Home)
		pages.GET("/categories/:slug", h.Category)
		pages.GET("/guidelines/:slug", h.Guideline)
		pages.GET("/search", h.Search)
		pages.GET("/login", h.LoginForm)
		pages.POST("/login", limiter.Middleware(), h.Login)
		pages.POST("/logout", h.Logout)

		admin := pages.Group("/admin")
		{
			admin.GET("", h.Dashboard)
			admin.GET("/guidelines", h.AdminGuidelines)
			admin.GET("/categories", h.AdminCategories)
			admin.GET("/tags", h.AdminTags)
			admin.GET("/users", h.AdminUsers)
		}
	}
}
