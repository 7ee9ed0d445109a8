package tag

import (
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *TagHandler, auth *middleware.Auth) {
	tags := r.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)

		admin := tags.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.POST("", h.CreateTag)
			admin.PUT("/:id", h.UpdateTag)
			admin.DELETE("/:id", h.DeleteTag)
		}
	}
}
