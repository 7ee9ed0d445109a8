package auth

import (
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *AuthHandler, auth *middleware.Auth, limiter *middleware.RateLimiter) {
	group := r.Group("/auth")
	{
		group.POST("/login", limiter.Middleware(), h.Login)
		group.POST("/logout", auth.OptionalJWTAuth(), h.Logout)
		group.GET("/me", auth.JWTAuth(), h.Me)
	}
}
