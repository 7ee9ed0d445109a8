package upload

import (
	"terminal-terrace/guideline-wiki/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth *middleware.Auth) {
	r.POST("/upload", auth.RequireAdmin(), h.Upload)
}

// RegisterStatic 以 URLPrefix 提供已上传文件，不列目录
func RegisterStatic(r *gin.Engine, conf Config) {
	r.Static(conf.URLPrefix, conf.Dir)
}
