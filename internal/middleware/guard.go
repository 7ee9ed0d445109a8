package middleware

import (
	"net/http"
	"strings"

	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"

	"github.com/gin-gonic/gin"
)

// PathClass 页面路径的分类
type PathClass int

const (
	PathPublic PathClass = iota
	PathAdmin
	PathAuth
)

const (
	LoginPath = "/login"
	AdminPath = "/admin"
	HomePath  = "/"
)

// ClassifyPath /admin 及其子路径为 admin，/login 为 auth，其余为 public
func ClassifyPath(path string) PathClass {
	switch {
	case path == AdminPath || strings.HasPrefix(path, AdminPath+"/"):
		return PathAdmin
	case path == LoginPath || strings.HasPrefix(path, LoginPath+"/"):
		return PathAuth
	default:
		return PathPublic
	}
}

// Decide 返回需要跳转的地址，空字符串表示放行
func Decide(class PathClass, user *authsdk.UserContext) string {
	switch class {
	case PathAdmin:
		if user == nil {
			return LoginPath
		}
		if !user.IsAdmin() {
			return HomePath
		}
	case PathAuth:
		if user.IsAdmin() {
			return AdminPath
		}
	}
	return ""
}

// RouteGuard 页面路由守卫，只依赖会话，不查库
func (a *Auth) RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := a.Identify(c)
		if user != nil {
			SetCurrentUser(c, user)
		}

		if target := Decide(ClassifyPath(c.Request.URL.Path), user); target != "" {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
