package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var (
	admin  = &authsdk.UserContext{UserID: 1, Name: "admin", Role: authsdk.RoleAdmin}
	reader = &authsdk.UserContext{UserID: 2, Name: "reader", Role: authsdk.RoleUser}
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want PathClass
	}{
		{"/admin", PathAdmin},
		{"/admin/", PathAdmin},
		{"/admin/guidelines", PathAdmin},
		{"/administration", PathPublic},
		{"/login", PathAuth},
		{"/loginx", PathPublic},
		{"/", PathPublic},
		{"/guidelines/hypertension", PathPublic},
		{"/search", PathPublic},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPath(tt.path))
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		class PathClass
		user  *authsdk.UserContext
		want  string
	}{
		{"匿名访问后台", PathAdmin, nil, LoginPath},
		{"普通用户访问后台", PathAdmin, reader, HomePath},
		{"管理员访问后台", PathAdmin, admin, ""},
		{"管理员访问登录页", PathAuth, admin, AdminPath},
		{"普通用户访问登录页", PathAuth, reader, ""},
		{"匿名访问登录页", PathAuth, nil, ""},
		{"匿名访问公开页", PathPublic, nil, ""},
		{"管理员访问公开页", PathPublic, admin, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.class, tt.user))
		})
	}
}

func TestRouteGuard_SetsCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := NewAuth(testSecret, nil)
	r := gin.New()
	r.Use(a.RouteGuard())

	var seen *authsdk.UserContext
	r.GET("/", func(c *gin.Context) {
		seen = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	withSession(t, req, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, reader.UserID, seen.UserID)
	}
}
