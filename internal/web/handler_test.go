package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"terminal-terrace/guideline-wiki/internal/auth"
	"terminal-terrace/guideline-wiki/internal/category"
	"terminal-terrace/guideline-wiki/internal/guideline"
	"terminal-terrace/guideline-wiki/internal/middleware"
	userModel "terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/internal/search"
	"terminal-terrace/guideline-wiki/internal/tag"
	"terminal-terrace/guideline-wiki/internal/testutils"
	"terminal-terrace/guideline-wiki/internal/user"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const testSecret = "pages-test-secret"

func setupPages(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutils.SetupTestDB(t)

	authService := auth.NewAuthService(db, testSecret, time.Hour, nil)
	h, err := NewHandler(Services{
		Categories: category.NewCategoryService(db),
		Guidelines: guideline.NewGuidelineService(db),
		Tags:       tag.NewTagService(db),
		Users:      user.NewUserService(db),
		Search:     search.NewSearchService(db),
		Auth:       authService,
		Session:    auth.NewAuthHandler(authService, false),
		Dashboard:  NewDashboardRepository(db),
	})
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, h, middleware.NewAuth(testSecret, nil), middleware.NewRateLimiter(rate.Inf, 1))
	return r, db
}

func get(r *gin.Engine, path string, who *authsdk.UserContext) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if who != nil {
		token, _ := authsdk.GenerateToken(who, testSecret, time.Hour)
		req.AddCookie(&http.Cookie{Name: authsdk.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouteGuard(t *testing.T) {
	r, _ := setupPages(t)

	tests := []struct {
		name     string
		path     string
		who      *authsdk.UserContext
		status   int
		location string
	}{
		{name: "匿名访问后台", path: "/admin", status: http.StatusFound, location: "/login"},
		{name: "匿名访问后台子页面", path: "/admin/users", status: http.StatusFound, location: "/login"},
		{name: "普通用户访问后台", path: "/admin/tags", who: testutils.Reader(), status: http.StatusFound, location: "/"},
		{name: "管理员访问登录页", path: "/login", who: testutils.Admin(), status: http.StatusFound, location: "/admin"},
		{name: "普通用户访问登录页", path: "/login", who: testutils.Reader(), status: http.StatusOK},
		{name: "匿名访问首页", path: "/", status: http.StatusOK},
		{name: "管理员访问后台", path: "/admin", who: testutils.Admin(), status: http.StatusOK},
		{name: "前缀相似的公开路径", path: "/administration", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.who)
			assert.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestHomePage(t *testing.T) {
	r, db := setupPages(t)
	cat := testutils.CreateTestCategory(db, testutils.WithCategoryName("Heart Health"))
	testutils.CreateTestGuideline(db, cat.ID, testutils.WithTitle("Hypertension"))

	w := get(r, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/categories/heart-health"`)
	assert.Contains(t, body, `href="/guidelines/hypertension"`)
	assert.Contains(t, body, "Sign in")
}

func TestCategoryPage(t *testing.T) {
	r, db := setupPages(t)
	cat := testutils.CreateTestCategory(db, testutils.WithCategoryName("Heart Health"))
	testutils.CreateTestGuideline(db, cat.ID, testutils.WithTitle("Hypertension"))

	w := get(r, "/categories/heart-health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hypertension")

	w = get(r, "/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuidelinePage(t *testing.T) {
	r, db := setupPages(t)
	cat := testutils.CreateTestCategory(db)
	g := testutils.CreateTestGuideline(db, cat.ID,
		testutils.WithTitle("Hypertension"),
		testutils.WithContent("## First line\n\n<script>alert(1)</script>\n\nUse **ACE inhibitors**"),
		testutils.WithTags(testutils.CreateTestTag(db, "cardiology")),
	)
	link := "https://example.org/bp"
	require.NoError(t, db.Create(&wiki.Reference{GuidelineID: g.ID, Title: "BP trial", URL: &link}).Error)

	t.Run("渲染正文", func(t *testing.T) {
		w := get(r, "/guidelines/hypertension", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<strong>ACE inhibitors</strong>")
		assert.NotContains(t, body, "alert(1)")
		assert.Contains(t, body, "cardiology")
		assert.Contains(t, body, `href="https://example.org/bp"`)
		assert.Contains(t, body, "Revision history")
	})

	t.Run("旧 slug 永久跳转", func(t *testing.T) {
		require.NoError(t, db.Create(&wiki.SlugAlias{GuidelineID: g.ID, Slug: "high-blood-pressure"}).Error)

		w := get(r, "/guidelines/high-blood-pressure", nil)
		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/guidelines/hypertension", w.Header().Get("Location"))
	})

	t.Run("不存在", func(t *testing.T) {
		w := get(r, "/guidelines/nothing-here", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchPage(t *testing.T) {
	r, db := setupPages(t)
	cat := testutils.CreateTestCategory(db, testutils.WithCategoryName("Heart Health"))
	testutils.CreateTestGuideline(db, cat.ID, testutils.WithTitle("Hypertension"))

	w := get(r, "/search?q=hyper", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/guidelines/hypertension"`)

	w = get(r, "/search?q=h", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "at least two characters")
}

func TestLoginPage(t *testing.T) {
	r, db := setupPages(t)
	testutils.CreateTestUser(db,
		testutils.WithEmail("doctor@example.com"),
		testutils.WithRole(userModel.RoleAdmin),
		testutils.WithPassword("correct-horse"),
	)
	testutils.CreateTestUser(db,
		testutils.WithEmail("nurse@example.com"),
		testutils.WithPassword("correct-horse"),
	)

	post := func(email, password string) *httptest.ResponseRecorder {
		form := url.Values{"email": {email}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		location string
		cookie   bool
	}{
		{name: "管理员登录", email: "doctor@example.com", password: "correct-horse", status: http.StatusSeeOther, location: "/admin", cookie: true},
		{name: "普通用户登录", email: "Nurse@Example.com", password: "correct-horse", status: http.StatusSeeOther, location: "/", cookie: true},
		{name: "密码错误", email: "doctor@example.com", password: "wrong-password", status: http.StatusUnauthorized},
		{name: "邮箱格式错误", email: "doctor", password: "correct-horse", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(tt.email, tt.password)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			var session *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == authsdk.CookieName {
					session = c
				}
			}
			if tt.cookie {
				require.NotNil(t, session)
				assert.True(t, session.HttpOnly)
				assert.NotEmpty(t, session.Value)
			} else {
				assert.Nil(t, session)
			}
		})
	}
}

func TestLogoutPage(t *testing.T) {
	r, _ := setupPages(t)

	t.Run("GET 不注销", func(t *testing.T) {
		w := get(r, "/logout", testutils.Reader())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("POST 清除会话", func(t *testing.T) {
		token, err := authsdk.GenerateToken(testutils.Reader(), testSecret, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: authsdk.CookieName, Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		var session *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == authsdk.CookieName {
				session = c
			}
		}
		require.NotNil(t, session)
		assert.Empty(t, session.Value)
		assert.Negative(t, session.MaxAge)
	})

	t.Run("布局使用表单注销", func(t *testing.T) {
		w := get(r, "/", testutils.Reader())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/logout" method="post"`)
		assert.NotContains(t, w.Body.String(), `href="/logout"`)
	})
}

func TestAdminPages(t *testing.T) {
	r, db := setupPages(t)
	cat := testutils.CreateTestCategory(db, testutils.WithCategoryName("Heart Health"))
	testutils.CreateTestGuideline(db, cat.ID, testutils.WithTitle("Hypertension"))
	testutils.CreateTestTag(db, "cardiology")
	testutils.CreateTestUser(db, testutils.WithEmail("doctor@example.com"))

	tests := []struct {
		path     string
		contains []string
	}{
		{path: "/admin/guidelines", contains: []string{"Hypertension", "Heart Health", `data-schema="guideline"`}},
		{path: "/admin/categories", contains: []string{"heart-health", `data-endpoint="/api/categories"`}},
		{path: "/admin/tags", contains: []string{"cardiology", `data-schema="tag"`}},
		{path: "/admin/users", contains: []string{"doctor@example.com", `data-schema="user-create"`}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(r, tt.path, testutils.Admin())
			require.Equal(t, http.StatusOK, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestDashboardCounts(t *testing.T) {
	_, db := setupPages(t)
	cat := testutils.CreateTestCategory(db)
	testutils.CreateTestGuideline(db, cat.ID)
	testutils.CreateTestGuideline(db, cat.ID)
	testutils.CreateTestTag(db)
	testutils.CreateTestUser(db)

	counts, err := NewDashboardRepository(db).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DashboardCounts{Guidelines: 2, Categories: 1, Tags: 1, Users: 1}, counts)
}
