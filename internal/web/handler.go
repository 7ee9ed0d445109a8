package web

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"terminal-terrace/guideline-wiki/internal/auth"
	"terminal-terrace/guideline-wiki/internal/category"
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/guideline"
	"terminal-terrace/guideline-wiki/internal/middleware"
	"terminal-terrace/guideline-wiki/internal/search"
	"terminal-terrace/guideline-wiki/internal/tag"
	"terminal-terrace/guideline-wiki/internal/user"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rs/zerolog/log"
)

// RecentLimit 首页最近更新的数量
const RecentLimit = 10

// adminListSize 管理列表一次展示的指南数量
const adminListSize = 100

// Services 页面依赖的业务服务
type Services struct {
	Categories *category.CategoryService
	Guidelines *guideline.GuidelineService
	Tags       *tag.TagService
	Users      *user.UserService
	Search     *search.SearchService
	Auth       *auth.AuthService
	Session    *auth.AuthHandler
	Dashboard  *DashboardRepository
}

type Handler struct {
	svc      Services
	markdown *Markdown
	pages    map[string]*template.Template
}

func NewHandler(svc Services) (*Handler, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, markdown: NewMarkdown(), pages: pages}, nil
}

// page 所有页面共用的数据
type page struct {
	Title string
	Query string
	User  *authsdk.UserContext
	Flash string
	Data  any
}

type guidelinePage struct {
	Guideline any
	Body      template.HTML
}

type homePage struct {
	Categories []category.CategorySummary
	Recent     any
}

type searchPage struct {
	Short   bool
	Results []search.Result
}

type adminRow struct {
	ID    uint
	Cells []string
}

type adminList struct {
	Endpoint string
	Form     string
	Columns  []string
	Rows     []adminRow
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	if p.User == nil {
		p.User = middleware.CurrentUser(c)
	}
	c.Render(status, render.HTML{Template: h.pages[name], Name: "layout", Data: p})
}

// fail 按业务错误码渲染错误页
func (h *Handler) fail(c *gin.Context, err *response.BusinessError) {
	status := err.HTTPStatus()
	msg := err.Msg
	if err.IsInternal() {
		log.Error().Err(err).Str(dto.RequestIDKey, c.GetString(dto.RequestIDKey)).
			Str("path", c.Request.URL.Path).Msg("页面渲染失败")
		msg = "服务器内部错误"
	}
	h.render(c, status, "error", page{Title: http.StatusText(status), Data: msg})
}

func (h *Handler) Home(c *gin.Context) {
	categories, err := h.svc.Categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	recent, err := h.svc.Guidelines.Recent(c.Request.Context(), RecentLimit)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "home", page{Data: homePage{Categories: categories, Recent: recent}})
}

func (h *Handler) Category(c *gin.Context) {
	cat, err := h.svc.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "category", page{Title: cat.Name, Data: cat})
}

// Guideline 旧 slug 永久跳转到当前地址
func (h *Handler) Guideline(c *gin.Context) {
	g, moved, err := h.svc.Guidelines.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if moved {
		c.Redirect(http.StatusMovedPermanently, "/guidelines/"+g.Slug)
		return
	}
	h.render(c, http.StatusOK, "guideline", page{
		Title: g.Title,
		Data:  guidelinePage{Guideline: g, Body: h.markdown.Render(g.Content)},
	})
}

func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	results, err := h.svc.Search.Search(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	short := utf8.RuneCountInString(strings.TrimSpace(q)) < search.MinQueryLength
	h.render(c, http.StatusOK, "search", page{
		Title: "Search",
		Query: q,
		Data:  searchPage{Short: short, Results: results},
	})
}

func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", page{Title: "Sign in", Data: dto.LoginRequest{}})
}

// Login 表单登录，成功后按角色跳转
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "login", page{
			Title: "Sign in",
			Flash: "请输入有效的邮箱和密码",
			Data:  dto.LoginRequest{Email: req.Email},
		})
		return
	}

	result, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		if err.IsInternal() {
			h.fail(c, err)
			return
		}
		h.render(c, err.HTTPStatus(), "login", page{
			Title: "Sign in",
			Flash: err.Msg,
			Data:  dto.LoginRequest{Email: req.Email},
		})
		return
	}

	h.svc.Session.SetSessionCookie(c, result.Token)
	target := middleware.HomePath
	if result.User.IsAdmin() {
		target = middleware.AdminPath
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) Logout(c *gin.Context) {
	h.svc.Auth.Logout(c.Request.Context(), middleware.CurrentUser(c))
	h.svc.Session.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, middleware.HomePath)
}

func (h *Handler) Dashboard(c *gin.Context) {
	counts, err := h.svc.Dashboard.Counts(c.Request.Context())
	if err != nil {
		h.fail(c, response.NewBusinessError(
			response.WithErrorCode(response.Fail),
			response.WithErrorMessage("统计失败"),
			response.WithError(err),
		))
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard", page{Title: "Admin", Data: counts})
}

func (h *Handler) AdminGuidelines(c *gin.Context) {
	items, _, err := h.svc.Guidelines.List(c.Request.Context(), dto.ListQuery{Page: 1, PageSize: adminListSize})
	if err != nil {
		h.fail(c, err)
		return
	}
	list := adminList{
		Endpoint: "/api/guidelines",
		Form:     "guideline",
		Columns:  []string{"Title", "Slug", "Category", "Updated"},
	}
	for _, g := range items {
		categoryName := ""
		if g.Category != nil {
			categoryName = g.Category.Name
		}
		list.Rows = append(list.Rows, adminRow{ID: g.ID, Cells: []string{
			g.Title, g.Slug, categoryName, g.UpdatedAt.Format("2006-01-02"),
		}})
	}
	h.render(c, http.StatusOK, "admin_list", page{Title: "Guidelines", Data: list})
}

func (h *Handler) AdminCategories(c *gin.Context) {
	items, err := h.svc.Categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	list := adminList{
		Endpoint: "/api/categories",
		Form:     "category",
		Columns:  []string{"Name", "Slug", "Guidelines"},
	}
	for _, cat := range items {
		list.Rows = append(list.Rows, adminRow{ID: cat.ID, Cells: []string{
			cat.Name, cat.Slug, strconv.FormatInt(cat.GuidelineCount, 10),
		}})
	}
	h.render(c, http.StatusOK, "admin_list", page{Title: "Categories", Data: list})
}

func (h *Handler) AdminTags(c *gin.Context) {
	items, err := h.svc.Tags.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	list := adminList{
		Endpoint: "/api/tags",
		Form:     "tag",
		Columns:  []string{"Name", "Slug", "Guidelines"},
	}
	for _, t := range items {
		list.Rows = append(list.Rows, adminRow{ID: t.ID, Cells: []string{
			t.Name, t.Slug, strconv.FormatInt(t.GuidelineCount, 10),
		}})
	}
	h.render(c, http.StatusOK, "admin_list", page{Title: "Tags", Data: list})
}

func (h *Handler) AdminUsers(c *gin.Context) {
	items, err := h.svc.Users.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	list := adminList{
		Endpoint: "/api/users",
		Form:     "user-create",
		Columns:  []string{"Name", "Email", "Role"},
	}
	for _, u := range items {
		list.Rows = append(list.Rows, adminRow{ID: u.ID, Cells: []string{u.Name, u.Email, u.Role}})
	}
	h.render(c, http.StatusOK, "admin_list", page{Title: "Users", Data: list})
}
