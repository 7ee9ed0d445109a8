package route

import (
	"net/http"
	"time"

	"terminal-terrace/guideline-wiki/config"
	_ "terminal-terrace/guideline-wiki/docs"
	"terminal-terrace/guideline-wiki/internal/auth"
	"terminal-terrace/guideline-wiki/internal/category"
	"terminal-terrace/guideline-wiki/internal/dto"
	"terminal-terrace/guideline-wiki/internal/guideline"
	"terminal-terrace/guideline-wiki/internal/middleware"
	"terminal-terrace/guideline-wiki/internal/search"
	"terminal-terrace/guideline-wiki/internal/tag"
	"terminal-terrace/guideline-wiki/internal/upload"
	"terminal-terrace/guideline-wiki/internal/user"
	"terminal-terrace/guideline-wiki/internal/validation"
	"terminal-terrace/guideline-wiki/internal/web"
	"terminal-terrace/guideline-wiki/packages/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// 登录限流：每个 IP 突发 5 次，之后每 6 秒恢复 1 次
const (
	loginBurst    = 5
	loginInterval = 6 * time.Second
)

// Dependencies 路由需要的外部资源
type Dependencies struct {
	DB     *gorm.DB
	Config *config.AppConfig
	// Revocations 为 nil 时注销只清除 cookie
	Revocations auth.RevocationStore
	// Notifier 为 nil 时不发送账号通知
	Notifier user.Notifier
	// Registry 为 nil 时新建一个
	Registry *prometheus.Registry
}

func initRoute(r *gin.Engine, deps Dependencies) error {
	conf := deps.Config
	db := deps.DB

	var revoked middleware.RevocationChecker
	if deps.Revocations != nil {
		revoked = deps.Revocations
	}
	authMiddleware := middleware.NewAuth(conf.JWT.Secret, revoked)

	// 初始化依赖
	categoryService := category.NewCategoryService(db)
	guidelineService := guideline.NewGuidelineService(db)
	tagService := tag.NewTagService(db)
	searchService := search.NewSearchService(db)
	authService := auth.NewAuthService(db, conf.JWT.Secret, conf.JWT.TTL(), deps.Revocations)

	userOpts := []user.Option{}
	if deps.Notifier != nil {
		userOpts = append(userOpts, user.WithNotifier(deps.Notifier))
	}
	userService := user.NewUserService(db, userOpts...)

	uploadConf := upload.Config{
		Dir:       conf.Upload.Dir,
		URLPrefix: conf.Upload.URLPrefix,
		MaxSize:   conf.Upload.MaxSizeMB << 20,
	}
	uploadService := upload.NewUploadService(db, uploadConf)

	// 初始化handler
	authHandler := auth.NewAuthHandler(authService, conf.JWT.CookieSecure)
	pageHandler, err := web.NewHandler(web.Services{
		Categories: categoryService,
		Guidelines: guidelineService,
		Tags:       tagService,
		Users:      userService,
		Search:     searchService,
		Auth:       authService,
		Session:    authHandler,
		Dashboard:  web.NewDashboardRepository(db),
	})
	if err != nil {
		return err
	}

	loginLimiter := middleware.NewRateLimiter(rate.Every(loginInterval), loginBurst)

	api := r.Group("/api")
	{
		category.RegisterRoutes(api, category.NewCategoryHandler(categoryService), authMiddleware)
		guideline.RegisterRoutes(api, guideline.NewGuidelineHandler(guidelineService), authMiddleware)
		tag.RegisterRoutes(api, tag.NewTagHandler(tagService), authMiddleware)
		user.RegisterRoutes(api, user.NewUserHandler(userService), authMiddleware)
		search.RegisterRoutes(api, search.NewSearchHandler(searchService))
		upload.RegisterRoutes(api, upload.NewHandler(uploadService), authMiddleware)
		auth.RegisterRoutes(api, authHandler, authMiddleware, loginLimiter)
		validation.RegisterRoutes(api)

		// 子分类已合并到分类
		api.Any("/subcategories", subcategoriesGone)
		api.Any("/subcategories/*path", subcategoriesGone)
	}

	upload.RegisterStatic(r, uploadConf)
	web.RegisterRoutes(r, pageHandler, authMiddleware, loginLimiter)
	return nil
}

// SetupRouter 组装中间件、API 和页面路由
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	r := gin.New()

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.NewMetrics(reg).Handler(),
	)

	// 设置跨域请求，cookie 会话需要 AllowCredentials
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", healthz(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := initRoute(r, deps); err != nil {
		return nil, err
	}
	return r, nil
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func subcategoriesGone(c *gin.Context) {
	c.Header("Link", "</api/categories>")
	dto.ErrorResponse(c, response.NewBusinessError(
		response.WithErrorCode(response.Gone),
		response.WithErrorMessage("子分类已合并到分类，请使用 /api/categories"),
	))
}
