// @title Guideline Wiki API
// @version 1.0
// @description 治疗指南 wiki 的 HTTP 接口
// @BasePath /api
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terminal-terrace/guideline-wiki/config"
	"terminal-terrace/guideline-wiki/internal/auth"
	"terminal-terrace/guideline-wiki/internal/database"
	"terminal-terrace/guideline-wiki/internal/grpc"
	"terminal-terrace/guideline-wiki/internal/logger"
	"terminal-terrace/guideline-wiki/internal/route"
	"terminal-terrace/guideline-wiki/internal/user"
	"terminal-terrace/guideline-wiki/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")
	cfg := config.Conf

	// 2. 初始化日志
	closer, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化日志失败")
	}
	if closer != nil {
		defer closer.Close()
	}

	gin.SetMode(cfg.Server.Mode)
	validation.Setup()

	// 3. 初始化数据库
	if err := database.InitDatabase(); err != nil {
		log.Fatal().Err(err).Msg("初始化数据库失败")
	}
	defer database.Close()

	var revocations auth.RevocationStore
	if database.RedisDB != nil {
		revocations = auth.NewRedisRevocationStore(database.RedisDB.Client)
	}

	notifier, err := user.NewNotifier(&cfg.SMTP, cfg.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化邮件通知失败")
	}

	// 4. 初始管理员
	ctx := context.Background()
	if _, err := user.NewUserService(database.DB).EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("创建初始管理员失败")
	}

	// 5. 设置路由
	r, err := route.SetupRouter(route.Dependencies{
		DB:          database.DB,
		Config:      cfg,
		Revocations: revocations,
		Notifier:    notifier,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("初始化路由失败")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. gRPC 健康检查，端口为 0 时不启动
	var grpcServer *grpc.Server
	if cfg.GRPC.Port != 0 {
		sqlDB, err := database.DB.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("获取数据库连接失败")
		}
		grpcServer, err = grpc.NewServer(cfg.GRPC.Port, sqlDB)
		if err != nil {
			log.Fatal().Err(err).Msg("启动 gRPC 失败")
		}
		go func() {
			log.Info().Str("addr", grpcServer.GetAddr()).Msg("gRPC 服务已启动")
			if err := grpcServer.Start(); err != nil {
				log.Error().Err(err).Msg("gRPC 服务退出")
			}
		}()
	}

	// 7. 启动服务
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP 服务已启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP 服务异常退出")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP 服务关闭失败")
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
}
