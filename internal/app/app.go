// Package app 三个可执行程序共用的装配：配置 → 日志 → tracing → DB → 仓储 → 业务。
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"restaurant-forum/internal/core/auth"
	"restaurant-forum/internal/core/config"
	"restaurant-forum/internal/core/database"
	"restaurant-forum/internal/core/logger"
	"restaurant-forum/internal/core/ratelimit"
	"restaurant-forum/internal/core/server"
	"restaurant-forum/internal/core/storage"
	"restaurant-forum/internal/core/tracing"
	"restaurant-forum/internal/repo"
	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Repos    service.Repos
	Services *service.Services

	limiter *ratelimit.Limiter
	closers []func()
}

// New 装配全部依赖；任何一步失败都返回错误，由 main 决定退出
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, syncLog := logger.FromConfig(cfg.Log)
	a := &App{Cfg: cfg, Log: log}
	a.closers = append(a.closers, syncLog, logger.RedirectStdLog(log, zapcore.InfoLevel))
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	if cfg.JWT.Secret == "" {
		a.Close()
		return nil, errors.New("jwt.secret is required (APP_JWT_SECRET)")
	}
	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.App.Env)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("tracing: %w", err)
	}
	a.closers = append(a.closers, func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	})

	a.DB, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Replicas:           cfg.DB.Replicas,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Tracing:            cfg.Tracing.Enabled,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("db open: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.Int("replicas", len(cfg.DB.Replicas)))

	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(a.DB); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a.Repos = service.Repos{
		Users:       repo.NewUserRepo(a.DB),
		Categories:  repo.NewCategoryRepo(a.DB),
		Restaurants: repo.NewRestaurantRepo(a.DB),
		Comments:    repo.NewCommentRepo(a.DB),
		Favorites:   repo.NewFavoriteRepo(a.DB),
		Likes:       repo.NewLikeRepo(a.DB),
		Followships: repo.NewFollowshipRepo(a.DB),
	}
	a.Services = service.New(a.Repos, a.imageStore(ctx), log)

	if cfg.Redis.Addr != "" {
		a.limiter = ratelimit.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := a.limiter.RDB.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiter fails open until it recovers", zap.Error(err))
		}
		a.closers = append(a.closers, func() { _ = a.limiter.Close() })
	}
	return a, nil
}

func (a *App) imageStore(ctx context.Context) storage.ImageStore {
	sc := a.Cfg.Storage
	if sc.Endpoint == "" {
		a.Log.Info("image storage disabled")
		return storage.Disabled{}
	}
	st, err := storage.NewMinio(storage.Config{
		Endpoint:  sc.Endpoint,
		AccessKey: sc.AccessKey,
		SecretKey: sc.SecretKey,
		UseSSL:    sc.UseSSL,
		Bucket:    sc.Bucket,
		PublicURL: sc.PublicURL,
	})
	if err != nil {
		a.Log.Warn("image storage init failed, uploads disabled", zap.Error(err))
		return storage.Disabled{}
	}
	if err := st.EnsureBucket(ctx); err != nil {
		a.Log.Warn("ensure bucket failed", zap.String("bucket", sc.Bucket), zap.Error(err))
	}
	return st
}

// Deps HTTP engine 需要的依赖
func (a *App) Deps() router.Deps {
	d := router.Deps{
		Log:       a.Log,
		JWT:       a.JWT,
		Services:  a.Services,
		RateLimit: a.Cfg.RateLimit,
		HTTP:      a.Cfg.App.HTTP,
	}
	if a.limiter != nil {
		d.Limiter = a.limiter
	}
	return d
}

// Close 逆序释放
func (a *App) Close() {
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Serve 启动 HTTP 并阻塞到 SIGINT/SIGTERM，然后优雅关闭
func (a *App) Serve(name, host string, port int, h http.Handler) {
	hc := a.Cfg.App.HTTP
	addr := server.Addr(host, port)
	srv := server.BuildServer(
		addr, server.Instrument(h, name),
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)
	if el, err := logger.ToStdLogger(a.Log.Named("http"), zapcore.WarnLevel); err == nil {
		srv.ErrorLog = el
	}

	host4human := host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := fmt.Sprintf("http://%s:%d", host4human, port)
	a.Log.Info(name+" starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatal(name+" start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	a.Log.Info(name + " stopped gracefully")
}
