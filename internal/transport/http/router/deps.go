package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"restaurant-forum/internal/core/auth"
	"restaurant-forum/internal/core/config"
	"restaurant-forum/internal/service"
	"restaurant-forum/internal/transport/http/handler"
	mdw "restaurant-forum/internal/transport/http/middleware"
)

// Deps 两个 engine 共用的依赖
type Deps struct {
	Log       *zap.Logger
	JWT       *auth.JWTer
	Services  *service.Services
	Limiter   mdw.WindowLimiter // nil 时退回进程内每 IP 令牌桶
	RateLimit config.RateLimit
	HTTP      config.HTTP // 只用到中间件相关字段，零值取默认
}

// Modules 全部业务模块；API / Admin 各取所需
func Modules(d Deps) *Registry {
	s := d.Services
	return NewRegistry(
		handler.NewAuthHandler(s.Users, d.JWT, d.Log),
		handler.NewRestaurantHandler(s.Restaurants, d.Log),
		handler.NewCommentHandler(s.Comments, d.Log),
		handler.NewUserHandler(s.Users, d.Log),
		handler.NewRelationHandler(s, d.Log),
		handler.NewCategoryHandler(s.Categories, d.Log),
	)
}

// baseMiddlewares 请求链路：id → 总闸（可选）→ 每 IP 限流 → 并发 → body 上限 → 超时 → 指标 → 访问日志
func baseMiddlewares(d Deps, server string) []gin.HandlerFunc {
	rl, hc := d.RateLimit, d.HTTP
	perIP := mdw.RateLimitPerIP(rate.Limit(max(rl.RPS, 1)), max(rl.Burst, 1))
	if d.Limiter != nil {
		window := time.Duration(max(rl.WindowSec, 1)) * time.Second
		perIP = mdw.RateLimitShared(d.Limiter, max(rl.PerWindow, 1), window, d.Log)
	}
	chain := []gin.HandlerFunc{mdw.RequestID()}
	if rl.GlobalRPS > 0 {
		chain = append(chain, mdw.RateLimit(rate.Limit(rl.GlobalRPS), max(rl.GlobalBurst, 1)))
	}
	return append(chain,
		perIP,
		mdw.ConcurrencyLimit(orDefault(hc.MaxInflight, 300), 2*time.Second, d.Log),
		mdw.MaxBodyBytes(orDefault(hc.JSONBodyKB, 256)<<10, orDefault(hc.UploadBodyMB, 16)<<20),
		mdw.Timeout(time.Duration(orDefault(hc.HandlerTimeoutSec, 10))*time.Second, d.Log),
		mdw.Metrics(server),
		mdw.AccessLog(d.Log),
	)
}

func orDefault[T int | int64](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
