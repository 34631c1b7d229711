package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-forum/internal/core/server"
	mdw "restaurant-forum/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：公开 GET 可选登录，写操作在 Action 上声明 Auth
func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)
	r.Use(baseMiddlewares(d, "api")...)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(mdw.OptionalAuth(d.JWT))
	Modules(d).MountAPI(api)

	return r
}
