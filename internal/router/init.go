package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/qa-community-api/internal/container"
	handlers "github.com/oksasatya/qa-community-api/internal/interface/http"
	"github.com/oksasatya/qa-community-api/internal/interface/middleware"
	"github.com/oksasatya/qa-community-api/internal/router/modules"
	"github.com/oksasatya/qa-community-api/pkg/response"
	"github.com/oksasatya/qa-community-api/pkg/validation"
)

// New builds the gin engine with global middleware and every module.
func New(c *container.Container) *gin.Engine {
	validation.Init()
	cfg := c.Config

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(handlers.Recovery(c.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	httpMetrics := middleware.NewHTTPMetrics(c.Metrics, "qa")
	r.Use(httpMetrics.Middleware())

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "API is working")
	})
	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Route not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules builds handlers from the container and adds their modules.
func InitModules(r *Registry, c *container.Container) {
	logger := c.Logger
	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, logger)),
		modules.NewQuestionModule(handlers.NewQuestionHandler(c.Questions, logger), c.Tokens),
		modules.NewAnswerModule(handlers.NewAnswerHandler(c.Answers, logger), c.Tokens),
		modules.NewInsightModule(handlers.NewInsightHandler(c.Insights, logger), c.Tokens),
		modules.NewDebugModule(c.Metrics, c.DatabaseReady, c.Config.DebugMetricsEnabled),
	)
}
