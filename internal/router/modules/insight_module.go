package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	handlers "github.com/oksasatya/qa-community-api/internal/interface/http"
	"github.com/oksasatya/qa-community-api/internal/interface/middleware"
)

// InsightModule: every route requires a manager token.
type InsightModule struct {
	Handler  *handlers.InsightHandler
	Verifier middleware.TokenVerifier
}

func NewInsightModule(h *handlers.InsightHandler, v middleware.TokenVerifier) *InsightModule {
	return &InsightModule{Handler: h, Verifier: v}
}

func (m *InsightModule) Register(rg *gin.RouterGroup) {
	i := rg.Group("/insight")
	i.Use(middleware.Authenticate(m.Verifier), middleware.RequireRole(entity.RoleManager))
	{
		i.POST("", m.Handler.Create)
		i.GET("", m.Handler.List)
	}
}
