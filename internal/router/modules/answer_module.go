package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/qa-community-api/internal/interface/http"
	"github.com/oksasatya/qa-community-api/internal/interface/middleware"
)

type AnswerModule struct {
	Handler  *handlers.AnswerHandler
	Verifier middleware.TokenVerifier
}

func NewAnswerModule(h *handlers.AnswerHandler, v middleware.TokenVerifier) *AnswerModule {
	return &AnswerModule{Handler: h, Verifier: v}
}

func (m *AnswerModule) Register(rg *gin.RouterGroup) {
	a := rg.Group("/answer")
	a.GET("/:questionId", m.Handler.ListByQuestion)
	a.POST("", middleware.Authenticate(m.Verifier), m.Handler.Create)
}
