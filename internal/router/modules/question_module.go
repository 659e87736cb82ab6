package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/qa-community-api/internal/interface/http"
	"github.com/oksasatya/qa-community-api/internal/interface/middleware"
)

// QuestionModule: reads are public, posting needs a bearer token.
type QuestionModule struct {
	Handler  *handlers.QuestionHandler
	Verifier middleware.TokenVerifier
}

func NewQuestionModule(h *handlers.QuestionHandler, v middleware.TokenVerifier) *QuestionModule {
	return &QuestionModule{Handler: h, Verifier: v}
}

func (m *QuestionModule) Register(rg *gin.RouterGroup) {
	q := rg.Group("/question")
	q.GET("", m.Handler.List)
	q.GET("/:id", m.Handler.Get)
	q.POST("", middleware.Authenticate(m.Verifier), m.Handler.Create)
}
