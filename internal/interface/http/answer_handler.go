package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/pkg/response"
)

type AnswerHandler struct {
	Service *application.AnswerService
	Logger  *logrus.Logger
}

func NewAnswerHandler(service *application.AnswerService, logger *logrus.Logger) *AnswerHandler {
	return &AnswerHandler{Service: service, Logger: logger}
}

type createAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required,objectid"`
	Content    string `json:"content" binding:"required"`
}

// Create POST /api/answer
func (h *AnswerHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createAnswerRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Service.Create(c.Request.Context(), p.ID, application.CreateAnswerInput{
		QuestionID: req.QuestionID,
		Content:    req.Content,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"answer": toAnswerJSON(a, a.CreatedBy)})
}

// ListByQuestion GET /api/answer/:questionId
func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	vs, err := h.Service.ListByQuestion(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]answerJSON, len(vs))
	for i := range vs {
		out[i] = toAnswerJSON(&vs[i].Answer, populated(vs[i].Author))
	}
	response.Success(c, http.StatusOK, gin.H{"answer": out})
}
