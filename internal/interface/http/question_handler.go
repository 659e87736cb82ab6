package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/application"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/pkg/response"
)

type QuestionHandler struct {
	Service *application.QuestionService
	Logger  *logrus.Logger
}

func NewQuestionHandler(service *application.QuestionService, logger *logrus.Logger) *QuestionHandler {
	return &QuestionHandler{Service: service, Logger: logger}
}

type createQuestionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Create POST /api/question
func (h *QuestionHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createQuestionRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.Service.Create(c.Request.Context(), p.ID, application.CreateQuestionInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": toQuestionJSON(q, q.CreatedBy)})
}

// List GET /api/question?q=&tag=
func (h *QuestionHandler) List(c *gin.Context) {
	qs, err := h.Service.List(c.Request.Context(), repo.QuestionFilter{
		Title: c.Query("q"),
		Tag:   c.Query("tag"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questionViews(qs)})
}

// Get GET /api/question/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	v, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": toQuestionJSON(&v.Question, populated(v.Author))})
}
