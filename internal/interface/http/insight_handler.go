package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/pkg/response"
)

type InsightHandler struct {
	Service *application.InsightService
	Logger  *logrus.Logger
}

func NewInsightHandler(service *application.InsightService, logger *logrus.Logger) *InsightHandler {
	return &InsightHandler{Service: service, Logger: logger}
}

type createInsightRequest struct {
	QuestionID string `json:"questionId" binding:"required,objectid"`
	Summary    string `json:"summary" binding:"required"`
}

// Create POST /api/insight (manager only)
func (h *InsightHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createInsightRequest
	if !bindJSON(c, &req) {
		return
	}
	i, err := h.Service.Create(c.Request.Context(), p.ID, application.CreateInsightInput{
		QuestionID: req.QuestionID,
		Summary:    req.Summary,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"inSight": toInsightJSON(i, i.CreatedBy)})
}

// List GET /api/insight (manager only)
func (h *InsightHandler) List(c *gin.Context) {
	vs, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]insightJSON, len(vs))
	for i := range vs {
		out[i] = toInsightJSON(&vs[i].Insight, populated(vs[i].Author))
	}
	response.Success(c, http.StatusOK, gin.H{"inSights": out})
}
