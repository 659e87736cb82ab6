package handlers

import (
	"time"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/domain/entity"
)

// createdBy is either the raw creator id (write endpoints) or the populated
// author, which encodes as null when the creator no longer exists.
func populated(a *entity.Author) any {
	if a == nil {
		return nil
	}
	return a
}

type questionJSON struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedBy   any       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toQuestionJSON(q *entity.Question, createdBy any) questionJSON {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return questionJSON{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Tags:        tags,
		CreatedBy:   createdBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func questionViews(vs []application.QuestionView) []questionJSON {
	out := make([]questionJSON, len(vs))
	for i := range vs {
		out[i] = toQuestionJSON(&vs[i].Question, populated(vs[i].Author))
	}
	return out
}

type answerJSON struct {
	ID         string    `json:"_id"`
	QuestionID string    `json:"questionId"`
	Content    string    `json:"content"`
	IsAccepted bool      `json:"isAccepted"`
	CreatedBy  any       `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toAnswerJSON(a *entity.Answer, createdBy any) answerJSON {
	return answerJSON{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		IsAccepted: a.IsAccepted,
		CreatedBy:  createdBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type insightJSON struct {
	ID         string    `json:"_id"`
	QuestionID string    `json:"questionId"`
	Summary    string    `json:"summary"`
	CreatedBy  any       `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toInsightJSON(i *entity.Insight, createdBy any) insightJSON {
	return insightJSON{
		ID:         i.ID,
		QuestionID: i.QuestionID,
		Summary:    i.Summary,
		CreatedBy:  createdBy,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
