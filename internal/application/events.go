package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Routing keys for domain events.
const (
	EventQuestionCreated = "question.created"
	EventAnswerCreated   = "answer.created"
	EventInsightCreated  = "insight.created"
)

// EventPublisher delivers domain events. A nil publisher disables events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

type QuestionCreatedEvent struct {
	QuestionID string    `json:"question_id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnswerCreatedEvent struct {
	AnswerID   string    `json:"answer_id"`
	QuestionID string    `json:"question_id"`
	CreatedBy  string    `json:"created_by"`
	Excerpt    string    `json:"excerpt"`
	CreatedAt  time.Time `json:"created_at"`
}

type InsightCreatedEvent struct {
	InsightID  string    `json:"insight_id"`
	QuestionID string    `json:"question_id"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// publish never fails the caller: the entity is already stored.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, key string, body any) {
	if pub == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pub.PublishJSON(c, key, body); err != nil && logger != nil {
		logger.WithError(err).WithField("routing_key", key).Warn("publish event failed")
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
