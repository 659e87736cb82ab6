package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

// InsightService manages manager-authored insights. Role checks happen in the
// HTTP middleware; the service trusts its caller.
type InsightService struct {
	Insights  repo.InsightRepository
	Questions QuestionChecker
	Authors   *AuthorResolver
	Events    EventPublisher
	Logger    *logrus.Logger
}

func NewInsightService(insights repo.InsightRepository, questions QuestionChecker, authors *AuthorResolver, events EventPublisher, logger *logrus.Logger) *InsightService {
	return &InsightService{Insights: insights, Questions: questions, Authors: authors, Events: events, Logger: logger}
}

type CreateInsightInput struct {
	QuestionID string
	Summary    string
}

type InsightView struct {
	entity.Insight
	Author *entity.Author
}

func (s *InsightService) Create(ctx context.Context, creatorID string, in CreateInsightInput) (*entity.Insight, error) {
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		return nil, ValidationError("summary is required")
	}
	qid, err := requireQuestion(ctx, s.Questions, in.QuestionID)
	if err != nil {
		return nil, err
	}
	i := &entity.Insight{QuestionID: qid, Summary: summary, CreatedBy: creatorID}
	if err := s.Insights.Create(ctx, i); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Logger, EventInsightCreated, InsightCreatedEvent{
		InsightID: i.ID, QuestionID: i.QuestionID, CreatedBy: i.CreatedBy, CreatedAt: i.CreatedAt,
	})
	return i, nil
}

// List returns every insight, newest first, with creator names populated.
func (s *InsightService) List(ctx context.Context) ([]InsightView, error) {
	is, err := s.Insights.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(is))
	for i := range is {
		ids[i] = is[i].CreatedBy
	}
	authors, err := s.Authors.Resolve(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	out := make([]InsightView, len(is))
	for i := range is {
		out[i] = InsightView{Insight: is[i], Author: authorOf(authors, is[i].CreatedBy)}
	}
	return out, nil
}
