package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
	"github.com/oksasatya/qa-community-api/pkg/mailer"
)

type outbox struct {
	sent []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func newNotifier(f *fixture, box *outbox) *application.AnswerNotifier {
	return application.NewAnswerNotifier(f.repos.Questions, f.repos.Users, box, "QA Community", "http://app.test/", helpers.NewDiscardLogger())
}

func TestAnswerNotifier_SendsToQuestionAuthor(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "How to center a div?")
	a, err := f.answers.Create(context.Background(), f.manager.ID, application.CreateAnswerInput{QuestionID: q.ID, Content: "flexbox"})
	require.NoError(t, err)

	box := &outbox{}
	err = newNotifier(f, box).Handle(context.Background(), application.AnswerCreatedEvent{
		AnswerID: a.ID, QuestionID: q.ID, CreatedBy: f.manager.ID, Excerpt: "flexbox", CreatedAt: a.CreatedAt,
	})
	require.NoError(t, err)
	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, "mia@example.com", msg.To)
	assert.Equal(t, `New answer on "How to center a div?"`, msg.Subject)
	assert.Contains(t, msg.Text, "Max answered")
	assert.Contains(t, msg.Text, "http://app.test/question/"+q.ID)
}

func TestAnswerNotifier_Skips(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "mine")
	box := &outbox{}
	n := newNotifier(f, box)
	ctx := context.Background()

	require.NoError(t, n.Handle(ctx, application.AnswerCreatedEvent{QuestionID: q.ID, CreatedBy: f.member.ID}))
	require.NoError(t, n.Handle(ctx, application.AnswerCreatedEvent{QuestionID: entity.NewID(), CreatedBy: f.manager.ID}))

	orphan, err := f.questions.Create(ctx, entity.NewID(), application.CreateQuestionInput{Title: "orphan"})
	require.NoError(t, err)
	require.NoError(t, n.Handle(ctx, application.AnswerCreatedEvent{QuestionID: orphan.ID, CreatedBy: f.manager.ID}))

	assert.Empty(t, box.sent)
}

func TestAnswerNotifier_MailFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "q")
	box := &outbox{err: errors.New("mailgun 503")}
	err := newNotifier(f, box).Handle(context.Background(), application.AnswerCreatedEvent{QuestionID: q.ID, CreatedBy: f.manager.ID})
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, mailer.LogSender{Logger: helpers.NewDiscardLogger()}.Send(context.Background(), mailer.Message{To: "x@example.com"}))
}
