package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/internal/testutil"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

type recordedEvent struct {
	key  string
	body any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{key: key, body: body})
	return p.err
}

type fixture struct {
	store     *testutil.MemoryStore
	repos     repo.Repositories
	questions *application.QuestionService
	answers   *application.AnswerService
	insights  *application.InsightService
	events    *fakePublisher
	member    *entity.User
	manager   *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemoryStore()
	repos := store.Repositories()
	logger := helpers.NewDiscardLogger()
	authors := application.NewAuthorResolver(repos.Users, nil, logger)
	events := &fakePublisher{}

	f := &fixture{
		store:     store,
		repos:     repos,
		questions: application.NewQuestionService(repos.Questions, authors, events, logger),
		answers:   application.NewAnswerService(repos.Answers, repos.Questions, authors, events, logger),
		insights:  application.NewInsightService(repos.Insights, repos.Questions, authors, events, logger),
		events:    events,
	}
	ctx := context.Background()
	f.member = &entity.User{Name: "Mia", Email: "mia@example.com", PasswordHash: "x", Role: entity.RoleMember}
	require.NoError(t, repos.Users.Create(ctx, f.member))
	f.manager = &entity.User{Name: "Max", Email: "max@example.com", PasswordHash: "x", Role: entity.RoleManager}
	require.NoError(t, repos.Users.Create(ctx, f.manager))
	return f
}

func (f *fixture) ask(t *testing.T, title string, tags ...string) *entity.Question {
	t.Helper()
	q, err := f.questions.Create(context.Background(), f.member.ID, application.CreateQuestionInput{Title: title, Tags: tags})
	require.NoError(t, err)
	return q
}

func TestQuestionCreate(t *testing.T) {
	f := newFixture(t)
	q, err := f.questions.Create(context.Background(), f.member.ID, application.CreateQuestionInput{
		Title: "  How to center a div?  ", Description: "flexbox?", Tags: []string{" css ", "", "html"},
	})
	require.NoError(t, err)
	assert.True(t, entity.IsValidID(q.ID))
	assert.Equal(t, "How to center a div?", q.Title)
	assert.Equal(t, []string{"css", "html"}, q.Tags)
	assert.Equal(t, f.member.ID, q.CreatedBy)
	assert.False(t, q.CreatedAt.IsZero())

	require.Len(t, f.events.events, 1)
	assert.Equal(t, application.EventQuestionCreated, f.events.events[0].key)
}

func TestQuestionCreate_TagsDefaultEmpty(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "No tags here")
	assert.NotNil(t, q.Tags)
	assert.Empty(t, q.Tags)
}

func TestQuestionCreate_EmptyTitleRejected(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"", "   "} {
		_, err := f.questions.Create(context.Background(), f.member.ID, application.CreateQuestionInput{Title: title})
		require.Error(t, err)
		assert.Equal(t, application.KindValidation, application.KindOf(err))
	}
	qs, err := f.questions.List(context.Background(), repo.QuestionFilter{})
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestQuestionCreate_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	_, err := f.questions.Create(context.Background(), f.member.ID, application.CreateQuestionInput{Title: "still stored"})
	require.NoError(t, err)
}

func TestQuestionList_TitleFilterNewestFirst(t *testing.T) {
	f := newFixture(t)
	older := f.ask(t, "CSS grid basics")
	f.ask(t, "Go channels")
	newer := f.ask(t, "Why does my css not load?")

	got, err := f.questions.List(context.Background(), repo.QuestionFilter{Title: "css"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	require.NotNil(t, got[0].Author)
	assert.Equal(t, "Mia", got[0].Author.Name)
	assert.Equal(t, "mia@example.com", got[0].Author.Email)
}

func TestQuestionList_TagAndTitleCombine(t *testing.T) {
	f := newFixture(t)
	f.ask(t, "css centering", "html")
	match := f.ask(t, "css centering again", "css")
	f.ask(t, "go modules", "css")

	got, err := f.questions.List(context.Background(), repo.QuestionFilter{Title: "CENTER", Tag: "css"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)

	none, err := f.questions.List(context.Background(), repo.QuestionFilter{Tag: "cs"})
	require.NoError(t, err)
	assert.Empty(t, none, "tags match exactly")
}

func TestQuestionGet(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "Where is my question?")

	got, err := f.questions.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Title, got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, f.member.ID, got.Author.ID)

	_, err = f.questions.Get(context.Background(), "not-a-valid-id")
	assert.ErrorIs(t, err, application.ErrInvalidQuestionID)
	assert.Equal(t, application.KindValidation, application.KindOf(err))

	_, err = f.questions.Get(context.Background(), entity.NewID())
	assert.ErrorIs(t, err, application.ErrQuestionNotFound)
	assert.Equal(t, application.KindNotFound, application.KindOf(err))
}

func TestIDsAreCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := f.ask(t, "Mixed case ids")
	upper := strings.ToUpper(q.ID)

	got, err := f.questions.Get(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)

	a, err := f.answers.Create(ctx, f.member.ID, application.CreateAnswerInput{QuestionID: upper, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)

	list, err := f.answers.ListByQuestion(ctx, upper)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	i, err := f.insights.Create(ctx, f.manager.ID, application.CreateInsightInput{QuestionID: upper, Summary: "s"})
	require.NoError(t, err)
	assert.Equal(t, q.ID, i.QuestionID)
}

func TestQuestionGet_DanglingCreatorPopulatesNil(t *testing.T) {
	f := newFixture(t)
	q, err := f.questions.Create(context.Background(), entity.NewID(), application.CreateQuestionInput{Title: "orphan"})
	require.NoError(t, err)
	got, err := f.questions.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Author)
}

func TestAnswerCreateAndList(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "How to center a div?", "css")

	first, err := f.answers.Create(context.Background(), f.member.ID, application.CreateAnswerInput{QuestionID: q.ID, Content: "use flexbox"})
	require.NoError(t, err)
	assert.False(t, first.IsAccepted)
	second, err := f.answers.Create(context.Background(), f.manager.ID, application.CreateAnswerInput{QuestionID: q.ID, Content: "use grid"})
	require.NoError(t, err)

	other := f.ask(t, "unrelated")
	_, err = f.answers.Create(context.Background(), f.member.ID, application.CreateAnswerInput{QuestionID: other.ID, Content: "n/a"})
	require.NoError(t, err)

	calls := f.store.FindAuthorsCalls
	got, err := f.answers.ListByQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	require.NotNil(t, got[0].Author)
	assert.Equal(t, "Max", got[0].Author.Name)
	assert.Empty(t, got[0].Author.Email, "answers populate name only")
	assert.Equal(t, calls+1, f.store.FindAuthorsCalls, "one batched author lookup per list")
}

func TestAnswerCreate_Validation(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "q")
	ctx := context.Background()

	_, err := f.answers.Create(ctx, f.member.ID, application.CreateAnswerInput{QuestionID: q.ID, Content: "  "})
	assert.Equal(t, application.KindValidation, application.KindOf(err))

	_, err = f.answers.Create(ctx, f.member.ID, application.CreateAnswerInput{QuestionID: "xyz", Content: "hi"})
	assert.ErrorIs(t, err, application.ErrInvalidQuestionID)

	_, err = f.answers.Create(ctx, f.member.ID, application.CreateAnswerInput{QuestionID: entity.NewID(), Content: "hi"})
	assert.ErrorIs(t, err, application.ErrMissingQuestion)
	assert.Equal(t, application.KindValidation, application.KindOf(err))
}

func TestAnswerCreate_DanglingAllowedWithoutChecker(t *testing.T) {
	f := newFixture(t)
	f.answers.Questions = nil
	a, err := f.answers.Create(context.Background(), f.member.ID, application.CreateAnswerInput{QuestionID: entity.NewID(), Content: "hi"})
	require.NoError(t, err)
	assert.True(t, entity.IsValidID(a.ID))
}

func TestAnswerList_MalformedQuestionID(t *testing.T) {
	f := newFixture(t)
	_, err := f.answers.ListByQuestion(context.Background(), "123")
	assert.ErrorIs(t, err, application.ErrInvalidQuestionID)
}

func TestInsightCreateAndList(t *testing.T) {
	f := newFixture(t)
	q := f.ask(t, "q")
	ctx := context.Background()

	older, err := f.insights.Create(ctx, f.manager.ID, application.CreateInsightInput{QuestionID: q.ID, Summary: "people love flexbox"})
	require.NoError(t, err)
	newer, err := f.insights.Create(ctx, f.manager.ID, application.CreateInsightInput{QuestionID: q.ID, Summary: "grid is rising"})
	require.NoError(t, err)

	got, err := f.insights.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
	assert.Equal(t, "Max", got[0].Author.Name)

	_, err = f.insights.Create(ctx, f.manager.ID, application.CreateInsightInput{QuestionID: q.ID})
	assert.Equal(t, application.KindValidation, application.KindOf(err))
	_, err = f.insights.Create(ctx, f.manager.ID, application.CreateInsightInput{QuestionID: entity.NewID(), Summary: "s"})
	assert.ErrorIs(t, err, application.ErrMissingQuestion)
}

func TestStoreFailuresPropagate(t *testing.T) {
	f := newFixture(t)
	f.store.Err = errors.New("storage unavailable")
	_, err := f.questions.List(context.Background(), repo.QuestionFilter{})
	require.Error(t, err)
	assert.Equal(t, application.ErrorKind(0), application.KindOf(err))
}
