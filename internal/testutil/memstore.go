// Package testutil provides in-memory repositories and request helpers for
// tests that should not need a running database.
package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

// MemoryStore implements every repository interface over maps. It follows
// the same ordering and filtering rules as the real backends.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]entity.User
	questions map[string]entity.Question
	answers   map[string]entity.Answer
	insights  map[string]entity.Insight

	// FindAuthorsCalls counts batched author lookups.
	FindAuthorsCalls int
	// Err, when set, is returned by every operation.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[string]entity.User{},
		questions: map[string]entity.Question{},
		answers:   map[string]entity.Answer{},
		insights:  map[string]entity.Insight{},
	}
}

// Repositories exposes the store through the repository bundle.
func (m *MemoryStore) Repositories() repo.Repositories {
	return repo.Repositories{
		Users:     memUsers{m},
		Questions: memQuestions{m},
		Answers:   memAnswers{m},
		Insights:  memInsights{m},
	}
}

func (m *MemoryStore) UserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func stamp() (string, time.Time) {
	return entity.NewID(), entity.Now()
}

func newestFirst(at, bt time.Time, aid, bid string) int {
	if c := bt.Compare(at); c != 0 {
		return c
	}
	return strings.Compare(bid, aid)
}

type memUsers struct{ m *MemoryStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID, u.CreatedAt = stamp()
	u.UpdatedAt = u.CreatedAt
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) FindAuthors(_ context.Context, ids []string) ([]entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	r.m.FindAuthorsCalls++
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type memQuestions struct{ m *MemoryStore }

func (r memQuestions) Create(_ context.Context, q *entity.Question) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	q.ID, q.CreatedAt = stamp()
	q.UpdatedAt = q.CreatedAt
	if q.Tags == nil {
		q.Tags = []string{}
	}
	r.m.questions[q.ID] = *q
	return nil
}

func (r memQuestions) GetByID(_ context.Context, id string) (*entity.Question, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	q, ok := r.m.questions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &q, nil
}

func (r memQuestions) List(_ context.Context, f repo.QuestionFilter) ([]entity.Question, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	title := strings.ToLower(f.Title)
	out := []entity.Question{}
	for _, q := range r.m.questions {
		if title != "" && !strings.Contains(strings.ToLower(q.Title), title) {
			continue
		}
		if f.Tag != "" && !slices.Contains(q.Tags, f.Tag) {
			continue
		}
		out = append(out, q)
	}
	slices.SortFunc(out, func(a, b entity.Question) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (r memQuestions) Exists(_ context.Context, id string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return false, r.m.Err
	}
	_, ok := r.m.questions[id]
	return ok, nil
}

type memAnswers struct{ m *MemoryStore }

func (r memAnswers) Create(_ context.Context, a *entity.Answer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	a.ID, a.CreatedAt = stamp()
	a.UpdatedAt = a.CreatedAt
	r.m.answers[a.ID] = *a
	return nil
}

func (r memAnswers) ListByQuestion(_ context.Context, questionID string) ([]entity.Answer, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	out := []entity.Answer{}
	for _, a := range r.m.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b entity.Answer) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

type memInsights struct{ m *MemoryStore }

func (r memInsights) Create(_ context.Context, i *entity.Insight) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	i.ID, i.CreatedAt = stamp()
	i.UpdatedAt = i.CreatedAt
	r.m.insights[i.ID] = *i
	return nil
}

func (r memInsights) List(_ context.Context) ([]entity.Insight, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	out := make([]entity.Insight, 0, len(r.m.insights))
	for _, i := range r.m.insights {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b entity.Insight) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}
