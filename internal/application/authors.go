package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

// AuthorCache stores full author projections (name and email) by user id.
type AuthorCache interface {
	GetMany(ctx context.Context, ids []string) (map[string]entity.Author, error)
	SetMany(ctx context.Context, authors []entity.Author) error
}

// AuthorResolver populates createdBy references. Each call issues at most
// one store query no matter how many entities share a creator.
type AuthorResolver struct {
	Users  repo.UserRepository
	Cache  AuthorCache // optional
	Logger *logrus.Logger
}

func NewAuthorResolver(users repo.UserRepository, cache AuthorCache, logger *logrus.Logger) *AuthorResolver {
	return &AuthorResolver{Users: users, Cache: cache, Logger: logger}
}

// Resolve maps each known id to its projection. Email is dropped unless
// withEmail is set. Ids with no matching user are absent from the result.
func (r *AuthorResolver) Resolve(ctx context.Context, ids []string, withEmail bool) (map[string]entity.Author, error) {
	want := uniqueIDs(ids)
	out := make(map[string]entity.Author, len(want))
	if len(want) == 0 {
		return out, nil
	}

	missing := want
	if r.Cache != nil {
		cached, err := r.Cache.GetMany(ctx, want)
		if err != nil {
			r.warn(err, "author cache read failed")
		}
		missing = missing[:0:0]
		for _, id := range want {
			if a, ok := cached[id]; ok {
				out[id] = a
			} else {
				missing = append(missing, id)
			}
		}
	}

	if len(missing) > 0 {
		users, err := r.Users.FindAuthors(ctx, missing)
		if err != nil {
			return nil, err
		}
		fresh := make([]entity.Author, 0, len(users))
		for i := range users {
			a := users[i].Author(true)
			out[a.ID] = a
			fresh = append(fresh, a)
		}
		if r.Cache != nil && len(fresh) > 0 {
			if err := r.Cache.SetMany(ctx, fresh); err != nil {
				r.warn(err, "author cache write failed")
			}
		}
	}

	if !withEmail {
		for id, a := range out {
			a.Email = ""
			out[id] = a
		}
	}
	return out, nil
}

func (r *AuthorResolver) warn(err error, msg string) {
	if r.Logger != nil {
		r.Logger.WithError(err).Warn(msg)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func authorOf(authors map[string]entity.Author, id string) *entity.Author {
	a, ok := authors[id]
	if !ok {
		return nil
	}
	return &a
}
