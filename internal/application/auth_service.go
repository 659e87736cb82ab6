package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string, role entity.Role) (string, time.Time, error)
}

// AuthService is the credential store: it registers users, looks them up by
// email and verifies passwords, issuing a token on success.
type AuthService struct {
	Users              repo.UserRepository
	Tokens             TokenIssuer
	Logger             *logrus.Logger
	BcryptCost         int
	AllowManagerSignup bool
}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

func NewAuthService(users repo.UserRepository, tokens TokenIssuer, logger *logrus.Logger, bcryptCost int, allowManagerSignup bool) *AuthService {
	return &AuthService{
		Users:              users,
		Tokens:             tokens,
		Logger:             logger,
		BcryptCost:         bcryptCost,
		AllowManagerSignup: allowManagerSignup,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a user and returns it with a freshly issued token.
// The password is hashed before it reaches the store.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, ValidationError("name is required")
	case email == "":
		return nil, ValidationError("email is required")
	case in.Password == "":
		return nil, ValidationError("password is required")
	case len(in.Password) > helpers.MaxPasswordBytes:
		return nil, ErrPasswordTooLong
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ValidationError("email must be a valid email")
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, ValidationError(err.Error())
	}
	if role == entity.RoleManager && !s.AllowManagerSignup {
		return nil, ErrManagerSignup
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}
	u := &entity.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	}
	return s.issue(u)
}

// Login checks credentials. An unknown email and a wrong password fail the
// same way and cost the same bcrypt work.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.BurnPasswordCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(u, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// FindByEmail returns the user registered under email.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// VerifyPassword reports whether candidate matches the stored hash.
func (s *AuthService) VerifyPassword(u *entity.User, candidate string) bool {
	if u == nil || u.PasswordHash == "" {
		helpers.BurnPasswordCompare(candidate)
		return false
	}
	return helpers.CompareHashAndPassword(u.PasswordHash, candidate)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		}
		return nil, err
	}
	return &AuthResult{User: u, Token: tok, ExpiresAt: exp}, nil
}
