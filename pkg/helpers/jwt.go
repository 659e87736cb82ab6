package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnsupportedSigning  = errors.New("unsupported signing method")
	defaultTokenTTL        = 7 * 24 * time.Hour
	supportedSigningMethod = map[string]*jwt.SigningMethodHMAC{
		"HS256": jwt.SigningMethodHS256,
		"HS384": jwt.SigningMethodHS384,
		"HS512": jwt.SigningMethodHS512,
	}
)

// TokenManager issues and verifies bearer tokens carrying a user id and role.
// There is no revocation list: a token stays valid until it expires.
type TokenManager struct {
	Secret []byte
	Method *jwt.SigningMethodHMAC
	TTL    time.Duration

	now func() time.Time
}

// NewTokenManager builds a manager for the given secret and HMAC method name
// (HS256, HS384 or HS512). A zero ttl falls back to seven days.
func NewTokenManager(secret, method string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if method == "" {
		method = "HS256"
	}
	m, ok := supportedSigningMethod[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSigning, method)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{Secret: []byte(secret), Method: m, TTL: ttl, now: time.Now}, nil
}

type Claims struct {
	UserID string      `json:"id"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user that expires TTL from now.
func (m *TokenManager) Issue(userID string, role entity.Role) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(m.Method, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify checks signature, algorithm and expiry and returns the claims.
// Every failure is reported as ErrInvalidToken wrapping the cause.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != m.Method.Alg() {
			return nil, ErrUnsupportedSigning
		}
		return m.Secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if !entity.IsValidID(claims.UserID) || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: malformed payload", ErrInvalidToken)
	}
	return claims, nil
}

func (m *TokenManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}
