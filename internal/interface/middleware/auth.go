package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
	"github.com/oksasatya/qa-community-api/pkg/response"
)

const (
	principalKey = "principal"

	msgNotAuthorized = "Not authorized"
	msgInvalidToken  = "invalid token"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// Principal is the authenticated caller attached to the request.
type Principal struct {
	ID   string
	Role entity.Role
}

// Authenticate requires an "Authorization: Bearer <token>" header and stores
// the token's principal in the gin context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, msgNotAuthorized)
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		c.Set(principalKey, Principal{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
