package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	"github.com/oksasatya/qa-community-api/pkg/response"
)

// RequireRole lets the request through only when the authenticated principal
// holds role. It must run after Authenticate.
func RequireRole(role entity.Role) gin.HandlerFunc {
	denied := role.Title() + " role required"
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, msgNotAuthorized)
			return
		}
		if p.Role != role {
			response.Abort(c, http.StatusForbidden, denied)
			return
		}
		c.Next()
	}
}
