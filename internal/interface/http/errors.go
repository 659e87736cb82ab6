package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/interface/middleware"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
	"github.com/oksasatya/qa-community-api/pkg/response"
	"github.com/oksasatya/qa-community-api/pkg/validation"
)

const msgSomethingWrong = "something went wrong"

func statusFor(kind application.ErrorKind) int {
	switch kind {
	case application.KindValidation, application.KindConflict:
		return http.StatusBadRequest
	case application.KindUnauthenticated:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError translates a service failure. Anything that is not an
// application error is logged and answered without detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var ae *application.Error
	if errors.As(err, &ae) {
		response.Error(c, statusFor(ae.Kind), ae.Message, nil)
		return
	}
	helpers.LogError(logger, "request failed", err, logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"method":     c.Request.Method,
		"route":      c.FullPath(),
	})
	response.Error(c, http.StatusInternalServerError, msgSomethingWrong, nil)
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", validation.ToDetails(err))
		return false
	}
	return true
}

// principal returns the authenticated caller, answering 401 when the route
// was registered without Authenticate.
func principal(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized", nil)
	}
	return p, ok
}

// Recovery answers panics with the generic failure body.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(middleware.RequestIDKey),
				"route":      c.FullPath(),
				"panic":      recovered,
			}).Error("panic recovered")
		}
		response.Abort(c, http.StatusInternalServerError, msgSomethingWrong)
	})
}
