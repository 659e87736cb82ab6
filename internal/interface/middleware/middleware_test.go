package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newTokens(t *testing.T) *helpers.TokenManager {
	t.Helper()
	tm, err := helpers.NewTokenManager("middleware-secret", "HS256", 0)
	require.NoError(t, err)
	return tm
}

func protectedEngine(tm *helpers.TokenManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(tm), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/manager", Authenticate(tm), RequireRole(entity.RoleManager), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/misordered", RequireRole(entity.RoleManager), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticate(t *testing.T) {
	tm := newTokens(t)
	r := protectedEngine(tm)
	id := entity.NewID()
	tok, _, err := tm.Issue(id, entity.RoleMember)
	require.NoError(t, err)

	w := do(r, "/me", "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "member", body["role"])

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", tok} {
		w = do(r, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		body = decode(t, w)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "Not authorized", body["message"])
	}

	other, err := helpers.NewTokenManager("someone-else", "HS256", 0)
	require.NoError(t, err)
	forged, _, err := other.Issue(id, entity.RoleManager)
	require.NoError(t, err)
	for _, bad := range []string{"garbage", forged} {
		w = do(r, "/me", "Bearer "+bad)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", decode(t, w)["message"])
	}
}

func TestRequireRole(t *testing.T) {
	tm := newTokens(t)
	r := protectedEngine(tm)

	member, _, err := tm.Issue(entity.NewID(), entity.RoleMember)
	require.NoError(t, err)
	w := do(r, "/manager", "Bearer "+member)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Manager role required", decode(t, w)["message"])

	manager, _, err := tm.Issue(entity.NewID(), entity.RoleManager)
	require.NoError(t, err)
	w = do(r, "/manager", "Bearer "+manager)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, "/misordered", "Bearer "+manager)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)
	_, ok = bearerToken("Token abc")
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := do(r, "/", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "123e4567-e89b-12d3-a456-426614174000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", w.Body.String())

	req.Header.Set(RequestIDHeader, "not a uuid\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\n", w.Body.String())
}

func TestRealIP(t *testing.T) {
	serve := func(trust bool, headers map[string]string) string {
		r := gin.New()
		r.Use(RealIP(trust))
		r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RealIPKey)) })
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:4321"
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	xff := map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}
	assert.Equal(t, "203.0.113.9", serve(true, xff))
	assert.Equal(t, "192.0.2.1", serve(false, xff), "headers ignored without a trusted proxy")

	both := map[string]string{"X-Forwarded-For": "203.0.113.9", "CF-Connecting-IP": "198.51.100.7"}
	assert.Equal(t, "198.51.100.7", serve(true, both))

	assert.Equal(t, "192.0.2.1", serve(true, map[string]string{"X-Forwarded-For": "garbage"}))
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "qa")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/question/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, "/question/a", "")
	do(r, "/question/b", "")
	do(r, "/nowhere", "")

	assert.Equal(t, 2.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/question/:id", "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestAccessLog(t *testing.T) {
	logger := helpers.NewDiscardLogger()
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP(false), AccessLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, "/ok", "").Code)
}
