package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client issues JSON requests against an in-process handler.
type Client struct {
	T       *testing.T
	Handler http.Handler
}

// Do sends method/path with body encoded as JSON (nil for none) and an
// optional bearer token. It returns the recorder and the decoded JSON body.
func (c Client) Do(method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	c.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)

	var out map[string]any
	if ct := w.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		require.NoError(c.T, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}
