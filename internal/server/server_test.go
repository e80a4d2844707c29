package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgirmay/mathlab/internal/explain"
	"github.com/jgirmay/mathlab/pkg/config"
)

func setupServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.AI.APIKey = ""
	cfg.Database.DSN = "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewRefusesFileDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = "mathlab.db"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestMissingKeyFallsBack(t *testing.T) {
	s := setupServer(t)

	assert.Equal(t, "unavailable", s.Explainer().Backend())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/visualizer/explain", bytes.NewBufferString(`{"num1": 2, "num2": 3}`))
	req.Header.Set("Content-Type", "application/json")
	s.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), explain.FallbackError)
}

func TestRoutes(t *testing.T) {
	s := setupServer(t)

	assert.Equal(t, http.StatusOK, get(s, "/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/visualizer/display?num1=4&num2=5").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/worksheet/options").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/docs/openapi.json").Code)

	w := get(s, "/api/apps")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)

	w = get(s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "mathlab_http_requests_total"))
}
