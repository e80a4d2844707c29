package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgirmay/mathlab/internal/common/middleware"
	"github.com/jgirmay/mathlab/internal/explain"
	"github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/pkg/models"
)

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func setupRouter(gen *fakeGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())

	app := NewApp(explain.New(gen))
	app.RegisterRoutes(router.Group("/api/visualizer"))
	return router
}

func TestDisplay(t *testing.T) {
	router := setupRouter(&fakeGenerator{})

	tests := []struct {
		name     string
		query    string
		expected models.DisplayEquation
		groups   int
	}{
		{"defaults", "", models.DisplayEquation{A: 3, B: 4, Result: 12, Symbol: models.SymbolMultiply}, 3},
		{"multiply", "?num1=5&num2=6&operation=multiply", models.DisplayEquation{A: 5, B: 6, Result: 30, Symbol: models.SymbolMultiply}, 5},
		{"divide", "?num1=3&num2=4&operation=divide", models.DisplayEquation{A: 12, B: 3, Result: 4, Symbol: models.SymbolDivide}, 3},
		{"mixed shows divide", "?num1=2&num2=5&operation=mixed", models.DisplayEquation{A: 10, B: 2, Result: 5, Symbol: models.SymbolDivide}, 2},
		{"clamped", "?num1=99&num2=abc", models.DisplayEquation{A: 12, B: 1, Result: 12, Symbol: models.SymbolMultiply}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visualizer/display"+tt.query, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var view services.View
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
			assert.Equal(t, tt.expected.A, view.Equation.A)
			assert.Equal(t, tt.expected.B, view.Equation.B)
			assert.Equal(t, tt.expected.Result, view.Equation.Result)
			assert.Equal(t, tt.expected.Symbol, view.Equation.Symbol)
			assert.Len(t, view.Groups, tt.groups)
		})
	}
}

func TestDisplayInvalidOperation(t *testing.T) {
	router := setupRouter(&fakeGenerator{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visualizer/display?operation=add", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func postExplain(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/visualizer/explain", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestExplain(t *testing.T) {
	gen := &fakeGenerator{text: "  Three bunnies each had four carrots! 🥕  "}
	router := setupRouter(gen)

	w := postExplain(router, `{"num1": 3, "num2": "4", "operation": "divide"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp explainResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Three bunnies each had four carrots! 🥕", resp.Explanation)
	assert.Equal(t, 12, resp.Equation.A)
	assert.Equal(t, 3, resp.Equation.B)

	prompts := gen.calls()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "12 ÷ 3")
}

func TestExplainFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeGenerator
		expected string
	}{
		{"empty", &fakeGenerator{text: "   "}, explain.FallbackEmpty},
		{"error", &fakeGenerator{err: errors.New("quota exceeded")}, explain.FallbackError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postExplain(setupRouter(tt.gen), `{"num1": 2, "num2": 2}`)
			require.Equal(t, http.StatusOK, w.Code)

			var resp explainResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expected, resp.Explanation)
		})
	}
}

func TestExplainBadRequest(t *testing.T) {
	router := setupRouter(&fakeGenerator{})

	assert.Equal(t, http.StatusBadRequest, postExplain(router, `{"num1": `).Code)
	assert.Equal(t, http.StatusBadRequest, postExplain(router, `{"operation": "subtract"}`).Code)
}

func TestOperandUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected Operand
	}{
		{`5`, 5},
		{`"7"`, 7},
		{`"abc"`, 1},
		{`99`, 12},
		{`0`, 1},
		{`4.8`, 4},
		{`1e20`, 12},
		{`99999999999999999999`, 12},
		{`-1e20`, 1},
		{`"4.5"`, 4},
		{`"99999999999999999999"`, 12},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var o Operand
			require.NoError(t, json.Unmarshal([]byte(tt.input), &o))
			assert.Equal(t, tt.expected, o)
		})
	}
}

func dialLive(t *testing.T, router *gin.Engine) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/visualizer/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestLive(t *testing.T) {
	gen := &fakeGenerator{text: "Sharing cookies 🍪"}
	conn := dialLive(t, setupRouter(gen))

	var msg liveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 12, msg.Equation.Result, "initial state is 3 × 4")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"num1": "5"}))
	msg = liveMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 20, msg.Equation.Result)
	assert.Empty(t, msg.Explanation)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"operation": "divide", "explain": true}))
	msg = liveMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, models.SymbolDivide, msg.Equation.Symbol)
	assert.Equal(t, 20, msg.Equation.A)
	assert.Equal(t, 5, msg.Equation.B)
	assert.Equal(t, "Sharing cookies 🍪", msg.Explanation)
	assert.Len(t, gen.calls(), 1)
}

func TestLiveKeepsStateOnBadOperation(t *testing.T) {
	conn := dialLive(t, setupRouter(&fakeGenerator{}))

	var msg liveMessage
	require.NoError(t, conn.ReadJSON(&msg))

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"num2": 6}))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, 18, msg.Equation.Result)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"num1": 9, "operation": "power"}))
	msg = liveMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.NotEmpty(t, msg.Error)
	assert.Equal(t, 18, msg.Equation.Result)
}

func TestAppMetadata(t *testing.T) {
	app := NewApp(nil)

	assert.Equal(t, "visualizer", app.GetName())
	assert.NotEmpty(t, app.GetDisplayName())
	assert.NoError(t, app.Init(context.Background()))
}
