package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgirmay/mathlab/internal/common/database"
	"github.com/jgirmay/mathlab/internal/common/middleware"
	"github.com/jgirmay/mathlab/internal/worksheet/repository"
	"github.com/jgirmay/mathlab/internal/worksheet/services"
	"github.com/jgirmay/mathlab/pkg/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := newRouter(t, 0)
	return router
}

func newRouter(t *testing.T, retain int) (*gin.Engine, repository.WorksheetStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store, err := repository.NewWorksheetStore(db)
	require.NoError(t, err)

	app := NewApp(
		services.NewGenerator(services.WithRandSource(rand.New(rand.NewSource(1)))),
		store,
		services.NewPrinter(services.DefaultPrintConfig()),
		models.DefaultWorksheetConfig(),
		retain,
	)
	require.NoError(t, app.Init(context.Background()))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	app.RegisterRoutes(router.Group("/api/worksheet"))
	return router, store
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) WorksheetResponse {
	t.Helper()
	var resp WorksheetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func generate(t *testing.T, router *gin.Engine, body string) WorksheetResponse {
	t.Helper()
	w := do(router, http.MethodPost, "/api/worksheet/generate", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func TestOptions(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/worksheet/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	var opts services.Options
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Len(t, opts.Counts, 6)
	assert.Equal(t, models.DefaultWorksheetConfig(), opts.Defaults)
}

func TestGenerate(t *testing.T) {
	router := setupRouter(t)

	resp := generate(t, router, `{"count": 20, "max_number": 12, "operation": "divide"}`)

	assert.NotEmpty(t, resp.ID)
	assert.Len(t, resp.Problems, 20)
	assert.Equal(t, services.DensitySparse, resp.Density)
	assert.Equal(t, "Division Practice", resp.Title)
	assert.False(t, resp.ShowAnswers)
	for _, p := range resp.Problems {
		assert.Equal(t, models.SymbolDivide, p.Operator)
		assert.Zero(t, p.Answer, "answers hidden by default")
	}
}

func TestGenerateDefaults(t *testing.T) {
	router := setupRouter(t)

	resp := generate(t, router, `{}`)

	assert.Equal(t, models.DefaultWorksheetConfig(), resp.Config)
	assert.Len(t, resp.Problems, 40)
	assert.Equal(t, services.DensityMedium, resp.Density)
}

func TestGenerateValidation(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"count not offered", `{"count": 7}`},
		{"max not offered", `{"max_number": 3}`},
		{"unknown operation", `{"operation": "add"}`},
		{"malformed", `{"count": `},
		{"wrong type", `{"count": "ten"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/worksheet/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		})
	}
}

func TestGetWithAnswers(t *testing.T) {
	router := setupRouter(t)
	created := generate(t, router, `{"count": 10, "operation": "multiply"}`)

	w := do(router, http.MethodGet, "/api/worksheet/"+created.ID+"?show_answers=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.ShowAnswers)
	require.Len(t, resp.Problems, 10)
	for i, p := range resp.Problems {
		assert.NoError(t, p.Check())
		assert.Equal(t, created.Problems[i].ID, p.ID)
	}
}

func TestGetNotFound(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/worksheet/does-not-exist", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRefresh(t *testing.T) {
	router := setupRouter(t)
	created := generate(t, router, `{"count": 30, "max_number": 5, "operation": "mixed"}`)

	w := do(router, http.MethodPost, "/api/worksheet/"+created.ID+"/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := decode(t, w)

	assert.Equal(t, created.ID, refreshed.ID)
	assert.Equal(t, created.Config, refreshed.Config)
	assert.Len(t, refreshed.Problems, 30)
	assert.NotEqual(t, created.Problems[0].ID, refreshed.Problems[0].ID)

	w = do(router, http.MethodGet, "/api/worksheet/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, refreshed.Problems[0].ID, decode(t, w).Problems[0].ID)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/worksheet/missing/refresh", "").Code)
}

func TestDelete(t *testing.T) {
	router := setupRouter(t)
	created := generate(t, router, `{"count": 10}`)

	w := do(router, http.MethodDelete, "/api/worksheet/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/worksheet/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/worksheet/"+created.ID, "").Code)
}

func TestGenerateEvictsOldest(t *testing.T) {
	router, store := newRouter(t, 3)

	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, generate(t, router, `{"count": 10}`).ID)
	}

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/worksheet/"+ids[0], "").Code)
	for _, id := range ids[7:] {
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/worksheet/"+id, "").Code)
	}
}

func TestPrint(t *testing.T) {
	router := setupRouter(t)
	created := generate(t, router, `{"count": 10}`)

	w := do(router, http.MethodGet, "/api/worksheet/"+created.ID+"/print?show_answers=true", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/worksheet/missing/print", "").Code)
}

func TestGenerateRequestConfig(t *testing.T) {
	defaults := models.DefaultWorksheetConfig()

	assert.Equal(t, defaults, GenerateRequest{}.config(defaults))
	assert.Equal(t,
		models.WorksheetConfig{Count: 100, MaxNumber: 20, Operation: models.OperationMixed},
		GenerateRequest{Count: 100, MaxNumber: 20, Operation: "mixed"}.config(defaults))
}
