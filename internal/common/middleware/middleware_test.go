package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware(), LoggerMiddleware(), MetricsMiddleware(), ErrorHandler())

	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/missing", func(c *gin.Context) { JSONErrorResponse(c, apperrors.NotFound("worksheet")) })
	router.GET("/plain", func(c *gin.Context) { JSONErrorResponse(c, errors.New("disk full")) })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	w := serve(setupRouter(), http.MethodGet, "/panic")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body apperrors.AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInternalError, body.Code)
}

func TestJSONErrorResponse(t *testing.T) {
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/missing", http.StatusNotFound, apperrors.CodeNotFound},
		{"/plain", http.StatusInternalServerError, apperrors.CodeInternalError},
	}

	router := setupRouter()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path)

			require.Equal(t, tt.status, w.Code)
			var body apperrors.AppError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	router := setupRouter()

	w := serve(router, http.MethodOptions, "/ok")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
