package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/internal/common/middleware"
)

// HealthHandler provides the health endpoints.
type HealthHandler struct {
	checker *HealthChecker
}

func NewHealthHandler(checker *HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// RegisterRoutes mounts /health for load balancers and the detailed
// /api/health group.
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.handleLiveness)

	health := engine.Group("/api/health")
	{
		health.GET("", h.handleHealthStatus)
		health.GET("/live", h.handleLiveness)
		health.GET("/ready", h.handleReadiness)
		health.GET("/apps/:appName", h.handleAppHealth)
	}
}

func (h *HealthHandler) handleHealthStatus(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())

	httpStatus := http.StatusOK
	if status.Status != StatusHealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}

func (h *HealthHandler) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"message": "Service is running",
	})
}

func (h *HealthHandler) handleReadiness(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())
	if status.Status != StatusHealthy {
		middleware.JSONErrorResponse(c, apperrors.Unavailable("Service is not ready: "+status.Message))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"message": "Service is ready to serve requests",
	})
}

func (h *HealthHandler) handleAppHealth(c *gin.Context) {
	appName := c.Param("appName")
	appHealth := h.checker.CheckApp(c.Request.Context(), appName)

	if appHealth.Status == StatusNotFound {
		middleware.JSONErrorResponse(c, apperrors.NotFound("app "+appName))
		return
	}

	httpStatus := http.StatusOK
	if appHealth.Status != StatusHealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, appHealth)
}
