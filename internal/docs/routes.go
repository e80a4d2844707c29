package docs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appmodule "github.com/jgirmay/mathlab/internal/app"
	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/internal/common/middleware"
)

// DocumentationHandler serves API documentation built from the engine's
// routes at request time.
type DocumentationHandler struct {
	engine   *gin.Engine
	registry *appmodule.Registry
	version  string
}

func NewDocumentationHandler(engine *gin.Engine, registry *appmodule.Registry, version string) *DocumentationHandler {
	return &DocumentationHandler{engine: engine, registry: registry, version: version}
}

func (h *DocumentationHandler) RegisterRoutes(engine *gin.Engine) {
	docs := engine.Group("/api/docs")
	{
		docs.GET("", h.handleDocIndex)
		docs.GET("/openapi.json", h.handleOpenAPISpec)
		docs.GET("/apps/:appName", h.handleAppDetails)
	}
}

func (h *DocumentationHandler) spec() *OpenAPISpec {
	return GenerateOpenAPISpec(h.engine.Routes(), h.registry.ListApps(), h.version)
}

func (h *DocumentationHandler) handleDocIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "mathlab API documentation",
		"links": gin.H{
			"openapi": "/api/docs/openapi.json",
			"apps":    "/api/apps",
		},
	})
}

func (h *DocumentationHandler) handleOpenAPISpec(c *gin.Context) {
	c.JSON(http.StatusOK, h.spec())
}

// handleAppDetails lists the paths that belong to one app.
func (h *DocumentationHandler) handleAppDetails(c *gin.Context) {
	appName := c.Param("appName")
	meta, err := h.registry.GetMetadata(appName)
	if err != nil {
		middleware.JSONErrorResponse(c, apperrors.NotFound("app "+appName))
		return
	}

	paths := make(map[string]PathItem)
	for path, item := range h.spec().Paths {
		for _, op := range item {
			if len(op.Tags) > 0 && op.Tags[0] == appName {
				paths[path] = item
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"app":   meta,
		"paths": paths,
	})
}
