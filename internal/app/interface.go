package app

import (
	"context"

	"github.com/gin-gonic/gin"
)

// App is a feature mounted under /api/<name>.
type App interface {
	// GetName returns the app's route segment (e.g. "visualizer").
	GetName() string

	GetDisplayName() string
	GetDescription() string
	GetVersion() string

	// RegisterRoutes adds the app's endpoints. The group is already scoped to
	// /api/<name>, so handlers register relative paths:
	// router.GET("/display", handler)  ->  /api/visualizer/display
	RegisterRoutes(router *gin.RouterGroup)

	// Init prepares app state (tables, backends). Called once on registration.
	Init(ctx context.Context) error
}

// Pinger is implemented by apps whose readiness depends on a backing
// resource.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Metadata holds app information for discovery.
type Metadata struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Path        string `json:"path"`
	Status      string `json:"status"`
}
