package app

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgirmay/mathlab/pkg/logger"
)

// Registry manages the mounted apps.
type Registry struct {
	apps     map[string]App
	metadata map[string]Metadata
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		apps:     make(map[string]App),
		metadata: make(map[string]Metadata),
	}
}

// Register initializes and records an app. Names must be unique.
func (r *Registry) Register(ctx context.Context, instance App) error {
	if instance == nil {
		return fmt.Errorf("cannot register nil app")
	}
	name := instance.GetName()
	if name == "" {
		return fmt.Errorf("app has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.apps[name]; exists {
		return fmt.Errorf("app %s already registered", name)
	}

	if err := instance.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", name, err)
	}

	r.apps[name] = instance
	r.metadata[name] = Metadata{
		Name:        name,
		DisplayName: instance.GetDisplayName(),
		Description: instance.GetDescription(),
		Version:     instance.GetVersion(),
		Path:        "/api/" + name,
		Status:      "active",
	}

	logger.Info("app registered",
		zap.String("app", name),
		zap.String("version", instance.GetVersion()))
	return nil
}

func (r *Registry) GetApp(name string) (App, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, exists := r.apps[name]
	if !exists {
		return nil, fmt.Errorf("app %s not found", name)
	}
	return app, nil
}

func (r *Registry) GetMetadata(name string) (Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata, exists := r.metadata[name]
	if !exists {
		return Metadata{}, fmt.Errorf("metadata for %s not found", name)
	}
	return metadata, nil
}

// ListApps returns a copy of all app metadata keyed by name.
func (r *Registry) ListApps() map[string]Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Metadata, len(r.metadata))
	for name, metadata := range r.metadata {
		result[name] = metadata
	}
	return result
}

// Apps returns the registered apps sorted by name.
func (r *Registry) Apps() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]App, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].GetName() < apps[j].GetName() })
	return apps
}

// RegisterRoutes mounts every app under apiRouter, which is expected to be
// the /api group.
func (r *Registry) RegisterRoutes(apiRouter *gin.RouterGroup) {
	for _, app := range r.Apps() {
		app.RegisterRoutes(apiRouter.Group("/" + app.GetName()))
		logger.Debug("app routes registered", zap.String("app", app.GetName()))
	}
}

func (r *Registry) GetAppCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}

// AppsEndpoint lists all apps as JSON for discovery.
func (r *Registry) AppsEndpoint() gin.HandlerFunc {
	return func(c *gin.Context) {
		apps := r.ListApps()
		c.JSON(http.StatusOK, gin.H{
			"apps":  apps,
			"count": len(apps),
		})
	}
}
