package health

import (
	"context"
	"fmt"
	"time"

	appmodule "github.com/jgirmay/mathlab/internal/app"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
	StatusNotFound  = "not_found"
)

// HealthStatus is the overall report served at /api/health.
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Message   string                   `json:"message"`
	Services  map[string]ServiceHealth `json:"services"`
	Apps      map[string]AppHealth     `json:"apps"`
	Uptime    string                   `json:"uptime"`
}

type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Latency string `json:"latency_ms,omitempty"`
}

type AppHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// PingFunc reports whether a dependency answers.
type PingFunc func(ctx context.Context) error

// HealthChecker checks the worksheet database, reports the explanation
// backend and asks every app that can be pinged.
type HealthChecker struct {
	ping      PingFunc
	registry  *appmodule.Registry
	aiBackend string
	timeout   time.Duration
	startTime time.Time
}

// NewHealthChecker builds a checker. aiBackend is the explanation backend's
// name; "unavailable" is reported as disabled without degrading the service,
// since explanations fall back to a fixed message.
func NewHealthChecker(ping PingFunc, registry *appmodule.Registry, aiBackend string) *HealthChecker {
	return &HealthChecker{
		ping:      ping,
		registry:  registry,
		aiBackend: aiBackend,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// Check performs a complete health check.
func (hc *HealthChecker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Services:  make(map[string]ServiceHealth),
		Apps:      make(map[string]AppHealth),
		Uptime:    hc.calculateUptime(),
	}

	dbHealth := hc.checkDatabase(ctx)
	status.Services["database"] = dbHealth
	status.Services["ai"] = hc.checkAI()

	unhealthyApps := 0
	for _, app := range hc.registry.Apps() {
		appHealth := hc.checkApp(ctx, app)
		if appHealth.Status != StatusHealthy {
			unhealthyApps++
		}
		status.Apps[app.GetName()] = appHealth
	}

	switch {
	case len(status.Apps) == 0:
		status.Status = StatusDegraded
		status.Message = "No apps registered"
	case dbHealth.Status == StatusUnhealthy:
		status.Status = StatusDegraded
		status.Message = "Database connectivity issue"
	case unhealthyApps > 0:
		status.Status = StatusDegraded
		status.Message = fmt.Sprintf("%d of %d apps unhealthy", unhealthyApps, len(status.Apps))
	default:
		status.Message = fmt.Sprintf("System operating normally with %d apps", len(status.Apps))
	}

	return status
}

func (hc *HealthChecker) checkDatabase(ctx context.Context) ServiceHealth {
	if hc.ping == nil {
		return ServiceHealth{Status: StatusDisabled, Message: "No database configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	start := time.Now()
	err := hc.ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ServiceHealth{
			Status:  StatusUnhealthy,
			Message: "Database connection failed: " + err.Error(),
			Latency: fmt.Sprintf("%d", latency.Milliseconds()),
		}
	}
	return ServiceHealth{
		Status:  StatusHealthy,
		Message: "Database connection successful",
		Latency: fmt.Sprintf("%d", latency.Milliseconds()),
	}
}

func (hc *HealthChecker) checkAI() ServiceHealth {
	if hc.aiBackend == "" || hc.aiBackend == "unavailable" {
		return ServiceHealth{Status: StatusDisabled, Message: "Explanations use the fallback message"}
	}
	return ServiceHealth{Status: StatusHealthy, Message: "Backend: " + hc.aiBackend}
}

func (hc *HealthChecker) checkApp(ctx context.Context, app appmodule.App) AppHealth {
	h := AppHealth{
		Name:    app.GetName(),
		Status:  StatusHealthy,
		Version: app.GetVersion(),
	}
	if p, ok := app.(appmodule.Pinger); ok {
		ctx, cancel := context.WithTimeout(ctx, hc.timeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.Status = StatusUnhealthy
			h.Message = err.Error()
		}
	}
	return h
}

// CheckApp checks a single app by name.
func (hc *HealthChecker) CheckApp(ctx context.Context, appName string) *AppHealth {
	app, err := hc.registry.GetApp(appName)
	if err != nil {
		return &AppHealth{Name: appName, Status: StatusNotFound}
	}
	h := hc.checkApp(ctx, app)
	return &h
}

func (hc *HealthChecker) calculateUptime() string {
	elapsed := time.Since(hc.startTime)

	days := int(elapsed.Hours()) / 24
	hours := int(elapsed.Hours()) % 24
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
