// Package server wires configuration, storage, the explanation backend and
// the HTTP apps into one gin engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jgirmay/mathlab/internal/app"
	"github.com/jgirmay/mathlab/internal/common/database"
	"github.com/jgirmay/mathlab/internal/common/middleware"
	"github.com/jgirmay/mathlab/internal/docs"
	"github.com/jgirmay/mathlab/internal/explain"
	"github.com/jgirmay/mathlab/internal/health"
	"github.com/jgirmay/mathlab/internal/metrics"
	visualizer "github.com/jgirmay/mathlab/internal/visualizer/handlers"
	worksheet "github.com/jgirmay/mathlab/internal/worksheet/handlers"
	"github.com/jgirmay/mathlab/internal/worksheet/repository"
	"github.com/jgirmay/mathlab/internal/worksheet/services"
	"github.com/jgirmay/mathlab/pkg/config"
	"github.com/jgirmay/mathlab/pkg/logger"
)

const (
	Version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	cfg       *config.Config
	db        *gorm.DB
	engine    *gin.Engine
	registry  *app.Registry
	explainer *explain.Explainer
}

// NewExplainer builds the configured explanation backend. A backend that
// cannot be built (a missing API key, say) is logged and replaced by one
// that always yields the fallback text.
func NewExplainer(ctx context.Context, cfg config.AIConfig) *explain.Explainer {
	gen, err := explain.NewGenerator(ctx, cfg)
	if err != nil {
		logger.Warn("explanations disabled",
			zap.String("provider", cfg.Provider),
			zap.Error(err))
		return explain.New(explain.Unavailable{Reason: err.Error()})
	}
	return explain.New(gen)
}

// New opens the worksheet database and registers every app.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	store, err := repository.NewWorksheetStore(db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		db:        db,
		registry:  app.NewRegistry(),
		explainer: NewExplainer(ctx, cfg.AI),
	}

	apps := []app.App{
		visualizer.NewApp(s.explainer),
		worksheet.NewApp(
			services.NewGenerator(),
			store,
			services.NewPrinter(services.DefaultPrintConfig()),
			cfg.WorksheetDefaults(),
			cfg.Worksheet.Retain,
		),
	}
	for _, a := range apps {
		if err := s.registry.Register(ctx, a); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("register %s: %w", a.GetName(), err)
		}
	}

	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	if s.cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.ErrorHandler())

	checker := health.NewHealthChecker(func(ctx context.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, s.registry, s.explainer.Backend())
	health.NewHealthHandler(checker).RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/apps", s.registry.AppsEndpoint())
	s.registry.RegisterRoutes(api)

	docs.NewDocumentationHandler(router, s.registry, Version).RegisterRoutes(router)

	return router
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Explainer returns the explanation service the apps share.
func (s *Server) Explainer() *explain.Explainer { return s.explainer }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.engine,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting mathlab server",
			zap.String("address", srv.Addr),
			zap.String("env", s.cfg.Server.Env),
			zap.String("ai_backend", s.explainer.Backend()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Server) Close() error {
	return database.Close(s.db)
}
