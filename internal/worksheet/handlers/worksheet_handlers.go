package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/internal/common/middleware"
	"github.com/jgirmay/mathlab/internal/common/validation"
	"github.com/jgirmay/mathlab/internal/worksheet/repository"
	"github.com/jgirmay/mathlab/internal/worksheet/services"
	"github.com/jgirmay/mathlab/pkg/logger"
	"github.com/jgirmay/mathlab/pkg/models"
)

// App serves printable worksheets under /api/worksheet.
type App struct {
	generator *services.Generator
	store     repository.WorksheetStore
	printer   *services.Printer
	defaults  models.WorksheetConfig
	retain    int
}

// NewApp builds the worksheet app. Generating keeps at most retain
// worksheets, evicting the oldest; retain <= 0 keeps everything.
func NewApp(generator *services.Generator, store repository.WorksheetStore, printer *services.Printer, defaults models.WorksheetConfig, retain int) *App {
	return &App{
		generator: generator,
		store:     store,
		printer:   printer,
		defaults:  defaults,
		retain:    retain,
	}
}

func (a *App) GetName() string        { return "worksheet" }
func (a *App) GetDisplayName() string { return "Worksheet Generator" }
func (a *App) GetDescription() string {
	return "Generates printable multiplication and division practice sheets"
}
func (a *App) GetVersion() string { return "1.0.0" }

func (a *App) Init(ctx context.Context) error {
	if err := a.store.Ping(ctx); err != nil {
		return fmt.Errorf("worksheet store: %w", err)
	}
	logger.Info("worksheet generator ready",
		zap.Int("default_count", a.defaults.Count),
		zap.Int("default_max_number", a.defaults.MaxNumber),
		zap.String("default_operation", string(a.defaults.Operation)),
		zap.Int("retain", a.retain))
	return nil
}

// Ping reports whether the worksheet store answers.
func (a *App) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

func (a *App) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/options", a.Options)
	router.POST("/generate", a.Generate)
	router.GET("/:id", a.Get)
	router.DELETE("/:id", a.Delete)
	router.POST("/:id/refresh", a.Refresh)
	router.GET("/:id/print", a.Print)
}

// GenerateRequest chooses a worksheet. Zero values take the configured
// defaults; anything else must be one of the offered choices.
type GenerateRequest struct {
	Count     int    `json:"count" validate:"omitempty,oneof=10 20 30 40 50 100"`
	MaxNumber int    `json:"max_number" validate:"omitempty,oneof=5 9 12 20"`
	Operation string `json:"operation" validate:"omitempty,oneof=multiply divide mixed"`
}

func (r GenerateRequest) config(defaults models.WorksheetConfig) models.WorksheetConfig {
	cfg := defaults
	if r.Count != 0 {
		cfg.Count = r.Count
	}
	if r.MaxNumber != 0 {
		cfg.MaxNumber = r.MaxNumber
	}
	if r.Operation != "" {
		cfg.Operation = models.Operation(r.Operation)
	}
	return cfg
}

// WorksheetResponse is a worksheet plus what a client needs to lay it out.
type WorksheetResponse struct {
	models.Worksheet
	Title       string          `json:"title"`
	Layout      services.Layout `json:"layout"`
	ShowAnswers bool            `json:"show_answers"`
}

func (a *App) respond(c *gin.Context, status int, ws models.Worksheet) {
	show := showAnswers(c)
	if !show {
		ws = ws.WithoutAnswers()
	}
	c.JSON(status, WorksheetResponse{
		Worksheet:   ws,
		Title:       services.WorksheetTitle(ws.Config.Operation),
		Layout:      services.LayoutFor(ws.Density),
		ShowAnswers: show,
	})
}

// Options returns the drop-down choices and defaults.
func (a *App) Options(c *gin.Context) {
	c.JSON(http.StatusOK, services.WorksheetOptions(a.defaults))
}

// Generate creates a new worksheet and stores it.
func (a *App) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}
	if errs := validation.Validate(req); len(errs) > 0 {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid worksheet options", validation.Summary(errs)))
		return
	}

	ws := a.generator.NewWorksheet("", req.config(a.defaults))
	if err := a.store.Save(c.Request.Context(), ws); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	logger.Debug("worksheet generated",
		zap.String("id", ws.ID),
		zap.Int("count", ws.Config.Count),
		zap.String("operation", string(ws.Config.Operation)))

	a.prune(c.Request.Context())
	a.respond(c, http.StatusCreated, ws)
}

// prune keeps the store within the retention limit. A failure is logged; the
// new worksheet is already saved.
func (a *App) prune(ctx context.Context) {
	removed, err := a.store.Prune(ctx, a.retain)
	if err != nil {
		logger.Warn("failed to prune worksheets", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Debug("worksheets evicted", zap.Int64("removed", removed), zap.Int("retain", a.retain))
	}
}

// Delete discards a stored worksheet.
func (a *App) Delete(c *gin.Context) {
	if err := a.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get returns a stored worksheet. Answers are hidden unless show_answers is
// set.
func (a *App) Get(c *gin.Context) {
	ws, err := a.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	a.respond(c, http.StatusOK, ws)
}

// Refresh replaces the worksheet's problems with a new batch from the same
// configuration, keeping its id.
func (a *App) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	current, err := a.store.Get(ctx, c.Param("id"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	ws := a.generator.NewWorksheet(current.ID, current.Config)
	if err := a.store.Save(ctx, ws); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	a.respond(c, http.StatusOK, ws)
}

// Print renders the worksheet as a PDF.
func (a *App) Print(c *gin.Context) {
	ws, err := a.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	var buf bytes.Buffer
	if err := a.printer.Render(&buf, ws, showAnswers(c)); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Internal("failed to render worksheet", err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="worksheet-%s.pdf"`, ws.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func showAnswers(c *gin.Context) bool {
	show, err := strconv.ParseBool(c.DefaultQuery("show_answers", "false"))
	return err == nil && show
}
