package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/internal/common/middleware"
	"github.com/jgirmay/mathlab/internal/explain"
	"github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/pkg/logger"
	"github.com/jgirmay/mathlab/pkg/models"
)

// App serves the multiplication/division visualizer under /api/visualizer.
type App struct {
	explainer *explain.Explainer
	upgrader  websocket.Upgrader
}

func NewApp(explainer *explain.Explainer) *App {
	if explainer == nil {
		explainer = explain.New(nil)
	}
	return &App{
		explainer: explainer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (a *App) GetName() string        { return "visualizer" }
func (a *App) GetDisplayName() string { return "Math Visualizer" }
func (a *App) GetDescription() string {
	return "Draws multiplication and division as colored groups and explains them with a short story"
}
func (a *App) GetVersion() string { return "1.0.0" }

func (a *App) Init(ctx context.Context) error {
	logger.Info("visualizer ready", zap.String("ai_backend", a.explainer.Backend()))
	return nil
}

func (a *App) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/display", a.Display)
	router.POST("/explain", a.Explain)
	router.GET("/ws", a.Live)
}

// Display returns the equation and groups for query parameters num1, num2
// and operation. Missing operands get the visualizer defaults.
func (a *App) Display(c *gin.Context) {
	op := models.OperationMultiply
	if raw := c.Query("operation"); raw != "" {
		parsed, err := models.ParseOperation(raw)
		if err != nil {
			middleware.JSONErrorResponse(c, apperrors.Validation("invalid operation", err.Error()))
			return
		}
		op = parsed
	}

	num1 := queryOperand(c.Query("num1"), services.DefaultNum1)
	num2 := queryOperand(c.Query("num2"), services.DefaultNum2)

	c.JSON(http.StatusOK, services.BuildView(num1, num2, op))
}

type explainResponse struct {
	Equation    models.DisplayEquation `json:"equation"`
	Explanation string                 `json:"explanation"`
}

// Explain asks the text generator for a story about the displayed equation.
// Generator failures still answer 200 with the fallback text.
func (a *App) Explain(c *gin.Context) {
	var in visualizerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid request body", err.Error()))
		return
	}

	st, err := defaultState().apply(in)
	if err != nil {
		middleware.JSONErrorResponse(c, apperrors.Validation("invalid operation", err.Error()))
		return
	}

	view := st.view()
	text := a.explainer.Explain(c.Request.Context(), view.Equation.A, view.Equation.B, view.Operation)

	c.JSON(http.StatusOK, explainResponse{
		Equation:    view.Equation,
		Explanation: text,
	})
}
