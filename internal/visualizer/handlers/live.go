package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jgirmay/mathlab/internal/metrics"
	"github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/pkg/logger"
)

// liveMessage is sent after every client message.
type liveMessage struct {
	services.View
	Explanation string `json:"explanation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Live upgrades to a websocket that holds one visualizer state. Each client
// message updates the state and is answered with the new view; "explain":
// true also requests a story. Reads and writes happen on this goroutine only.
func (a *App) Live(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.WebsocketConnections.Inc()
	defer metrics.WebsocketConnections.Dec()

	ctx := c.Request.Context()
	st := defaultState()

	if err := conn.WriteJSON(liveMessage{View: st.view()}); err != nil {
		return
	}

	for {
		var in visualizerInput
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		next, err := st.apply(in)
		if err != nil {
			if werr := conn.WriteJSON(liveMessage{View: st.view(), Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		st = next

		msg := liveMessage{View: st.view()}
		if in.Explain {
			msg.Explanation = a.explainer.Explain(ctx, msg.Equation.A, msg.Equation.B, msg.Operation)
		}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}
