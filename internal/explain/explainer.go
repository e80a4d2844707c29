// Package explain asks a generative-text service for a short story that
// illustrates a multiplication or division problem for a young child.
package explain

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jgirmay/mathlab/internal/metrics"
	"github.com/jgirmay/mathlab/pkg/logger"
	"github.com/jgirmay/mathlab/pkg/models"
)

// Fallback texts shown instead of a story.
const (
	FallbackEmpty = "Oops! I couldn't think of a story right now. Try again!"
	FallbackError = "Sorry, I'm having trouble connecting to the story-telling brain right now."
)

// TextGenerator is a single request/response call to a text-generation
// service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Explainer turns a problem into a story. It never returns an error: service
// failures come back as fallback text.
type Explainer struct {
	gen TextGenerator
}

func New(gen TextGenerator) *Explainer {
	if gen == nil {
		gen = Unavailable{Reason: "no text generator configured"}
	}
	return &Explainer{gen: gen}
}

// Backend names the configured text generator.
func (e *Explainer) Backend() string {
	return e.gen.Name()
}

// Explain issues exactly one call to the text generator. Repeated calls with
// the same arguments are expected to return different stories.
func (e *Explainer) Explain(ctx context.Context, a, b int, op models.Operation) string {
	prompt := BuildPrompt(a, b, op)

	start := time.Now()
	text, err := e.gen.Generate(ctx, prompt)
	metrics.ExplanationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ExplanationRequests.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Error("text generation failed",
			zap.String("backend", e.gen.Name()),
			zap.Int("a", a),
			zap.Int("b", b),
			zap.String("operation", string(op.Concrete())),
			zap.Error(err),
		)
		return FallbackError
	}

	// A whitespace-only reply would render as an empty story, so it counts as empty.
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ExplanationRequests.WithLabelValues(metrics.OutcomeEmpty).Inc()
		logger.Warn("text generation returned no text", zap.String("backend", e.gen.Name()))
		return FallbackEmpty
	}

	metrics.ExplanationRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return text
}
