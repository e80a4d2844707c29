package services

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jgirmay/mathlab/internal/metrics"
	"github.com/jgirmay/mathlab/pkg/models"
)

const (
	// MinMaxNumber is the smallest usable difficulty ceiling; the multiply
	// branch draws one operand from [2, maxNumber].
	MinMaxNumber = 2
	// maxFactor bounds the second multiplication operand and every
	// division answer.
	maxFactor = 9
)

// RandSource supplies random integers in [0, n).
type RandSource interface {
	Intn(n int) int
}

// globalSource uses the package-level math/rand functions, which are safe for
// concurrent use.
type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// Generator builds worksheet problem batches.
type Generator struct {
	rnd   RandSource
	newID func() string
	now   func() time.Time
}

type Option func(*Generator)

// WithRandSource injects a random source, typically a seeded *rand.Rand in
// tests. A *rand.Rand is not safe for concurrent use.
func WithRandSource(r RandSource) Option {
	return func(g *Generator) { g.rnd = r }
}

// WithIDFunc overrides problem and worksheet id generation.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rnd:   globalSource{},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns cfg.Count problems; an empty slice when Count <= 0.
// A MaxNumber below 2 is treated as 2. cfg is not modified.
func (g *Generator) Generate(cfg models.WorksheetConfig) []models.MathProblem {
	if cfg.Count <= 0 {
		return []models.MathProblem{}
	}

	maxNumber := cfg.MaxNumber
	if maxNumber < MinMaxNumber {
		maxNumber = MinMaxNumber
	}

	problems := make([]models.MathProblem, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var p models.MathProblem
		if g.pickMultiply(cfg.Operation) {
			p = g.multiplication(maxNumber)
		} else {
			p = g.division(maxNumber)
		}
		p.ID = g.newID()
		metrics.ProblemsGenerated.WithLabelValues(p.Operator).Inc()
		problems = append(problems, p)
	}
	return problems
}

// NewWorksheet generates a batch and wraps it as the session's worksheet.
// An empty id gets a fresh one.
func (g *Generator) NewWorksheet(id string, cfg models.WorksheetConfig) models.Worksheet {
	if id == "" {
		id = g.newID()
	}
	metrics.WorksheetsGenerated.Inc()
	return models.Worksheet{
		ID:        id,
		Config:    cfg,
		Problems:  g.Generate(cfg),
		Density:   Density(cfg.Count),
		CreatedAt: g.now().UTC(),
	}
}

func (g *Generator) pickMultiply(op models.Operation) bool {
	switch op {
	case models.OperationMultiply:
		return true
	case models.OperationDivide:
		return false
	default:
		return g.rnd.Intn(2) == 0
	}
}

func (g *Generator) multiplication(maxNumber int) models.MathProblem {
	first := g.between(2, maxNumber)
	second := g.between(1, maxFactor)
	answer := first * second

	// Swapping only changes presentation.
	if g.rnd.Intn(2) == 0 {
		first, second = second, first
	}

	return models.MathProblem{
		FirstOperand:  first,
		SecondOperand: second,
		Operator:      models.SymbolMultiply,
		Answer:        answer,
	}
}

// division picks the answer and divisor first and derives the dividend, so
// the result is always a whole number.
func (g *Generator) division(maxNumber int) models.MathProblem {
	answer := g.between(1, maxFactor)
	divisor := g.between(2, maxNumber)

	return models.MathProblem{
		FirstOperand:  answer * divisor,
		SecondOperand: divisor,
		Operator:      models.SymbolDivide,
		Answer:        answer,
	}
}

// between returns a random integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}
