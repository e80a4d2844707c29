package models

import (
	"fmt"
	"strings"
	"time"
)

// Operation selects which kind of problems are shown or generated.
type Operation string

const (
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
	// OperationMixed is only meaningful at generation time; a single problem
	// is always either a multiplication or a division.
	OperationMixed Operation = "mixed"
)

// Operator symbols used on problems and display equations.
const (
	SymbolMultiply = "×"
	SymbolDivide   = "÷"
)

// ParseOperation accepts the canonical operation names and the common symbols.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiply", "multiplication", SymbolMultiply, "x", "*":
		return OperationMultiply, nil
	case "divide", "division", SymbolDivide, "/":
		return OperationDivide, nil
	case "mixed":
		return OperationMixed, nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	switch op {
	case OperationMultiply, OperationDivide, OperationMixed:
		return true
	}
	return false
}

// Symbol returns the operator symbol for a concrete operation. Anything that
// is not multiply is shown as division.
func (op Operation) Symbol() string {
	if op == OperationMultiply {
		return SymbolMultiply
	}
	return SymbolDivide
}

// Concrete collapses mixed (and anything unknown) to divide, the way the
// visualizer treats every non-multiply mode.
func (op Operation) Concrete() Operation {
	if op == OperationMultiply {
		return OperationMultiply
	}
	return OperationDivide
}

// MathProblem is a single generated worksheet problem.
type MathProblem struct {
	ID            string `json:"id"`
	FirstOperand  int    `json:"first_operand"`
	SecondOperand int    `json:"second_operand"`
	Operator      string `json:"operator"` // × or ÷
	Answer        int    `json:"answer"`
}

// Check verifies the arithmetic for the problem's operator.
func (p MathProblem) Check() error {
	switch p.Operator {
	case SymbolMultiply:
		if p.FirstOperand*p.SecondOperand != p.Answer {
			return fmt.Errorf("problem %s: %d × %d != %d", p.ID, p.FirstOperand, p.SecondOperand, p.Answer)
		}
	case SymbolDivide:
		if p.SecondOperand*p.Answer != p.FirstOperand {
			return fmt.Errorf("problem %s: %d ÷ %d != %d", p.ID, p.FirstOperand, p.SecondOperand, p.Answer)
		}
	default:
		return fmt.Errorf("problem %s: unknown operator %q", p.ID, p.Operator)
	}
	return nil
}

// Question renders the unsolved form, e.g. "6 × 7 = ".
func (p MathProblem) Question() string {
	return fmt.Sprintf("%d %s %d = ", p.FirstOperand, p.Operator, p.SecondOperand)
}

func (p MathProblem) String() string {
	return fmt.Sprintf("%d %s %d = %d", p.FirstOperand, p.Operator, p.SecondOperand, p.Answer)
}

// WorksheetConfig governs problem generation.
type WorksheetConfig struct {
	Count     int       `json:"count" yaml:"count"`
	MaxNumber int       `json:"max_number" yaml:"max_number"`
	Operation Operation `json:"operation" yaml:"operation"`
}

// DefaultWorksheetConfig is the configuration a fresh worksheet starts with.
func DefaultWorksheetConfig() WorksheetConfig {
	return WorksheetConfig{
		Count:     40,
		MaxNumber: 9,
		Operation: OperationMultiply,
	}
}

// DisplayEquation is the visualizer's derived equation. It is recomputed
// from the operands and never stored.
type DisplayEquation struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Result int    `json:"result"`
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

func (e DisplayEquation) String() string {
	return fmt.Sprintf("%d %s %d = %d", e.A, e.Symbol, e.B, e.Result)
}

// Worksheet is the current batch of problems for one session. A regeneration
// replaces it wholesale.
type Worksheet struct {
	ID        string          `json:"id"`
	Config    WorksheetConfig `json:"config"`
	Problems  []MathProblem   `json:"problems"`
	Density   string          `json:"density"`
	CreatedAt time.Time       `json:"created_at"`
}

// WithoutAnswers returns a copy whose problems have zeroed answers, for
// screens that hide the answer key.
func (w Worksheet) WithoutAnswers() Worksheet {
	out := w
	out.Problems = make([]MathProblem, len(w.Problems))
	for i, p := range w.Problems {
		p.Answer = 0
		out.Problems[i] = p
	}
	return out
}
