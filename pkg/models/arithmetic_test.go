package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input    string
		expected Operation
		wantErr  bool
	}{
		{"multiply", OperationMultiply, false},
		{"Multiply", OperationMultiply, false},
		{"×", OperationMultiply, false},
		{"x", OperationMultiply, false},
		{"divide", OperationDivide, false},
		{" ÷ ", OperationDivide, false},
		{"/", OperationDivide, false},
		{"mixed", OperationMixed, false},
		{"addition", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseOperation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, op)
		})
	}
}

func TestOperationConcrete(t *testing.T) {
	assert.Equal(t, OperationMultiply, OperationMultiply.Concrete())
	assert.Equal(t, OperationDivide, OperationDivide.Concrete())
	assert.Equal(t, OperationDivide, OperationMixed.Concrete())
	assert.Equal(t, SymbolMultiply, OperationMultiply.Symbol())
	assert.Equal(t, SymbolDivide, OperationMixed.Symbol())
	assert.False(t, Operation("add").Valid())
}

func TestMathProblemCheck(t *testing.T) {
	tests := []struct {
		name    string
		problem MathProblem
		wantErr bool
	}{
		{"valid multiply", MathProblem{FirstOperand: 3, SecondOperand: 4, Operator: SymbolMultiply, Answer: 12}, false},
		{"wrong multiply", MathProblem{FirstOperand: 3, SecondOperand: 4, Operator: SymbolMultiply, Answer: 13}, true},
		{"valid divide", MathProblem{FirstOperand: 12, SecondOperand: 3, Operator: SymbolDivide, Answer: 4}, false},
		{"remainder divide", MathProblem{FirstOperand: 13, SecondOperand: 3, Operator: SymbolDivide, Answer: 4}, true},
		{"unknown operator", MathProblem{FirstOperand: 1, SecondOperand: 1, Operator: "+", Answer: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.problem.Check()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMathProblemFormatting(t *testing.T) {
	p := MathProblem{FirstOperand: 12, SecondOperand: 3, Operator: SymbolDivide, Answer: 4}
	assert.Equal(t, "12 ÷ 3 = ", p.Question())
	assert.Equal(t, "12 ÷ 3 = 4", p.String())
}

func TestWorksheetWithoutAnswers(t *testing.T) {
	ws := Worksheet{
		ID:       "ws",
		Problems: []MathProblem{{ID: "a", FirstOperand: 2, SecondOperand: 3, Operator: SymbolMultiply, Answer: 6}},
	}

	hidden := ws.WithoutAnswers()

	assert.Equal(t, 0, hidden.Problems[0].Answer)
	assert.Equal(t, 6, ws.Problems[0].Answer, "input worksheet must not be mutated")
}

func TestDefaultWorksheetConfig(t *testing.T) {
	cfg := DefaultWorksheetConfig()
	assert.Equal(t, 40, cfg.Count)
	assert.Equal(t, 9, cfg.MaxNumber)
	assert.Equal(t, OperationMultiply, cfg.Operation)
}
