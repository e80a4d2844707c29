package services

import (
	"fmt"

	"github.com/jgirmay/mathlab/pkg/models"
)

// Default operands and mode a fresh visualizer starts with.
const (
	DefaultNum1 = 3
	DefaultNum2 = 4
)

// DeriveDisplay turns the two operand inputs into the equation shown on
// screen. Operands must already be clamped to [MinOperand, MaxOperand].
//
// In divide mode num1 is the number of groups and num2 the items per group,
// so the shown equation is (num1*num2) ÷ num1 = num2 and never has a
// remainder.
func DeriveDisplay(num1, num2 int, op models.Operation) models.DisplayEquation {
	if op == models.OperationMultiply {
		return models.DisplayEquation{
			A:      num1,
			B:      num2,
			Result: num1 * num2,
			Symbol: models.SymbolMultiply,
			Label:  fmt.Sprintf("%d groups of %d", num1, num2),
		}
	}

	total := num1 * num2
	return models.DisplayEquation{
		A:      total,
		B:      num1,
		Result: num2,
		Symbol: models.SymbolDivide,
		Label:  fmt.Sprintf("%d shared by %d", total, num1),
	}
}

// InputLabels names the two operand inputs for the given mode.
func InputLabels(op models.Operation) (first, second string) {
	if op == models.OperationMultiply {
		return "Groups", "Items/Group"
	}
	return "Friends (Divisor)", "Answer (Result)"
}
