package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/jgirmay/mathlab/internal/common/validation"
)

// Operand input bounds.
const (
	MinOperand = 1
	MaxOperand = 12
)

// ClampOperand bounds an operand to [MinOperand, MaxOperand].
func ClampOperand(n int) int {
	return validation.ClampInt(n, MinOperand, MaxOperand)
}

// ClampOperandFloat bounds a JSON number before it is truncated, so values
// beyond the int range still land on MaxOperand.
func ClampOperandFloat(f float64) int {
	if math.IsNaN(f) {
		return MinOperand
	}
	return int(math.Trunc(math.Max(MinOperand, math.Min(MaxOperand, f))))
}

// ParseOperand reads a typed operand the way a browser number box is read:
// the leading integer is used ("4.5" is 4, "7abc" is 7), input without one
// becomes 1, and the result is clamped.
func ParseOperand(raw string) int {
	prefix := integerPrefix(strings.TrimSpace(raw))
	if prefix == "" {
		return MinOperand
	}

	n, err := strconv.Atoi(prefix)
	if errors.Is(err, strconv.ErrRange) {
		if prefix[0] == '-' {
			return MinOperand
		}
		return MaxOperand
	}
	if err != nil {
		return MinOperand
	}
	return ClampOperand(n)
}

// integerPrefix returns the optional sign and leading digits of s, or ""
// when s does not start with a number.
func integerPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return ""
	}
	return s[:i]
}
