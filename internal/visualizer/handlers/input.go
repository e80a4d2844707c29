package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/pkg/models"
)

// Operand accepts a JSON number or a string as typed into an input box.
// Strings that are not numbers read as 1; all values are clamped.
type Operand int

func (o *Operand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*o = Operand(services.ParseOperand(raw))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*o = Operand(services.ClampOperandFloat(f))
	return nil
}

// visualizerInput is the body of the explain endpoint and of websocket
// messages. Missing fields keep their previous (or default) value.
type visualizerInput struct {
	Num1      *Operand `json:"num1"`
	Num2      *Operand `json:"num2"`
	Operation string   `json:"operation"`
	Explain   bool     `json:"explain"`
}

// state is the visualizer's current inputs.
type state struct {
	num1 int
	num2 int
	op   models.Operation
}

func defaultState() state {
	return state{num1: services.DefaultNum1, num2: services.DefaultNum2, op: models.OperationMultiply}
}

// apply merges in onto s. An unknown operation is an error and leaves s
// untouched.
func (s state) apply(in visualizerInput) (state, error) {
	if in.Operation != "" {
		op, err := models.ParseOperation(in.Operation)
		if err != nil {
			return s, err
		}
		s.op = op
	}
	if in.Num1 != nil {
		s.num1 = int(*in.Num1)
	}
	if in.Num2 != nil {
		s.num2 = int(*in.Num2)
	}
	return s, nil
}

func (s state) view() services.View {
	return services.BuildView(s.num1, s.num2, s.op)
}

// queryOperand reads a query parameter; an absent value gets the fallback.
func queryOperand(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	return services.ParseOperand(raw)
}
