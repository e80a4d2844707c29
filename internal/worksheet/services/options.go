package services

import "github.com/jgirmay/mathlab/pkg/models"

// Choice is one entry of a drop-down.
type Choice struct {
	Value interface{} `json:"value"`
	Label string      `json:"label"`
}

// Options lists the fixed worksheet choices and the defaults.
type Options struct {
	Operations []Choice               `json:"operations"`
	MaxNumbers []Choice               `json:"max_numbers"`
	Counts     []Choice               `json:"counts"`
	Defaults   models.WorksheetConfig `json:"defaults"`
}

// AllowedCounts and AllowedMaxNumbers mirror the drop-down values.
var (
	AllowedCounts     = []int{10, 20, 30, 40, 50, 100}
	AllowedMaxNumbers = []int{5, 9, 12, 20}
)

func WorksheetOptions(defaults models.WorksheetConfig) Options {
	return Options{
		Operations: []Choice{
			{Value: models.OperationMultiply, Label: "Multiplication Only"},
			{Value: models.OperationDivide, Label: "Division Only"},
			{Value: models.OperationMixed, Label: "Mixed (× and ÷)"},
		},
		MaxNumbers: []Choice{
			{Value: 5, Label: "Very Easy (1-5)"},
			{Value: 9, Label: "Standard (1-9)"},
			{Value: 12, Label: "Advanced (1-12)"},
			{Value: 20, Label: "Challenger (1-20)"},
		},
		Counts: []Choice{
			{Value: 10, Label: "10 Questions"},
			{Value: 20, Label: "20 Questions"},
			{Value: 30, Label: "30 Questions"},
			{Value: 40, Label: "40 Questions"},
			{Value: 50, Label: "50 Questions (Full Page)"},
			{Value: 100, Label: "100 Questions (Dense)"},
		},
		Defaults: defaults,
	}
}
