package services

import "github.com/jgirmay/mathlab/pkg/models"

// View is everything the visualizer shows for one set of inputs.
type View struct {
	Num1        int                    `json:"num1"`
	Num2        int                    `json:"num2"`
	Operation   models.Operation       `json:"operation"`
	Equation    models.DisplayEquation `json:"equation"`
	Groups      []Group                `json:"groups"`
	TotalItems  int                    `json:"total_items"`
	FirstLabel  string                 `json:"first_label"`
	SecondLabel string                 `json:"second_label"`
}

// BuildView clamps the operands, derives the equation and lays out the
// diagram. Mixed is shown as divide.
func BuildView(num1, num2 int, op models.Operation) View {
	num1, num2 = ClampOperand(num1), ClampOperand(num2)
	op = op.Concrete()

	eq := DeriveDisplay(num1, num2, op)
	groups := GroupsFor(eq, op)
	first, second := InputLabels(op)

	return View{
		Num1:        num1,
		Num2:        num2,
		Operation:   op,
		Equation:    eq,
		Groups:      groups,
		TotalItems:  TotalItems(groups),
		FirstLabel:  first,
		SecondLabel: second,
	}
}
