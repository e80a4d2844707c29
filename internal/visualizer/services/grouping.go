package services

import "github.com/jgirmay/mathlab/pkg/models"

// Palette is the fixed color cycle for group clusters.
var Palette = []string{"red", "blue", "green", "yellow", "purple", "pink"}

// Group is one cluster of unit icons in the diagram.
type Group struct {
	Index int    `json:"index"`
	Color string `json:"color"`
	Items int    `json:"items"`
}

// RenderGroups lays out groups clusters of itemsPerGroup icons each. Colors
// depend only on the group index. Negative counts are treated as zero.
func RenderGroups(groups, itemsPerGroup int) []Group {
	if groups < 0 {
		groups = 0
	}
	if itemsPerGroup < 0 {
		itemsPerGroup = 0
	}

	out := make([]Group, groups)
	for i := range out {
		out[i] = Group{
			Index: i,
			Color: Palette[i%len(Palette)],
			Items: itemsPerGroup,
		}
	}
	return out
}

// GroupsFor returns the diagram for an equation: a groups of b when
// multiplying, b groups of result when dividing.
func GroupsFor(eq models.DisplayEquation, op models.Operation) []Group {
	if op == models.OperationMultiply {
		return RenderGroups(eq.A, eq.B)
	}
	return RenderGroups(eq.B, eq.Result)
}

// TotalItems counts every icon in the diagram.
func TotalItems(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.Items
	}
	return total
}
