package services

// Grid densities for worksheet layout.
const (
	DensityDense  = "dense"
	DensityMedium = "medium"
	DensitySparse = "sparse"
)

// Density picks the grid density for a problem count.
func Density(count int) string {
	switch {
	case count > 50:
		return DensityDense
	case count >= 40:
		return DensityMedium
	default:
		return DensitySparse
	}
}

// Layout describes how a density is drawn.
type Layout struct {
	Columns    int     `json:"columns"`
	FontSize   float64 `json:"font_size"`
	RowSpacing float64 `json:"row_spacing"` // millimetres between rows on paper
}

// LayoutFor returns the grid layout for a density. Unknown densities get the
// sparse layout.
func LayoutFor(density string) Layout {
	switch density {
	case DensityDense:
		return Layout{Columns: 5, FontSize: 10, RowSpacing: 9}
	case DensityMedium:
		return Layout{Columns: 4, FontSize: 13, RowSpacing: 18}
	default:
		return Layout{Columns: 4, FontSize: 14, RowSpacing: 26}
	}
}
