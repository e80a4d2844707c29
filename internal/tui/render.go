package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jgirmay/mathlab/internal/visualizer/services"
)

const star = "★"

var (
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	bright = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	active = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	story  = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("99")).
		Padding(0, 1).
		Width(60)
)

// paletteColors maps the diagram palette onto 256-color terminal codes.
var paletteColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("203"),
	"blue":   lipgloss.Color("75"),
	"green":  lipgloss.Color("78"),
	"yellow": lipgloss.Color("221"),
	"purple": lipgloss.Color("141"),
	"pink":   lipgloss.Color("218"),
}

// RenderDiagram draws one row of stars per group, colored by the group's
// palette entry, followed by the equation.
func RenderDiagram(v services.View) string {
	var b strings.Builder

	b.WriteString(title.Render(v.Equation.Label))
	b.WriteString("\n\n")

	for _, g := range v.Groups {
		style := lipgloss.NewStyle().Foreground(paletteColors[g.Color])
		b.WriteString(dim.Render("  ["))
		b.WriteString(style.Render(strings.Repeat(star, g.Items)))
		b.WriteString(dim.Render("]"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(bright.Render(v.Equation.String()))
	b.WriteString(dim.Render("   total stars: "))
	b.WriteString(bright.Render(strconv.Itoa(v.TotalItems)))
	b.WriteString("\n")
	return b.String()
}
