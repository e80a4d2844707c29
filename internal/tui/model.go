package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/pkg/models"
)

// Explainer is the part of explain.Explainer the TUI needs.
type Explainer interface {
	Explain(ctx context.Context, a, b int, op models.Operation) string
}

type field int

const (
	fieldNum1 field = iota
	fieldNum2
)

type explanationMsg struct {
	text string
}

// Model is the interactive visualizer.
type Model struct {
	ctx       context.Context
	explainer Explainer

	num1  int
	num2  int
	op    models.Operation
	focus field
	typed string

	loading     bool
	explanation string

	width int
}

func NewModel(ctx context.Context, explainer Explainer) Model {
	return Model{
		ctx:       ctx,
		explainer: explainer,
		num1:      services.DefaultNum1,
		num2:      services.DefaultNum2,
		op:        models.OperationMultiply,
		width:     80,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) view() services.View {
	return services.BuildView(m.num1, m.num2, m.op)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case explanationMsg:
		m.loading = false
		m.explanation = msg.text
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := msg.String()
	if len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		m.typeDigit(k)
		return m, nil
	}

	switch k {
	case "backspace":
		if m.typed != "" {
			m.typed = m.typed[:len(m.typed)-1]
			m.set(services.ParseOperand(m.typed))
		}
		return m, nil
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right", "h", "l":
		m.typed = ""
		if m.focus == fieldNum1 {
			m.focus = fieldNum2
		} else {
			m.focus = fieldNum1
		}
	case "up", "k", "+":
		m.adjust(1)
	case "down", "j", "-":
		m.adjust(-1)
	case "m":
		m.op = models.OperationMultiply
	case "d":
		m.op = models.OperationDivide
	case " ":
		if m.op == models.OperationMultiply {
			m.op = models.OperationDivide
		} else {
			m.op = models.OperationMultiply
		}
	case "e", "enter":
		if m.loading || m.explainer == nil {
			return m, nil
		}
		m.loading = true
		m.explanation = ""
		return m, m.explain()
	}
	return m, nil
}

func (m *Model) adjust(delta int) {
	m.typed = ""
	if m.focus == fieldNum1 {
		m.set(m.num1 + delta)
	} else {
		m.set(m.num2 + delta)
	}
}

// typeDigit appends to the focused field's text. Operands have at most two
// digits, so a third keystroke starts a new number.
func (m *Model) typeDigit(d string) {
	if len(m.typed) >= 2 {
		m.typed = ""
	}
	m.typed += d
	m.set(services.ParseOperand(m.typed))
}

func (m *Model) set(n int) {
	n = services.ClampOperand(n)
	if m.focus == fieldNum1 {
		m.num1 = n
	} else {
		m.num2 = n
	}
}

// explain captures the displayed equation now so later key presses do not
// change what is asked.
func (m Model) explain() tea.Cmd {
	v := m.view()
	ctx, explainer := m.ctx, m.explainer
	return func() tea.Msg {
		return explanationMsg{text: explainer.Explain(ctx, v.Equation.A, v.Equation.B, v.Operation)}
	}
}

func (m Model) View() string {
	v := m.view()
	var b strings.Builder

	b.WriteString(title.Render("Math Visualizer"))
	b.WriteString(dim.Render(fmt.Sprintf("  (%s)", v.Operation)))
	b.WriteString("\n\n")

	b.WriteString(m.input(v.FirstLabel, v.Num1, m.focus == fieldNum1))
	b.WriteString("   ")
	b.WriteString(m.input(v.SecondLabel, v.Num2, m.focus == fieldNum2))
	b.WriteString("\n\n")

	b.WriteString(RenderDiagram(v))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(dim.Render("Thinking of a story..."))
		b.WriteString("\n")
	case m.explanation != "":
		b.WriteString(story.Render(m.explanation))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("0-9 type  ↑/↓ change  tab switch  space/m/d operation  e explain  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) input(label string, value int, focused bool) string {
	text := fmt.Sprintf("%s: %d", label, value)
	if focused {
		return active.Render("> " + text)
	}
	return dim.Render("  " + text)
}

// Run starts the full-screen visualizer.
func Run(ctx context.Context, explainer Explainer) error {
	p := tea.NewProgram(NewModel(ctx, explainer), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
