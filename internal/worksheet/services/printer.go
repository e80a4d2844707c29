package services

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jgirmay/mathlab/pkg/models"
)

// PrintConfig controls the paper output.
type PrintConfig struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
}

func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		PageSize:   "A4",
		MarginsMM:  15,
		FontFamily: "Helvetica",
	}
}

// Printer renders a worksheet as a PDF: the problem grid followed by an
// answer key on its own page.
type Printer struct {
	cfg PrintConfig
}

func NewPrinter(cfg PrintConfig) *Printer {
	return &Printer{cfg: cfg}
}

// Render writes the PDF to w. With showAnswers the grid itself is filled in,
// otherwise blanks are left for the student.
func (p *Printer) Render(w io.Writer, ws models.Worksheet, showAnswers bool) error {
	pdf := fpdf.New("P", "mm", p.cfg.PageSize, "")
	pdf.SetMargins(p.cfg.MarginsMM, p.cfg.MarginsMM, p.cfg.MarginsMM)
	pdf.SetAutoPageBreak(true, p.cfg.MarginsMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := WorksheetTitle(ws.Config.Operation)
	pdf.SetTitle(title, true)
	pdf.SetCreator("mathlab", true)

	layout := LayoutFor(ws.Density)

	pdf.AddPage()
	p.header(pdf, tr, title)
	p.grid(pdf, tr, ws.Problems, layout, func(i int, prob models.MathProblem) string {
		if showAnswers {
			return fmt.Sprintf("%d)  %s", i+1, prob.String())
		}
		return fmt.Sprintf("%d)  %s____", i+1, prob.Question())
	})

	pdf.AddPage()
	pdf.SetFont(p.cfg.FontFamily, "B", 18)
	pdf.CellFormat(0, 12, tr(title+" - Answer Key"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	p.grid(pdf, tr, ws.Problems, LayoutFor(DensityDense), func(i int, prob models.MathProblem) string {
		return fmt.Sprintf("%d)  %s", i+1, prob.String())
	})

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render worksheet %s: %w", ws.ID, err)
	}
	return pdf.Output(w)
}

func (p *Printer) header(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(p.cfg.FontFamily, "B", 20)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(p.cfg.FontFamily, "", 12)
	pdf.CellFormat(110, 8, "Name: ______________________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Date: ______________", "", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func (p *Printer) grid(pdf *fpdf.Fpdf, tr func(string) string, problems []models.MathProblem, layout Layout, text func(int, models.MathProblem) string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(layout.Columns)

	pdf.SetFont(p.cfg.FontFamily, "", layout.FontSize)
	for i, prob := range problems {
		ln := 0
		if (i+1)%layout.Columns == 0 || i == len(problems)-1 {
			ln = 1
		}
		pdf.CellFormat(colW, layout.RowSpacing, tr(text(i, prob)), "", ln, "L", false, 0, "")
	}
}

// WorksheetTitle names a worksheet after its operation, e.g.
// "Multiplication Practice".
func WorksheetTitle(op models.Operation) string {
	var topic string
	switch op {
	case models.OperationMultiply:
		topic = "multiplication"
	case models.OperationDivide:
		topic = "division"
	default:
		topic = "multiplication & division"
	}
	return cases.Title(language.English).String(strings.TrimSpace(topic + " practice"))
}
