package services

import (
	"bytes"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgirmay/mathlab/pkg/models"
)

func init() {
	api.DisableConfigDir()
}

func renderWorksheet(t *testing.T, count int, showAnswers bool) []byte {
	t.Helper()

	cfg := models.WorksheetConfig{Count: count, MaxNumber: 9, Operation: models.OperationMixed}
	ws := NewGenerator(seeded(4)).NewWorksheet("", cfg)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(DefaultPrintConfig()).Render(&buf, ws, showAnswers))
	return buf.Bytes()
}

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	require.NoError(t, err)
	return n
}

func TestPrinterRender(t *testing.T) {
	pdf := renderWorksheet(t, 10, false)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, 2, pageCount(t, pdf), "problem page plus answer key")
}

func TestPrinterRenderWithAnswers(t *testing.T) {
	pdf := renderWorksheet(t, 20, true)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, 2, pageCount(t, pdf))
}

func TestPrinterRenderDense(t *testing.T) {
	pdf := renderWorksheet(t, 100, false)

	assert.GreaterOrEqual(t, pageCount(t, pdf), 2)
}

func TestWorksheetTitle(t *testing.T) {
	assert.Equal(t, "Multiplication Practice", WorksheetTitle(models.OperationMultiply))
	assert.Equal(t, "Division Practice", WorksheetTitle(models.OperationDivide))
	assert.Equal(t, "Multiplication & Division Practice", WorksheetTitle(models.OperationMixed))
}
