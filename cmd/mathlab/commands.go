package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgirmay/mathlab/internal/common/validation"
	"github.com/jgirmay/mathlab/internal/server"
	"github.com/jgirmay/mathlab/internal/tui"
	vizservices "github.com/jgirmay/mathlab/internal/visualizer/services"
	"github.com/jgirmay/mathlab/internal/worksheet/services"
	"github.com/jgirmay/mathlab/pkg/models"
)

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.Run(cmd.Context())
}

func runWorksheet(cmd *cobra.Command, args []string) error {
	wsCfg, err := worksheetConfig()
	if err != nil {
		return err
	}

	ws := services.NewGenerator().NewWorksheet("", wsCfg)

	if outPath == "" {
		return writeText(cmd.OutOrStdout(), ws)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := services.NewPrinter(services.DefaultPrintConfig()).Render(w, ws, showAnswers); err != nil {
		return err
	}
	if outPath != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d problems to %s\n", len(ws.Problems), outPath)
	}
	return nil
}

// worksheetConfig overlays the command flags on the configured defaults.
func worksheetConfig() (models.WorksheetConfig, error) {
	wsCfg := cfg.WorksheetDefaults()
	if count != 0 {
		wsCfg.Count = count
	}
	if maxNumber != 0 {
		wsCfg.MaxNumber = maxNumber
	}
	if wsOperation != "" {
		op, err := models.ParseOperation(wsOperation)
		if err != nil {
			return wsCfg, err
		}
		wsCfg.Operation = op
	}

	req := struct {
		Count     int `validate:"oneof=10 20 30 40 50 100"`
		MaxNumber int `validate:"min=2"`
	}{wsCfg.Count, wsCfg.MaxNumber}
	if errs := validation.Validate(req); len(errs) > 0 {
		return wsCfg, fmt.Errorf("invalid worksheet options: %s", validation.Summary(errs))
	}
	return wsCfg, nil
}

func writeText(w io.Writer, ws models.Worksheet) error {
	fmt.Fprintln(w, services.WorksheetTitle(ws.Config.Operation))
	fmt.Fprintln(w)

	cols := services.LayoutFor(ws.Density).Columns
	for i, p := range ws.Problems {
		text := p.Question() + "____"
		if showAnswers {
			text = p.String()
		}
		fmt.Fprintf(w, "%3d) %-18s", i+1, text)
		if (i+1)%cols == 0 || i == len(ws.Problems)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func visualView() (vizservices.View, error) {
	op, err := models.ParseOperation(operation)
	if err != nil {
		return vizservices.View{}, err
	}
	return vizservices.BuildView(num1, num2, op), nil
}

func runVisualize(cmd *cobra.Command, args []string) error {
	v, err := visualView()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiagram(v))
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	v, err := visualView()
	if err != nil {
		return err
	}
	explainer := server.NewExplainer(cmd.Context(), cfg.AI)

	fmt.Fprintln(cmd.OutOrStdout(), v.Equation.String())
	fmt.Fprintln(cmd.OutOrStdout(), explainer.Explain(cmd.Context(), v.Equation.A, v.Equation.B, v.Operation))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(cmd.Context(), server.NewExplainer(cmd.Context(), cfg.AI))
}
