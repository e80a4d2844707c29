package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jgirmay/mathlab/pkg/config"
	"github.com/jgirmay/mathlab/pkg/logger"
)

var (
	cfg *config.Config

	num1      int
	num2      int
	operation string

	count       int
	wsOperation string
	maxNumber   int
	showAnswers bool
	outPath     string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathlab",
		Short:         "multiplication and division visualizer, worksheets and stories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			return logger.Init(cfg.Server.Env)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: runTUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP server",
		RunE:  runServe,
	}

	worksheetCmd := &cobra.Command{
		Use:   "worksheet",
		Short: "generate a practice worksheet",
		RunE:  runWorksheet,
	}
	worksheetCmd.Flags().IntVar(&count, "count", 0, "number of problems (10, 20, 30, 40, 50 or 100; default from config)")
	worksheetCmd.Flags().IntVar(&maxNumber, "max", 0, "largest factor (default from config)")
	worksheetCmd.Flags().StringVar(&wsOperation, "operation", "", "multiply, divide or mixed (default from config)")
	worksheetCmd.Flags().BoolVar(&showAnswers, "answers", false, "fill in the answers")
	worksheetCmd.Flags().StringVarP(&outPath, "out", "o", "", "write a PDF to this file, or - for stdout; plain text when empty")

	visualizeCmd := &cobra.Command{
		Use:   "visualize",
		Short: "draw groups for an equation",
		RunE:  runVisualize,
	}
	addOperandFlags(visualizeCmd)

	explainCmd := &cobra.Command{
		Use:   "explain",
		Short: "ask the AI tutor for a story about an equation",
		RunE:  runExplain,
	}
	addOperandFlags(explainCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive visualizer",
		RunE:  runTUI,
	}

	rootCmd.AddCommand(serveCmd, worksheetCmd, visualizeCmd, explainCmd, tuiCmd)
	return rootCmd
}

func addOperandFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&num1, "num1", 3, "first operand (1-12)")
	cmd.Flags().IntVar(&num2, "num2", 4, "second operand (1-12)")
	cmd.Flags().StringVar(&operation, "operation", "multiply", "multiply or divide")
}
