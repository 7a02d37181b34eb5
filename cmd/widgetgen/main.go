package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "widgetgen",
		Short: "Generate, render and fill AI-built widgets",
		Long: `widgetgen turns plain-English prompts into widget specifications through an
LLM, renders specifications as HTML, JSON or terminal prompts, and serves the
generation backend and interactive edit sessions over HTTP.

Examples:
  widgetgen serve
  widgetgen generate "A feedback form with branching logic"
  widgetgen render widget.json -o widget.html
  widgetgen fill widget.yaml --format pretty`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./widgetgen.yaml or ./configs/widgetgen.yaml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newEditCmd(),
		newRenderCmd(),
		newFillCmd(),
		newExamplesCmd(),
		newValidateCmd(),
	)
	return rootCmd
}
