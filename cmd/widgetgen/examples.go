package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List example prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			examples, err := genservice.Examples(cmd.Context(), a.service)
			if err != nil {
				log.WithError(err).Warn("examples unavailable, showing fallback", nil)
			}
			return printExamples(cmd.OutOrStdout(), examples)
		},
	}
}

func printExamples(w io.Writer, examples []string) error {
	table := tablewriter.NewTable(w, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("#", "Prompt")
	for i, example := range examples {
		if err := table.Append(strconv.Itoa(i+1), example); err != nil {
			return err
		}
	}
	return table.Render()
}
