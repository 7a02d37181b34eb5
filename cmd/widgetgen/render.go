package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgetgen/pkg/orchestrator"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/tui"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
)

type renderFlags struct {
	renderer      string
	output        string
	themeManifest string
	themeName     string
	themeVariant  string
	preset        string
	responses     map[string]string
	noLint        bool
}

func (f *renderFlags) options() ([]orchestrator.Option, error) {
	opts := []orchestrator.Option{orchestrator.WithLint(!f.noLint)}
	if f.themeManifest != "" {
		manifest, err := render.LoadThemeManifest(f.themeManifest)
		if err != nil {
			return nil, err
		}
		selector, err := render.NewStaticSelector(f.themeName, f.themeVariant, manifest)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithThemeSelector(selector))
	}
	if f.preset != "" {
		raw, err := os.ReadFile(f.preset)
		if err != nil {
			return nil, err
		}
		transformer, err := orchestrator.NewPresetTransformer(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithSpecTransformer(transformer))
	}
	return opts, nil
}

func newRenderCmd() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <spec-file>",
		Short: "Render a JSON or YAML widget specification as HTML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			out, err := orchestrator.New(opts...).Generate(cmd.Context(), orchestrator.Request{
				Path:         args[0],
				Renderer:     flags.renderer,
				ThemeName:    flags.themeName,
				ThemeVariant: flags.themeVariant,
				Responses:    flags.responses,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, out)
		},
	}

	bindRenderFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.renderer, "renderer", "r", vanilla.Name, "Renderer: vanilla or json")
	return cmd
}

func newFillCmd() *cobra.Command {
	flags := &renderFlags{}
	var format string
	var stopOnSubmit bool

	cmd := &cobra.Command{
		Use:   "fill <spec-file>",
		Short: "Fill a widget interactively in the terminal and print the answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			prompts, err := tui.New(
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithStopOnSubmit(stopOnSubmit),
			)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(prompts)
			opts = append(opts, orchestrator.WithRegistry(registry))

			out, err := orchestrator.New(opts...).Generate(cmd.Context(), orchestrator.Request{
				Path:      args[0],
				Renderer:  tui.Name,
				Responses: flags.responses,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, out)
		},
	}

	bindRenderFlags(cmd, flags)
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "Answer format: json or pretty")
	cmd.Flags().BoolVar(&stopOnSubmit, "stop-on-submit", true, "Stop prompting after the first submit button")
	return cmd
}

func bindRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&flags.themeManifest, "theme-manifest", "", "go-theme manifest (YAML)")
	cmd.Flags().StringVar(&flags.themeName, "theme", "", "Theme name")
	cmd.Flags().StringVar(&flags.themeVariant, "variant", "", "Theme variant")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "JSON merge-patch preset applied before rendering")
	cmd.Flags().StringToStringVar(&flags.responses, "response", nil, "Prefilled answer as id=value (repeatable)")
	cmd.Flags().BoolVar(&flags.noLint, "no-lint", false, "Skip JSON Schema lint notices")
}
