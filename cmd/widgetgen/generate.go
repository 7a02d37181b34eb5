package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const (
	artifactResponse = "response"
	artifactSpec     = "spec"
	artifactReact    = "react"
	artifactEmbed    = "embed"
)

func newGenerateCmd() *cobra.Command {
	var artifact, output string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a widget from a plain-English prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			req := genservice.GenerateRequest{Prompt: strings.Join(args, " ")}
			if err := req.Validate(); err != nil {
				return err
			}
			resp, err := a.service.Generate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("generate widget: %w", err)
			}
			return writeArtifact(cmd.OutOrStdout(), output, artifact, resp)
		},
	}

	cmd.Flags().StringVarP(&artifact, "artifact", "a", artifactResponse, "What to print: response, spec, react, embed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func newEditCmd() *cobra.Command {
	var artifact, output, widgetID string

	cmd := &cobra.Command{
		Use:   "edit <spec-file> <instruction>",
		Short: "Apply a conversational edit to a widget specification",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := widget.LoadFile(args[0])
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			req := genservice.EditRequest{
				WidgetID:      widgetID,
				EditPrompt:    strings.Join(args[1:], " "),
				CurrentWidget: spec,
			}
			if err := req.Validate(); err != nil {
				return err
			}
			resp, err := a.service.Edit(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("edit widget: %w", err)
			}
			return writeArtifact(cmd.OutOrStdout(), output, artifact, resp)
		},
	}

	cmd.Flags().StringVarP(&artifact, "artifact", "a", artifactSpec, "What to print: response, spec, react, embed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&widgetID, "id", "", "Widget id to keep in the export artifacts")
	return cmd
}

func writeArtifact(stdout io.Writer, output, artifact string, resp genservice.Response) error {
	var payload []byte
	switch artifact {
	case artifactResponse, "":
		raw, err := sonic.ConfigStd.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		payload = raw
	case artifactSpec:
		raw, err := sonic.ConfigStd.MarshalIndent(resp.Widget, "", "  ")
		if err != nil {
			return err
		}
		payload = raw
	case artifactReact:
		payload = []byte(resp.ReactCode)
	case artifactEmbed:
		payload = []byte(resp.EmbedCode)
	default:
		return fmt.Errorf("unknown artifact %q", artifact)
	}
	return writeOutput(stdout, output, payload)
}

func writeOutput(stdout io.Writer, output string, payload []byte) error {
	if output == "" {
		_, err := fmt.Fprintln(stdout, string(payload))
		return err
	}
	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err := fmt.Fprintf(stdout, "Written to %s\n", output)
	return err
}
