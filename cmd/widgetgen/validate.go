package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-widgetgen/pkg/validation"
)

var errInvalidSpec = errors.New("widget specification has issues")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec-file>",
		Short: "Check a JSON or YAML widget specification and list its issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readSpecJSON(args[0])
			if err != nil {
				return err
			}
			result := validation.ValidateSpec(raw)
			if result.Valid {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return err
			}
			if err := printIssues(cmd.OutOrStdout(), result.Issues); err != nil {
				return err
			}
			return errInvalidSpec
		},
	}
}

// readSpecJSON returns the file as JSON, converting YAML documents first.
func readSpecJSON(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return sonic.Marshal(doc)
	default:
		return raw, nil
	}
}

func printIssues(w io.Writer, issues []validation.Issue) error {
	table := tablewriter.NewTable(w, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Message")
	for _, issue := range issues {
		field := issue.Field
		if field == "" {
			field = "-"
		}
		if err := table.Append(field, issue.Message); err != nil {
			return err
		}
	}
	return table.Render()
}
