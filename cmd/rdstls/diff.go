package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/differ"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
)

// newDiffCmd creates the "diff" subcommand for comparing templates.
func newDiffCmd() *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <template1> [template2]",
		Short: "Compare templates semantically",
		Long: `Diff compares a template file against the synthesized stack, or against
a second template file.

Differences are reported per resource: added, removed, and modified
properties, dependencies and removal policies. Outputs are compared too.

Examples:
    rdstls diff deployed.json
    rdstls diff old.json new.yaml
    rdstls diff deployed.json --ignore-order --format json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), args, outputFormat, ignoreOrder)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")

	return cmd
}

// diffOutput is the JSON output of the diff command.
type diffOutput struct {
	Success bool                `json:"success"`
	Diff    rdstls.TemplateDiff `json:"diff"`
	Summary rdstls.DiffSummary  `json:"summary"`
}

func runDiff(w io.Writer, args []string, format string, ignoreOrder bool) error {
	logger := newLogger()
	before, err := template.LoadTemplate(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	after, err := targetTemplate(args[1:], logger)
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	result, err := differ.Compare(before, after, differ.Options{IgnoreOrder: ignoreOrder})
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}
	logger.Debug().Int("changes", result.Summary.Total).Msg("compared templates")

	switch format {
	case "json":
		return writeJSON(w, diffOutput{Success: true, Diff: result.Diff, Summary: result.Summary})
	case "text":
		outputDiffText(w, result)
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

func outputDiffText(w io.Writer, result *differ.Result) {
	if !result.HasChanges() {
		fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, e := range result.Diff.Added {
		fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range result.Diff.Removed {
		fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
	}
	for _, e := range result.Diff.Modified {
		fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
		for _, c := range e.Changes {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
	for _, e := range result.Diff.Outputs {
		fmt.Fprintf(w, "~ Output %s\n", e.Resource)
		for _, c := range e.Changes {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}

	fmt.Fprintf(w, "\nSummary: %d added, %d removed, %d modified\n",
		result.Summary.Added, result.Summary.Removed, result.Summary.Modified)
}
