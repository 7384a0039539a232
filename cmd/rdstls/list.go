package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
)

func newListCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List synthesized resources",
		Long: `List synthesizes the stack and lists its resources in creation order.

Examples:
    rdstls list
    rdstls list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(w io.Writer, format string) error {
	asm, err := synthesize(newLogger())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	result := rdstls.ListResult{
		Resources: make([]rdstls.ListResource, 0, len(asm.Resources)),
	}
	for _, res := range asm.Resources {
		result.Resources = append(result.Resources, rdstls.ListResource{
			Name:         res.Name,
			Type:         res.Type,
			Dependencies: res.Dependencies,
		})
	}

	return outputListResult(w, result, format)
}

func outputListResult(w io.Writer, result rdstls.ListResult, format string) error {
	switch format {
	case "json":
		return writeJSON(w, result)

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Registered resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Fprintf(w, "  %s: %s\n", res.Name, res.Type)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
