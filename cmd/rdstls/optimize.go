package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/optimizer"
)

var validCategories = map[string]bool{
	"all":                         true,
	optimizer.CategorySecurity:    true,
	optimizer.CategoryCost:        true,
	optimizer.CategoryReliability: true,
}

func isValidCategory(cat string) bool {
	return validCategories[cat]
}

// newOptimizeCmd creates the "optimize" subcommand.
func newOptimizeCmd() *cobra.Command {
	var (
		outputFormat string
		category     string
	)

	cmd := &cobra.Command{
		Use:   "optimize [template]",
		Short: "Suggest security, cost and reliability improvements",
		Long: `Optimize analyzes the synthesized stack, or a template file when one is
given, and suggests improvements.

Categories:
  - security: secret rotation, TLS on the load balancer listener
  - cost: log retention
  - reliability: removal policies, Multi-AZ, backups, NAT redundancy, task count

Suggestions are advisory; the command succeeds when any are found.

Examples:
    rdstls optimize
    rdstls optimize --category reliability
    rdstls optimize deployed.json --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidCategory(category) {
				return fmt.Errorf("invalid category: %s (use all, security, cost, or reliability)", category)
			}
			return runOptimize(cmd.OutOrStdout(), args, outputFormat, category)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&category, "category", "c", "all", "Category: all, security, cost, or reliability")

	return cmd
}

// optimizeOutput is the JSON output of the optimize command.
type optimizeOutput struct {
	Success       bool                        `json:"success"`
	Suggestions   []rdstls.OptimizeSuggestion `json:"suggestions"`
	ResourceCount int                         `json:"resource_count"`
	Summary       rdstls.OptimizeSummary      `json:"summary"`
}

func runOptimize(w io.Writer, args []string, format, category string) error {
	t, err := targetTemplate(args, newLogger())
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}

	optResult, err := optimizer.Optimize(t, optimizer.Options{Category: category})
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}

	result := optimizeOutput{
		Success:       true,
		Suggestions:   optResult.Suggestions,
		ResourceCount: len(t.Resources),
		Summary:       optResult.Summary,
	}
	if result.Suggestions == nil {
		result.Suggestions = []rdstls.OptimizeSuggestion{}
	}

	return outputOptimizeResult(w, result, format)
}

func outputOptimizeResult(w io.Writer, result optimizeOutput, format string) error {
	switch format {
	case "json":
		return writeJSON(w, result)

	case "text":
		if len(result.Suggestions) == 0 {
			fmt.Fprintf(w, "Analyzed %d resources. No optimization suggestions.\n", result.ResourceCount)
			return nil
		}

		fmt.Fprintf(w, "Analyzed %d resources. Found %d suggestions:\n\n", result.ResourceCount, result.Summary.Total)

		byCat := map[string][]rdstls.OptimizeSuggestion{}
		for _, s := range result.Suggestions {
			byCat[s.Category] = append(byCat[s.Category], s)
		}

		categoryOrder := []string{optimizer.CategorySecurity, optimizer.CategoryCost, optimizer.CategoryReliability}
		for _, cat := range categoryOrder {
			suggestions := byCat[cat]
			if len(suggestions) == 0 {
				continue
			}

			fmt.Fprintf(w, "=== %s (%d) ===\n", capitalize(cat), len(suggestions))
			for _, s := range suggestions {
				fmt.Fprintf(w, "\n[%s] %s %s\n", s.Severity, s.Rule, s.Title)
				fmt.Fprintf(w, "  Resource: %s\n", s.Resource)
				fmt.Fprintf(w, "  %s\n", s.Description)
				fmt.Fprintf(w, "  Suggestion: %s\n", s.Suggestion)
			}
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Summary: %d security, %d cost, %d reliability\n",
			result.Summary.Security, result.Summary.Cost, result.Summary.Reliability)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return string(s[0]-32) + s[1:]
}
