package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/pgsql-rds-tls-go/internal/graph"
)

// newGraphCmd creates the "graph" subcommand for visualizing resource dependencies.
func newGraphCmd() *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByType     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [template]",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies of
the synthesized stack, or of a template file when one is given.

The output can be rendered with Graphviz:
    rdstls graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    rdstls graph -f mermaid

Examples:
    rdstls graph
    rdstls graph -p                  # include parameters
    rdstls graph -c                  # cluster by service
    rdstls graph deployed.json       # graph a template file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.OutOrStdout(), args, outputFormat, includeParameters, clusterByType)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by AWS service type")

	return cmd
}

func runGraph(w io.Writer, args []string, format string, includeParams bool, cluster bool) error {
	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	t, err := targetTemplate(args, newLogger())
	if err != nil {
		return fmt.Errorf("graph failed: %w", err)
	}
	if len(t.Resources) == 0 {
		return fmt.Errorf("no resources found")
	}

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: includeParams,
		ClusterByType:     cluster,
	}

	return gen.Generate(graph.Resources(t), t.Parameters, w)
}
