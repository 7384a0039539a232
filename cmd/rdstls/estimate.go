package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/estimate"
)

func newEstimateCmd() *cobra.Command {
	var (
		outputFormat string
		region       string
	)

	cmd := &cobra.Command{
		Use:   "estimate [template]",
		Short: "Estimate the monthly cost of the stack",
		Long: `Estimate prices the synthesized stack, or a template file when one is
given, against on-demand us-east-1 rates.

Only always-on resources are priced: NAT gateways, public IPv4 addresses,
interface endpoints, the load balancer, the database instance and storage,
Fargate tasks and secrets. Data transfer and request charges are excluded.

Examples:
    rdstls estimate
    rdstls estimate --format json
    rdstls estimate deployed.json --region eu-west-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.OutOrStdout(), args, outputFormat, region)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&region, "region", "", "Deployment region (default: "+config.EnvRegion+")")

	return cmd
}

func runEstimate(w io.Writer, args []string, format, region string) error {
	logger := newLogger()
	t, err := targetTemplate(args, logger)
	if err != nil {
		return fmt.Errorf("estimate failed: %w", err)
	}
	if region == "" {
		region = deploymentRegion()
	}

	result := estimate.Estimate(t, estimate.Options{Region: region})
	for _, warning := range result.Warnings {
		logger.Warn().Msg(warning)
	}

	switch format {
	case "json":
		return writeJSON(w, result)
	case "text":
		return outputEstimateText(w, result)
	}
	return fmt.Errorf("unknown format: %s", format)
}

func outputEstimateText(w io.Writer, result *estimate.Result) error {
	if len(result.Drivers) == 0 {
		fmt.Fprintln(w, "No priced resources found.")
		return nil
	}

	fmt.Fprintf(w, "Estimated monthly cost (%s): $%s\n\n", result.Region, result.Monthly.StringFixed(2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RESOURCE\tDESCRIPTION\tMONTHLY\tFORMULA")
	for _, d := range result.Drivers {
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%s\n", d.Resource, d.Description, d.Monthly.StringFixed(2), d.Formula)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nHourly: $%s\n", result.Hourly.StringFixed(4))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warning)
	}
	return nil
}
