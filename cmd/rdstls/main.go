// Command rdstls synthesizes the PostgreSQL-on-RDS-with-TLS stack into a
// CloudFormation template and inspects the result.
//
// Usage:
//
//	rdstls synth -o template.json    Write the CloudFormation template
//	rdstls validate --cfn-lint       Check the template
//	rdstls diff deployed.json        Compare against a deployed template
//	rdstls estimate                  Price the stack
//	rdstls publish --bucket b        Upload the template to S3
//	rdstls version                   Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

var globals globalOptions

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rdstls",
		Short: "Synthesize the PostgreSQL-on-RDS-with-TLS stack",
		Long: `rdstls declares a PostgreSQL database on RDS that only accepts TLS
connections, a Fargate service that reads its credentials from Secrets
Manager, and an application load balancer in front of the service.

The target account and region come from CDK_DEFAULT_ACCOUNT and
CDK_DEFAULT_REGION, optionally loaded from a .env file. Without them the
template is environment-agnostic.

    rdstls synth -o template.json
    rdstls synth --config settings.yaml --format yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "rdstls.yaml", "Settings file (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVar(&globals.envFile, "env-file", ".env", "Environment file loaded before synthesis")
	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSynthCmd(),
		newListCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newOptimizeCmd(),
		newEstimateCmd(),
		newPublishCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rdstls %s\n", getVersion())
		},
	}
}
