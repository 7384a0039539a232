package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate the CloudFormation template",
		Long: `Synth declares the stack and writes its CloudFormation template.

Examples:
    rdstls synth
    rdstls synth -o template.json
    rdstls synth --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd.OutOrStdout(), outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runSynth(w io.Writer, format, outputFile string) error {
	logger := newLogger()
	asm, err := synthesize(logger)
	if err != nil {
		return fmt.Errorf("synth failed: %w", err)
	}

	data, err := encodeTemplate(asm.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	logger.Info().Str("file", outputFile).Int("resources", len(asm.Resources)).Msg("template written")
	return nil
}
