package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	rdstls "github.com/lex00/pgsql-rds-tls-go"
	"github.com/lex00/pgsql-rds-tls-go/internal/template"
	"github.com/lex00/pgsql-rds-tls-go/internal/validation"
)

var errValidationFailed = errors.New("validation failed")

// newValidateCmd creates the "validate" subcommand for checking templates.
func newValidateCmd() *cobra.Command {
	var (
		outputFormat string
		cfnLint      bool
	)

	cmd := &cobra.Command{
		Use:   "validate [template]",
		Short: "Validate the synthesized template",
		Long: `Validate checks the synthesized stack, or a template file when one is
given, before it is handed to CloudFormation.

Checks performed:
  - Required properties, enum values, port ranges and storage limits
  - Fargate CPU/memory combinations and container secrets
  - TLS enforcement and storage encryption on the database
  - Reference validity: every Ref, GetAtt and Sub names a declared resource
  - With --cfn-lint, the full cfn-lint rule set

Examples:
    rdstls validate
    rdstls validate --cfn-lint
    rdstls validate deployed.json --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args, outputFormat, cfnLint)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&cfnLint, "cfn-lint", false, "Also run cfn-lint over the template")

	return cmd
}

// runValidate checks a template and fails when any error is found.
func runValidate(w io.Writer, args []string, format string, cfnLint bool) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	logger := newLogger()
	t, err := targetTemplate(args, logger)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	issues := validation.Check(t)
	result := rdstls.ValidateResult{
		Success:   !validation.HasErrors(issues),
		Resources: len(t.Resources),
	}
	for _, issue := range issues {
		if issue.Severity == validation.SeverityError {
			result.Errors = append(result.Errors, issue.String())
		} else {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	if cfnLint {
		lintResult, err := lintTemplate(t, logger)
		if err != nil {
			return err
		}
		result.Errors = append(result.Errors, lintResult.Errors...)
		result.Warnings = append(result.Warnings, lintResult.Warnings...)
		result.Success = result.Success && lintResult.Passed
	}

	if err := outputValidateResult(w, result, format); err != nil {
		return err
	}
	if !result.Success {
		return errValidationFailed
	}
	return nil
}

// lintTemplate writes t to a temporary file and runs cfn-lint over it.
func lintTemplate(t *rdstls.Template, logger zerolog.Logger) (*validation.CfnLintResult, error) {
	data, err := template.ToJSON(t)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "rdstls-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	logger.Debug().Str("file", f.Name()).Msg("running cfn-lint")
	result, err := validation.RunCfnLint(f.Name())
	if err != nil {
		return nil, fmt.Errorf("cfn-lint failed: %w", err)
	}
	for _, info := range result.Informational {
		logger.Debug().Msg(info)
	}
	return result, nil
}

func outputValidateResult(w io.Writer, result rdstls.ValidateResult, format string) error {
	if format == "json" {
		return writeJSON(w, result)
	}

	if result.Success && len(result.Warnings) == 0 {
		fmt.Fprintf(w, "Validation passed: %d resources OK\n", result.Resources)
		return nil
	}

	if result.Success {
		fmt.Fprintf(w, "Validation passed with warnings: %d resources\n", result.Resources)
	} else {
		fmt.Fprintln(w, "Validation FAILED:")
	}
	for _, errMsg := range result.Errors {
		fmt.Fprintf(w, "  ERROR: %s\n", errMsg)
	}
	for _, warnMsg := range result.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warnMsg)
	}
	return nil
}
