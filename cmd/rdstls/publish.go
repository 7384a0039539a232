package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lex00/pgsql-rds-tls-go/internal/config"
	"github.com/lex00/pgsql-rds-tls-go/internal/publish"
)

func newPublishCmd() *cobra.Command {
	var (
		bucket       string
		prefix       string
		region       string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the synthesized template to S3",
		Long: `Publish synthesizes the stack and uploads the template to S3 under a
content-addressed key, then prints its URL for use as a TemplateURL.

Credentials come from the default AWS credential chain.

Examples:
    rdstls publish --bucket my-templates
    rdstls publish --bucket my-templates --prefix cfn --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), cmd.OutOrStdout(), bucket, prefix, region, outputFormat)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "templates", "Key prefix")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region (default: "+config.EnvRegion+")")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Template format: json or yaml")

	return cmd
}

func runPublish(ctx context.Context, w io.Writer, bucket, prefix, region, format string) error {
	if bucket == "" {
		return publish.ErrNoBucket
	}

	logger := newLogger()
	asm, err := synthesize(logger)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	body, err := encodeTemplate(asm.Template, format)
	if err != nil {
		return err
	}

	if region == "" {
		region = deploymentRegion()
	}
	publisher, err := publish.New(ctx, region, bucket, prefix, publish.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	artifact, err := publisher.Publish(ctx, asm.StackName, publish.Format(format), body)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintln(w, artifact.URL)
	return nil
}
