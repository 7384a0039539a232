// Package publish uploads synthesized templates to S3, where the provisioning
// engine picks them up by URL. Nothing else in the account is changed.
package publish

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// PutObjectAPI is the subset of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Format is the serialization of a published template.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrNoBucket is returned when no bucket is configured.
var ErrNoBucket = errors.New("no bucket configured")

// Publisher writes templates to one bucket under a key prefix.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	region string
	logger zerolog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used to report uploads.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// DefaultRegion is used when neither the caller nor the AWS config names one.
const DefaultRegion = "us-east-1"

// WithRegion sets the bucket region used in template URLs. An empty region
// keeps the current one.
func WithRegion(region string) Option {
	return func(p *Publisher) {
		if region != "" {
			p.region = region
		}
	}
}

// NewPublisher returns a Publisher using client.
func NewPublisher(client PutObjectAPI, bucket, prefix string, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		region: DefaultRegion,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New returns a Publisher backed by an S3 client built from the default AWS
// credential chain.
func New(ctx context.Context, region, bucket, prefix string, opts ...Option) (*Publisher, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	opts = append([]Option{WithRegion(cfg.Region)}, opts...)
	return NewPublisher(s3.NewFromConfig(cfg), bucket, prefix, opts...), nil
}

// Artifact describes an uploaded template.
type Artifact struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
	Size   int    `json:"size"`
}

// Key returns the object key for a template body: <prefix>/<stack>/<sha256>.<ext>.
// Identical bodies map to identical keys.
func (p *Publisher) Key(stackName string, format Format, body []byte) string {
	sum := sha256.Sum256(body)
	return path.Join(p.prefix, stackName, hex.EncodeToString(sum[:])+"."+string(format))
}

// URL returns the virtual-hosted URL of key.
func (p *Publisher) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}

// Publish uploads body and returns where it was stored.
func (p *Publisher) Publish(ctx context.Context, stackName string, format Format, body []byte) (*Artifact, error) {
	if p.bucket == "" {
		return nil, ErrNoBucket
	}
	contentType, err := contentType(format)
	if err != nil {
		return nil, err
	}

	key := p.Key(stackName, format, body)
	sum := sha256.Sum256(body)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"stack": stackName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload template to s3://%s/%s: %w", p.bucket, key, err)
	}

	artifact := &Artifact{
		Bucket: p.bucket,
		Key:    key,
		URL:    p.URL(key),
		SHA256: hex.EncodeToString(sum[:]),
		Size:   len(body),
	}
	p.logger.Info().Str("bucket", p.bucket).Str("key", key).Int("bytes", len(body)).Msg("template published")
	return artifact, nil
}

func contentType(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return "application/json", nil
	case FormatYAML:
		return "application/yaml", nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}
