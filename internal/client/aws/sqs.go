// Package aws builds the AWS SDK clients used by the worker transport.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"go.uber.org/zap"
)

// Static credentials for local SQS emulators, which accept any key pair.
const (
	localAccessKeyID     = "test"
	localSecretAccessKey = "test"
	localRegion          = "us-east-1"
)

// LoadConfig loads the default AWS configuration chain (environment variables,
// shared config, IAM role). When endpointURL is set, requests go to that
// endpoint with static credentials so a local emulator can be used.
func LoadConfig(ctx context.Context, endpointURL string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if endpointURL != "" {
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(localAccessKeyID, localSecretAccessKey, "")),
			config.WithRegion(localRegion),
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	if endpointURL != "" {
		cfg.BaseEndpoint = aws.String(endpointURL)
		logger.Debug("Using custom AWS endpoint", zap.String("endpoint", endpointURL))
	}
	return cfg, nil
}

// NewSQSClient creates an SQS client for the given endpoint override.
func NewSQSClient(ctx context.Context, endpointURL string) (*sqs.Client, error) {
	cfg, err := LoadConfig(ctx, endpointURL)
	if err != nil {
		return nil, err
	}
	return sqs.NewFromConfig(cfg), nil
}
