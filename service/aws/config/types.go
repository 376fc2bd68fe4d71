package awsconfig

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type service struct{}

// RetryOptions bound how long throttled or transient calls are retried
type RetryOptions struct {
	MaxAttempts int
	MaxBackoff  time.Duration
}

type ConfigService interface {
	GetAWSCfg(ctx context.Context, region, profile string, retryOpts RetryOptions) (aws.Config, error)
}
