package awsconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	defaultMaxAttempts = 5
)

func NewService() *service {
	return &service{}
}

// GetAWSCfg loads the default credential chain. Throttling errors such as
// RequestLimitExceeded are retried by the SDK's standard retryer with
// exponential backoff, up to retryOpts.MaxAttempts calls per operation.
func (s *service) GetAWSCfg(ctx context.Context, region, profile string, retryOpts RetryOptions) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, loadOptions(region, profile, retryOpts)...)
}

func loadOptions(region, profile string, retryOpts RetryOptions) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error

	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	maxAttempts := retryOpts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	opts = append(opts, config.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxAttempts
			if retryOpts.MaxBackoff > 0 {
				o.MaxBackoff = retryOpts.MaxBackoff
			}
		})
	}))

	return opts
}
