package tools

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/elC0mpa/ebs-reclaimer/service"
	awsconfig "github.com/elC0mpa/ebs-reclaimer/service/aws/config"
	awsec2 "github.com/elC0mpa/ebs-reclaimer/service/aws/ec2"
	awssts "github.com/elC0mpa/ebs-reclaimer/service/aws/sts"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/inconshreveable/log15"
)

// Backend builds the services a single tool call runs against
type Backend interface {
	Identity(ctx context.Context) (service.IdentityService, error)
	Engine(ctx context.Context, opts reclaimer.Options) (reclaimer.ReclaimerService, error)
}

type awsBackend struct {
	cfg    *settings.Settings
	logger log15.Logger
}

func NewAWSBackend(cfg *settings.Settings, logger log15.Logger) Backend {
	return &awsBackend{cfg: cfg, logger: logger}
}

func (b *awsBackend) Identity(ctx context.Context) (service.IdentityService, error) {
	awsCfg, err := b.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	return awssts.NewService(awsCfg), nil
}

func (b *awsBackend) Engine(ctx context.Context, opts reclaimer.Options) (reclaimer.ReclaimerService, error) {
	awsCfg, err := b.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	ec2Service := awsec2.NewService(awsCfg, awsec2.WithPageSize(b.cfg.PageSize), awsec2.WithDryRun(opts.DryRun))
	return reclaimer.NewService(ec2Service, ec2Service, b.logger, opts), nil
}

func (b *awsBackend) awsConfig(ctx context.Context) (aws.Config, error) {
	awsCfg, err := awsconfig.NewService().GetAWSCfg(ctx, b.cfg.Region, b.cfg.Profile, awsconfig.RetryOptions{
		MaxAttempts: b.cfg.Retry.MaxAttempts,
		MaxBackoff:  b.cfg.Retry.MaxBackoff,
	})
	if err != nil {
		return aws.Config{}, fmt.Errorf("configuring AWS: %w", err)
	}
	return awsCfg, nil
}
