package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/elC0mpa/ebs-reclaimer/service/aws/config"
	awsec2 "github.com/elC0mpa/ebs-reclaimer/service/aws/ec2"
	awssts "github.com/elC0mpa/ebs-reclaimer/service/aws/sts"
	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/elC0mpa/ebs-reclaimer/service/metrics"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
)

func main() {
	cfg, cfgErr := settings.LoadValid(os.Getenv("RECLAIMER_CONFIG"))
	if cfg == nil {
		cfg = settings.Default()
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		logger = logging.Discard()
		cfgErr = errors.Join(cfgErr, err)
	}

	awsCfg, err := awsconfig.NewService().GetAWSCfg(context.Background(), cfg.Region, cfg.Profile, awsconfig.RetryOptions{
		MaxAttempts: cfg.Retry.MaxAttempts,
		MaxBackoff:  cfg.Retry.MaxBackoff,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading AWS config: %v\n", err)
		os.Exit(1)
	}

	h := &handler{
		cfg:      cfg,
		cfgErr:   cfgErr,
		logger:   logger,
		identity: awssts.NewService(awsCfg),
		newEngine: func(opts reclaimer.Options) reclaimer.ReclaimerService {
			ec2Service := awsec2.NewService(awsCfg, awsec2.WithPageSize(cfg.PageSize), awsec2.WithDryRun(opts.DryRun))
			return reclaimer.NewService(ec2Service, ec2Service, logger, opts)
		},
		observer: metrics.NewService(nil),
	}

	lambda.Start(h.Handle)
}
