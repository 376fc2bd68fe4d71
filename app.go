package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/elC0mpa/ebs-reclaimer/model"
	awsconfig "github.com/elC0mpa/ebs-reclaimer/service/aws/config"
	awsec2 "github.com/elC0mpa/ebs-reclaimer/service/aws/ec2"
	awssts "github.com/elC0mpa/ebs-reclaimer/service/aws/sts"
	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/elC0mpa/ebs-reclaimer/service/metrics"
	"github.com/elC0mpa/ebs-reclaimer/service/orchestrator"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/inconshreveable/log15"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newLogger keeps stdout free for the report
func newLogger(cfg *settings.Settings) (log15.Logger, error) {
	output := cfg.Log.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: output,
	})
}

func newOrchestrator(ctx context.Context, flags model.Flags, cfg *settings.Settings, logger log15.Logger) (orchestrator.OrchestratorService, error) {
	cfgService := awsconfig.NewService()
	awsCfg, err := cfgService.GetAWSCfg(ctx, flags.Region, flags.Profile, awsconfig.RetryOptions{
		MaxAttempts: cfg.Retry.MaxAttempts,
		MaxBackoff:  cfg.Retry.MaxBackoff,
	})
	if err != nil {
		return nil, err
	}

	stsService := awssts.NewService(awsCfg)
	engineFactory := func(opts reclaimer.Options) reclaimer.ReclaimerService {
		ec2Service := awsec2.NewService(awsCfg, awsec2.WithPageSize(cfg.PageSize), awsec2.WithDryRun(opts.DryRun))
		return reclaimer.NewService(ec2Service, ec2Service, logger, opts)
	}

	return orchestrator.NewService(stsService, engineFactory,
		orchestrator.WithObserver(metrics.NewService(nil), cfg.PushgatewayURL),
		orchestrator.WithLogger(logger),
	), nil
}
