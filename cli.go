package main

import (
	"context"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service/flag"
	"github.com/elC0mpa/ebs-reclaimer/service/scheduler"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/elC0mpa/ebs-reclaimer/utils"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

type flagResolver interface {
	ConfigPath() string
	GetParsedFlags(cfg *settings.Settings) (model.Flags, error)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ebs-reclaimer",
		Short: "Delete unattached EBS volumes and orphaned snapshots past a retention age",
		Long: `ebs-reclaimer scans one AWS account and region for available (unattached)
EBS volumes and self-owned snapshots, and deletes those older than the
retention period. Snapshots backing an AMI are never deleted.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newReclaimCmd("run", "Delete stale volumes and snapshots", false),
		newReclaimCmd("plan", "Report what run would delete without deleting anything", true),
		newScheduleCmd(),
	)
	return root
}

func newReclaimCmd(use, short string, forceDryRun bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	flagService := flag.NewService(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags, cfg, logger, err := prepare(flagService)
		if err != nil {
			return err
		}
		if forceDryRun {
			flags.DryRun = true
		}

		if flags.Output == "table" {
			utils.DrawBanner()
			utils.StartSpinner("Scanning volumes and snapshots...")
			defer utils.StopSpinner()
		}

		orchestratorService, err := newOrchestrator(cmd.Context(), flags, cfg, logger)
		if err != nil {
			return err
		}
		_, err = orchestratorService.Orchestrate(cmd.Context(), flags)
		return err
	}
	return cmd
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the reclaimer on a cron schedule until interrupted",
		Long: `Runs the reclaimer on the configured cron expression (default "0 3 * * *").
A firing that overlaps a still-running pass is skipped.`,
		Args: cobra.NoArgs,
	}
	flagService := flag.NewService(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		flags, cfg, logger, err := prepare(flagService)
		if err != nil {
			return err
		}

		orchestratorService, err := newOrchestrator(cmd.Context(), flags, cfg, logger)
		if err != nil {
			return err
		}

		job := func(ctx context.Context) error {
			_, err := orchestratorService.Orchestrate(ctx, flags)
			return err
		}
		return scheduler.NewService(flags.Schedule, job, logger.New("component", "scheduler")).Run(cmd.Context())
	}
	return cmd
}

// prepare resolves settings, flags and the logger, in that order, so flags
// override the file and environment.
func prepare(flags flagResolver) (model.Flags, *settings.Settings, log15.Logger, error) {
	cfg, err := settings.LoadValid(flags.ConfigPath())
	if err != nil {
		return model.Flags{}, nil, nil, err
	}

	parsed, err := flags.GetParsedFlags(cfg)
	if err != nil {
		return model.Flags{}, nil, nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return model.Flags{}, nil, nil, err
	}

	return parsed, cfg, logger, nil
}
