package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/utils"
	"github.com/inconshreveable/log15"
)

type Option func(*orchestratorService)

// WithObserver records every finished report and pushes it when url is set
func WithObserver(observer Observer, pushgatewayURL string) Option {
	return func(s *orchestratorService) {
		s.observer = observer
		s.pushgatewayURL = pushgatewayURL
	}
}

func WithOutput(w io.Writer) Option {
	return func(s *orchestratorService) { s.out = w }
}

func WithLogger(logger log15.Logger) Option {
	return func(s *orchestratorService) { s.logger = logger }
}

func NewService(identityService service.IdentityService, newEngine EngineFactory, opts ...Option) *orchestratorService {
	s := &orchestratorService{
		identityService: identityService,
		newEngine:       newEngine,
		out:             os.Stdout,
		logger:          logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Orchestrate runs one reclamation pass and renders its report. Plan mode is
// a run with flags.DryRun set.
func (s *orchestratorService) Orchestrate(ctx context.Context, flags model.Flags) (*model.Report, error) {
	account, err := s.identityService.GetAccountInfo(ctx)
	if err != nil {
		utils.StopSpinner()
		return nil, fmt.Errorf("resolving account: %w", err)
	}

	engine := s.newEngine(reclaimer.Options{
		AccountID:  account.AccountID,
		Region:     flags.Region,
		DryRun:     flags.DryRun,
		ProtectTag: flags.ProtectTag,
	})

	report, runErr := engine.Run(ctx, flags.RetentionDays)

	s.observe(ctx, report)

	utils.StopSpinner()

	if err := s.render(flags.Output, report); err != nil {
		return report, err
	}

	return report, runErr
}

func (s *orchestratorService) observe(ctx context.Context, report *model.Report) {
	if s.observer == nil || report == nil {
		return
	}

	s.observer.Observe(report)
	if s.pushgatewayURL == "" {
		return
	}
	if err := s.observer.Push(ctx, s.pushgatewayURL); err != nil {
		s.logger.Warn("metrics push failed", "run_id", report.RunID, "error", err)
	}
}

func (s *orchestratorService) render(output string, report *model.Report) error {
	if report == nil {
		return nil
	}

	switch output {
	case "json":
		return utils.PrintReportJSON(s.out, report)
	case "", "table":
		utils.DrawReportTable(s.out, report)
		utils.DrawOutcomeChart(s.out, report)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
