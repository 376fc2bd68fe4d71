package orchestrator

import (
	"context"
	"io"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/inconshreveable/log15"
)

// EngineFactory builds a reclamation engine for one run. The CLI binds it to
// the EC2 adapter; tests bind it to the in-memory provider.
type EngineFactory func(opts reclaimer.Options) reclaimer.ReclaimerService

// Observer receives the finished report, for metrics
type Observer interface {
	Observe(report *model.Report)
	Push(ctx context.Context, url string) error
}

type orchestratorService struct {
	identityService service.IdentityService
	newEngine       EngineFactory
	observer        Observer
	pushgatewayURL  string
	out             io.Writer
	logger          log15.Logger
}

type OrchestratorService interface {
	Orchestrate(ctx context.Context, flags model.Flags) (*model.Report, error)
}
