package scheduler

import (
	"context"
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

type service struct {
	schedule string
	job      Job
	cron     *cron.Cron
	logger   log15.Logger

	mu      sync.Mutex
	running bool
}

type SchedulerService interface {
	Run(ctx context.Context) error
}
