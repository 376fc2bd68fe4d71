package reclaimer

import (
	"context"
	"time"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/inconshreveable/log15"
)

type reclaimerService struct {
	inventory service.InventoryService
	mutator   service.MutationService
	log       log15.Logger
	opts      Options
}

// Options tune a reclamation run. Zero values are valid.
type Options struct {
	AccountID  string
	Region     string
	DryRun     bool
	ProtectTag string // resources carrying this tag key are never deleted

	Now      func() time.Time
	NewRunID func() string
}

type ReclaimerService interface {
	Run(ctx context.Context, retentionDays int) (*model.Report, error)
}

// candidate is a resource that passed classification and awaits deletion
type candidate struct {
	resourceType string
	id           string
	sizeGiB      int32
	ageDays      int64
}
