package memory

import (
	"sync"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

// Provider is an in-memory account holding volumes, snapshots and images.
// It satisfies service.InventoryService and service.MutationService.
type Provider struct {
	mu sync.Mutex

	volumes   []model.Volume
	snapshots []model.Snapshot
	images    []model.Image

	pageSize int
	dryRun   bool

	listErrors   map[string]error
	deleteErrors map[string]error
	calls        []string
}

type Option func(*Provider)

// Listing operations, used as keys for FailListing
const (
	OpListVolumes   = "ListVolumes"
	OpListSnapshots = "ListSnapshots"
	OpListImages    = "ListImages"
)
