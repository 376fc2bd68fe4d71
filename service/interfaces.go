package service

import (
	"context"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

// IdentityService provides cloud account identity information
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// InventoryService lists reclaimable resource candidates one page at a time.
// An empty token requests the first page.
type InventoryService interface {
	ListVolumes(ctx context.Context, nextToken string) (*model.VolumePage, error)
	ListSnapshots(ctx context.Context, nextToken string) (*model.SnapshotPage, error)
	ListImages(ctx context.Context, nextToken string) (*model.ImagePage, error)
}

// MutationService deletes resources. Implementations wrap model.ErrNotFound,
// model.ErrInUse or model.ErrPermission so callers can classify failures.
type MutationService interface {
	DeleteVolume(ctx context.Context, id string) error
	DeleteSnapshot(ctx context.Context, id string) error
}
