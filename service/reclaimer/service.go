package reclaimer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
)

func NewService(inventory service.InventoryService, mutator service.MutationService, logger log15.Logger, opts Options) *reclaimerService {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}

	return &reclaimerService{
		inventory: inventory,
		mutator:   mutator,
		log:       logger,
		opts:      opts,
	}
}

// Run performs one scan-classify-delete cycle. The returned report is never nil;
// a non-nil error means the run ended aborted.
func (s *reclaimerService) Run(ctx context.Context, retentionDays int) (*model.Report, error) {
	started := s.opts.Now()
	report := model.NewReport(s.opts.NewRunID(), retentionDays, started)
	report.AccountID = s.opts.AccountID
	report.Region = s.opts.Region
	report.DryRun = s.opts.DryRun
	defer func() {
		report.Finish(s.opts.Now().Sub(started))
	}()

	log := s.log.New("run_id", report.RunID)

	if retentionDays < 0 {
		return s.abort(log, report, fmt.Errorf("%w: got %d", model.ErrInvalidRetention, retentionDays))
	}

	log.Info("reclamation run started",
		"retention_days", retentionDays,
		"dry_run", s.opts.DryRun,
		"account_id", s.opts.AccountID,
		"region", s.opts.Region,
	)

	p := policy{
		now:           started,
		retentionDays: retentionDays,
		protectTag:    s.opts.ProtectTag,
	}

	referenced, err := s.imageReferences(ctx, log)
	if err != nil {
		return s.abort(log, report, fmt.Errorf("listing images: %w", err))
	}

	volumes, err := s.scanVolumes(ctx, log, report, p)
	if err != nil {
		return s.abort(log, report, fmt.Errorf("listing volumes: %w", err))
	}

	snapshots, err := s.scanSnapshots(ctx, log, report, p, referenced)
	if err != nil {
		return s.abort(log, report, fmt.Errorf("listing snapshots: %w", err))
	}

	report.State = model.RunStateMutating
	log.Info("scan complete",
		"volumes_inspected", report.VolumesInspected,
		"volumes_eligible", len(volumes),
		"snapshots_inspected", report.SnapshotsInspected,
		"snapshots_eligible", len(snapshots),
	)

	// volumes before snapshots
	for _, c := range append(volumes, snapshots...) {
		if err := ctx.Err(); err != nil {
			return s.abort(log, report, fmt.Errorf("deleting resources: %w", err))
		}
		s.delete(ctx, log, report, c)
	}

	report.State = model.RunStateDone
	log.Info("reclamation run finished",
		"volumes_deleted", len(report.VolumesDeleted),
		"snapshots_deleted", len(report.SnapshotsDeleted),
		"failures", len(report.Failures),
		"reclaimed_gib", report.ReclaimedGiB,
		"duration", s.opts.Now().Sub(started).String(),
	)

	return report, nil
}

func (s *reclaimerService) abort(log log15.Logger, report *model.Report, err error) (*model.Report, error) {
	report.State = model.RunStateAborted
	report.Error = err.Error()
	log.Error("reclamation run aborted", "error", err, "state", report.State)
	return report, err
}

// imageReferences collects every snapshot id backing a registered image.
// It must see all pages before any snapshot is classified.
func (s *reclaimerService) imageReferences(ctx context.Context, log log15.Logger) (map[string]struct{}, error) {
	referenced := make(map[string]struct{})
	images := 0

	err := paginate(ctx, func(ctx context.Context, token string) (string, error) {
		page, err := s.inventory.ListImages(ctx, token)
		if err != nil {
			return "", err
		}
		for _, image := range page.Images {
			images++
			for _, id := range image.SnapshotIDs {
				referenced[id] = struct{}{}
			}
		}
		log.Debug("listed image page", "images", len(page.Images))
		return page.NextToken, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("built image reference set", "images", images, "referenced_snapshots", len(referenced))
	return referenced, nil
}

func (s *reclaimerService) scanVolumes(ctx context.Context, log log15.Logger, report *model.Report, p policy) ([]candidate, error) {
	var eligible []candidate

	err := paginate(ctx, func(ctx context.Context, token string) (string, error) {
		page, err := s.inventory.ListVolumes(ctx, token)
		if err != nil {
			return "", err
		}
		for _, v := range page.Volumes {
			report.VolumesInspected++
			days, reason, ok := p.volume(v)
			if !ok {
				report.VolumesSkipped = append(report.VolumesSkipped, model.SkippedResource{ID: v.ID, Reason: reason})
				log.Info("volume skipped", "volume_id", v.ID, "reason", reason, "state", v.State, "age_days", days)
				continue
			}
			log.Info("volume eligible", "volume_id", v.ID, "age_days", days, "size_gib", v.SizeGiB)
			eligible = append(eligible, candidate{
				resourceType: model.ResourceVolume,
				id:           v.ID,
				sizeGiB:      v.SizeGiB,
				ageDays:      days,
			})
		}
		return page.NextToken, nil
	})

	return eligible, err
}

func (s *reclaimerService) scanSnapshots(ctx context.Context, log log15.Logger, report *model.Report, p policy, referenced map[string]struct{}) ([]candidate, error) {
	var eligible []candidate

	err := paginate(ctx, func(ctx context.Context, token string) (string, error) {
		page, err := s.inventory.ListSnapshots(ctx, token)
		if err != nil {
			return "", err
		}
		for _, snap := range page.Snapshots {
			report.SnapshotsInspected++
			days, reason, ok := p.snapshot(snap, referenced)
			if !ok {
				report.SnapshotsSkipped = append(report.SnapshotsSkipped, model.SkippedResource{ID: snap.ID, Reason: reason})
				log.Info("snapshot skipped", "snapshot_id", snap.ID, "reason", reason, "age_days", days)
				continue
			}
			log.Info("snapshot eligible", "snapshot_id", snap.ID, "volume_id", snap.VolumeID, "age_days", days)
			eligible = append(eligible, candidate{
				resourceType: model.ResourceSnapshot,
				id:           snap.ID,
				sizeGiB:      snap.SizeGiB,
				ageDays:      days,
			})
		}
		return page.NextToken, nil
	})

	return eligible, err
}

// delete issues one delete call and records its outcome. Failures never stop the run.
func (s *reclaimerService) delete(ctx context.Context, log log15.Logger, report *model.Report, c candidate) {
	var err error
	if c.resourceType == model.ResourceVolume {
		err = s.mutator.DeleteVolume(ctx, c.id)
	} else {
		err = s.mutator.DeleteSnapshot(ctx, c.id)
	}

	idKey := c.resourceType + "_id"

	switch {
	case err == nil:
		report.ReclaimedGiB += int64(c.sizeGiB)
		log.Info(c.resourceType+" deleted", idKey, c.id, "age_days", c.ageDays, "size_gib", c.sizeGiB, "dry_run", s.opts.DryRun)
	case errors.Is(err, model.ErrNotFound):
		// Another run or an operator got there first.
		log.Info(c.resourceType+" already gone", idKey, c.id)
	default:
		kind := failureKind(err)
		report.Failures = append(report.Failures, model.Failure{
			ID:           c.id,
			ResourceType: c.resourceType,
			Kind:         kind,
			Error:        err.Error(),
		})
		log.Error(c.resourceType+" delete failed", idKey, c.id, "kind", kind, "error", err)
		return
	}

	if c.resourceType == model.ResourceVolume {
		report.VolumesDeleted = append(report.VolumesDeleted, c.id)
	} else {
		report.SnapshotsDeleted = append(report.SnapshotsDeleted, c.id)
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, model.ErrInUse):
		return model.FailureInUse
	case errors.Is(err, model.ErrPermission):
		return model.FailurePermission
	default:
		return model.FailureOther
	}
}
