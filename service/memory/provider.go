package memory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

const defaultPageSize = 50

func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		pageSize:     defaultPageSize,
		listErrors:   make(map[string]error),
		deleteErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithVolumes(volumes ...model.Volume) Option {
	return func(p *Provider) { p.volumes = append(p.volumes, volumes...) }
}

func WithSnapshots(snapshots ...model.Snapshot) Option {
	return func(p *Provider) { p.snapshots = append(p.snapshots, snapshots...) }
}

func WithImages(images ...model.Image) Option {
	return func(p *Provider) { p.images = append(p.images, images...) }
}

// WithPageSize splits every listing into pages of at most n items
func WithPageSize(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

// WithDryRun makes deletes succeed without removing anything
func WithDryRun(dryRun bool) Option {
	return func(p *Provider) { p.dryRun = dryRun }
}

// FailListing makes every call of the given listing operation return err
func (p *Provider) FailListing(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listErrors[op] = err
}

// FailDelete makes deletes of id return err
func (p *Provider) FailDelete(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteErrors[id] = err
}

// Calls returns the operations issued so far, e.g. "DeleteVolume vol-1"
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *Provider) Volumes() []model.Volume {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Volume(nil), p.volumes...)
}

func (p *Provider) Snapshots() []model.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Snapshot(nil), p.snapshots...)
}

func (p *Provider) ListVolumes(ctx context.Context, nextToken string) (*model.VolumePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.listCall(OpListVolumes, nextToken); err != nil {
		return nil, err
	}
	start, end, next, err := p.window(nextToken, len(p.volumes))
	if err != nil {
		return nil, err
	}

	return &model.VolumePage{
		Volumes:   append([]model.Volume(nil), p.volumes[start:end]...),
		NextToken: next,
	}, nil
}

func (p *Provider) ListSnapshots(ctx context.Context, nextToken string) (*model.SnapshotPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.listCall(OpListSnapshots, nextToken); err != nil {
		return nil, err
	}
	start, end, next, err := p.window(nextToken, len(p.snapshots))
	if err != nil {
		return nil, err
	}

	return &model.SnapshotPage{
		Snapshots: append([]model.Snapshot(nil), p.snapshots[start:end]...),
		NextToken: next,
	}, nil
}

func (p *Provider) ListImages(ctx context.Context, nextToken string) (*model.ImagePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.listCall(OpListImages, nextToken); err != nil {
		return nil, err
	}
	start, end, next, err := p.window(nextToken, len(p.images))
	if err != nil {
		return nil, err
	}

	return &model.ImagePage{
		Images:    append([]model.Image(nil), p.images[start:end]...),
		NextToken: next,
	}, nil
}

func (p *Provider) DeleteVolume(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, "DeleteVolume "+id)
	if err := p.deleteErrors[id]; err != nil {
		return err
	}

	for i, v := range p.volumes {
		if v.ID != id {
			continue
		}
		if len(v.Attachments) > 0 {
			return fmt.Errorf("volume %s is attached: %w", id, model.ErrInUse)
		}
		if !p.dryRun {
			p.volumes = append(p.volumes[:i], p.volumes[i+1:]...)
		}
		return nil
	}

	return fmt.Errorf("volume %s: %w", id, model.ErrNotFound)
}

func (p *Provider) DeleteSnapshot(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, "DeleteSnapshot "+id)
	if err := p.deleteErrors[id]; err != nil {
		return err
	}

	for _, image := range p.images {
		for _, ref := range image.SnapshotIDs {
			if ref == id {
				return fmt.Errorf("snapshot %s is used by %s: %w", id, image.ID, model.ErrInUse)
			}
		}
	}

	for i, snap := range p.snapshots {
		if snap.ID != id {
			continue
		}
		if !p.dryRun {
			p.snapshots = append(p.snapshots[:i], p.snapshots[i+1:]...)
		}
		return nil
	}

	return fmt.Errorf("snapshot %s: %w", id, model.ErrNotFound)
}

func (p *Provider) listCall(op, token string) error {
	p.calls = append(p.calls, op+" "+token)
	return p.listErrors[op]
}

// window turns a token (the decimal offset of the page) into slice bounds
func (p *Provider) window(token string, total int) (int, int, string, error) {
	start := 0
	if token != "" {
		offset, err := strconv.Atoi(token)
		if err != nil || offset < 0 || offset > total {
			return 0, 0, "", fmt.Errorf("invalid page token %q", token)
		}
		start = offset
	}

	end := start + p.pageSize
	if end >= total {
		return start, total, "", nil
	}

	return start, end, strconv.Itoa(end), nil
}
