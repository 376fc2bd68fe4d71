package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service/memory"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeIdentity struct {
	err error
}

func (f fakeIdentity) GetAccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.AccountInfo{Provider: "aws", AccountID: "111122223333"}, nil
}

type recordingObserver struct {
	observed []*model.Report
	pushed   []string
	pushErr  error
}

func (r *recordingObserver) Observe(report *model.Report) {
	r.observed = append(r.observed, report)
}

func (r *recordingObserver) Push(ctx context.Context, url string) error {
	r.pushed = append(r.pushed, url)
	return r.pushErr
}

func engineFor(p *memory.Provider, captured *reclaimer.Options) EngineFactory {
	return func(opts reclaimer.Options) reclaimer.ReclaimerService {
		opts.Now = func() time.Time { return now }
		opts.NewRunID = func() string { return "run-1" }
		*captured = opts
		return reclaimer.NewService(p, p, nil, opts)
	}
}

func newProvider() *memory.Provider {
	return memory.NewProvider(
		memory.WithVolumes(
			model.Volume{ID: "vol-old", State: model.VolumeStateAvailable, CreateTime: now.AddDate(0, 0, -30), SizeGiB: 8},
			model.Volume{ID: "vol-new", State: model.VolumeStateAvailable, CreateTime: now.AddDate(0, 0, -1), SizeGiB: 8},
		),
	)
}

func TestOrchestrate_JSON(t *testing.T) {
	var out bytes.Buffer
	var opts reclaimer.Options
	p := newProvider()
	obs := &recordingObserver{}

	svc := NewService(fakeIdentity{}, engineFor(p, &opts), WithOutput(&out), WithObserver(obs, "http://pushgateway:9091"))

	report, err := svc.Orchestrate(context.Background(), model.Flags{
		Region:        "eu-west-1",
		RetentionDays: 7,
		ProtectTag:    "keep",
		Output:        "json",
	})
	require.NoError(t, err)

	assert.Equal(t, "111122223333", opts.AccountID)
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "keep", opts.ProtectTag)
	assert.Equal(t, []string{"vol-old"}, report.VolumesDeleted)

	var decoded model.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "111122223333", decoded.AccountID)

	require.Len(t, obs.observed, 1)
	assert.Equal(t, []string{"http://pushgateway:9091"}, obs.pushed)
}

func TestOrchestrate_PlanDoesNotDelete(t *testing.T) {
	var out bytes.Buffer
	var opts reclaimer.Options
	p := memory.NewProvider(
		memory.WithDryRun(true),
		memory.WithVolumes(model.Volume{ID: "vol-old", State: model.VolumeStateAvailable, CreateTime: now.AddDate(0, 0, -30)}),
	)

	svc := NewService(fakeIdentity{}, engineFor(p, &opts), WithOutput(&out))

	report, err := svc.Orchestrate(context.Background(), model.Flags{RetentionDays: 7, DryRun: true, Output: "table"})
	require.NoError(t, err)

	assert.True(t, opts.DryRun)
	assert.True(t, report.DryRun)
	assert.Len(t, p.Volumes(), 1)
	assert.Contains(t, out.String(), "(dry run)")
}

func TestOrchestrate_IdentityError(t *testing.T) {
	var opts reclaimer.Options
	svc := NewService(fakeIdentity{err: errors.New("expired token")}, engineFor(newProvider(), &opts), WithOutput(&bytes.Buffer{}))

	report, err := svc.Orchestrate(context.Background(), model.Flags{RetentionDays: 7})

	assert.Nil(t, report)
	assert.ErrorContains(t, err, "resolving account: expired token")
}

func TestOrchestrate_AbortedRunStillRendersAndObserves(t *testing.T) {
	var out bytes.Buffer
	var opts reclaimer.Options
	p := newProvider()
	p.FailListing(memory.OpListVolumes, errors.New("throttled"))
	obs := &recordingObserver{pushErr: errors.New("gateway down")}

	svc := NewService(fakeIdentity{}, engineFor(p, &opts), WithOutput(&out), WithObserver(obs, "http://pushgateway:9091"))

	report, err := svc.Orchestrate(context.Background(), model.Flags{RetentionDays: 7, Output: "table"})

	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, model.RunStateAborted, report.State)
	assert.Contains(t, out.String(), "throttled")
	assert.Len(t, obs.observed, 1)
}

func TestOrchestrate_UnknownOutput(t *testing.T) {
	var opts reclaimer.Options
	svc := NewService(fakeIdentity{}, engineFor(newProvider(), &opts), WithOutput(&bytes.Buffer{}))

	_, err := svc.Orchestrate(context.Background(), model.Flags{RetentionDays: 7, Output: "xml"})

	assert.ErrorContains(t, err, `unknown output format "xml"`)
}
