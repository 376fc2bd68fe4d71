package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/elC0mpa/ebs-reclaimer/cmd/mcp/response"
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/elC0mpa/ebs-reclaimer/service/memory"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeIdentity struct{ err error }

func (f fakeIdentity) GetAccountInfo(ctx context.Context) (*model.AccountInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.AccountInfo{Provider: "aws", AccountID: "111122223333", AccountName: "arn:aws:iam::111122223333:user/ops"}, nil
}

type memoryBackend struct {
	provider    *memory.Provider
	identityErr error
	lastOpts    reclaimer.Options
}

func (b *memoryBackend) Identity(ctx context.Context) (service.IdentityService, error) {
	return fakeIdentity{err: b.identityErr}, nil
}

func (b *memoryBackend) Engine(ctx context.Context, opts reclaimer.Options) (reclaimer.ReclaimerService, error) {
	b.lastOpts = opts
	opts.Now = func() time.Time { return now }
	p := b.provider
	if opts.DryRun {
		// plan must never reach a mutating provider
		return reclaimer.NewService(p, dryRunMutator{}, nil, opts), nil
	}
	return reclaimer.NewService(p, p, nil, opts), nil
}

type dryRunMutator struct{}

func (dryRunMutator) DeleteVolume(context.Context, string) error   { return nil }
func (dryRunMutator) DeleteSnapshot(context.Context, string) error { return nil }

func newBackend() *memoryBackend {
	return &memoryBackend{provider: memory.NewProvider(
		memory.WithVolumes(
			model.Volume{ID: "vol-old", State: model.VolumeStateAvailable, CreateTime: now.AddDate(0, 0, -20), SizeGiB: 10},
			model.Volume{ID: "vol-new", State: model.VolumeStateAvailable, CreateTime: now.AddDate(0, 0, -2), SizeGiB: 10},
		),
	)}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return result, text.Text
}

func TestAccountInfo(t *testing.T) {
	result, text := call(t, makeAWSAccountInfoHandler(newBackend()), nil)

	assert.False(t, result.IsError)
	var info response.AccountInfo
	require.NoError(t, json.Unmarshal([]byte(text), &info))
	assert.Equal(t, "111122223333", info.AccountID)
}

func TestPlan_DoesNotDelete(t *testing.T) {
	backend := newBackend()

	result, text := call(t, makeReclaimHandler(settings.Default(), backend, true), map[string]any{"retention_days": float64(5)})

	assert.False(t, result.IsError)
	assert.True(t, backend.lastOpts.DryRun)
	assert.Len(t, backend.provider.Volumes(), 2)

	var summary response.ReclaimSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.True(t, summary.DryRun)
	assert.Equal(t, 5, summary.RetentionDays)
	assert.Equal(t, []string{"vol-old"}, summary.VolumesDeleted)
	assert.Equal(t, map[string]int{"too-young": 1}, summary.SkippedByReason)
}

func TestRun_RequiresConfirm(t *testing.T) {
	backend := newBackend()

	result, _ := call(t, makeReclaimHandler(settings.Default(), backend, false), map[string]any{"confirm": false})

	assert.True(t, result.IsError)
	assert.Len(t, backend.provider.Volumes(), 2)
	assert.Empty(t, backend.provider.Calls())
}

func TestRun_DefaultRetention(t *testing.T) {
	backend := newBackend()

	result, text := call(t, makeReclaimHandler(settings.Default(), backend, false), map[string]any{"confirm": true})

	assert.False(t, result.IsError)
	var summary response.ReclaimSummary
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Equal(t, settings.DefaultRetentionDays, summary.RetentionDays)
	assert.Equal(t, []string{"vol-old"}, summary.VolumesDeleted)
	assert.Len(t, backend.provider.Volumes(), 1)
}

func TestRun_InvalidRetention(t *testing.T) {
	for _, v := range []any{float64(-1), 2.5, "soon", nil} {
		backend := newBackend()

		result, text := call(t, makeReclaimHandler(settings.Default(), backend, false), map[string]any{"confirm": true, "retention_days": v})

		assert.True(t, result.IsError, "%v", v)
		assert.Contains(t, text, "Invalid arguments")
		assert.Empty(t, backend.provider.Calls())
	}
}

func TestRun_AbortIsReportedAsError(t *testing.T) {
	backend := newBackend()
	backend.provider.FailListing(memory.OpListVolumes, errors.New("throttled"))

	result, text := call(t, makeReclaimHandler(settings.Default(), backend, false), map[string]any{"confirm": true})

	assert.True(t, result.IsError)
	assert.Contains(t, text, "throttled")
	assert.Contains(t, text, `"state": "aborted"`)
}

func TestRun_IdentityError(t *testing.T) {
	backend := newBackend()
	backend.identityErr = errors.New("expired token")

	result, text := call(t, makeReclaimHandler(settings.Default(), backend, false), map[string]any{"confirm": true})

	assert.True(t, result.IsError)
	assert.Contains(t, text, "expired token")
}
