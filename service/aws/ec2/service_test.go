package awsec2

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	volumePages map[string]*ec2.DescribeVolumesOutput
	snapshots   *ec2.DescribeSnapshotsOutput
	images      *ec2.DescribeImagesOutput
	deleteErr   error

	volumeInputs   []*ec2.DescribeVolumesInput
	snapshotInputs []*ec2.DescribeSnapshotsInput
	imageInputs    []*ec2.DescribeImagesInput
	deletedVolume  *ec2.DeleteVolumeInput
	deletedSnap    *ec2.DeleteSnapshotInput
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	f.volumeInputs = append(f.volumeInputs, params)
	return f.volumePages[aws.ToString(params.NextToken)], nil
}

func (f *fakeEC2) DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	f.snapshotInputs = append(f.snapshotInputs, params)
	return f.snapshots, nil
}

func (f *fakeEC2) DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	f.imageInputs = append(f.imageInputs, params)
	return f.images, nil
}

func (f *fakeEC2) DeleteVolume(ctx context.Context, params *ec2.DeleteVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVolumeOutput, error) {
	f.deletedVolume = params
	return &ec2.DeleteVolumeOutput{}, f.deleteErr
}

func (f *fakeEC2) DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error) {
	f.deletedSnap = params
	return &ec2.DeleteSnapshotOutput{}, f.deleteErr
}

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code + " message", Fault: smithy.FaultClient}
}

func TestListVolumes_MapsPageAndToken(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	client := &fakeEC2{volumePages: map[string]*ec2.DescribeVolumesOutput{
		"": {
			Volumes: []types.Volume{{
				VolumeId:   aws.String("vol-1"),
				State:      types.VolumeStateInUse,
				CreateTime: aws.Time(created),
				Size:       aws.Int32(100),
				Attachments: []types.VolumeAttachment{
					{InstanceId: aws.String("i-1"), State: types.VolumeAttachmentStateAttached},
				},
				Tags: []types.Tag{{Key: aws.String("Name"), Value: aws.String("data")}},
			}},
			NextToken: aws.String("page-2"),
		},
		"page-2": {Volumes: []types.Volume{{VolumeId: aws.String("vol-2"), State: types.VolumeStateAvailable}}},
	}}
	svc := newService(client, WithPageSize(100))

	first, err := svc.ListVolumes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first.Volumes, 1)
	assert.Equal(t, model.Volume{
		ID:          "vol-1",
		State:       "in-use",
		CreateTime:  created,
		SizeGiB:     100,
		Attachments: []model.VolumeAttachment{{InstanceID: "i-1", State: "attached"}},
		Tags:        map[string]string{"Name": "data"},
	}, first.Volumes[0])
	assert.Equal(t, "page-2", first.NextToken)
	assert.Nil(t, client.volumeInputs[0].NextToken)
	assert.Equal(t, int32(100), aws.ToInt32(client.volumeInputs[0].MaxResults))
	assert.Empty(t, client.volumeInputs[0].Filters, "in-use volumes must be listed so they can be reported")

	second, err := svc.ListVolumes(context.Background(), first.NextToken)
	require.NoError(t, err)
	assert.Equal(t, "page-2", aws.ToString(client.volumeInputs[1].NextToken))
	assert.Empty(t, second.NextToken)
	assert.True(t, second.Volumes[0].CreateTime.IsZero())
}

func TestListSnapshots_OwnedBySelf(t *testing.T) {
	started := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	client := &fakeEC2{snapshots: &ec2.DescribeSnapshotsOutput{Snapshots: []types.Snapshot{{
		SnapshotId:  aws.String("snap-1"),
		VolumeId:    aws.String("vol-gone"),
		StartTime:   aws.Time(started),
		OwnerId:     aws.String("123456789012"),
		VolumeSize:  aws.Int32(8),
		Description: aws.String("nightly"),
	}}}}
	svc := newService(client)

	page, err := svc.ListSnapshots(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"self"}, client.snapshotInputs[0].OwnerIds)
	assert.Equal(t, model.Snapshot{
		ID:          "snap-1",
		VolumeID:    "vol-gone",
		StartTime:   started,
		OwnerID:     "123456789012",
		SizeGiB:     8,
		Description: "nightly",
	}, page.Snapshots[0])
}

func TestListImages_CollectsSnapshotReferences(t *testing.T) {
	client := &fakeEC2{images: &ec2.DescribeImagesOutput{Images: []types.Image{{
		ImageId: aws.String("ami-1"),
		Name:    aws.String("golden"),
		BlockDeviceMappings: []types.BlockDeviceMapping{
			{DeviceName: aws.String("/dev/xvda"), Ebs: &types.EbsBlockDevice{SnapshotId: aws.String("snap-root")}},
			{DeviceName: aws.String("/dev/xvdb"), Ebs: &types.EbsBlockDevice{SnapshotId: aws.String("snap-data")}},
			{DeviceName: aws.String("/dev/sdc"), VirtualName: aws.String("ephemeral0")},
		},
	}}}}
	svc := newService(client)

	page, err := svc.ListImages(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []model.Image{{ID: "ami-1", Name: "golden", SnapshotIDs: []string{"snap-root", "snap-data"}}}, page.Images)
	input := client.imageInputs[0]
	assert.Equal(t, []string{"self"}, input.Owners)
	assert.True(t, aws.ToBool(input.IncludeDeprecated))
	assert.True(t, aws.ToBool(input.IncludeDisabled))
}

func TestWithPageSize_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want int32
	}{
		{in: 0, want: 500},
		{in: 1, want: 5},
		{in: 50, want: 50},
		{in: 5000, want: 500},
	}

	for _, tt := range tests {
		svc := newService(&fakeEC2{}, WithPageSize(tt.in))
		assert.Equal(t, tt.want, svc.pageSize, "page size %d", tt.in)
	}
}

func TestDelete_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
		want    error
	}{
		{name: "success", err: nil, wantNil: true},
		{name: "dry run would succeed", err: apiError("DryRunOperation"), wantNil: true},
		{name: "volume not found", err: apiError("InvalidVolume.NotFound"), want: model.ErrNotFound},
		{name: "snapshot not found", err: apiError("InvalidSnapshot.NotFound"), want: model.ErrNotFound},
		{name: "volume busy", err: apiError("VolumeInUse"), want: model.ErrInUse},
		{name: "snapshot used by image", err: apiError("InvalidSnapshot.InUse"), want: model.ErrInUse},
		{name: "unauthorized", err: apiError("UnauthorizedOperation"), want: model.ErrPermission},
		{name: "auth failure", err: apiError("AuthFailure"), want: model.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&fakeEC2{deleteErr: tt.err})

			err := svc.DeleteVolume(context.Background(), "vol-1")
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err, "original API error stays in the chain")
			assert.Contains(t, err.Error(), "vol-1")
		})
	}
}

func TestDelete_UnknownErrorHasNoSentinel(t *testing.T) {
	svc := newService(&fakeEC2{deleteErr: errors.New("connection reset by peer")})

	err := svc.DeleteSnapshot(context.Background(), "snap-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.NotErrorIs(t, err, model.ErrInUse)
	assert.NotErrorIs(t, err, model.ErrPermission)
	assert.Contains(t, err.Error(), "deleting snapshot snap-1")
}

func TestDelete_DryRunFlag(t *testing.T) {
	client := &fakeEC2{}

	require.NoError(t, newService(client, WithDryRun(true)).DeleteVolume(context.Background(), "vol-1"))
	assert.Equal(t, "vol-1", aws.ToString(client.deletedVolume.VolumeId))
	assert.True(t, aws.ToBool(client.deletedVolume.DryRun))

	require.NoError(t, newService(client).DeleteSnapshot(context.Background(), "snap-1"))
	assert.Equal(t, "snap-1", aws.ToString(client.deletedSnap.SnapshotId))
	assert.Nil(t, client.deletedSnap.DryRun)
}
