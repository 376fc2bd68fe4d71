package awsec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/elC0mpa/ebs-reclaimer/model"
)

const (
	// DescribeVolumes accepts 5-500 results per page
	minPageSize     = 5
	maxPageSize     = 500
	defaultPageSize = maxPageSize
)

func NewService(awsconfig aws.Config, opts ...Option) *service {
	return newService(ec2.NewFromConfig(awsconfig), opts...)
}

func newService(client ec2API, opts ...Option) *service {
	s := &service{
		client:   client,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPageSize sets MaxResults for every describe call, clamped to what EC2 accepts
func WithPageSize(n int) Option {
	return func(s *service) {
		switch {
		case n <= 0:
			s.pageSize = defaultPageSize
		case n < minPageSize:
			s.pageSize = minPageSize
		case n > maxPageSize:
			s.pageSize = maxPageSize
		default:
			s.pageSize = int32(n)
		}
	}
}

// WithDryRun sends deletes with the EC2 DryRun flag so nothing is removed
func WithDryRun(dryRun bool) Option {
	return func(s *service) { s.dryRun = dryRun }
}

func (s *service) ListVolumes(ctx context.Context, nextToken string) (*model.VolumePage, error) {
	output, err := s.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		MaxResults: aws.Int32(s.pageSize),
		NextToken:  token(nextToken),
	})
	if err != nil {
		return nil, err
	}

	volumes := make([]model.Volume, 0, len(output.Volumes))
	for _, v := range output.Volumes {
		volumes = append(volumes, toVolume(v))
	}

	return &model.VolumePage{
		Volumes:   volumes,
		NextToken: aws.ToString(output.NextToken),
	}, nil
}

func (s *service) ListSnapshots(ctx context.Context, nextToken string) (*model.SnapshotPage, error) {
	output, err := s.client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		OwnerIds:   []string{"self"},
		MaxResults: aws.Int32(s.pageSize),
		NextToken:  token(nextToken),
	})
	if err != nil {
		return nil, err
	}

	snapshots := make([]model.Snapshot, 0, len(output.Snapshots))
	for _, snap := range output.Snapshots {
		snapshots = append(snapshots, toSnapshot(snap))
	}

	return &model.SnapshotPage{
		Snapshots: snapshots,
		NextToken: aws.ToString(output.NextToken),
	}, nil
}

// ListImages includes disabled and deprecated images: they still own their snapshots.
func (s *service) ListImages(ctx context.Context, nextToken string) (*model.ImagePage, error) {
	output, err := s.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners:            []string{"self"},
		IncludeDeprecated: aws.Bool(true),
		IncludeDisabled:   aws.Bool(true),
		MaxResults:        aws.Int32(s.pageSize),
		NextToken:         token(nextToken),
	})
	if err != nil {
		return nil, err
	}

	images := make([]model.Image, 0, len(output.Images))
	for _, image := range output.Images {
		images = append(images, toImage(image))
	}

	return &model.ImagePage{
		Images:    images,
		NextToken: aws.ToString(output.NextToken),
	}, nil
}

func (s *service) DeleteVolume(ctx context.Context, id string) error {
	input := &ec2.DeleteVolumeInput{VolumeId: aws.String(id)}
	if s.dryRun {
		input.DryRun = aws.Bool(true)
	}

	_, err := s.client.DeleteVolume(ctx, input)
	return classifyError("volume", id, err)
}

func (s *service) DeleteSnapshot(ctx context.Context, id string) error {
	input := &ec2.DeleteSnapshotInput{SnapshotId: aws.String(id)}
	if s.dryRun {
		input.DryRun = aws.Bool(true)
	}

	_, err := s.client.DeleteSnapshot(ctx, input)
	return classifyError("snapshot", id, err)
}

func token(t string) *string {
	if t == "" {
		return nil
	}
	return aws.String(t)
}

func toVolume(v types.Volume) model.Volume {
	volume := model.Volume{
		ID:      aws.ToString(v.VolumeId),
		State:   string(v.State),
		SizeGiB: aws.ToInt32(v.Size),
		Tags:    toTags(v.Tags),
	}
	if v.CreateTime != nil {
		volume.CreateTime = *v.CreateTime
	}
	for _, a := range v.Attachments {
		volume.Attachments = append(volume.Attachments, model.VolumeAttachment{
			InstanceID: aws.ToString(a.InstanceId),
			State:      string(a.State),
		})
	}
	return volume
}

func toSnapshot(s types.Snapshot) model.Snapshot {
	snapshot := model.Snapshot{
		ID:          aws.ToString(s.SnapshotId),
		VolumeID:    aws.ToString(s.VolumeId),
		OwnerID:     aws.ToString(s.OwnerId),
		SizeGiB:     aws.ToInt32(s.VolumeSize),
		Description: aws.ToString(s.Description),
		Tags:        toTags(s.Tags),
	}
	if s.StartTime != nil {
		snapshot.StartTime = *s.StartTime
	}
	return snapshot
}

func toImage(i types.Image) model.Image {
	image := model.Image{
		ID:   aws.ToString(i.ImageId),
		Name: aws.ToString(i.Name),
	}
	for _, mapping := range i.BlockDeviceMappings {
		if mapping.Ebs != nil && mapping.Ebs.SnapshotId != nil {
			image.SnapshotIDs = append(image.SnapshotIDs, *mapping.Ebs.SnapshotId)
		}
	}
	return image
}

func toTags(tags []types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}
