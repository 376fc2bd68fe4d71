package awsec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/elC0mpa/ebs-reclaimer/model"
)

// ec2API is the part of *ec2.Client this package calls
type ec2API interface {
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DeleteVolume(ctx context.Context, params *ec2.DeleteVolumeInput, optFns ...func(*ec2.Options)) (*ec2.DeleteVolumeOutput, error)
	DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error)
}

type service struct {
	client   ec2API
	pageSize int32
	dryRun   bool
}

type Option func(*service)

type EC2Service interface {
	ListVolumes(ctx context.Context, nextToken string) (*model.VolumePage, error)
	ListSnapshots(ctx context.Context, nextToken string) (*model.SnapshotPage, error)
	ListImages(ctx context.Context, nextToken string) (*model.ImagePage, error)
	DeleteVolume(ctx context.Context, id string) error
	DeleteSnapshot(ctx context.Context, id string) error
}
