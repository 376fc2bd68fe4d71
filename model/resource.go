package model

import "time"

// Volume states reported by EC2
const (
	VolumeStateAvailable = "available"
	VolumeStateInUse     = "in-use"
)

// Volume is a read-only view of an EBS volume for the duration of one run
type Volume struct {
	ID          string
	State       string
	CreateTime  time.Time
	Attachments []VolumeAttachment
	SizeGiB     int32
	Tags        map[string]string
}

// VolumeAttachment names the instance a volume is attached to
type VolumeAttachment struct {
	InstanceID string
	State      string
}

// Snapshot is a read-only view of an EBS snapshot
type Snapshot struct {
	ID          string
	VolumeID    string
	StartTime   time.Time
	OwnerID     string
	SizeGiB     int32
	Description string
	Tags        map[string]string
}

// Image is a machine image and the snapshots backing its block devices
type Image struct {
	ID          string
	Name        string
	SnapshotIDs []string
}

// VolumePage is one page of a volume listing. An empty NextToken ends the listing.
type VolumePage struct {
	Volumes   []Volume
	NextToken string
}

type SnapshotPage struct {
	Snapshots []Snapshot
	NextToken string
}

type ImagePage struct {
	Images    []Image
	NextToken string
}

// AccountInfo represents the cloud account the run operates on
type AccountInfo struct {
	Provider    string
	AccountID   string
	AccountName string
}
