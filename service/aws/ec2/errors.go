package awsec2

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/elC0mpa/ebs-reclaimer/model"
)

// dryRunOperation is returned when a DryRun request would have succeeded
const dryRunOperation = "DryRunOperation"

var errorCodes = map[string]error{
	"InvalidVolume.NotFound":   model.ErrNotFound,
	"InvalidSnapshot.NotFound": model.ErrNotFound,
	"VolumeInUse":              model.ErrInUse,
	"InvalidSnapshot.InUse":    model.ErrInUse,
	"IncorrectState":           model.ErrInUse,
	"UnauthorizedOperation":    model.ErrPermission,
	"AuthFailure":              model.ErrPermission,
	"AccessDenied":             model.ErrPermission,
	"AccessDeniedException":    model.ErrPermission,
}

// classifyError wraps EC2 API errors with the matching model sentinel.
// Unknown errors are returned with context but no sentinel.
func classifyError(kind, id string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("deleting %s %s: %w", kind, id, err)
	}

	if apiErr.ErrorCode() == dryRunOperation {
		return nil
	}

	if sentinel, ok := errorCodes[apiErr.ErrorCode()]; ok {
		return fmt.Errorf("deleting %s %s: %w: %w", kind, id, sentinel, err)
	}

	return fmt.Errorf("deleting %s %s: %w", kind, id, err)
}
