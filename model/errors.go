package model

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInUse              = errors.New("resource in use")
	ErrPermission         = errors.New("permission denied")
	ErrInvalidRetention   = errors.New("retention_days must be a non-negative integer")
	ErrDuplicatePageToken = errors.New("provider returned a duplicate continuation token")
)
