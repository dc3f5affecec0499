package services

import "errors"

// ErrStorageUnavailable is returned when an operation needs object storage
// but no backend is configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")
