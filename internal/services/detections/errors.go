package detections

import "errors"

var (
	// ErrDetectionNotFound is returned when no detection matches the lookup
	ErrDetectionNotFound = errors.New("detection not found")
)
