package classifier

import "errors"

var (
	// ErrArtifactNotFound is returned when no saved model exists at the store path
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrArtifactCorrupt is returned when the artifact cannot be decoded
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrArtifactInvalid is returned when a decoded artifact fails the
	// structural check (wrong layer shapes for this network)
	ErrArtifactInvalid = errors.New("model artifact has invalid shape")
)
