package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists model parameters as a JSON artifact on disk
type Store struct {
	path string
}

// NewStore creates a store for the given artifact path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the artifact. A missing file yields
// ErrArtifactNotFound so callers can distinguish "not trained yet" from a
// damaged artifact.
func (s *Store) Load() (*Parameters, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.path)
		}
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if !p.valid() {
		return nil, fmt.Errorf("%w: %s", ErrArtifactInvalid, s.path)
	}
	return &p, nil
}

// Save writes the parameters atomically: the artifact is serialized to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partially written model.
func (s *Store) Save(p *Parameters) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding model artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".voice_classifier_*.json")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp artifact: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing model artifact: %w", err)
	}
	return nil
}
