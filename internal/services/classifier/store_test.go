package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "model.json"))

	p := InitParameters(rand.New(rand.NewSource(10)))
	p.BestValidationLoss = 0.123
	p.BestEpoch = 7
	p.Seed = 42

	if err := store.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.BestEpoch != 7 || loaded.BestValidationLoss != 0.123 || loaded.Seed != 42 {
		t.Errorf("metadata not preserved: %+v", loaded)
	}
	for i := range p.Conv[0].W {
		if loaded.Conv[0].W[i] != p.Conv[0].W[i] {
			t.Fatalf("conv weight %d differs after round trip", i)
		}
	}

	// Inference through the loaded copy matches the original exactly
	x := randomCepstra(rand.New(rand.NewSource(11)))
	if loaded.Probability(x) != p.Probability(x) {
		t.Error("loaded parameters produce a different probability")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := store.Load(); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); !errors.Is(err, ErrArtifactCorrupt) {
		t.Errorf("Load() error = %v, want ErrArtifactCorrupt", err)
	}
}

func TestStoreLoadInvalidShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(`{"conv":[null,null,null],"norm":[null,null,null],"fc":[null,null,null]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); !errors.Is(err, ErrArtifactInvalid) {
		t.Errorf("Load() error = %v, want ErrArtifactInvalid", err)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "model.json"))

	p := InitParameters(rand.New(rand.NewSource(12)))
	if err := store.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Overwriting must also go through the same atomic path
	if err := store.Save(p); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".voice_classifier_") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in %s, found %d entries", dir, len(entries))
	}
}

func TestStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "models", "model.json")
	store := NewStore(path)

	if err := store.Save(InitParameters(rand.New(rand.NewSource(13)))); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}
