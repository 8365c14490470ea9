package demand

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrModelNotFound = errors.New("demand: model file not found")

// Save writes m as YAML, replacing path atomically.
func Save(m *Model, path string) error {
	if m == nil {
		return ErrNotTrained
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelNotFound, path, err)
	}
	if err != nil {
		return nil, err
	}
	var m Model
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("demand: decode %s: %w", path, err)
	}
	if m.Version != modelVersion {
		return nil, fmt.Errorf("demand: %s has model version %d, want %d", path, m.Version, modelVersion)
	}
	if m.Corrals == nil {
		m.Corrals = map[string]*Profile{}
	}
	return &m, nil
}
