package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileStore persists the override map as a single JSON object on disk,
// keyed by group ID. A missing file loads as an empty map.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (map[int]bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[int]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read override file: %w", err)
	}

	// JSON object keys are strings; convert back to integer group IDs.
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode override file: %w", err)
	}
	m := make(map[int]bool, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("decode override key %q: %w", k, err)
		}
		m[id] = v
	}
	return m, nil
}

func (s *FileStore) SaveAll(_ context.Context, m map[int]bool) error {
	raw := make(map[string]bool, len(m))
	for id, v := range m {
		raw[strconv.Itoa(id)] = v
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode override map: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create override directory: %w", err)
		}
	}

	// Write-then-rename so a crash mid-save never leaves a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write override file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace override file: %w", err)
	}
	return nil
}
