package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SnapshotStore is the file-based home of ingested camps. Each camp is a
// versioned JSON file named <id>_<updatedAt>.json; loading the catalog
// reads every current version.
type SnapshotStore struct {
	basePath string
}

// NewSnapshotStore creates a SnapshotStore and ensures the base
// directory exists.
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory %s: %w", basePath, err)
	}
	return &SnapshotStore{basePath: basePath}, nil
}

// sanitizeTimestamp makes a timestamp safe for filenames.
func sanitizeTimestamp(ts string) string {
	return strings.ReplaceAll(ts, ":", "-")
}

func (s *SnapshotStore) versionedPath(campID, updatedAt string) string {
	filename := fmt.Sprintf("%s_%s.json", campID, sanitizeTimestamp(updatedAt))
	return filepath.Join(s.basePath, filename)
}

// Save writes a camp to its versioned file.
func (s *SnapshotStore) Save(c Camp) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal camp: %w", err)
	}
	path := s.versionedPath(c.ID, c.UpdatedAt)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write camp file: %w", err)
	}
	return nil
}

// Exists checks whether this exact version of a camp is already stored.
func (s *SnapshotStore) Exists(campID, updatedAt string) bool {
	_, err := os.Stat(s.versionedPath(campID, updatedAt))
	return !os.IsNotExist(err)
}

// RemoveStaleVersions removes every stored version of a camp. Called
// before saving a new version so only the latest remains.
func (s *SnapshotStore) RemoveStaleVersions(campID string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.json", campID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}

// LoadAll reads every stored camp, sorted by name for a stable catalog
// order.
func (s *SnapshotStore) LoadAll() ([]Camp, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog files: %w", err)
	}

	var camps []Camp
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read camp file %s: %w", path, err)
		}
		var c Camp
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal camp file %s: %w", path, err)
		}
		camps = append(camps, c)
	}

	sort.Slice(camps, func(i, j int) bool { return camps[i].Name < camps[j].Name })
	return camps, nil
}
