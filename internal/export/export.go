// Package export writes `list` results to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"job-board/internal/feed"
	"job-board/internal/filter"
	"job-board/internal/model"
)

const SchemaVersion = 1

// Listing is the file format written by `job-board list --out`.
type Listing struct {
	SchemaVersion int             `json:"schema_version"`
	GeneratedAt   string          `json:"generated_at"`
	Endpoint      string          `json:"endpoint"`
	PageSize      int             `json:"page_size"`
	PagesFetched  int             `json:"pages_fetched"` // successful pages only
	Criteria      filter.Criteria `json:"criteria"`
	Stats         feed.Stats      `json:"stats"`
	Visible       int             `json:"visible"`
	Jobs          []model.Job     `json:"jobs"`
}

func NewListing(endpoint string, f *feed.Feed, c filter.Criteria, now time.Time) Listing {
	visible := f.Visible(c)
	return Listing{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		Endpoint:      endpoint,
		PageSize:      f.PageSize(),
		PagesFetched:  f.Stats().PagesLoaded,
		Criteria:      c,
		Stats:         f.Stats(),
		Visible:       len(visible),
		Jobs:          visible,
	}
}

// WriteBytes replaces path atomically via a temp file in the same directory.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".job-board-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}

func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON for %s: %w", path, err)
	}
	data = append(data, '\n')
	return WriteBytes(path, data)
}
