package zhvi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// UpdateMetadata records the most recent month column already processed, so
// the update checker can tell whether Zillow has published new data.
type UpdateMetadata struct {
	LastMonth string    `json:"last_month"` // YYYY-MM
	CheckedAt time.Time `json:"checked_at"`
}

// MonthKey formats a month for metadata comparison.
func MonthKey(month time.Time) string {
	return month.Format("2006-01")
}

// LoadMetadata reads the stored update metadata. A missing file is not an
// error: it returns a zero value and false.
func LoadMetadata(path string) (UpdateMetadata, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return UpdateMetadata{}, false, nil
	}
	if err != nil {
		return UpdateMetadata{}, false, fmt.Errorf("read update metadata: %w", err)
	}

	var meta UpdateMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return UpdateMetadata{}, false, fmt.Errorf("parse update metadata: %w", err)
	}
	return meta, true, nil
}

// SaveMetadata writes the update metadata, creating parent directories.
func SaveMetadata(path string, meta UpdateMetadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode update metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write update metadata: %w", err)
	}
	return nil
}
