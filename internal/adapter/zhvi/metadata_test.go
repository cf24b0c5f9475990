package zhvi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_update.json")
	meta := UpdateMetadata{
		LastMonth: "2025-06",
		CheckedAt: time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, SaveMetadata(path, meta))

	got, found, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, meta, got)
}

func TestLoadMetadata_MissingFile(t *testing.T) {
	got, found, err := LoadMetadata(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err, "a missing file means no prior check, not a failure")
	assert.False(t, found)
	assert.Zero(t, got)
}

func TestLoadMetadata_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_update.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, found, err := LoadMetadata(path)

	require.Error(t, err)
	assert.False(t, found)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-06", MonthKey(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}
