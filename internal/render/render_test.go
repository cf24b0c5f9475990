package render

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/observability"
	"github.com/homeeconomics/PriceMaps/internal/pipeline"
)

var fixedNow = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

func testRun() pipeline.RunResult {
	mk := func(zcta, name string, lat, lon, price, change float64, pop int) domain.ComparisonResult {
		return domain.ComparisonResult{
			Region: domain.Region{
				ZCTA:       zcta,
				Name:       name,
				Centroid:   domain.Geo{Lat: lat, Lon: lon},
				Population: pop,
			},
			CurrentPrice: price,
			PriorPrice:   price / 1.05,
			ChangePct:    change,
		}
	}
	results := []domain.ComparisonResult{
		mk("78701", "Austin, TX", 30.27123, -97.74456, 440000, 10.04, 12000),
		mk("78702", "Austin, TX", 30.26, -97.71, 315000, 5.0, 22000),
		mk("10001", "New York, NY", 40.75, -73.99, 810000, 2.5, 600000),
	}
	return pipeline.RunResult{
		LatestMonth: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PriorMonth:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Results:     results,
		Global:      domain.Breakpoints{2, 4, 6, 8},
	}
}

func newTestRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	r, err := NewRenderer(dir, 5, 300*time.Millisecond, logger, metrics, clockwork.NewFakeClockAt(fixedNow))
	require.NoError(t, err)
	return r, dir
}

func TestRenderAll(t *testing.T) {
	r, dir := newTestRenderer(t)

	require.NoError(t, r.RenderAll(testRun()))

	t.Run("yoy map", func(t *testing.T) {
		html := readFile(t, filepath.Join(dir, "yoy_map.html"))

		assert.Contains(t, html, "June 2025")
		assert.Contains(t, html, "June 2024")
		assert.Contains(t, html, `"z":"78701"`)
		assert.Contains(t, html, `"n":"Austin, TX"`)
		assert.Contains(t, html, "debounceMillis = 300")
		assert.Contains(t, html, "smallSampleThreshold = 5")
		assert.Contains(t, html, `content="2025-07-15T10:00:00Z"`)
	})

	t.Run("price levels map", func(t *testing.T) {
		html := readFile(t, filepath.Join(dir, "price_levels.html"))

		assert.Contains(t, html, "June 2025")
		assert.Contains(t, html, `"v":810000`)
	})

	t.Run("dataset round-trips", func(t *testing.T) {
		ds, err := LoadDataset(dir)
		require.NoError(t, err)

		run := testRun()
		assert.Equal(t, run.LatestMonth, ds.LatestMonth)
		assert.Equal(t, run.PriorMonth, ds.PriorMonth)
		assert.Equal(t, run.Global, ds.Global)
		assert.Empty(t, cmp.Diff(run.Results, ds.Results))
		assert.Equal(t, fixedNow, ds.GeneratedAt)
	})
}

func TestRenderAll_EmptyResults(t *testing.T) {
	r, dir := newTestRenderer(t)
	run := testRun()
	run.Results = nil

	require.NoError(t, r.RenderAll(run))

	html := readFile(t, filepath.Join(dir, "yoy_map.html"))
	assert.Contains(t, html, "const zipData = []")
}

func TestLoadDataset_Missing(t *testing.T) {
	_, err := LoadDataset(t.TempDir())
	require.Error(t, err)
}

func TestBuildMarkers(t *testing.T) {
	markers := buildMarkers(testRun().Results)

	require.Len(t, markers, 3)
	assert.Equal(t, "10001", markers[0].Z, "largest population sorts first")
	assert.Equal(t, 22000, markers[1].Pop)
	assert.Equal(t, 12000, markers[2].Pop)

	assert.Equal(t, 30.271, markers[2].Lat, "coordinates round to three decimals")
	assert.Equal(t, 10.0, markers[2].P, "change rounds to one decimal")
}

func TestBubbleRadius(t *testing.T) {
	tests := []struct {
		population int
		want       float64
	}{
		{0, 3},
		{4999, 3},
		{5000, 4},
		{19999, 4},
		{20000, 6},
		{50000, 10},
		{100000, 16},
		{500000, 25},
		{2000000, 25},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bubbleRadius(tt.population), "population %d", tt.population)
	}
}

func TestMedianChange(t *testing.T) {
	t.Run("odd count", func(t *testing.T) {
		assert.Equal(t, 5.0, medianChange([]domain.ComparisonResult{
			{ChangePct: 10.04}, {ChangePct: 5.0}, {ChangePct: 2.5},
		}))
	})

	t.Run("even count", func(t *testing.T) {
		assert.Equal(t, 3.0, medianChange([]domain.ComparisonResult{
			{ChangePct: 2}, {ChangePct: 4}, {ChangePct: 1}, {ChangePct: 5},
		}))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Zero(t, medianChange(nil))
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRenderer_RealClockDefault(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := NewRenderer(t.TempDir(), 5, time.Second, logger, observability.NewMetricsForTesting(), nil)

	require.NoError(t, err)
	assert.NotNil(t, r)
}
