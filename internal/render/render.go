// Package render emits the self-contained interactive HTML maps and the
// dataset artifact consumed by the query API.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/observability"
	"github.com/homeeconomics/PriceMaps/internal/pipeline"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const (
	yoyMapFile      = "yoy_map.html"
	priceLevelsFile = "price_levels.html"
	datasetFile     = "dataset.json"
)

// Renderer writes all output artifacts for a completed run. It implements
// pipeline.MapRenderer.
type Renderer struct {
	outputDir            string
	smallSampleThreshold int
	debounce             time.Duration
	clock                clockwork.Clock
	logger               *slog.Logger
	metrics              *observability.Metrics
	templates            *template.Template
}

// NewRenderer creates a Renderer targeting outputDir. Pass a nil clock to use
// real time.
func NewRenderer(outputDir string, smallSampleThreshold int, debounce time.Duration, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse map templates: %w", err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Renderer{
		outputDir:            outputDir,
		smallSampleThreshold: smallSampleThreshold,
		debounce:             debounce,
		clock:                clock,
		logger:               logger,
		metrics:              metrics,
		templates:            tmpl,
	}, nil
}

// RenderAll writes the YoY map, the price-level map, and the dataset JSON.
func (r *Renderer) RenderAll(run pipeline.RunResult) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := r.renderYoYMap(run); err != nil {
		return err
	}
	r.metrics.MapsRendered.WithLabelValues("yoy").Inc()

	if err := r.renderPriceLevels(run); err != nil {
		return err
	}
	r.metrics.MapsRendered.WithLabelValues("price_levels").Inc()

	if err := r.writeDataset(run); err != nil {
		return err
	}

	r.logger.Info("output written", "dir", r.outputDir, "regions", len(run.Results))
	return nil
}

// marker is the compact per-region payload embedded in the map HTML. Short
// keys keep a ~25k-region file manageable.
type marker struct {
	Z   string  `json:"z"`   // ZCTA
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	P   float64 `json:"p"`   // YoY change percent
	V   float64 `json:"v"`   // current price level
	R   float64 `json:"r"`   // base bubble radius
	Pop int     `json:"pop"`
	N   string  `json:"n"` // display name
}

// buildMarkers converts results to markers, largest population first so big
// bubbles render underneath small ones.
func buildMarkers(results []domain.ComparisonResult) []marker {
	markers := make([]marker, len(results))
	for i, res := range results {
		markers[i] = marker{
			Z:   res.ZCTA,
			Lat: round3(res.Centroid.Lat),
			Lon: round3(res.Centroid.Lon),
			P:   round1(res.ChangePct),
			V:   res.CurrentPrice,
			R:   bubbleRadius(res.Population),
			Pop: res.Population,
			N:   res.Name,
		}
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Pop > markers[j].Pop
	})
	return markers
}

// bubbleRadius buckets population into base marker radii.
func bubbleRadius(population int) float64 {
	switch {
	case population < 5000:
		return 3
	case population < 20000:
		return 4
	case population < 50000:
		return 6
	case population < 100000:
		return 10
	case population < 500000:
		return 16
	default:
		return 25
	}
}

type yoyPage struct {
	LatestMonth          string
	PriorMonth           string
	Count                int
	MedianChange         float64
	Global               domain.Breakpoints
	SmallSampleThreshold int
	DebounceMillis       int64
	GeneratedAt          string
	DataJSON             template.JS
}

func (r *Renderer) renderYoYMap(run pipeline.RunResult) error {
	data, err := json.Marshal(buildMarkers(run.Results))
	if err != nil {
		return fmt.Errorf("encode marker data: %w", err)
	}

	page := yoyPage{
		LatestMonth:          run.LatestMonth.Format("January 2006"),
		PriorMonth:           run.PriorMonth.Format("January 2006"),
		Count:                len(run.Results),
		MedianChange:         round1(medianChange(run.Results)),
		Global:               run.Global,
		SmallSampleThreshold: r.smallSampleThreshold,
		DebounceMillis:       r.debounce.Milliseconds(),
		GeneratedAt:          r.clock.Now().UTC().Format(time.RFC3339),
		DataJSON:             template.JS(data),
	}

	return r.writeTemplate("yoy_map.html.tmpl", yoyMapFile, page)
}

type priceLevelsPage struct {
	LatestMonth string
	Count       int
	GeneratedAt string
	DataJSON    template.JS
}

func (r *Renderer) renderPriceLevels(run pipeline.RunResult) error {
	data, err := json.Marshal(buildMarkers(run.Results))
	if err != nil {
		return fmt.Errorf("encode marker data: %w", err)
	}

	page := priceLevelsPage{
		LatestMonth: run.LatestMonth.Format("January 2006"),
		Count:       len(run.Results),
		GeneratedAt: r.clock.Now().UTC().Format(time.RFC3339),
		DataJSON:    template.JS(data),
	}

	return r.writeTemplate("price_levels.html.tmpl", priceLevelsFile, page)
}

func (r *Renderer) writeTemplate(name, outName string, page any) error {
	path := filepath.Join(r.outputDir, outName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := r.templates.ExecuteTemplate(f, name, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Dataset is the JSON artifact the query API serves from.
type Dataset struct {
	LatestMonth time.Time                 `json:"latest_month"`
	PriorMonth  time.Time                 `json:"prior_month"`
	Results     []domain.ComparisonResult `json:"results"`
	Global      domain.Breakpoints        `json:"global_breakpoints"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

func (r *Renderer) writeDataset(run pipeline.RunResult) error {
	ds := Dataset{
		LatestMonth: run.LatestMonth,
		PriorMonth:  run.PriorMonth,
		Results:     run.Results,
		Global:      run.Global,
		GeneratedAt: r.clock.Now().UTC(),
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	path := filepath.Join(r.outputDir, datasetFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// LoadDataset reads a previously written dataset artifact.
func LoadDataset(outputDir string) (Dataset, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, datasetFile))
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	return ds, nil
}

func medianChange(results []domain.ComparisonResult) float64 {
	if len(results) == 0 {
		return 0
	}
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.ChangePct
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

func round1(v float64) float64 { return roundTo(v, 10) }
func round3(v float64) float64 { return roundTo(v, 1000) }

func roundTo(v float64, factor float64) float64 {
	if v >= 0 {
		return float64(int64(v*factor+0.5)) / factor
	}
	return float64(int64(v*factor-0.5)) / factor
}
