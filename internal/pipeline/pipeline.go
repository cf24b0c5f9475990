// Package pipeline orchestrates one batch run: fetch the price series,
// resolve the comparison period, compute and join the year-over-year set,
// render the maps, and optionally publish the results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/homeeconomics/PriceMaps/internal/adapter/refdata"
	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/observability"
)

// SeriesSource provides the ZHVI table, remote or cached.
type SeriesSource interface {
	FetchTable(ctx context.Context) (domain.TimeSeriesTable, error)
}

// ReferenceLoader provides the centroid and population reference tables.
type ReferenceLoader interface {
	Centroids() (map[string]domain.Geo, error)
	Population() (refdata.PopulationTable, error)
}

// MapRenderer writes the output artifacts for a completed run.
type MapRenderer interface {
	RenderAll(run RunResult) error
}

// ResultPublisher emits the comparison set to a downstream feed.
type ResultPublisher interface {
	PublishResults(ctx context.Context, results []domain.ComparisonResult, latest time.Time) error
}

// RunResult is the complete outcome of a batch run.
type RunResult struct {
	LatestMonth time.Time
	PriorMonth  time.Time
	Results     []domain.ComparisonResult
	Global      domain.Breakpoints

	Exclusions        domain.ExclusionTally
	DroppedNoCentroid int
}

// Pipeline wires the batch stages together.
type Pipeline struct {
	source    SeriesSource
	refs      ReferenceLoader
	renderer  MapRenderer
	publisher ResultPublisher // nil when the Kafka feed is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics

	limits               domain.Limits
	defaultPopulation    int
	smallSampleThreshold int
}

// New creates a Pipeline. publisher may be nil.
func New(source SeriesSource, refs ReferenceLoader, renderer MapRenderer, publisher ResultPublisher, logger *slog.Logger, metrics *observability.Metrics, limits domain.Limits, defaultPopulation, smallSampleThreshold int) *Pipeline {
	return &Pipeline{
		source:               source,
		refs:                 refs,
		renderer:             renderer,
		publisher:            publisher,
		logger:               logger,
		metrics:              metrics,
		limits:               limits,
		defaultPopulation:    defaultPopulation,
		smallSampleThreshold: smallSampleThreshold,
	}
}

// Run executes one fetch-compare-render cycle.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	fetchStart := time.Now()
	table, err := p.source.FetchTable(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("fetch series: %w", err)
	}
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	latest, ok := table.LatestMonth()
	if !ok {
		return RunResult{}, fmt.Errorf("series table has no month columns")
	}

	prior, err := domain.ResolveComparisonPeriod(table.Months, latest)
	if err != nil {
		// Fatal: without a comparison column no year-over-year metric exists.
		return RunResult{}, fmt.Errorf("resolve comparison period for %s: %w", latest.Format("2006-01"), err)
	}
	p.logger.Info("comparison period resolved",
		"latest", latest.Format("2006-01"),
		"prior", prior.Format("2006-01"),
	)

	comps, tally := domain.BuildComparisons(table, latest, prior, p.limits)
	p.metrics.RegionsExcluded.WithLabelValues("missing_value").Add(float64(tally.MissingValue))
	p.metrics.RegionsExcluded.WithLabelValues("nonpositive_prior").Add(float64(tally.NonpositivePrior))
	p.metrics.RegionsExcluded.WithLabelValues("yoy_clamp").Add(float64(tally.YoYClamp))
	p.metrics.RegionsExcluded.WithLabelValues("price_clamp").Add(float64(tally.PriceClamp))

	centroids, err := p.refs.Centroids()
	if err != nil {
		return RunResult{}, fmt.Errorf("load centroids: %w", err)
	}
	population, err := p.refs.Population()
	if err != nil {
		return RunResult{}, fmt.Errorf("load population: %w", err)
	}

	results, dropped := domain.JoinRegions(comps, centroids, population.Populations, population.Names, p.defaultPopulation)
	p.metrics.RegionsExcluded.WithLabelValues("no_centroid").Add(float64(dropped))
	p.metrics.RegionsLoaded.Add(float64(len(results)))

	run := RunResult{
		LatestMonth:       latest,
		PriorMonth:        prior,
		Results:           results,
		Global:            domain.GlobalBreakpoints(results, p.smallSampleThreshold),
		Exclusions:        tally,
		DroppedNoCentroid: dropped,
	}

	p.logger.Info("comparison set built",
		"regions", len(run.Results),
		"excluded", tally.Total(),
		"no_centroid", dropped,
	)

	if err := p.renderer.RenderAll(run); err != nil {
		return RunResult{}, fmt.Errorf("render maps: %w", err)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishResults(ctx, run.Results, latest); err != nil {
			// The feed is a convenience for downstream consumers; a publish
			// failure does not invalidate the rendered maps.
			p.logger.Warn("publish results failed", "error", err)
		} else {
			p.metrics.ResultsPublished.Add(float64(len(run.Results)))
		}
	}

	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	return run, nil
}
