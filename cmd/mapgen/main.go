// Command mapgen runs one full batch: fetch the ZHVI export, compute the
// year-over-year comparison set, and write the interactive maps.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/homeeconomics/PriceMaps/internal/adapter/kafka"
	"github.com/homeeconomics/PriceMaps/internal/adapter/refdata"
	"github.com/homeeconomics/PriceMaps/internal/adapter/zhvi"
	"github.com/homeeconomics/PriceMaps/internal/config"
	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/observability"
	"github.com/homeeconomics/PriceMaps/internal/pipeline"
	"github.com/homeeconomics/PriceMaps/internal/render"
)

func main() {
	inputPath := flag.String("input", "", "path to a local ZHVI CSV (skips the download)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source pipeline.SeriesSource
	if *inputPath != "" {
		logger.Info("using local zhvi csv", "path", *inputPath)
		source = zhvi.FileSource{Path: *inputPath}
	} else {
		source = zhvi.NewClient(cfg.ZHVIURL, cfg.FetchTimeout, logger)
	}

	refs := refdata.FileLoader{
		CentroidPath:   cfg.CentroidFile,
		PopulationPath: cfg.PopulationFile,
	}

	renderer, err := render.NewRenderer(cfg.OutputDir, cfg.SmallSampleThreshold, cfg.DebounceInterval, logger, metrics, nil)
	if err != nil {
		logger.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	// Kafka publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.ResultPublisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer writer.Close()
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	limits := domain.Limits{
		MinPrice:     cfg.MinPrice,
		MaxPrice:     cfg.MaxPrice,
		MinYoYChange: cfg.MinYoYChange,
		MaxYoYChange: cfg.MaxYoYChange,
	}

	p := pipeline.New(source, refs, renderer, publisher, logger, metrics, limits, cfg.DefaultPopulation, cfg.SmallSampleThreshold)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, err := p.Run(ctx)
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("batch run complete",
		"latest", run.LatestMonth.Format("2006-01"),
		"prior", run.PriorMonth.Format("2006-01"),
		"regions", len(run.Results),
	)
}
