// Command serve exposes the latest generated dataset over HTTP: the map
// files, the comparison set, and viewport/boundary breakpoint queries.
package main

import (
	"log/slog"
	"os"

	"github.com/homeeconomics/PriceMaps/internal/config"
	"github.com/homeeconomics/PriceMaps/internal/observability"
	"github.com/homeeconomics/PriceMaps/internal/render"
	"github.com/homeeconomics/PriceMaps/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	dataset, err := render.LoadDataset(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to load dataset; run mapgen first", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, dataset, logger, metrics)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
