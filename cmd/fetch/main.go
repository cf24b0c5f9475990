// Command fetch downloads the latest ZHVI export to the data directory and
// verifies it parses.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/homeeconomics/PriceMaps/internal/adapter/zhvi"
	"github.com/homeeconomics/PriceMaps/internal/config"
	"github.com/homeeconomics/PriceMaps/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := zhvi.NewClient(cfg.ZHVIURL, cfg.FetchTimeout, logger)
	path := filepath.Join(cfg.DataDir, "ZillowZip.csv")

	if err := client.Download(ctx, path); err != nil {
		logger.Error("download failed", "error", err)
		os.Exit(1)
	}

	// Parse what we just wrote so a truncated or reshaped export fails loudly
	// now instead of at map-generation time.
	table, err := zhvi.FileSource{Path: path}.FetchTable(ctx)
	if err != nil {
		logger.Error("downloaded csv failed to parse", "error", err)
		os.Exit(1)
	}

	latest, _ := table.LatestMonth()
	logger.Info("download verified",
		"path", path,
		"rows", len(table.Rows),
		"months", len(table.Months),
		"latest", latest.Format("2006-01"),
	)
}
