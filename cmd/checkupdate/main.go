// Command checkupdate compares the latest month column Zillow publishes
// against the stored metadata and prints NEW_DATA=true or NEW_DATA=false,
// for use as a CI gate ahead of a full download.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

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
	latest, err := client.LatestMonth(ctx)
	if err != nil {
		logger.Error("failed to fetch latest month", "error", err)
		os.Exit(1)
	}

	metaPath := filepath.Join(cfg.DataDir, "last_update.json")
	stored, found, err := zhvi.LoadMetadata(metaPath)
	if err != nil {
		logger.Error("failed to read update metadata", "error", err)
		os.Exit(1)
	}

	latestKey := zhvi.MonthKey(latest)
	fresh := !found || stored.LastMonth != latestKey

	if fresh {
		logger.Info("new data available", "latest", latestKey, "previous", stored.LastMonth)
		meta := zhvi.UpdateMetadata{LastMonth: latestKey, CheckedAt: time.Now().UTC()}
		if err := zhvi.SaveMetadata(metaPath, meta); err != nil {
			logger.Error("failed to save update metadata", "error", err)
			os.Exit(1)
		}
		fmt.Println("NEW_DATA=true")
		return
	}

	logger.Info("no new data", "latest", latestKey)
	fmt.Println("NEW_DATA=false")
}
