// Package zhvi fetches and parses the Zillow Home Value Index ZIP-level CSV
// export.
package zhvi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/homeeconomics/PriceMaps/internal/domain"
)

// Client downloads the ZHVI export over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a ZHVI download client.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchTable downloads and parses the full export.
func (c *Client) FetchTable(ctx context.Context) (domain.TimeSeriesTable, error) {
	body, err := c.get(ctx)
	if err != nil {
		return domain.TimeSeriesTable{}, err
	}
	defer body.Close()

	table, err := ParseTable(body)
	if err != nil {
		return domain.TimeSeriesTable{}, err
	}

	c.logger.Info("zhvi table fetched", "rows", len(table.Rows), "months", len(table.Months))
	return table, nil
}

// Download saves the raw export to path, creating parent directories.
func (c *Client) Download(ctx context.Context, path string) error {
	body, err := c.get(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	c.logger.Info("zhvi csv downloaded", "path", path, "bytes", n)
	return nil
}

// LatestMonth reads only the CSV header and returns the most recent month
// column. The body is closed as soon as the header line arrives, so update
// checks never download the full export.
func (c *Client) LatestMonth(ctx context.Context) (time.Time, error) {
	body, err := c.get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer body.Close()

	return latestMonthFromHeader(body)
}

func (c *Client) get(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zhvi request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("zhvi API error: status %d: %s", resp.StatusCode, snippet)
	}
	return resp.Body, nil
}
