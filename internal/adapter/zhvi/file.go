package zhvi

import (
	"context"
	"fmt"
	"os"

	"github.com/homeeconomics/PriceMaps/internal/domain"
)

// FileSource reads a previously downloaded ZHVI export from disk. It
// satisfies the same contract as Client.FetchTable, so the pipeline can run
// offline against cached data.
type FileSource struct {
	Path string
}

// FetchTable parses the local export.
func (s FileSource) FetchTable(_ context.Context) (domain.TimeSeriesTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.TimeSeriesTable{}, fmt.Errorf("open zhvi csv: %w", err)
	}
	defer f.Close()

	return ParseTable(f)
}
