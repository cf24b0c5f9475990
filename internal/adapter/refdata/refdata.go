// Package refdata loads the ZCTA reference CSVs: Census populations and
// pre-extracted geographic centroids.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/homeeconomics/PriceMaps/internal/domain"
)

// PopulationTable maps ZCTA to population count and reference place name.
type PopulationTable struct {
	Populations map[string]int
	Names       map[string]string
}

// LoadPopulation reads a population CSV with columns (zcta, name, population).
// Rows with unparseable population are kept name-only; the join applies the
// configured default count later.
func LoadPopulation(path string) (PopulationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return PopulationTable{}, fmt.Errorf("open population file: %w", err)
	}
	defer f.Close()

	return ParsePopulation(f)
}

// ParsePopulation parses population reference data from a reader.
func ParsePopulation(r io.Reader) (PopulationTable, error) {
	table := PopulationTable{
		Populations: make(map[string]int),
		Names:       make(map[string]string),
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PopulationTable{}, fmt.Errorf("read population record: %w", err)
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}

		zcta := domain.ZeroPadZCTA(strings.TrimSpace(record[0]))
		if zcta == "00000" {
			continue
		}
		table.Names[zcta] = strings.TrimSpace(record[1])
		if len(record) > 2 {
			if pop, err := strconv.Atoi(strings.TrimSpace(record[2])); err == nil && pop > 0 {
				table.Populations[zcta] = pop
			}
		}
	}

	return table, nil
}

// LoadCentroids reads a centroid CSV with columns (zcta, lat, lon).
func LoadCentroids(path string) (map[string]domain.Geo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open centroid file: %w", err)
	}
	defer f.Close()

	return ParseCentroids(f)
}

// ParseCentroids parses centroid reference data from a reader. Rows with
// unparseable coordinates are skipped.
func ParseCentroids(r io.Reader) (map[string]domain.Geo, error) {
	centroids := make(map[string]domain.Geo)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read centroid record: %w", err)
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		if len(record) < 3 {
			continue
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		zcta := domain.ZeroPadZCTA(strings.TrimSpace(record[0]))
		centroids[zcta] = domain.Geo{Lat: lat, Lon: lon}
	}

	return centroids, nil
}

// isHeader detects a leading header row: the first field is not numeric.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(record[0]))
	return err != nil
}
