package zhvi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/homeeconomics/PriceMaps/internal/domain"
)

// monthLayout is the ZHVI month-column header format.
const monthLayout = "2006-01-02"

var errNoMonthColumns = errors.New("no month columns found in header")

// ParseTable reads the wide ZHVI CSV: identifying columns (RegionName, City,
// State, ...) followed by one column per month. Empty cells are recorded as
// missing rather than zero.
func ParseTable(r io.Reader) (domain.TimeSeriesTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // trailing columns grow monthly

	header, err := cr.Read()
	if err != nil {
		return domain.TimeSeriesTable{}, fmt.Errorf("read zhvi header: %w", err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return domain.TimeSeriesTable{}, err
	}

	table := domain.TimeSeriesTable{Months: cols.months}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.TimeSeriesTable{}, fmt.Errorf("read zhvi record: %w", err)
		}
		if row, ok := cols.parseRow(record); ok {
			table.Rows = append(table.Rows, row)
		}
	}

	return table, nil
}

type columnMap struct {
	regionName int
	city       int
	state      int
	monthIdx   []int // record index per month column
	months     []time.Time
}

func parseHeader(header []string) (columnMap, error) {
	cols := columnMap{regionName: -1, city: -1, state: -1}

	for i, name := range header {
		switch name {
		case "RegionName":
			cols.regionName = i
		case "City":
			cols.city = i
		case "State":
			cols.state = i
		default:
			if month, ok := parseMonth(name); ok {
				cols.monthIdx = append(cols.monthIdx, i)
				cols.months = append(cols.months, month)
			}
		}
	}

	if cols.regionName < 0 {
		return columnMap{}, errors.New("RegionName column not found in header")
	}
	if len(cols.months) == 0 {
		return columnMap{}, errNoMonthColumns
	}
	return cols, nil
}

// parseMonth normalizes a "YYYY-MM-DD" column header to the first of the
// month, UTC. Zillow stamps month columns with month-end dates.
func parseMonth(name string) (time.Time, bool) {
	if !strings.Contains(name, "-") {
		return time.Time{}, false
	}
	t, err := time.Parse(monthLayout, name)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
}

func (c columnMap) parseRow(record []string) (domain.SeriesRow, bool) {
	if c.regionName >= len(record) {
		return domain.SeriesRow{}, false
	}

	row := domain.SeriesRow{
		ZCTA:   strings.TrimSpace(record[c.regionName]),
		Values: make(map[time.Time]float64, len(c.months)),
	}
	if row.ZCTA == "" {
		return domain.SeriesRow{}, false
	}
	if c.city >= 0 && c.city < len(record) {
		row.City = strings.TrimSpace(record[c.city])
	}
	if c.state >= 0 && c.state < len(record) {
		row.State = strings.TrimSpace(record[c.state])
	}

	for i, idx := range c.monthIdx {
		if idx >= len(record) {
			break
		}
		cell := strings.TrimSpace(record[idx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		row.Values[c.months[i]] = v
	}

	return row, true
}

// latestMonthFromHeader parses only the header line and returns the last
// month column.
func latestMonthFromHeader(r io.Reader) (time.Time, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return time.Time{}, fmt.Errorf("read zhvi header: %w", err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return time.Time{}, err
	}
	return cols.months[len(cols.months)-1], nil
}
