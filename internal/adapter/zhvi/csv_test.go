package zhvi

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `RegionID,SizeRank,RegionName,RegionType,StateName,State,City,Metro,CountyName,2024-05-31,2024-06-30,2025-05-31,2025-06-30
91982,1,77494,zip,TX,TX,Katy,"Houston, TX",Fort Bend County,430000,432000,450000,452000
62080,2,501,zip,NY,NY,Holtsville,"New York, NY",Suffolk County,,510000,,540000
91940,3,77449,zip,TX,TX,Katy,"Houston, TX",Harris County,280000,281000,,290000
`

func utcMonth(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	t.Run("month columns normalized to first of month", func(t *testing.T) {
		assert.Equal(t, []time.Time{
			utcMonth(2024, time.May),
			utcMonth(2024, time.June),
			utcMonth(2025, time.May),
			utcMonth(2025, time.June),
		}, table.Months)
	})

	t.Run("rows carry identity and values", func(t *testing.T) {
		require.Len(t, table.Rows, 3)

		row := table.Rows[0]
		assert.Equal(t, "77494", row.ZCTA)
		assert.Equal(t, "Katy", row.City)
		assert.Equal(t, "TX", row.State)

		v, ok := row.Value(utcMonth(2025, time.June))
		require.True(t, ok)
		assert.Equal(t, 452000.0, v)
	})

	t.Run("empty cells are missing, not zero", func(t *testing.T) {
		row := table.Rows[1]
		assert.Equal(t, "501", row.ZCTA, "leading zeros are the join layer's problem")

		_, ok := row.Value(utcMonth(2024, time.May))
		assert.False(t, ok)

		v, ok := row.Value(utcMonth(2024, time.June))
		require.True(t, ok)
		assert.Equal(t, 510000.0, v)
	})

	t.Run("latest month", func(t *testing.T) {
		latest, ok := table.LatestMonth()
		require.True(t, ok)
		assert.Equal(t, utcMonth(2025, time.June), latest)
	})
}

func TestParseTable_Errors(t *testing.T) {
	t.Run("missing RegionName column", func(t *testing.T) {
		_, err := ParseTable(strings.NewReader("RegionID,2024-06-30\n1,100\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RegionName")
	})

	t.Run("no month columns", func(t *testing.T) {
		_, err := ParseTable(strings.NewReader("RegionID,RegionName\n1,77494\n"))
		require.ErrorIs(t, err, errNoMonthColumns)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseTable(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestParseTable_SkipsBlankAndShortRows(t *testing.T) {
	csv := "RegionName,City,State,2025-06-30\n" +
		"77494,Katy,TX,452000\n" +
		",,,100\n" // blank region name
	table, err := ParseTable(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "77494", table.Rows[0].ZCTA)
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"month-end date", "2025-06-30", utcMonth(2025, time.June), true},
		{"first of month", "2025-06-01", utcMonth(2025, time.June), true},
		{"identity column", "RegionID", time.Time{}, false},
		{"hyphenated non-date", "Fort-Bend", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseMonth(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLatestMonthFromHeader(t *testing.T) {
	latest, err := latestMonthFromHeader(strings.NewReader(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, utcMonth(2025, time.June), latest)
}
