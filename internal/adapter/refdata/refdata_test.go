package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeeconomics/PriceMaps/internal/domain"
)

func TestParsePopulation(t *testing.T) {
	t.Run("header row skipped", func(t *testing.T) {
		csv := "zcta,name,population\n78701,Austin,12000\n501,Holtsville,1800\n"
		table, err := ParsePopulation(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 12000, table.Populations["78701"])
		assert.Equal(t, "Austin", table.Names["78701"])
		assert.Equal(t, 1800, table.Populations["00501"], "zcta is zero-padded")
	})

	t.Run("headerless file", func(t *testing.T) {
		csv := "78701,Austin,12000\n"
		table, err := ParsePopulation(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 12000, table.Populations["78701"])
	})

	t.Run("bad population keeps the name", func(t *testing.T) {
		csv := "78701,Austin,n/a\n78702,East Austin,-5\n"
		table, err := ParsePopulation(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, "Austin", table.Names["78701"])
		assert.NotContains(t, table.Populations, "78701")
		assert.NotContains(t, table.Populations, "78702", "non-positive counts are dropped")
	})

	t.Run("sentinel zcta skipped", func(t *testing.T) {
		csv := "00000,Unknown,999\n78701,Austin,12000\n"
		table, err := ParsePopulation(strings.NewReader(csv))

		require.NoError(t, err)
		assert.NotContains(t, table.Names, "00000")
		assert.Len(t, table.Names, 1)
	})

	t.Run("short rows skipped", func(t *testing.T) {
		csv := "78701\n78702,East Austin,22000\n"
		table, err := ParsePopulation(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Len(t, table.Names, 1)
	})
}

func TestParseCentroids(t *testing.T) {
	t.Run("header row skipped", func(t *testing.T) {
		csv := "zcta,lat,lon\n78701,30.27,-97.74\n501,40.81,-73.04\n"
		centroids, err := ParseCentroids(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, domain.Geo{Lat: 30.27, Lon: -97.74}, centroids["78701"])
		assert.Equal(t, domain.Geo{Lat: 40.81, Lon: -73.04}, centroids["00501"])
	})

	t.Run("unparseable coordinates skipped", func(t *testing.T) {
		csv := "78701,thirty,-97.74\n78702,30.26,-97.71\n"
		centroids, err := ParseCentroids(strings.NewReader(csv))

		require.NoError(t, err)
		assert.NotContains(t, centroids, "78701")
		assert.Contains(t, centroids, "78702")
	})

	t.Run("short rows skipped", func(t *testing.T) {
		csv := "78701,30.27\n"
		centroids, err := ParseCentroids(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Empty(t, centroids)
	})
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	centroidPath := filepath.Join(dir, "centroids.csv")
	populationPath := filepath.Join(dir, "population.csv")
	require.NoError(t, os.WriteFile(centroidPath, []byte("zcta,lat,lon\n78701,30.27,-97.74\n"), 0o644))
	require.NoError(t, os.WriteFile(populationPath, []byte("zcta,name,population\n78701,Austin,12000\n"), 0o644))

	loader := FileLoader{CentroidPath: centroidPath, PopulationPath: populationPath}

	centroids, err := loader.Centroids()
	require.NoError(t, err)
	assert.Len(t, centroids, 1)

	table, err := loader.Population()
	require.NoError(t, err)
	assert.Equal(t, 12000, table.Populations["78701"])
}

func TestFileLoader_MissingFiles(t *testing.T) {
	loader := FileLoader{
		CentroidPath:   filepath.Join(t.TempDir(), "absent.csv"),
		PopulationPath: filepath.Join(t.TempDir(), "absent.csv"),
	}

	_, err := loader.Centroids()
	require.Error(t, err)

	_, err = loader.Population()
	require.Error(t, err)
}
