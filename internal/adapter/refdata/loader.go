package refdata

import "github.com/homeeconomics/PriceMaps/internal/domain"

// FileLoader loads both reference tables from local CSV files. It satisfies
// pipeline.ReferenceLoader.
type FileLoader struct {
	CentroidPath   string
	PopulationPath string
}

func (l FileLoader) Centroids() (map[string]domain.Geo, error) {
	return LoadCentroids(l.CentroidPath)
}

func (l FileLoader) Population() (PopulationTable, error) {
	return LoadPopulation(l.PopulationPath)
}
