package transform

import (
	"strings"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// LocationProcessor строит измерение локации
type LocationProcessor struct {
	logger *utils.ETLLogger
}

// NewLocationProcessor создает процессор измерения локации
func NewLocationProcessor(logger *utils.ETLLogger) *LocationProcessor {
	return &LocationProcessor{logger: logger}
}

func locationKey(r *models.EnrichedRecord) string {
	return strings.Join([]string{
		r.AreaName,
		r.ProjectName,
		r.MasterProject,
		r.AreaTier,
	}, keySeparator)
}

// Process собирает уникальные локации в порядке первого появления
func (p *LocationProcessor) Process(records []models.EnrichedRecord) ([]models.DimLocation, map[string]int) {
	dims := make([]models.DimLocation, 0)
	lookup := make(map[string]int)

	for i := range records {
		key := locationKey(&records[i])
		if _, ok := lookup[key]; ok {
			continue
		}
		id := len(dims) + 1
		lookup[key] = id
		dims = append(dims, models.DimLocation{
			ID:            id,
			AreaName:      records[i].AreaName,
			ProjectName:   records[i].ProjectName,
			MasterProject: records[i].MasterProject,
			AreaTier:      records[i].AreaTier,
		})
	}

	if p.logger != nil {
		p.logger.Debug("Измерение локаций: %d записей", len(dims))
	}
	return dims, lookup
}
