package transform

import (
	"strings"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// Разделитель компонентов составного естественного ключа
const keySeparator = "\x1f"

// PropertyProcessor строит измерение объекта недвижимости
type PropertyProcessor struct {
	logger *utils.ETLLogger
}

// NewPropertyProcessor создает процессор измерения недвижимости
func NewPropertyProcessor(logger *utils.ETLLogger) *PropertyProcessor {
	return &PropertyProcessor{logger: logger}
}

func propertyKey(r *models.EnrichedRecord) string {
	return strings.Join([]string{
		r.PropertyType,
		r.PropertySubType,
		r.PropertyTypeNormalized,
		r.UsageCategory,
	}, keySeparator)
}

// Process собирает уникальные комбинации атрибутов недвижимости
// в порядке первого появления
func (p *PropertyProcessor) Process(records []models.EnrichedRecord) ([]models.DimProperty, map[string]int) {
	dims := make([]models.DimProperty, 0)
	lookup := make(map[string]int)

	for i := range records {
		key := propertyKey(&records[i])
		if _, ok := lookup[key]; ok {
			continue
		}
		id := len(dims) + 1
		lookup[key] = id
		dims = append(dims, models.DimProperty{
			ID:                     id,
			PropertyType:           records[i].PropertyType,
			PropertySubType:        records[i].PropertySubType,
			PropertyTypeNormalized: records[i].PropertyTypeNormalized,
			UsageCategory:          records[i].UsageCategory,
		})
	}

	if p.logger != nil {
		p.logger.Debug("Измерение недвижимости: %d записей", len(dims))
	}
	return dims, lookup
}
