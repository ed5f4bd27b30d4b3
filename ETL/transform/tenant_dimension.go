package transform

import (
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// TenantProcessor строит измерение арендатора
type TenantProcessor struct {
	logger *utils.ETLLogger
}

// NewTenantProcessor создает процессор измерения арендатора
func NewTenantProcessor(logger *utils.ETLLogger) *TenantProcessor {
	return &TenantProcessor{logger: logger}
}

func tenantKey(r *models.EnrichedRecord) string {
	return r.TenantType
}

// Process собирает уникальные типы арендаторов в порядке первого появления
func (p *TenantProcessor) Process(records []models.EnrichedRecord) ([]models.DimTenant, map[string]int) {
	dims := make([]models.DimTenant, 0)
	lookup := make(map[string]int)

	for i := range records {
		key := tenantKey(&records[i])
		if _, ok := lookup[key]; ok {
			continue
		}
		id := len(dims) + 1
		lookup[key] = id
		dims = append(dims, models.DimTenant{
			ID:         id,
			TenantType: records[i].TenantType,
		})
	}

	if p.logger != nil {
		p.logger.Debug("Измерение арендаторов: %d записей", len(dims))
	}
	return dims, lookup
}
