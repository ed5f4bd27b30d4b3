package transform

import (
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// ContractTypeProcessor строит измерение типа регистрации контракта
type ContractTypeProcessor struct {
	logger *utils.ETLLogger
}

// NewContractTypeProcessor создает процессор измерения типа контракта
func NewContractTypeProcessor(logger *utils.ETLLogger) *ContractTypeProcessor {
	return &ContractTypeProcessor{logger: logger}
}

func contractTypeKey(r *models.EnrichedRecord) string {
	return r.ContractRegType
}

// Process собирает уникальные типы регистрации в порядке первого появления.
// Возвращает измерение и отображение естественного ключа в суррогатный.
func (p *ContractTypeProcessor) Process(records []models.EnrichedRecord) ([]models.DimContractType, map[string]int) {
	dims := make([]models.DimContractType, 0)
	lookup := make(map[string]int)

	for i := range records {
		key := contractTypeKey(&records[i])
		if _, ok := lookup[key]; ok {
			continue
		}
		id := len(dims) + 1
		lookup[key] = id
		dims = append(dims, models.DimContractType{
			ID:              id,
			ContractRegType: records[i].ContractRegType,
		})
	}

	if p.logger != nil {
		p.logger.Debug("Измерение типов контрактов: %d записей", len(dims))
	}
	return dims, lookup
}
