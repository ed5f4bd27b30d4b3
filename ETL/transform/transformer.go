package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// Transformer координирует построение звездной схемы:
// сначала измерения, затем таблица фактов со ссылками на них
type Transformer struct {
	logger *utils.ETLLogger

	contractTypes *ContractTypeProcessor
	properties    *PropertyProcessor
	locations     *LocationProcessor
	tenants       *TenantProcessor
	dates         *DateProcessor
	facts         *FactProcessor
}

// NewTransformer создает координатор трансформации
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:        logger,
		contractTypes: NewContractTypeProcessor(logger),
		properties:    NewPropertyProcessor(logger),
		locations:     NewLocationProcessor(logger),
		tenants:       NewTenantProcessor(logger),
		dates:         NewDateProcessor(logger),
		facts:         NewFactProcessor(logger),
	}
}

// Transform строит измерения и факты из обогащенной таблицы контрактов.
// Каждая строка входа дает ровно одну строку фактов.
func (t *Transformer) Transform(table *models.EnrichedTable) (*models.TransformedData, error) {
	phaseStart := time.Now()
	if t.logger != nil {
		t.logger.LogPhaseStart("Трансформация")
	}

	data := &models.TransformedData{}
	lookups := dimensionLookups{}

	data.ContractTypes, lookups.contractTypes = t.contractTypes.Process(table.Records)
	data.Properties, lookups.properties = t.properties.Process(table.Records)
	data.Locations, lookups.locations = t.locations.Process(table.Records)
	data.Tenants, lookups.tenants = t.tenants.Process(table.Records)
	data.Dates, lookups.dates = t.dates.Process(table.Records)

	facts, err := t.facts.Process(table.Records, lookups)
	if err != nil {
		return nil, fmt.Errorf("ошибка при построении таблицы фактов: %w", err)
	}
	data.Facts = facts

	data.Metadata = models.ETLMetadata{
		LastRunTimestamp:   time.Now(),
		ContractsProcessed: len(table.Records),
		DimensionsBuilt: len(data.ContractTypes) + len(data.Properties) +
			len(data.Locations) + len(data.Tenants) + len(data.Dates),
		FactsBuilt: len(data.Facts),
	}

	if t.logger != nil {
		t.logger.Info("Трансформация завершена: %d измерений, %d фактов",
			data.Metadata.DimensionsBuilt, data.Metadata.FactsBuilt)
		t.logger.LogPhaseComplete("Трансформация", time.Since(phaseStart))
	}
	return data, nil
}
