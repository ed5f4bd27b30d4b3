package models

import (
	"time"
)

// TransformedData содержит трансформированные данные для загрузки в OLAP
type TransformedData struct {
	// Измерения
	ContractTypes []DimContractType
	Properties    []DimProperty
	Locations     []DimLocation
	Tenants       []DimTenant
	Dates         []DimDate

	// Факты
	Facts []FactRentalContract

	// Метаданные
	Metadata ETLMetadata
}

// ETLMetadata содержит метаданные о запуске ETL
type ETLMetadata struct {
	LastRunTimestamp   time.Time
	ContractsProcessed int
	DimensionsBuilt    int
	FactsBuilt         int
	ValidationErrors   int
	ValidationWarnings int
}
