package load

import (
	"database/sql"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// Loader интерфейс для загрузки данных в OLAP
type Loader interface {
	// LoadContractTypeDimension загружает измерение типов контрактов
	LoadContractTypeDimension(dims []models.DimContractType) error

	// LoadPropertyDimension загружает измерение недвижимости
	LoadPropertyDimension(dims []models.DimProperty) error

	// LoadLocationDimension загружает измерение локаций
	LoadLocationDimension(dims []models.DimLocation) error

	// LoadTenantDimension загружает измерение арендаторов
	LoadTenantDimension(dims []models.DimTenant) error

	// LoadDateDimension загружает измерение дат
	LoadDateDimension(dims []models.DimDate) error

	// LoadRentalFacts загружает факты арендных контрактов
	LoadRentalFacts(facts []models.FactRentalContract) error
}

// OLAPLoader реализация Loader для OLAP базы данных
type OLAPLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	// Загрузчики для отдельных таблиц
	dimensionLoader *DimensionLoader
	factLoader      *FactLoader
}

// NewOLAPLoader создает новый экземпляр OLAPLoader
func NewOLAPLoader(db *sql.DB, logger *utils.ETLLogger, batchSize int) *OLAPLoader {
	return &OLAPLoader{
		db:              db,
		logger:          logger,
		dimensionLoader: NewDimensionLoader(db, logger, batchSize),
		factLoader:      NewFactLoader(db, logger, batchSize),
	}
}

// LoadContractTypeDimension загружает измерение типов контрактов
func (l *OLAPLoader) LoadContractTypeDimension(dims []models.DimContractType) error {
	return l.dimensionLoader.LoadContractTypes(dims)
}

// LoadPropertyDimension загружает измерение недвижимости
func (l *OLAPLoader) LoadPropertyDimension(dims []models.DimProperty) error {
	return l.dimensionLoader.LoadProperties(dims)
}

// LoadLocationDimension загружает измерение локаций
func (l *OLAPLoader) LoadLocationDimension(dims []models.DimLocation) error {
	return l.dimensionLoader.LoadLocations(dims)
}

// LoadTenantDimension загружает измерение арендаторов
func (l *OLAPLoader) LoadTenantDimension(dims []models.DimTenant) error {
	return l.dimensionLoader.LoadTenants(dims)
}

// LoadDateDimension загружает измерение дат
func (l *OLAPLoader) LoadDateDimension(dims []models.DimDate) error {
	return l.dimensionLoader.LoadDates(dims)
}

// LoadRentalFacts загружает факты арендных контрактов
func (l *OLAPLoader) LoadRentalFacts(facts []models.FactRentalContract) error {
	return l.factLoader.Load(facts)
}
