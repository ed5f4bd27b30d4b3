package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки данных в OLAP.
// Измерения загружаются раньше фактов, чтобы ссылки фактов
// всегда указывали на уже существующие строки.
type LoadManager struct {
	db     *sql.DB
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.ETLLogger, batchSize int) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		loader: NewOLAPLoader(db, logger, batchSize),
	}
}

// Load выполняет фазу загрузки данных ETL-процесса.
// Принимает обработанные данные из фазы Transform.
func (m *LoadManager) Load(transformedData *models.TransformedData) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	if err := CreateOLAPSchema(m.db); err != nil {
		m.logger.Error("Ошибка при создании схемы OLAP: %v", err)
		return err
	}

	// 1. Загружаем измерение типов контрактов
	if err := m.loader.LoadContractTypeDimension(transformedData.ContractTypes); err != nil {
		m.logger.Error("Ошибка при загрузке измерения типов контрактов: %v", err)
		return fmt.Errorf("ошибка при загрузке измерения типов контрактов: %w", err)
	}

	// 2. Загружаем измерение недвижимости
	if err := m.loader.LoadPropertyDimension(transformedData.Properties); err != nil {
		m.logger.Error("Ошибка при загрузке измерения недвижимости: %v", err)
		return fmt.Errorf("ошибка при загрузке измерения недвижимости: %w", err)
	}

	// 3. Загружаем измерение локаций
	if err := m.loader.LoadLocationDimension(transformedData.Locations); err != nil {
		m.logger.Error("Ошибка при загрузке измерения локаций: %v", err)
		return fmt.Errorf("ошибка при загрузке измерения локаций: %w", err)
	}

	// 4. Загружаем измерение арендаторов
	if err := m.loader.LoadTenantDimension(transformedData.Tenants); err != nil {
		m.logger.Error("Ошибка при загрузке измерения арендаторов: %v", err)
		return fmt.Errorf("ошибка при загрузке измерения арендаторов: %w", err)
	}

	// 5. Загружаем измерение дат
	if err := m.loader.LoadDateDimension(transformedData.Dates); err != nil {
		m.logger.Error("Ошибка при загрузке измерения дат: %v", err)
		return fmt.Errorf("ошибка при загрузке измерения дат: %w", err)
	}

	// 6. Загружаем факты арендных контрактов
	if err := m.loader.LoadRentalFacts(transformedData.Facts); err != nil {
		m.logger.Error("Ошибка при загрузке фактов: %v", err)
		return fmt.Errorf("ошибка при загрузке фактов: %w", err)
	}

	m.logger.Info("Фаза Load завершена. Длительность: %v", time.Since(startTime))
	return nil
}
