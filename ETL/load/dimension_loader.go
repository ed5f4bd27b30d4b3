package load

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// DimensionLoader отвечает за загрузку таблиц измерений.
// Загрузка идет по схеме полной замены: таблица очищается,
// затем данные вставляются пакетами в одной транзакции.
type DimensionLoader struct {
	db        *sql.DB
	logger    *utils.ETLLogger
	batchSize int
}

// NewDimensionLoader создает новый экземпляр DimensionLoader
func NewDimensionLoader(db *sql.DB, logger *utils.ETLLogger, batchSize int) *DimensionLoader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &DimensionLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// replaceAll очищает таблицу и вставляет строки пакетами в одной транзакции
func (l *DimensionLoader) replaceAll(table string, columns []string, rows [][]interface{}) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки таблицы %s (всего: %d)", table, len(rows))

	if _, err := l.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
		return fmt.Errorf("ошибка при очистке таблицы %s: %w", table, err)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	base := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			placeholders[i] = rowPlaceholder
			args = append(args, row...)
		}

		if _, err := tx.Exec(base+strings.Join(placeholders, ", "), args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке в таблицу %s: %w", table, err)
		}

		l.logger.Debug("Загружено %d из %d строк в %s...", end, len(rows), table)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	l.logger.Info("Загрузка таблицы %s завершена. Загружено записей: %d. Длительность: %v",
		table, len(rows), time.Since(startTime))
	return nil
}

// LoadContractTypes загружает измерение типов контрактов
func (l *DimensionLoader) LoadContractTypes(dims []models.DimContractType) error {
	rows := make([][]interface{}, len(dims))
	for i, d := range dims {
		rows[i] = []interface{}{d.ID, d.ContractRegType}
	}
	return l.replaceAll("dim_contract_type", []string{"id", "contract_reg_type"}, rows)
}

// LoadProperties загружает измерение недвижимости
func (l *DimensionLoader) LoadProperties(dims []models.DimProperty) error {
	rows := make([][]interface{}, len(dims))
	for i, d := range dims {
		rows[i] = []interface{}{d.ID, d.PropertyType, d.PropertySubType, d.PropertyTypeNormalized, d.UsageCategory}
	}
	return l.replaceAll("dim_property",
		[]string{"id", "property_type", "property_sub_type", "property_type_normalized", "usage_category"}, rows)
}

// LoadLocations загружает измерение локаций
func (l *DimensionLoader) LoadLocations(dims []models.DimLocation) error {
	rows := make([][]interface{}, len(dims))
	for i, d := range dims {
		rows[i] = []interface{}{d.ID, d.AreaName, d.ProjectName, d.MasterProject, d.AreaTier}
	}
	return l.replaceAll("dim_location",
		[]string{"id", "area_name", "project_name", "master_project", "area_tier"}, rows)
}

// LoadTenants загружает измерение арендаторов
func (l *DimensionLoader) LoadTenants(dims []models.DimTenant) error {
	rows := make([][]interface{}, len(dims))
	for i, d := range dims {
		rows[i] = []interface{}{d.ID, d.TenantType}
	}
	return l.replaceAll("dim_tenant", []string{"id", "tenant_type"}, rows)
}

// LoadDates загружает измерение дат
func (l *DimensionLoader) LoadDates(dims []models.DimDate) error {
	rows := make([][]interface{}, len(dims))
	for i, d := range dims {
		rows[i] = []interface{}{
			d.DateKey,
			d.FullDate.Format("2006-01-02"),
			d.Year,
			d.Quarter,
			d.Month,
			d.MonthName,
			d.DayOfMonth,
			d.Season,
		}
	}
	return l.replaceAll("dim_date",
		[]string{"date_key", "full_date", "year", "quarter", "month", "month_name", "day_of_month", "season"}, rows)
}
