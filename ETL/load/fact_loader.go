package load

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// FactLoader отвечает за загрузку таблицы фактов арендных контрактов
type FactLoader struct {
	db        *sql.DB
	logger    *utils.ETLLogger
	batchSize int
}

// NewFactLoader создает новый экземпляр FactLoader
func NewFactLoader(db *sql.DB, logger *utils.ETLLogger, batchSize int) *FactLoader {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &FactLoader{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

var factColumns = []string{
	"id",
	"contract_id",
	"line_number",
	"contract_type_id",
	"property_id",
	"location_id",
	"tenant_id",
	"registration_date_key",
	"start_date_key",
	"end_date_key",
	"contract_amount",
	"annual_amount",
	"no_of_prop",
	"is_free_hold",
	"price_per_sqft",
	"contract_duration_days",
}

// Load загружает факты по схеме полной замены
func (l *FactLoader) Load(facts []models.FactRentalContract) error {
	startTime := time.Now()
	l.logger.Info("Начало загрузки фактов арендных контрактов (всего: %d)", len(facts))

	if _, err := l.db.Exec("TRUNCATE TABLE fact_rental_contracts"); err != nil {
		return fmt.Errorf("ошибка при очистке таблицы fact_rental_contracts: %w", err)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(factColumns)), ",") + ")"
	base := "INSERT INTO fact_rental_contracts (" + strings.Join(factColumns, ", ") + ") VALUES "

	for start := 0; start < len(facts); start += l.batchSize {
		end := start + l.batchSize
		if end > len(facts) {
			end = len(facts)
		}
		batch := facts[start:end]

		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(factColumns))
		for i := range batch {
			f := &batch[i]
			placeholders[i] = rowPlaceholder
			args = append(args,
				f.ID,
				f.ContractID,
				f.LineNumber,
				f.ContractTypeID,
				f.PropertyID,
				f.LocationID,
				f.TenantID,
				nullableDateKey(f.RegistrationDateKey),
				nullableDateKey(f.StartDateKey),
				nullableDateKey(f.EndDateKey),
				f.ContractAmount,
				f.AnnualAmount,
				f.NoOfProp,
				f.IsFreeHold,
				f.PricePerSqft,
				f.ContractDurationDays,
			)
		}

		if _, err := tx.Exec(base+strings.Join(placeholders, ", "), args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при вставке фактов: %w", err)
		}

		l.logger.Debug("Загружено %d из %d фактов...", end, len(facts))
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	l.logger.Info("Загрузка фактов завершена. Загружено записей: %d. Длительность: %v",
		len(facts), time.Since(startTime))
	return nil
}

// nullableDateKey превращает нулевой ключ даты в NULL
func nullableDateKey(key int) interface{} {
	if key == 0 {
		return nil
	}
	return key
}
