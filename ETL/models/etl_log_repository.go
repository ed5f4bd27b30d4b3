package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db *sql.DB
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
func NewMySQLETLLogRepository(db *sql.DB) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable создает таблицу журнала запусков ETL, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_runs (
		id CHAR(36) PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		contracts_processed INT DEFAULT 0,
		dimensions_built INT DEFAULT 0,
		facts_built INT DEFAULT 0,
		validation_errors INT DEFAULT 0,
		validation_warnings INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_runs: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *MySQLETLLogRepository) CreateLogEntry(startTime time.Time) (string, error) {
	id := uuid.New().String()

	query := `
	INSERT INTO etl_runs (id, start_time, status)
	VALUES (?, ?, 'in_progress')
	`

	_, err := r.db.Exec(query, id, startTime)
	if err != nil {
		return "", fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	return id, nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntrySuccess(id string, endTime time.Time, metadata ETLMetadata) error {
	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM etl_runs WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	query := `
	UPDATE etl_runs
	SET
		end_time = ?,
		status = 'success',
		contracts_processed = ?,
		dimensions_built = ?,
		facts_built = ?,
		validation_errors = ?,
		validation_warnings = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(
		query,
		endTime,
		metadata.ContractsProcessed,
		metadata.DimensionsBuilt,
		metadata.FactsBuilt,
		metadata.ValidationErrors,
		metadata.ValidationWarnings,
		executionTime,
		id,
	)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error {
	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM etl_runs WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	query := `
	UPDATE etl_runs
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
func (r *MySQLETLLogRepository) GetLastSuccessfulRun() (*ETLRunLog, error) {
	query := `
	SELECT id, start_time, end_time, status, contracts_processed, dimensions_built,
		facts_built, validation_errors, validation_warnings, execution_time_seconds
	FROM etl_runs
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog ETLRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.ID,
		&runLog.StartTime,
		&runLog.EndTime,
		&runLog.Status,
		&runLog.ContractsProcessed,
		&runLog.DimensionsBuilt,
		&runLog.FactsBuilt,
		&runLog.ValidationErrors,
		&runLog.ValidationWarnings,
		&runLog.ExecutionTimeSeconds,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе последнего успешного запуска: %w", err)
	}

	return &runLog, nil
}
