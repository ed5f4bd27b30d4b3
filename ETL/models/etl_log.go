package models

import (
	"time"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   string    `json:"id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	ContractsProcessed   int       `json:"contracts_processed"`
	DimensionsBuilt      int       `json:"dimensions_built"`
	FactsBuilt           int       `json:"facts_built"`
	ValidationErrors     int       `json:"validation_errors"`
	ValidationWarnings   int       `json:"validation_warnings"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// ETLLogRepository представляет репозиторий для работы с журналом запусков ETL
type ETLLogRepository interface {
	// CreateLogEntry создает новую запись о запуске ETL и возвращает ее идентификатор
	CreateLogEntry(startTime time.Time) (string, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
	UpdateLogEntrySuccess(id string, endTime time.Time, metadata ETLMetadata) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
	UpdateLogEntryFailure(id string, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
	GetLastSuccessfulRun() (*ETLRunLog, error)
}
