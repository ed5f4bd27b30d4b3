package validate

import (
	"fmt"
	"strings"
)

// Severity определяет серьезность замечания о качестве данных
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding представляет одно замечание о качестве данных
type Finding struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	RowRef   string   `json:"row_ref,omitempty"`
	Message  string   `json:"message"`
}

// Summary содержит сводку по результатам валидации
type Summary struct {
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Info     int  `json:"info"`
	IsValid  bool `json:"is_valid"`
}

// ValidationReport содержит упорядоченный список замечаний валидации.
// Исходная серьезность замечаний сохраняется всегда; строгий режим влияет
// только на итоговый признак валидности.
type ValidationReport struct {
	Findings []Finding `json:"findings"`
	Strict   bool      `json:"strict"`
}

// NewValidationReport создает новый отчет валидации
func NewValidationReport(strict bool) *ValidationReport {
	return &ValidationReport{Strict: strict}
}

// AddError добавляет замечание с серьезностью error
func (r *ValidationReport) AddError(field, rowRef, format string, v ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityError,
		Field:    field,
		RowRef:   rowRef,
		Message:  fmt.Sprintf(format, v...),
	})
}

// AddWarning добавляет замечание с серьезностью warning
func (r *ValidationReport) AddWarning(field, rowRef, format string, v ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityWarning,
		Field:    field,
		RowRef:   rowRef,
		Message:  fmt.Sprintf(format, v...),
	})
}

// AddInfo добавляет информационное замечание
func (r *ValidationReport) AddInfo(field, rowRef, format string, v ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityInfo,
		Field:    field,
		RowRef:   rowRef,
		Message:  fmt.Sprintf(format, v...),
	})
}

// GetSummary возвращает сводку по замечаниям
func (r *ValidationReport) GetSummary() Summary {
	summary := Summary{}
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			summary.Errors++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Info++
		}
	}
	summary.IsValid = r.IsValid()
	return summary
}

// IsValid возвращает true, если в отчете нет ошибок.
// В строгом режиме предупреждения также делают отчет невалидным.
func (r *ValidationReport) IsValid() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
		if r.Strict && f.Severity == SeverityWarning {
			return false
		}
	}
	return true
}

// HasStructuralErrors возвращает true при ошибках уровня таблицы или схемы.
// Такие ошибки делают дальнейшую обработку набора бессмысленной.
func (r *ValidationReport) HasStructuralErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError && (f.Field == "table" || f.Field == "schema") {
			return true
		}
	}
	return false
}

// String возвращает текстовое представление отчета
func (r *ValidationReport) String() string {
	if len(r.Findings) == 0 {
		return "Все проверки пройдены"
	}

	var lines []string
	for _, f := range r.Findings {
		ref := ""
		if f.RowRef != "" {
			ref = fmt.Sprintf(" [%s]", f.RowRef)
		}
		lines = append(lines, fmt.Sprintf("%s: %s%s - %s", f.Severity, f.Field, ref, f.Message))
	}
	return strings.Join(lines, "\n")
}
