// routes/report_handlers.go
package routes

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

// AreaReport представляет строку отчета по районам
type AreaReport struct {
	AreaName      string   `json:"areaName"`
	AreaTier      string   `json:"areaTier"`
	ContractCount int      `json:"contractCount"`
	AvgRent       *float64 `json:"avgRent"`
	AvgPSF        *float64 `json:"avgPsf"`
}

// PropertyTypeReport представляет строку отчета по типам недвижимости
type PropertyTypeReport struct {
	PropertyType  string   `json:"propertyType"`
	UsageCategory string   `json:"usageCategory"`
	ContractCount int      `json:"contractCount"`
	AvgRent       *float64 `json:"avgRent"`
}

// TrendReport представляет точку временного тренда
type TrendReport struct {
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	ContractCount int      `json:"contractCount"`
	AvgRent       *float64 `json:"avgRent"`
}

// SummaryReport представляет сводку по загруженной звездной схеме
type SummaryReport struct {
	TotalContracts int      `json:"totalContracts"`
	TotalAreas     int      `json:"totalAreas"`
	AvgRent        *float64 `json:"avgRent"`
	MinRent        *float64 `json:"minRent"`
	MaxRent        *float64 `json:"maxRent"`
}

// RunReport представляет запуск ETL в журнале
type RunReport struct {
	ID                   string    `json:"id"`
	StartTime            time.Time `json:"startTime"`
	EndTime              time.Time `json:"endTime"`
	Status               string    `json:"status"`
	ContractsProcessed   int       `json:"contractsProcessed"`
	DimensionsBuilt      int       `json:"dimensionsBuilt"`
	FactsBuilt           int       `json:"factsBuilt"`
	ValidationErrors     int       `json:"validationErrors"`
	ValidationWarnings   int       `json:"validationWarnings"`
	ErrorMessage         string    `json:"errorMessage,omitempty"`
	ExecutionTimeSeconds float64   `json:"executionTimeSeconds"`
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
		http.Error(w, "Ошибка при формировании ответа", http.StatusInternalServerError)
	}
}

// GetAreasHandler возвращает агрегаты по районам из звездной схемы
func GetAreasHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		rows, err := db.Query(`
			SELECT l.area_name, l.area_tier,
				COUNT(*) AS contract_count,
				AVG(f.annual_amount) AS avg_rent,
				AVG(f.price_per_sqft) AS avg_psf
			FROM fact_rental_contracts f
			JOIN dim_location l ON f.location_id = l.id
			GROUP BY l.area_name, l.area_tier
			ORDER BY contract_count DESC, l.area_name ASC
			LIMIT ?
		`, limit)
		if err != nil {
			log.Printf("❌ Ошибка при запросе отчета по районам: %v", err)
			http.Error(w, "Ошибка при получении отчета по районам", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var areas []AreaReport
		for rows.Next() {
			var a AreaReport
			if err := rows.Scan(&a.AreaName, &a.AreaTier, &a.ContractCount, &a.AvgRent, &a.AvgPSF); err != nil {
				log.Printf("❌ Ошибка при сканировании отчета по районам: %v", err)
				continue
			}
			areas = append(areas, a)
		}
		if err := rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по отчету: %v", err)
			http.Error(w, "Ошибка при обработке отчета", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{"areas": areas})
	}
}

// GetPropertyTypesHandler возвращает агрегаты по типам недвижимости
func GetPropertyTypesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query(`
			SELECT p.property_type_normalized, p.usage_category,
				COUNT(*) AS contract_count,
				AVG(f.annual_amount) AS avg_rent
			FROM fact_rental_contracts f
			JOIN dim_property p ON f.property_id = p.id
			GROUP BY p.property_type_normalized, p.usage_category
			ORDER BY contract_count DESC, p.property_type_normalized ASC
		`)
		if err != nil {
			log.Printf("❌ Ошибка при запросе отчета по типам недвижимости: %v", err)
			http.Error(w, "Ошибка при получении отчета по типам недвижимости", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var types []PropertyTypeReport
		for rows.Next() {
			var t PropertyTypeReport
			if err := rows.Scan(&t.PropertyType, &t.UsageCategory, &t.ContractCount, &t.AvgRent); err != nil {
				log.Printf("❌ Ошибка при сканировании отчета по типам: %v", err)
				continue
			}
			types = append(types, t)
		}
		if err := rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по отчету: %v", err)
			http.Error(w, "Ошибка при обработке отчета", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{"propertyTypes": types})
	}
}

// GetTrendsHandler возвращает помесячный тренд аренды по дате регистрации
func GetTrendsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query(`
			SELECT d.year, d.month,
				COUNT(*) AS contract_count,
				AVG(f.annual_amount) AS avg_rent
			FROM fact_rental_contracts f
			JOIN dim_date d ON f.registration_date_key = d.date_key
			GROUP BY d.year, d.month
			ORDER BY d.year ASC, d.month ASC
		`)
		if err != nil {
			log.Printf("❌ Ошибка при запросе тренда: %v", err)
			http.Error(w, "Ошибка при получении тренда", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var trend []TrendReport
		for rows.Next() {
			var t TrendReport
			if err := rows.Scan(&t.Year, &t.Month, &t.ContractCount, &t.AvgRent); err != nil {
				log.Printf("❌ Ошибка при сканировании тренда: %v", err)
				continue
			}
			trend = append(trend, t)
		}
		if err := rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по тренду: %v", err)
			http.Error(w, "Ошибка при обработке тренда", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{"trend": trend})
	}
}

// GetSummaryHandler возвращает сводку по загруженной звездной схеме
func GetSummaryHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var summary SummaryReport
		err := db.QueryRow(`
			SELECT COUNT(*),
				(SELECT COUNT(DISTINCT area_name) FROM dim_location),
				AVG(annual_amount), MIN(annual_amount), MAX(annual_amount)
			FROM fact_rental_contracts
		`).Scan(&summary.TotalContracts, &summary.TotalAreas, &summary.AvgRent, &summary.MinRent, &summary.MaxRent)
		if err != nil {
			log.Printf("❌ Ошибка при запросе сводки: %v", err)
			http.Error(w, "Ошибка при получении сводки", http.StatusInternalServerError)
			return
		}

		writeJSON(w, summary)
	}
}

const runColumns = `
	id, start_time, IFNULL(end_time, start_time), status,
	contracts_processed, dimensions_built, facts_built,
	validation_errors, validation_warnings,
	IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)`

func scanRun(scanner interface{ Scan(...interface{}) error }) (RunReport, error) {
	var run RunReport
	err := scanner.Scan(
		&run.ID,
		&run.StartTime,
		&run.EndTime,
		&run.Status,
		&run.ContractsProcessed,
		&run.DimensionsBuilt,
		&run.FactsBuilt,
		&run.ValidationErrors,
		&run.ValidationWarnings,
		&run.ErrorMessage,
		&run.ExecutionTimeSeconds,
	)
	return run, err
}

// GetRunsHandler возвращает последние запуски ETL
func GetRunsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		rows, err := db.Query(`SELECT `+runColumns+` FROM etl_runs ORDER BY start_time DESC LIMIT ?`, limit)
		if err != nil {
			log.Printf("❌ Ошибка при запросе журнала запусков: %v", err)
			http.Error(w, "Ошибка при получении журнала запусков", http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var runs []RunReport
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				log.Printf("❌ Ошибка при сканировании запуска: %v", err)
				continue
			}
			runs = append(runs, run)
		}
		if err := rows.Err(); err != nil {
			log.Printf("❌ Ошибка при итерации по запускам: %v", err)
			http.Error(w, "Ошибка при обработке журнала запусков", http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{"runs": runs})
	}
}

// GetLatestRunHandler возвращает последний запуск ETL
func GetLatestRunHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row := db.QueryRow(`SELECT ` + runColumns + ` FROM etl_runs ORDER BY start_time DESC LIMIT 1`)
		run, err := scanRun(row)
		if err == sql.ErrNoRows {
			http.Error(w, "Запуски ETL еще не выполнялись", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("❌ Ошибка при запросе последнего запуска: %v", err)
			http.Error(w, "Ошибка при получении последнего запуска", http.StatusInternalServerError)
			return
		}

		writeJSON(w, run)
	}
}
