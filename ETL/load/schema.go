package load

import (
	"database/sql"
	"fmt"
)

// schemaStatements описывает таблицы звездной схемы аренды.
// Внешние ключи не объявляются: целостность ссылок обеспечивает
// фаза трансформации, а таблицы очищаются при каждой загрузке.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dim_contract_type (
		id INT PRIMARY KEY,
		contract_reg_type VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dim_property (
		id INT PRIMARY KEY,
		property_type VARCHAR(100) NOT NULL,
		property_sub_type VARCHAR(100) NOT NULL,
		property_type_normalized VARCHAR(100) NOT NULL,
		usage_category VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dim_location (
		id INT PRIMARY KEY,
		area_name VARCHAR(255) NOT NULL,
		project_name VARCHAR(255) NOT NULL,
		master_project VARCHAR(255) NOT NULL,
		area_tier VARCHAR(50) NOT NULL,
		INDEX idx_location_area (area_name),
		INDEX idx_location_tier (area_tier)
	)`,
	`CREATE TABLE IF NOT EXISTS dim_tenant (
		id INT PRIMARY KEY,
		tenant_type VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dim_date (
		date_key INT PRIMARY KEY,
		full_date DATE NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		month INT NOT NULL,
		month_name VARCHAR(20) NOT NULL,
		day_of_month INT NOT NULL,
		season VARCHAR(20) NOT NULL,
		INDEX idx_date_year_month (year, month)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_rental_contracts (
		id INT PRIMARY KEY,
		contract_id VARCHAR(50) NOT NULL,
		line_number INT NOT NULL,
		contract_type_id INT NOT NULL,
		property_id INT NOT NULL,
		location_id INT NOT NULL,
		tenant_id INT NOT NULL,
		registration_date_key INT NULL,
		start_date_key INT NULL,
		end_date_key INT NULL,
		contract_amount DECIMAL(15,2) NULL,
		annual_amount DECIMAL(15,2) NULL,
		no_of_prop INT NOT NULL DEFAULT 1,
		is_free_hold BOOLEAN NOT NULL DEFAULT FALSE,
		price_per_sqft DECIMAL(12,4) NULL,
		contract_duration_days INT NULL,
		INDEX idx_fact_contract (contract_id),
		INDEX idx_fact_location (location_id),
		INDEX idx_fact_registration (registration_date_key)
	)`,
}

// CreateOLAPSchema создает таблицы звездной схемы, если их еще нет
func CreateOLAPSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка при создании схемы OLAP: %w", err)
		}
	}
	return nil
}
