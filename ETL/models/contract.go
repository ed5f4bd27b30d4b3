package models

import (
	"fmt"
	"time"
)

// Имена колонок рабочей таблицы контрактов
const (
	ColContractID       = "contract_id"
	ColLineNumber       = "line_number"
	ColContractRegType  = "contract_reg_type_en"
	ColPropertyType     = "ejari_property_type_en"
	ColPropertySubType  = "ejari_property_sub_type_en"
	ColPropertyUsage    = "property_usage_en"
	ColTenantType       = "tenant_type_en"
	ColAreaName         = "area_name_en"
	ColProjectName      = "project_name_en"
	ColMasterProject    = "master_project_en"
	ColIsFreeHold       = "is_free_hold"
	ColContractAmount   = "contract_amount"
	ColAnnualAmount     = "annual_amount"
	ColActualArea       = "actual_area"
	ColNoOfProp         = "no_of_prop"
	ColStartDate        = "contract_start_date"
	ColEndDate          = "contract_end_date"
	ColRegistrationDate = "registration_date"
)

// RequiredColumns перечисляет колонки, без которых валидация и аналитика невозможны
var RequiredColumns = []string{
	ColContractID,
	ColStartDate,
	ColPropertyUsage,
	ColAnnualAmount,
}

// ContractRecord представляет одну строку исходной таблицы арендных контрактов.
// Поля-указатели соответствуют nullable-колонкам источника.
type ContractRecord struct {
	ContractID       string     `json:"contract_id"`
	LineNumber       int        `json:"line_number"`
	ContractRegType  string     `json:"contract_reg_type_en"`
	PropertyType     string     `json:"ejari_property_type_en"`
	PropertySubType  string     `json:"ejari_property_sub_type_en"`
	PropertyUsage    string     `json:"property_usage_en"`
	TenantType       string     `json:"tenant_type_en"`
	AreaName         string     `json:"area_name_en"`
	ProjectName      string     `json:"project_name_en"`
	MasterProject    string     `json:"master_project_en"`
	IsFreeHold       bool       `json:"is_free_hold"`
	ContractAmount   *float64   `json:"contract_amount"`
	AnnualAmount     *float64   `json:"annual_amount"`
	ActualArea       *float64   `json:"actual_area"`
	NoOfProp         int        `json:"no_of_prop"`
	StartDate        *time.Time `json:"contract_start_date"`
	EndDate          *time.Time `json:"contract_end_date"`
	RegistrationDate *time.Time `json:"registration_date"`
}

// ContractTable представляет загруженную таблицу контрактов вместе со списком
// колонок, присутствовавших в источнике. Список колонок нужен для проверки схемы.
type ContractTable struct {
	Columns []string
	Records []ContractRecord
}

// HasColumn проверяет наличие колонки в исходной таблице
func (t *ContractTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// MissingColumns возвращает список обязательных колонок, отсутствующих в таблице
func (t *ContractTable) MissingColumns() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// EnrichedRecord представляет контракт с производными полями
type EnrichedRecord struct {
	ContractRecord

	// Цена за квадратный фут; nil, если площадь неизвестна или равна нулю
	PricePerSqft *float64 `json:"price_per_sqft"`

	// Рыночный сегмент района (Premium/Mid-Tier/Budget/Emerging/Unclassified)
	AreaTier string `json:"area_tier"`

	// Нормализованный тип объекта
	PropertyTypeNormalized string `json:"property_type_normalized"`

	// Временные признаки по дате регистрации
	RegistrationYear    *int   `json:"registration_year"`
	RegistrationQuarter *int   `json:"registration_quarter"`
	RegistrationMonth   *int   `json:"registration_month"`
	RegistrationSeason  string `json:"registration_season"`

	// Длительность контракта
	ContractDurationDays     *int   `json:"contract_duration_days"`
	ContractDurationCategory string `json:"contract_duration_category"`

	// Признак люксового объекта (относительно текущего набора данных)
	IsLuxury bool `json:"is_luxury"`

	// Категория использования (Residential/Commercial/Other)
	UsageCategory string `json:"usage_category"`
}

// Производные колонки обогащенной таблицы
var EnrichedColumns = []string{
	"price_per_sqft",
	"area_tier",
	"property_type_normalized",
	"registration_year",
	"registration_quarter",
	"registration_month",
	"registration_season",
	"contract_duration_days",
	"contract_duration_category",
	"is_luxury",
	"usage_category",
}

// EnrichedTable представляет обогащенную таблицу контрактов
type EnrichedTable struct {
	Columns []string
	Records []EnrichedRecord
}

// HasColumn проверяет наличие колонки в обогащенной таблице
func (t *EnrichedTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// RowRef возвращает ссылку на строку для отчетов о качестве данных
func (r *ContractRecord) RowRef() string {
	if r.ContractID != "" {
		return r.ContractID
	}
	return fmt.Sprintf("line %d", r.LineNumber)
}
