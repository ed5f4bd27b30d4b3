package models

import (
	"time"
)

// DimContractType представляет измерение типа регистрации контракта в OLAP
type DimContractType struct {
	ID              int
	ContractRegType string
}

// DimProperty представляет измерение объекта недвижимости в OLAP
type DimProperty struct {
	ID                     int
	PropertyType           string
	PropertySubType        string
	PropertyTypeNormalized string
	UsageCategory          string
}

// DimLocation представляет измерение локации в OLAP
type DimLocation struct {
	ID            int
	AreaName      string
	ProjectName   string
	MasterProject string
	AreaTier      string
}

// DimTenant представляет измерение арендатора в OLAP
type DimTenant struct {
	ID         int
	TenantType string
}

// DimDate представляет измерение даты в OLAP.
// Ключ формируется детерминированно: YEAR*10000 + MONTH*100 + DAY.
type DimDate struct {
	DateKey    int
	FullDate   time.Time
	Year       int
	Quarter    int
	Month      int
	MonthName  string
	DayOfMonth int
	Season     string
}

// FactRentalContract представляет факт арендного контракта в OLAP.
// Естественный ключ контракта сохраняется как вырожденное измерение.
type FactRentalContract struct {
	ID         int
	ContractID string
	LineNumber int

	// Внешние ключи измерений
	ContractTypeID int
	PropertyID     int
	LocationID     int
	TenantID       int

	// Ключи измерения даты; 0 означает отсутствующую дату
	RegistrationDateKey int
	StartDateKey        int
	EndDateKey          int

	// Меры
	ContractAmount       *float64
	AnnualAmount         *float64
	NoOfProp             int
	IsFreeHold           bool
	PricePerSqft         *float64
	ContractDurationDays *int
}
