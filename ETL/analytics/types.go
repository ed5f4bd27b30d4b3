package analytics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientData возвращается, когда в наборе меньше строк,
// чем требуется для надёжной оценки рыночных метрик
var ErrInsufficientData = errors.New("недостаточно данных для анализа")

// MissingColumnError возвращается, когда в таблице нет колонки,
// необходимой для запрошенного отчёта
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("отсутствует обязательная колонка: %s", e.Column)
}

// PSFStats описывает распределение цены за квадратный фут
// по одному сегменту (весь рынок или отдельный ценовой уровень района)
type PSFStats struct {
	Tier   string  `json:"tier,omitempty"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// PSFMetricsReport содержит метрики цены за квадратный фут
// по всему рынку и в разрезе ценовых уровней районов
type PSFMetricsReport struct {
	Overall PSFStats   `json:"overall"`
	ByTier  []PSFStats `json:"by_tier"`
}

// AreaStats содержит агрегаты арендных контрактов по одному району
type AreaStats struct {
	Area           string  `json:"area"`
	ContractCount  int     `json:"contract_count"`
	AvgRent        float64 `json:"avg_rent"`
	MedianRent     float64 `json:"median_rent"`
	MinRent        float64 `json:"min_rent"`
	MaxRent        float64 `json:"max_rent"`
	AvgPSF         float64 `json:"avg_psf"`
	MarketSharePct float64 `json:"market_share_pct,omitempty"`
}

// PropertyTypeStats содержит агрегаты по нормализованному типу недвижимости
type PropertyTypeStats struct {
	PropertyType   string  `json:"property_type"`
	ContractCount  int     `json:"contract_count"`
	AvgRent        float64 `json:"avg_rent"`
	MedianRent     float64 `json:"median_rent"`
	MinRent        float64 `json:"min_rent"`
	MaxRent        float64 `json:"max_rent"`
	MarketSharePct float64 `json:"market_share_pct"`
}

// UsageSegment содержит агрегаты по категории использования
// (жилая, коммерческая, прочее)
type UsageSegment struct {
	UsageCategory  string  `json:"usage_category"`
	ContractCount  int     `json:"contract_count"`
	AvgRent        float64 `json:"avg_rent"`
	MedianRent     float64 `json:"median_rent"`
	MinRent        float64 `json:"min_rent"`
	MaxRent        float64 `json:"max_rent"`
	AvgArea        float64 `json:"avg_area"`
	MedianArea     float64 `json:"median_area"`
	AvgPSF         float64 `json:"avg_psf"`
	MarketSharePct float64 `json:"market_share_pct"`
}

// TrendPoint описывает один период временного тренда аренды
type TrendPoint struct {
	Period        string  `json:"period"`
	ContractCount int     `json:"contract_count"`
	AvgRent       float64 `json:"avg_rent"`
	AvgPSF        float64 `json:"avg_psf"`
}

// LuxuryContract описывает один контракт из люксовой когорты
type LuxuryContract struct {
	ContractID   string   `json:"contract_id"`
	AreaName     string   `json:"area_name"`
	AreaTier     string   `json:"area_tier"`
	AnnualAmount *float64 `json:"annual_amount"`
	PricePerSqft *float64 `json:"price_per_sqft"`
}

// LuxuryReport содержит пороги и состав люксовой когорты
type LuxuryReport struct {
	RentThreshold  float64            `json:"rent_threshold"`
	PSFByTier      map[string]float64 `json:"psf_by_tier"`
	TotalCount     int                `json:"total_count"`
	LuxuryCount    int                `json:"luxury_count"`
	LuxurySharePct float64            `json:"luxury_share_pct"`
	Contracts      []LuxuryContract   `json:"contracts"`
}

// TierShare описывает долю одного ценового уровня районов в наборе
type TierShare struct {
	Tier     string  `json:"tier"`
	Count    int     `json:"count"`
	SharePct float64 `json:"share_pct"`
}

// MarketSummary содержит сводный отчёт по рынку аренды
type MarketSummary struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	TotalContracts int            `json:"total_contracts"`
	AvgRent        float64        `json:"avg_rent"`
	MedianRent     float64        `json:"median_rent"`
	MinRent        float64        `json:"min_rent"`
	MaxRent        float64        `json:"max_rent"`
	AvgPSF         float64        `json:"avg_psf"`
	MedianPSF      float64        `json:"median_psf"`
	TierBreakdown  []TierShare    `json:"tier_breakdown"`
	UsageBreakdown []UsageSegment `json:"usage_breakdown"`
	LuxurySharePct float64        `json:"luxury_share_pct"`
}
