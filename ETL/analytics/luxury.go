package analytics

import (
	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
)

// LuxuryThresholds содержит пороги отнесения контракта к люксовому сегменту:
// перцентиль цены за квадратный фут внутри ценового уровня района
// и перцентиль годовой аренды по всему набору
type LuxuryThresholds struct {
	PSFByTier     map[string]float64
	RentThreshold float64
	hasRent       bool
}

// ComputeLuxuryThresholds вычисляет пороги люксового сегмента по набору записей.
// Возвращает false, когда записей меньше минимального размера выборки
// и пороги статистически ненадёжны.
func ComputeLuxuryThresholds(records []models.EnrichedRecord, metrics config.MarketMetrics) (*LuxuryThresholds, bool) {
	if len(records) < metrics.MinSampleSize {
		return nil, false
	}

	psfByTier := make(map[string][]float64)
	rents := make([]float64, 0, len(records))

	for i := range records {
		r := &records[i]
		if r.PricePerSqft != nil {
			psfByTier[r.AreaTier] = append(psfByTier[r.AreaTier], *r.PricePerSqft)
		}
		if r.AnnualAmount != nil {
			rents = append(rents, *r.AnnualAmount)
		}
	}

	thresholds := &LuxuryThresholds{
		PSFByTier: make(map[string]float64, len(psfByTier)),
	}
	for tier, values := range psfByTier {
		thresholds.PSFByTier[tier] = Quantile(values, metrics.LuxuryPSFPercentile/100.0)
	}
	if len(rents) > 0 {
		thresholds.RentThreshold = Quantile(rents, metrics.LuxuryRentPercentile/100.0)
		thresholds.hasRent = true
	}

	return thresholds, true
}

// IsLuxury определяет, относится ли запись к люксовому сегменту:
// цена за квадратный фут не ниже порога своего ценового уровня района
// либо годовая аренда не ниже порога по всему набору
func (t *LuxuryThresholds) IsLuxury(r *models.EnrichedRecord) bool {
	if r.PricePerSqft != nil {
		if threshold, ok := t.PSFByTier[r.AreaTier]; ok && *r.PricePerSqft >= threshold {
			return true
		}
	}
	if t.hasRent && r.AnnualAmount != nil && *r.AnnualAmount >= t.RentThreshold {
		return true
	}
	return false
}
