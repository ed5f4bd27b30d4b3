package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// MarketAnalytics вычисляет аналитические отчеты по обогащенной таблице контрактов
type MarketAnalytics struct {
	table   *models.EnrichedTable
	metrics config.MarketMetrics
	logger  *utils.ETLLogger
}

// NewMarketAnalytics создает аналитический движок поверх обогащенной таблицы
func NewMarketAnalytics(table *models.EnrichedTable, metrics config.MarketMetrics, logger *utils.ETLLogger) *MarketAnalytics {
	return &MarketAnalytics{
		table:   table,
		metrics: metrics,
		logger:  logger,
	}
}

// requireColumn возвращает типизированную ошибку, если колонки нет в таблице
func (a *MarketAnalytics) requireColumn(name string) error {
	if !a.table.HasColumn(name) {
		return &MissingColumnError{Column: name}
	}
	return nil
}

// areaValue возвращает значение географической колонки записи
func areaValue(r *models.EnrichedRecord, column string) string {
	switch column {
	case models.ColAreaName:
		return r.AreaName
	case models.ColProjectName:
		return r.ProjectName
	case models.ColMasterProject:
		return r.MasterProject
	default:
		return ""
	}
}

// rentStats заполняет агрегаты годовой аренды по группе записей
func rentStats(records []*models.EnrichedRecord) (avg, median, min, max float64) {
	rents := make([]float64, 0, len(records))
	for _, r := range records {
		if r.AnnualAmount != nil {
			rents = append(rents, *r.AnnualAmount)
		}
	}
	if len(rents) == 0 {
		return 0, 0, 0, 0
	}
	min, max = minMax(rents)
	return Mean(rents), Median(rents), min, max
}

// psfValues собирает цены за квадратный фут по группе записей
func psfValues(records []*models.EnrichedRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if r.PricePerSqft != nil {
			values = append(values, *r.PricePerSqft)
		}
	}
	return values
}

// groupRecords группирует записи по ключу, сохраняя порядок первого появления
func groupRecords(records []models.EnrichedRecord, keyOf func(*models.EnrichedRecord) string) ([]string, map[string][]*models.EnrichedRecord) {
	order := make([]string, 0)
	groups := make(map[string][]*models.EnrichedRecord)
	for i := range records {
		key := keyOf(&records[i])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], &records[i])
	}
	return order, groups
}

// CalculatePSFMetrics вычисляет распределение цены за квадратный фут
// по всему рынку и в разрезе ценовых уровней районов
func (a *MarketAnalytics) CalculatePSFMetrics() (*PSFMetricsReport, error) {
	if err := a.requireColumn("price_per_sqft"); err != nil {
		return nil, err
	}

	report := &PSFMetricsReport{}

	overall := psfValues(recordPtrs(a.table.Records))
	report.Overall = buildPSFStats("", overall)

	order, groups := groupRecords(a.table.Records, func(r *models.EnrichedRecord) string {
		return r.AreaTier
	})
	for _, tier := range order {
		values := psfValues(groups[tier])
		if len(values) == 0 {
			continue
		}
		report.ByTier = append(report.ByTier, buildPSFStats(tier, values))
	}
	sort.Slice(report.ByTier, func(i, j int) bool {
		if report.ByTier[i].Count != report.ByTier[j].Count {
			return report.ByTier[i].Count > report.ByTier[j].Count
		}
		return report.ByTier[i].Tier < report.ByTier[j].Tier
	})

	if a.logger != nil {
		a.logger.Debug("Метрики PSF: %d значений по всему рынку, %d уровней", report.Overall.Count, len(report.ByTier))
	}
	return report, nil
}

func buildPSFStats(tier string, values []float64) PSFStats {
	stats := PSFStats{Tier: tier, Count: len(values)}
	if len(values) == 0 {
		return stats
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Mean = Mean(sorted)
	stats.Median = QuantileSorted(sorted, 0.5)
	stats.P25 = QuantileSorted(sorted, 0.25)
	stats.P75 = QuantileSorted(sorted, 0.75)
	return stats
}

func recordPtrs(records []models.EnrichedRecord) []*models.EnrichedRecord {
	ptrs := make([]*models.EnrichedRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}
	return ptrs
}

// AnalyzeByArea группирует контракты по географической колонке.
// Каждая строка таблицы попадает ровно в одну группу, поэтому
// сумма счетчиков групп равна общему числу строк.
func (a *MarketAnalytics) AnalyzeByArea(areaColumn string) ([]AreaStats, error) {
	if err := a.requireColumn(areaColumn); err != nil {
		return nil, err
	}
	switch areaColumn {
	case models.ColAreaName, models.ColProjectName, models.ColMasterProject:
	default:
		return nil, &MissingColumnError{Column: areaColumn}
	}

	order, groups := groupRecords(a.table.Records, func(r *models.EnrichedRecord) string {
		return areaValue(r, areaColumn)
	})

	result := make([]AreaStats, 0, len(order))
	for _, area := range order {
		group := groups[area]
		avg, median, min, max := rentStats(group)
		stats := AreaStats{
			Area:          area,
			ContractCount: len(group),
			AvgRent:       avg,
			MedianRent:    median,
			MinRent:       min,
			MaxRent:       max,
			AvgPSF:        Mean(psfValues(group)),
		}
		result = append(result, stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ContractCount != result[j].ContractCount {
			return result[i].ContractCount > result[j].ContractCount
		}
		return result[i].Area < result[j].Area
	})

	return result, nil
}

// IdentifyHighDemandAreas возвращает topN районов по числу контрактов
// с долей рынка каждого района
func (a *MarketAnalytics) IdentifyHighDemandAreas(areaColumn string, topN int) ([]AreaStats, error) {
	areas, err := a.AnalyzeByArea(areaColumn)
	if err != nil {
		return nil, err
	}

	total := len(a.table.Records)
	if topN > 0 && len(areas) > topN {
		areas = areas[:topN]
	}
	if total > 0 {
		for i := range areas {
			areas[i].MarketSharePct = float64(areas[i].ContractCount) / float64(total) * 100.0
		}
	}
	return areas, nil
}

// AnalyzeByPropertyType группирует контракты по нормализованному типу недвижимости
func (a *MarketAnalytics) AnalyzeByPropertyType() ([]PropertyTypeStats, error) {
	if err := a.requireColumn("property_type_normalized"); err != nil {
		return nil, err
	}

	order, groups := groupRecords(a.table.Records, func(r *models.EnrichedRecord) string {
		return r.PropertyTypeNormalized
	})

	total := len(a.table.Records)
	result := make([]PropertyTypeStats, 0, len(order))
	for _, propertyType := range order {
		group := groups[propertyType]
		avg, median, min, max := rentStats(group)
		stats := PropertyTypeStats{
			PropertyType:  propertyType,
			ContractCount: len(group),
			AvgRent:       avg,
			MedianRent:    median,
			MinRent:       min,
			MaxRent:       max,
		}
		if total > 0 {
			stats.MarketSharePct = float64(len(group)) / float64(total) * 100.0
		}
		result = append(result, stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ContractCount != result[j].ContractCount {
			return result[i].ContractCount > result[j].ContractCount
		}
		return result[i].PropertyType < result[j].PropertyType
	})

	return result, nil
}

// SegmentByUsage сегментирует контракты по категории использования
func (a *MarketAnalytics) SegmentByUsage() ([]UsageSegment, error) {
	if err := a.requireColumn("usage_category"); err != nil {
		return nil, err
	}

	order, groups := groupRecords(a.table.Records, func(r *models.EnrichedRecord) string {
		return r.UsageCategory
	})

	total := len(a.table.Records)
	result := make([]UsageSegment, 0, len(order))
	for _, usage := range order {
		group := groups[usage]
		avg, median, min, max := rentStats(group)

		areas := make([]float64, 0, len(group))
		for _, r := range group {
			if r.ActualArea != nil {
				areas = append(areas, *r.ActualArea)
			}
		}

		segment := UsageSegment{
			UsageCategory: usage,
			ContractCount: len(group),
			AvgRent:       avg,
			MedianRent:    median,
			MinRent:       min,
			MaxRent:       max,
			AvgArea:       Mean(areas),
			MedianArea:    Median(areas),
			AvgPSF:        Mean(psfValues(group)),
		}
		if total > 0 {
			segment.MarketSharePct = float64(len(group)) / float64(total) * 100.0
		}
		result = append(result, segment)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ContractCount != result[j].ContractCount {
			return result[i].ContractCount > result[j].ContractCount
		}
		return result[i].UsageCategory < result[j].UsageCategory
	})

	return result, nil
}

// IdentifyLuxuryProperties вычисляет люксовую когорту по перцентильным порогам.
// Пороги пересчитываются по той же формуле, что и при обогащении,
// поэтому повторный вызов на тех же данных дает тот же результат.
func (a *MarketAnalytics) IdentifyLuxuryProperties() (*LuxuryReport, error) {
	thresholds, ok := ComputeLuxuryThresholds(a.table.Records, a.metrics)
	if !ok {
		return nil, fmt.Errorf("%w: строк %d, требуется минимум %d",
			ErrInsufficientData, len(a.table.Records), a.metrics.MinSampleSize)
	}

	report := &LuxuryReport{
		RentThreshold: thresholds.RentThreshold,
		PSFByTier:     thresholds.PSFByTier,
		TotalCount:    len(a.table.Records),
	}

	for i := range a.table.Records {
		r := &a.table.Records[i]
		if !thresholds.IsLuxury(r) {
			continue
		}
		report.LuxuryCount++
		report.Contracts = append(report.Contracts, LuxuryContract{
			ContractID:   r.ContractID,
			AreaName:     r.AreaName,
			AreaTier:     r.AreaTier,
			AnnualAmount: r.AnnualAmount,
			PricePerSqft: r.PricePerSqft,
		})
	}
	if report.TotalCount > 0 {
		report.LuxurySharePct = float64(report.LuxuryCount) / float64(report.TotalCount) * 100.0
	}

	if a.logger != nil {
		a.logger.Info("Люксовый сегмент: %d из %d контрактов (%.1f%%)",
			report.LuxuryCount, report.TotalCount, report.LuxurySharePct)
	}
	return report, nil
}

// Периоды временных трендов
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

type trendKey struct {
	year int
	sub  int
}

// CalculateRentalTrends строит временной тренд аренды по периоду регистрации.
// Записи без временной привязки пропускаются, пустые периоды не синтезируются.
func (a *MarketAnalytics) CalculateRentalTrends(period string) ([]TrendPoint, error) {
	if err := a.requireColumn("registration_year"); err != nil {
		return nil, err
	}

	switch period {
	case PeriodMonthly, PeriodQuarterly, PeriodYearly:
	default:
		return nil, fmt.Errorf("неизвестный период тренда: %s", period)
	}

	keys := make([]trendKey, 0)
	groups := make(map[trendKey][]*models.EnrichedRecord)

	for i := range a.table.Records {
		r := &a.table.Records[i]
		if r.RegistrationYear == nil {
			continue
		}

		key := trendKey{year: *r.RegistrationYear}
		switch period {
		case PeriodMonthly:
			if r.RegistrationMonth == nil {
				continue
			}
			key.sub = *r.RegistrationMonth
		case PeriodQuarterly:
			if r.RegistrationQuarter == nil {
				continue
			}
			key.sub = *r.RegistrationQuarter
		}

		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].sub < keys[j].sub
	})

	result := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		avg, _, _, _ := rentStats(group)
		result = append(result, TrendPoint{
			Period:        formatPeriod(period, key),
			ContractCount: len(group),
			AvgRent:       avg,
			AvgPSF:        Mean(psfValues(group)),
		})
	}
	return result, nil
}

func formatPeriod(period string, key trendKey) string {
	switch period {
	case PeriodMonthly:
		return fmt.Sprintf("%04d-%02d", key.year, key.sub)
	case PeriodQuarterly:
		return fmt.Sprintf("%04d-Q%d", key.year, key.sub)
	default:
		return fmt.Sprintf("%04d", key.year)
	}
}

// GenerateMarketSummary собирает сводный отчет по рынку аренды
func (a *MarketAnalytics) GenerateMarketSummary() (*MarketSummary, error) {
	summary := &MarketSummary{
		GeneratedAt:    time.Now(),
		TotalContracts: len(a.table.Records),
	}

	all := recordPtrs(a.table.Records)
	summary.AvgRent, summary.MedianRent, summary.MinRent, summary.MaxRent = rentStats(all)

	psf := psfValues(all)
	summary.AvgPSF = Mean(psf)
	summary.MedianPSF = Median(psf)

	order, groups := groupRecords(a.table.Records, func(r *models.EnrichedRecord) string {
		return r.AreaTier
	})
	for _, tier := range order {
		share := TierShare{Tier: tier, Count: len(groups[tier])}
		if summary.TotalContracts > 0 {
			share.SharePct = float64(share.Count) / float64(summary.TotalContracts) * 100.0
		}
		summary.TierBreakdown = append(summary.TierBreakdown, share)
	}
	sort.Slice(summary.TierBreakdown, func(i, j int) bool {
		if summary.TierBreakdown[i].Count != summary.TierBreakdown[j].Count {
			return summary.TierBreakdown[i].Count > summary.TierBreakdown[j].Count
		}
		return summary.TierBreakdown[i].Tier < summary.TierBreakdown[j].Tier
	})

	usage, err := a.SegmentByUsage()
	if err != nil {
		return nil, err
	}
	summary.UsageBreakdown = usage

	luxuryCount := 0
	for i := range a.table.Records {
		if a.table.Records[i].IsLuxury {
			luxuryCount++
		}
	}
	if summary.TotalContracts > 0 {
		summary.LuxurySharePct = float64(luxuryCount) / float64(summary.TotalContracts) * 100.0
	}

	return summary, nil
}
