package analytics

import (
	"errors"
	"testing"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func newEngine(table *models.EnrichedTable) *MarketAnalytics {
	return NewMarketAnalytics(table, config.DefaultMarketMetrics, utils.NewETLLogger(false))
}

func enrichedColumns() []string {
	return append([]string{
		models.ColContractID,
		models.ColAreaName,
		models.ColAnnualAmount,
	}, models.EnrichedColumns...)
}

func areaRecord(area string, rent float64) models.EnrichedRecord {
	return models.EnrichedRecord{
		ContractRecord: models.ContractRecord{
			AreaName:     area,
			AnnualAmount: floatPtr(rent),
		},
	}
}

func TestAnalyzeByAreaCountsSumToTotal(t *testing.T) {
	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			areaRecord("Deira", 50000),
			areaRecord("Dubai Marina", 150000),
			areaRecord("Deira", 60000),
			areaRecord("Mirdif", 80000),
			areaRecord("Deira", 55000),
			// Запись без района тоже попадает в группировку
			areaRecord("", 40000),
		},
	}

	areas, err := newEngine(table).AnalyzeByArea(models.ColAreaName)
	if err != nil {
		t.Fatalf("AnalyzeByArea вернул ошибку: %v", err)
	}

	total := 0
	for _, a := range areas {
		total += a.ContractCount
	}
	if total != len(table.Records) {
		t.Errorf("сумма счетчиков групп %d не равна числу строк %d", total, len(table.Records))
	}

	if areas[0].Area != "Deira" || areas[0].ContractCount != 3 {
		t.Errorf("первой должна быть Deira с 3 контрактами, получено %q (%d)", areas[0].Area, areas[0].ContractCount)
	}
}

func TestAnalyzeByAreaTieBreak(t *testing.T) {
	// При равных счетчиках районы упорядочиваются по имени
	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			areaRecord("Mirdif", 50000),
			areaRecord("Deira", 60000),
			areaRecord("Al Nahda", 70000),
		},
	}

	areas, err := newEngine(table).AnalyzeByArea(models.ColAreaName)
	if err != nil {
		t.Fatalf("AnalyzeByArea вернул ошибку: %v", err)
	}

	want := []string{"Al Nahda", "Deira", "Mirdif"}
	for i, name := range want {
		if areas[i].Area != name {
			t.Errorf("позиция %d: %q, ожидалось %q", i, areas[i].Area, name)
		}
	}
}

func TestAnalyzeByAreaRentAggregates(t *testing.T) {
	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			areaRecord("Deira", 50000),
			areaRecord("Deira", 70000),
			// Запись без суммы учитывается в счетчике, но не в агрегатах
			{ContractRecord: models.ContractRecord{AreaName: "Deira"}},
		},
	}

	areas, err := newEngine(table).AnalyzeByArea(models.ColAreaName)
	if err != nil {
		t.Fatalf("AnalyzeByArea вернул ошибку: %v", err)
	}

	deira := areas[0]
	if deira.ContractCount != 3 {
		t.Errorf("ContractCount = %d, ожидалось 3", deira.ContractCount)
	}
	if deira.AvgRent != 60000 {
		t.Errorf("AvgRent = %v, ожидалось 60000", deira.AvgRent)
	}
	if deira.MinRent != 50000 || deira.MaxRent != 70000 {
		t.Errorf("Min/Max = %v/%v, ожидалось 50000/70000", deira.MinRent, deira.MaxRent)
	}
}

func TestAnalyzeByAreaMissingColumn(t *testing.T) {
	table := &models.EnrichedTable{Columns: []string{models.ColContractID}}

	_, err := newEngine(table).AnalyzeByArea(models.ColAreaName)
	if err == nil {
		t.Fatal("ожидалась ошибка об отсутствующей колонке")
	}

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("ожидалась MissingColumnError, получено %T: %v", err, err)
	}
	if missing.Column != models.ColAreaName {
		t.Errorf("имя колонки в ошибке %q, ожидалось %q", missing.Column, models.ColAreaName)
	}
}

func TestAnalyzeByAreaEmptyTable(t *testing.T) {
	table := &models.EnrichedTable{Columns: enrichedColumns()}

	areas, err := newEngine(table).AnalyzeByArea(models.ColAreaName)
	if err != nil {
		t.Fatalf("пустая таблица не должна давать ошибку: %v", err)
	}
	if len(areas) != 0 {
		t.Errorf("ожидался пустой результат, получено %d групп", len(areas))
	}
}

func TestIdentifyHighDemandAreas(t *testing.T) {
	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			areaRecord("Deira", 50000),
			areaRecord("Deira", 60000),
			areaRecord("Mirdif", 80000),
			areaRecord("Dubai Marina", 150000),
		},
	}

	areas, err := newEngine(table).IdentifyHighDemandAreas(models.ColAreaName, 2)
	if err != nil {
		t.Fatalf("IdentifyHighDemandAreas вернул ошибку: %v", err)
	}

	if len(areas) != 2 {
		t.Fatalf("ожидалось 2 района, получено %d", len(areas))
	}
	if areas[0].Area != "Deira" || areas[0].MarketSharePct != 50.0 {
		t.Errorf("Deira должна иметь долю 50%%, получено %q: %v", areas[0].Area, areas[0].MarketSharePct)
	}
}

func TestCalculateRentalTrends(t *testing.T) {
	record := func(year, month, quarter int, rent float64) models.EnrichedRecord {
		return models.EnrichedRecord{
			ContractRecord:      models.ContractRecord{AnnualAmount: floatPtr(rent)},
			RegistrationYear:    intPtr(year),
			RegistrationMonth:   intPtr(month),
			RegistrationQuarter: intPtr(quarter),
		}
	}

	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			record(2025, 3, 1, 100000),
			record(2025, 3, 1, 120000),
			// Пропуск месяцев: апрель и май отсутствуют
			record(2025, 6, 2, 90000),
			record(2024, 12, 4, 80000),
			// Запись без временной привязки пропускается
			{ContractRecord: models.ContractRecord{AnnualAmount: floatPtr(70000)}},
		},
	}
	engine := newEngine(table)

	monthly, err := engine.CalculateRentalTrends(PeriodMonthly)
	if err != nil {
		t.Fatalf("CalculateRentalTrends вернул ошибку: %v", err)
	}

	// Пустые периоды не синтезируются, порядок хронологический
	wantPeriods := []string{"2024-12", "2025-03", "2025-06"}
	if len(monthly) != len(wantPeriods) {
		t.Fatalf("ожидалось %d точек, получено %d", len(wantPeriods), len(monthly))
	}
	for i, period := range wantPeriods {
		if monthly[i].Period != period {
			t.Errorf("точка %d: период %q, ожидалось %q", i, monthly[i].Period, period)
		}
	}
	if monthly[1].ContractCount != 2 || monthly[1].AvgRent != 110000 {
		t.Errorf("2025-03: count=%d avg=%v, ожидалось 2 и 110000", monthly[1].ContractCount, monthly[1].AvgRent)
	}

	quarterly, err := engine.CalculateRentalTrends(PeriodQuarterly)
	if err != nil {
		t.Fatalf("CalculateRentalTrends вернул ошибку: %v", err)
	}
	if quarterly[0].Period != "2024-Q4" || quarterly[1].Period != "2025-Q1" {
		t.Errorf("квартальные метки: %q, %q", quarterly[0].Period, quarterly[1].Period)
	}

	yearly, err := engine.CalculateRentalTrends(PeriodYearly)
	if err != nil {
		t.Fatalf("CalculateRentalTrends вернул ошибку: %v", err)
	}
	if len(yearly) != 2 || yearly[0].Period != "2024" || yearly[1].Period != "2025" {
		t.Errorf("годовые метки: %v", yearly)
	}
}

func TestCalculateRentalTrendsUnknownPeriod(t *testing.T) {
	// Неизвестный период отклоняется до обхода записей,
	// в том числе на пустой таблице
	empty := &models.EnrichedTable{Columns: enrichedColumns()}
	if _, err := newEngine(empty).CalculateRentalTrends("weekly"); err == nil {
		t.Error("ожидалась ошибка для неизвестного периода на пустой таблице")
	}

	record := areaRecord("Deira", 50000)
	record.RegistrationYear = intPtr(2025)
	populated := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{record},
	}
	if _, err := newEngine(populated).CalculateRentalTrends("weekly"); err == nil {
		t.Error("ожидалась ошибка для неизвестного периода")
	}
}

func TestIdentifyLuxuryPropertiesInsufficientData(t *testing.T) {
	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			areaRecord("Deira", 50000),
			areaRecord("Mirdif", 900000),
		},
	}

	_, err := newEngine(table).IdentifyLuxuryProperties()
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("ожидалась ErrInsufficientData, получено: %v", err)
	}
}

func TestIdentifyLuxuryPropertiesMatchesEnrichmentRule(t *testing.T) {
	// Когорта и флаги обогащения считаются одной и той же функцией порогов,
	// поэтому результаты должны совпадать на любом наборе
	records := make([]models.EnrichedRecord, 0, 12)
	for i := 1; i <= 12; i++ {
		psf := float64(i * 10)
		records = append(records, models.EnrichedRecord{
			ContractRecord: models.ContractRecord{
				ContractID:   "C",
				AnnualAmount: floatPtr(psf * 1000),
			},
			PricePerSqft: &psf,
			AreaTier:     config.TierMidTier,
		})
	}

	table := &models.EnrichedTable{Columns: enrichedColumns(), Records: records}

	thresholds, ok := ComputeLuxuryThresholds(records, config.DefaultMarketMetrics)
	if !ok {
		t.Fatal("порогов должно хватать на 12 записях")
	}

	report, err := newEngine(table).IdentifyLuxuryProperties()
	if err != nil {
		t.Fatalf("IdentifyLuxuryProperties вернул ошибку: %v", err)
	}

	expected := 0
	for i := range records {
		if thresholds.IsLuxury(&records[i]) {
			expected++
		}
	}
	if report.LuxuryCount != expected {
		t.Errorf("LuxuryCount = %d, прямой расчет дает %d", report.LuxuryCount, expected)
	}
	if report.TotalCount != len(records) {
		t.Errorf("TotalCount = %d, ожидалось %d", report.TotalCount, len(records))
	}
	if len(report.Contracts) != report.LuxuryCount {
		t.Errorf("в отчете %d контрактов при LuxuryCount %d", len(report.Contracts), report.LuxuryCount)
	}
}

func TestSegmentByUsageMarketShare(t *testing.T) {
	usageRecord := func(usage string, rent float64) models.EnrichedRecord {
		return models.EnrichedRecord{
			ContractRecord: models.ContractRecord{AnnualAmount: floatPtr(rent)},
			UsageCategory:  usage,
		}
	}

	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			usageRecord(config.UsageResidential, 100000),
			usageRecord(config.UsageResidential, 120000),
			usageRecord(config.UsageResidential, 80000),
			usageRecord(config.UsageCommercial, 200000),
		},
	}

	segments, err := newEngine(table).SegmentByUsage()
	if err != nil {
		t.Fatalf("SegmentByUsage вернул ошибку: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("ожидалось 2 сегмента, получено %d", len(segments))
	}
	if segments[0].UsageCategory != config.UsageResidential || segments[0].MarketSharePct != 75.0 {
		t.Errorf("жилой сегмент должен иметь долю 75%%, получено %q: %v",
			segments[0].UsageCategory, segments[0].MarketSharePct)
	}

	totalShare := segments[0].MarketSharePct + segments[1].MarketSharePct
	if totalShare != 100.0 {
		t.Errorf("сумма долей %v, ожидалось 100", totalShare)
	}
}

func TestCalculatePSFMetrics(t *testing.T) {
	psfRecord := func(tier string, psf float64) models.EnrichedRecord {
		return models.EnrichedRecord{
			PricePerSqft: &psf,
			AreaTier:     tier,
		}
	}

	table := &models.EnrichedTable{
		Columns: enrichedColumns(),
		Records: []models.EnrichedRecord{
			psfRecord(config.TierPremium, 200),
			psfRecord(config.TierPremium, 300),
			psfRecord(config.TierBudget, 50),
			// Запись без PSF в метрики не попадает
			{AreaTier: config.TierBudget},
		},
	}

	report, err := newEngine(table).CalculatePSFMetrics()
	if err != nil {
		t.Fatalf("CalculatePSFMetrics вернул ошибку: %v", err)
	}

	if report.Overall.Count != 3 {
		t.Errorf("Overall.Count = %d, ожидалось 3", report.Overall.Count)
	}
	if report.Overall.Min != 50 || report.Overall.Max != 300 {
		t.Errorf("Overall Min/Max = %v/%v, ожидалось 50/300", report.Overall.Min, report.Overall.Max)
	}

	if len(report.ByTier) != 2 {
		t.Fatalf("ожидалось 2 уровня, получено %d", len(report.ByTier))
	}
	if report.ByTier[0].Tier != config.TierPremium || report.ByTier[0].Count != 2 {
		t.Errorf("первым должен быть Premium с 2 значениями, получено %q (%d)",
			report.ByTier[0].Tier, report.ByTier[0].Count)
	}
	if report.ByTier[0].Mean != 250 || report.ByTier[0].Median != 250 {
		t.Errorf("Premium Mean/Median = %v/%v, ожидалось 250/250",
			report.ByTier[0].Mean, report.ByTier[0].Median)
	}
}

func TestGenerateMarketSummary(t *testing.T) {
	records := []models.EnrichedRecord{
		{
			ContractRecord: models.ContractRecord{AnnualAmount: floatPtr(100000)},
			AreaTier:       config.TierPremium,
			UsageCategory:  config.UsageResidential,
			IsLuxury:       true,
		},
		{
			ContractRecord: models.ContractRecord{AnnualAmount: floatPtr(50000)},
			AreaTier:       config.TierBudget,
			UsageCategory:  config.UsageResidential,
		},
	}

	table := &models.EnrichedTable{Columns: enrichedColumns(), Records: records}
	summary, err := newEngine(table).GenerateMarketSummary()
	if err != nil {
		t.Fatalf("GenerateMarketSummary вернул ошибку: %v", err)
	}

	if summary.TotalContracts != 2 {
		t.Errorf("TotalContracts = %d, ожидалось 2", summary.TotalContracts)
	}
	if summary.AvgRent != 75000 || summary.MinRent != 50000 || summary.MaxRent != 100000 {
		t.Errorf("агрегаты аренды: avg=%v min=%v max=%v", summary.AvgRent, summary.MinRent, summary.MaxRent)
	}
	if summary.LuxurySharePct != 50.0 {
		t.Errorf("LuxurySharePct = %v, ожидалось 50", summary.LuxurySharePct)
	}
	if len(summary.TierBreakdown) != 2 {
		t.Errorf("ожидалось 2 уровня в разбивке, получено %d", len(summary.TierBreakdown))
	}
}
