package enrich

import (
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/analytics"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// Названия сезонов по месяцу регистрации
const (
	SeasonWinter = "Winter"
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
)

// Категории длительности контракта
const (
	DurationShort  = "Short"  // менее 182 дней
	DurationMedium = "Medium" // 182-365 дней
	DurationLong   = "Long"   // более 365 дней
)

// Enricher отвечает за обогащение таблицы контрактов производными полями.
// Обогащение детерминировано: результат зависит только от входной таблицы
// и статических классификационных таблиц.
type Enricher struct {
	metrics config.MarketMetrics
	logger  *utils.ETLLogger
}

// NewEnricher создает новый экземпляр Enricher
func NewEnricher(metrics config.MarketMetrics, logger *utils.ETLLogger) *Enricher {
	return &Enricher{
		metrics: metrics,
		logger:  logger,
	}
}

// Enrich возвращает новую обогащенную таблицу; исходная таблица не изменяется.
// Производные поля с отсутствующими исходными значениями остаются null,
// кроме area_tier (Unclassified) и property_type_normalized (исходная строка).
func (e *Enricher) Enrich(table *models.ContractTable) *models.EnrichedTable {
	e.logger.Info("Начало обогащения данных (%d записей)", len(table.Records))

	enriched := &models.EnrichedTable{
		Columns: append(append([]string{}, table.Columns...), models.EnrichedColumns...),
		Records: make([]models.EnrichedRecord, 0, len(table.Records)),
	}

	for i := range table.Records {
		record := models.EnrichedRecord{ContractRecord: table.Records[i]}

		e.addPSF(&record)
		e.addAreaTier(&record)
		e.normalizePropertyType(&record)
		e.addTemporalFeatures(&record)
		e.addContractDuration(&record)
		e.addUsageCategory(&record)

		enriched.Records = append(enriched.Records, record)
	}

	// Люксовые объекты определяются перцентильными порогами по всему набору,
	// поэтому флаг проставляется отдельным проходом после остальных полей
	e.flagLuxuryProperties(enriched.Records)

	e.logger.Info("Обогащение завершено. Добавлено колонок: %d", len(models.EnrichedColumns))
	return enriched
}

// addPSF рассчитывает цену за квадратный фут
func (e *Enricher) addPSF(record *models.EnrichedRecord) {
	if record.ActualArea != nil && *record.ActualArea > 0 && record.AnnualAmount != nil {
		psf := *record.AnnualAmount / *record.ActualArea
		record.PricePerSqft = &psf
	}
}

// addAreaTier проставляет рыночный сегмент района
func (e *Enricher) addAreaTier(record *models.EnrichedRecord) {
	record.AreaTier = config.GetAreaTier(record.AreaName)
}

// normalizePropertyType приводит тип объекта к стандартному виду
func (e *Enricher) normalizePropertyType(record *models.EnrichedRecord) {
	record.PropertyTypeNormalized = config.NormalizePropertyType(record.PropertyType)
}

// addTemporalFeatures добавляет временные признаки по дате регистрации.
// Если дата регистрации отсутствует, используется дата начала контракта.
func (e *Enricher) addTemporalFeatures(record *models.EnrichedRecord) {
	basis := record.RegistrationDate
	if basis == nil {
		basis = record.StartDate
	}
	if basis == nil {
		return
	}

	year := basis.Year()
	month := int(basis.Month())
	quarter := (month-1)/3 + 1

	record.RegistrationYear = &year
	record.RegistrationMonth = &month
	record.RegistrationQuarter = &quarter
	record.RegistrationSeason = Season(month)
}

// addContractDuration рассчитывает длительность контракта в днях и ее категорию
func (e *Enricher) addContractDuration(record *models.EnrichedRecord) {
	if record.StartDate == nil || record.EndDate == nil {
		return
	}

	days := int(record.EndDate.Sub(*record.StartDate) / (24 * time.Hour))
	record.ContractDurationDays = &days
	record.ContractDurationCategory = DurationCategory(days)
}

// addUsageCategory сводит property_usage к категории использования
func (e *Enricher) addUsageCategory(record *models.EnrichedRecord) {
	record.UsageCategory = config.ClassifyUsage(record.PropertyUsage)
}

// flagLuxuryProperties проставляет признак люксового объекта по перцентильным
// порогам текущего набора данных
func (e *Enricher) flagLuxuryProperties(records []models.EnrichedRecord) {
	thresholds, ok := analytics.ComputeLuxuryThresholds(records, e.metrics)
	if !ok {
		e.logger.Debug("Недостаточно данных для определения люксовых объектов")
		return
	}

	count := 0
	for i := range records {
		records[i].IsLuxury = thresholds.IsLuxury(&records[i])
		if records[i].IsLuxury {
			count++
		}
	}

	e.logger.Info("Отмечено люксовых объектов: %d", count)
}

// Season возвращает сезон по номеру месяца (фиксированные границы кварталов)
func Season(month int) string {
	switch {
	case month == 12 || month == 1 || month == 2:
		return SeasonWinter
	case month >= 3 && month <= 5:
		return SeasonSpring
	case month >= 6 && month <= 8:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// DurationCategory возвращает категорию длительности контракта.
// Отрицательная длительность не категоризируется.
func DurationCategory(days int) string {
	switch {
	case days < 0:
		return ""
	case days < 182:
		return DurationShort
	case days <= 365:
		return DurationMedium
	default:
		return DurationLong
	}
}
