package validate

import (
	"sort"
	"strings"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// Validator отвечает за проверку качества данных арендных контрактов.
// Замечания о данных никогда не прерывают проверку: они собираются в отчет.
type Validator struct {
	thresholds config.ValidationThresholds
	metrics    config.MarketMetrics
	strict     bool
	logger     *utils.ETLLogger
}

// NewValidator создает новый экземпляр Validator
func NewValidator(thresholds config.ValidationThresholds, metrics config.MarketMetrics, strict bool, logger *utils.ETLLogger) *Validator {
	return &Validator{
		thresholds: thresholds,
		metrics:    metrics,
		strict:     strict,
		logger:     logger,
	}
}

// Validate проверяет таблицу контрактов и возвращает отчет валидации.
// При отсутствии обязательных колонок проверка завершается единственным
// фатальным замечанием о схеме, построчные проверки не выполняются.
func (v *Validator) Validate(table *models.ContractTable) *ValidationReport {
	report := NewValidationReport(v.strict)

	if len(table.Records) == 0 {
		report.AddError("table", "", "таблица контрактов пуста")
		return report
	}

	report.AddInfo("table", "", "проверяется записей: %d", len(table.Records))

	// Проверка схемы: без обязательных колонок построчные проверки не имеют смысла
	if missing := table.MissingColumns(); len(missing) > 0 {
		report.AddError("schema", "", "отсутствуют обязательные колонки: %s", strings.Join(missing, ", "))
		return report
	}

	v.validateRows(table, report)
	v.validateNullShares(table, report)
	v.detectRentOutliers(table, report)

	summary := report.GetSummary()
	v.logger.Info("Валидация завершена: ошибок %d, предупреждений %d, валидность: %v",
		summary.Errors, summary.Warnings, summary.IsValid)

	return report
}

// validateRows выполняет построчные проверки диапазонов и бизнес-логики
func (v *Validator) validateRows(table *models.ContractTable, report *ValidationReport) {
	hasArea := table.HasColumn(models.ColActualArea)
	hasEndDate := table.HasColumn(models.ColEndDate)

	for i := range table.Records {
		record := &table.Records[i]
		rowRef := record.RowRef()

		// Годовая арендная плата: жесткий диапазон
		if record.AnnualAmount != nil {
			amount := *record.AnnualAmount
			if amount < v.thresholds.MinAnnualRent {
				report.AddError(models.ColAnnualAmount, rowRef,
					"годовая аренда %.2f ниже минимума %.0f AED", amount, v.thresholds.MinAnnualRent)
			} else if amount > v.thresholds.MaxAnnualRent {
				report.AddError(models.ColAnnualAmount, rowRef,
					"годовая аренда %.2f выше максимума %.0f AED", amount, v.thresholds.MaxAnnualRent)
			}
		}

		// Площадь объекта: жесткий диапазон
		if hasArea && record.ActualArea != nil {
			area := *record.ActualArea
			if area <= 0 {
				report.AddError(models.ColActualArea, rowRef, "площадь объекта %.2f не положительна", area)
			} else if area < v.thresholds.MinPropertySize {
				report.AddError(models.ColActualArea, rowRef,
					"площадь %.2f кв. футов ниже минимума %.0f", area, v.thresholds.MinPropertySize)
			} else if area > v.thresholds.MaxPropertySize {
				report.AddError(models.ColActualArea, rowRef,
					"площадь %.2f кв. футов выше максимума %.0f", area, v.thresholds.MaxPropertySize)
			}
		}

		// Цена за квадратный фут: мягкие пороги по категории использования
		if hasArea && record.ActualArea != nil && *record.ActualArea > 0 && record.AnnualAmount != nil {
			psf := *record.AnnualAmount / *record.ActualArea

			switch config.ClassifyUsage(record.PropertyUsage) {
			case config.UsageResidential:
				if psf < v.thresholds.MinPSFResidential || psf > v.thresholds.MaxPSFResidential {
					report.AddWarning("price_per_sqft", rowRef,
						"PSF %.2f вне диапазона [%.0f, %.0f] для жилой недвижимости",
						psf, v.thresholds.MinPSFResidential, v.thresholds.MaxPSFResidential)
				}
			case config.UsageCommercial:
				if psf < v.thresholds.MinPSFCommercial || psf > v.thresholds.MaxPSFCommercial {
					report.AddWarning("price_per_sqft", rowRef,
						"PSF %.2f вне диапазона [%.0f, %.0f] для коммерческой недвижимости",
						psf, v.thresholds.MinPSFCommercial, v.thresholds.MaxPSFCommercial)
				}
			}
		}

		// Даты: окончание контракта не может предшествовать началу
		if hasEndDate && record.StartDate != nil && record.EndDate != nil {
			if record.EndDate.Before(*record.StartDate) {
				report.AddError(models.ColEndDate, rowRef,
					"дата окончания %s раньше даты начала %s",
					record.EndDate.Format("2006-01-02"), record.StartDate.Format("2006-01-02"))
			} else {
				// Длительность контракта: мягкий диапазон
				days := int(record.EndDate.Sub(*record.StartDate).Hours() / 24)
				if days < v.thresholds.MinContractDays {
					report.AddWarning(models.ColEndDate, rowRef,
						"контракт короче %d дней (%d)", v.thresholds.MinContractDays, days)
				} else if days > v.thresholds.MaxContractDays {
					report.AddWarning(models.ColEndDate, rowRef,
						"контракт длиннее %d дней (%d)", v.thresholds.MaxContractDays, days)
				}
			}
		}

		// Количество объектов в контракте
		if record.NoOfProp < 1 {
			report.AddError(models.ColNoOfProp, rowRef, "количество объектов %d меньше 1", record.NoOfProp)
		}

		// Сумма контракта не может быть отрицательной
		if record.ContractAmount != nil && *record.ContractAmount < 0 {
			report.AddError(models.ColContractAmount, rowRef,
				"сумма контракта %.2f отрицательна", *record.ContractAmount)
		}
	}
}

// validateNullShares добавляет предупреждения о доле null в обязательных полях
func (v *Validator) validateNullShares(table *models.ContractTable, report *ValidationReport) {
	total := len(table.Records)

	nullCounts := map[string]int{
		models.ColContractID:    0,
		models.ColStartDate:     0,
		models.ColPropertyUsage: 0,
		models.ColAnnualAmount:  0,
	}

	for i := range table.Records {
		record := &table.Records[i]
		if record.ContractID == "" {
			nullCounts[models.ColContractID]++
		}
		if record.StartDate == nil {
			nullCounts[models.ColStartDate]++
		}
		if record.PropertyUsage == "" {
			nullCounts[models.ColPropertyUsage]++
		}
		if record.AnnualAmount == nil {
			nullCounts[models.ColAnnualAmount]++
		}
	}

	for _, field := range models.RequiredColumns {
		count := nullCounts[field]
		if count > 0 {
			pct := float64(count) / float64(total) * 100
			report.AddWarning(field, "", "поле содержит %d пустых значений (%.2f%%)", count, pct)
		}
	}
}

// detectRentOutliers выполняет поиск статистических выбросов по методу IQR
func (v *Validator) detectRentOutliers(table *models.ContractTable, report *ValidationReport) {
	var rents []float64
	for i := range table.Records {
		if amount := table.Records[i].AnnualAmount; amount != nil && *amount > 0 {
			rents = append(rents, *amount)
		}
	}

	// Для перцентильных расчетов нужен минимальный размер выборки
	if len(rents) < v.metrics.MinSampleSize {
		return
	}

	sort.Float64s(rents)
	q1 := quantileSorted(rents, 0.25)
	q3 := quantileSorted(rents, 0.75)
	iqr := q3 - q1

	lowerBound := q1 - v.metrics.OutlierIQRMultiplier*iqr
	upperBound := q3 + v.metrics.OutlierIQRMultiplier*iqr

	outliers := 0
	for _, rent := range rents {
		if rent < lowerBound || rent > upperBound {
			outliers++
		}
	}

	if outliers > 0 {
		pct := float64(outliers) / float64(len(rents)) * 100
		report.AddInfo(models.ColAnnualAmount, "",
			"обнаружено статистических выбросов по арендной плате: %d (%.2f%%)", outliers, pct)
	}
}

// quantileSorted возвращает квантиль отсортированной выборки (линейная интерполяция)
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
