package validate

import (
	"testing"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

func testLogger() *utils.ETLLogger {
	return utils.NewETLLogger(false)
}

func newTestValidator(strict bool) *Validator {
	return NewValidator(config.DefaultThresholds, config.DefaultMarketMetrics, strict, testLogger())
}

func floatPtr(v float64) *float64 { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// validRecord возвращает контракт, проходящий все проверки
func validRecord(id string) models.ContractRecord {
	return models.ContractRecord{
		ContractID:    id,
		PropertyUsage: "Residential",
		AreaName:      "Dubai Marina",
		AnnualAmount:  floatPtr(120000),
		ActualArea:    floatPtr(1000),
		NoOfProp:      1,
		StartDate:     datePtr(2025, 1, 1),
		EndDate:       datePtr(2025, 12, 31),
	}
}

func newTestTable(records ...models.ContractRecord) *models.ContractTable {
	return &models.ContractTable{
		Columns: []string{
			models.ColContractID,
			models.ColStartDate,
			models.ColEndDate,
			models.ColPropertyUsage,
			models.ColAnnualAmount,
			models.ColActualArea,
		},
		Records: records,
	}
}

func findBySeverity(report *ValidationReport, severity Severity) []Finding {
	var found []Finding
	for _, f := range report.Findings {
		if f.Severity == severity {
			found = append(found, f)
		}
	}
	return found
}

func TestValidateEmptyTable(t *testing.T) {
	report := newTestValidator(false).Validate(&models.ContractTable{})

	if report.IsValid() {
		t.Error("пустая таблица должна быть невалидной")
	}
	if !report.HasStructuralErrors() {
		t.Error("пустая таблица должна давать структурную ошибку")
	}
}

func TestValidateMissingColumnsFailFast(t *testing.T) {
	table := &models.ContractTable{
		Columns: []string{models.ColContractID},
		Records: []models.ContractRecord{validRecord("C-001")},
	}

	report := newTestValidator(false).Validate(table)

	if report.IsValid() {
		t.Error("таблица без обязательных колонок должна быть невалидной")
	}
	if !report.HasStructuralErrors() {
		t.Error("отсутствие колонок должно давать структурную ошибку")
	}

	// Построчные проверки не выполняются: ровно одна ошибка о схеме
	errors := findBySeverity(report, SeverityError)
	if len(errors) != 1 || errors[0].Field != "schema" {
		t.Errorf("ожидалась одна ошибка схемы, получено: %v", errors)
	}
}

func TestValidateAnnualRentOutOfRange(t *testing.T) {
	low := validRecord("C-low")
	low.AnnualAmount = floatPtr(5000)
	low.ActualArea = nil

	high := validRecord("C-high")
	high.AnnualAmount = floatPtr(6000000)
	high.ActualArea = nil

	report := newTestValidator(false).Validate(newTestTable(low, high))

	if report.IsValid() {
		t.Error("суммы вне жесткого диапазона должны делать отчет невалидным")
	}
	if report.HasStructuralErrors() {
		t.Error("построчные ошибки не являются структурными")
	}

	errors := findBySeverity(report, SeverityError)
	if len(errors) != 2 {
		t.Fatalf("ожидалось 2 ошибки, получено %d: %v", len(errors), errors)
	}
	if errors[0].RowRef != "C-low" || errors[1].RowRef != "C-high" {
		t.Errorf("ошибки должны ссылаться на контракты, получено: %v", errors)
	}
}

func TestValidatePSFWarning(t *testing.T) {
	// PSF = 600000/1000 = 600, выше порога 500 для жилой недвижимости,
	// при этом сумма и площадь в жестких диапазонах
	record := validRecord("C-psf")
	record.AnnualAmount = floatPtr(600000)

	report := newTestValidator(false).Validate(newTestTable(record))

	warnings := findBySeverity(report, SeverityWarning)
	if len(warnings) != 1 || warnings[0].Field != "price_per_sqft" {
		t.Fatalf("ожидалось одно предупреждение о PSF, получено: %v", warnings)
	}

	// В нестрогом режиме предупреждения не делают отчет невалидным
	if !report.IsValid() {
		t.Error("отчет с одними предупреждениями должен быть валиден в нестрогом режиме")
	}
}

func TestValidateStrictModeEscalatesWarnings(t *testing.T) {
	record := validRecord("C-psf")
	record.AnnualAmount = floatPtr(600000)

	report := newTestValidator(true).Validate(newTestTable(record))

	// Серьезность замечания не меняется, меняется только итоговая валидность
	if len(findBySeverity(report, SeverityError)) != 0 {
		t.Error("строгий режим не должен менять серьезность замечаний")
	}
	if report.IsValid() {
		t.Error("в строгом режиме предупреждения делают отчет невалидным")
	}
}

func TestValidateEndBeforeStart(t *testing.T) {
	record := validRecord("C-dates")
	record.StartDate = datePtr(2025, 6, 1)
	record.EndDate = datePtr(2025, 1, 1)

	report := newTestValidator(false).Validate(newTestTable(record))

	errors := findBySeverity(report, SeverityError)
	if len(errors) != 1 || errors[0].Field != models.ColEndDate {
		t.Fatalf("ожидалась ошибка о датах, получено: %v", errors)
	}
}

func TestValidateContractDurationWarnings(t *testing.T) {
	short := validRecord("C-short")
	short.EndDate = datePtr(2025, 1, 15) // 14 дней

	long := validRecord("C-long")
	long.EndDate = datePtr(2028, 1, 1) // около 3 лет

	report := newTestValidator(false).Validate(newTestTable(short, long))

	warnings := findBySeverity(report, SeverityWarning)
	if len(warnings) != 2 {
		t.Fatalf("ожидалось 2 предупреждения о длительности, получено: %v", warnings)
	}
	if !report.IsValid() {
		t.Error("предупреждения о длительности не должны делать отчет невалидным")
	}
}

func TestValidateNoOfPropAndNegativeAmount(t *testing.T) {
	record := validRecord("C-bad")
	record.NoOfProp = 0
	record.ContractAmount = floatPtr(-100)

	report := newTestValidator(false).Validate(newTestTable(record))

	errors := findBySeverity(report, SeverityError)
	if len(errors) != 2 {
		t.Fatalf("ожидалось 2 ошибки, получено: %v", errors)
	}
}

func TestValidateNullShareWarnings(t *testing.T) {
	record := validRecord("C-null")
	record.AnnualAmount = nil
	record.ActualArea = nil

	report := newTestValidator(false).Validate(newTestTable(record))

	warnings := findBySeverity(report, SeverityWarning)
	if len(warnings) != 1 || warnings[0].Field != models.ColAnnualAmount {
		t.Fatalf("ожидалось предупреждение о доле null в annual_amount, получено: %v", warnings)
	}
}

func TestDetectRentOutliers(t *testing.T) {
	// Десять обычных контрактов и один экстремальный выброс
	records := make([]models.ContractRecord, 0, 11)
	for i := 0; i < 10; i++ {
		r := validRecord("C-norm")
		r.AnnualAmount = floatPtr(100000 + float64(i)*1000)
		r.ActualArea = nil
		records = append(records, r)
	}
	outlier := validRecord("C-outlier")
	outlier.AnnualAmount = floatPtr(4900000)
	outlier.ActualArea = nil
	records = append(records, outlier)

	report := newTestValidator(false).Validate(newTestTable(records...))

	found := false
	for _, f := range findBySeverity(report, SeverityInfo) {
		if f.Field == models.ColAnnualAmount {
			found = true
		}
	}
	if !found {
		t.Error("ожидалось информационное замечание о выбросах")
	}
}

func TestDetectRentOutliersSkippedOnSmallSample(t *testing.T) {
	// Меньше минимального размера выборки: поиск выбросов не выполняется
	records := []models.ContractRecord{validRecord("C-1"), validRecord("C-2")}
	report := newTestValidator(false).Validate(newTestTable(records...))

	for _, f := range findBySeverity(report, SeverityInfo) {
		if f.Field == models.ColAnnualAmount {
			t.Error("поиск выбросов не должен выполняться на маленькой выборке")
		}
	}
}
