package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

func testTransformer() *Transformer {
	return NewTransformer(utils.NewETLLogger(false))
}

func floatPtr(v float64) *float64 { return &v }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func contractRecord(id, area, propertyType string) models.EnrichedRecord {
	return models.EnrichedRecord{
		ContractRecord: models.ContractRecord{
			ContractID:      id,
			ContractRegType: "New",
			PropertyType:    propertyType,
			TenantType:      "Person",
			AreaName:        area,
			AnnualAmount:    floatPtr(100000),
			NoOfProp:        1,
		},
		AreaTier:               config.GetAreaTier(area),
		PropertyTypeNormalized: config.NormalizePropertyType(propertyType),
		UsageCategory:          config.UsageResidential,
	}
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), 20250307},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 20241231},
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 20000101},
	}
	for _, tt := range tests {
		if got := DateKey(tt.date); got != tt.want {
			t.Errorf("DateKey(%v) = %d, ожидалось %d", tt.date, got, tt.want)
		}
	}
}

func TestTransformBuildsStarSchema(t *testing.T) {
	first := contractRecord("C-001", "Dubai Marina", "apt")
	first.RegistrationDate = datePtr(2025, 1, 10)
	first.StartDate = datePtr(2025, 2, 1)
	first.EndDate = datePtr(2026, 1, 31)

	second := contractRecord("C-002", "Deira", "villa")
	// Общая дата с первым контрактом в другой роли
	second.StartDate = datePtr(2025, 1, 10)

	table := &models.EnrichedTable{Records: []models.EnrichedRecord{first, second}}

	data, err := testTransformer().Transform(table)
	if err != nil {
		t.Fatalf("Transform вернул ошибку: %v", err)
	}

	// Каждая строка входа дает ровно одну строку фактов
	if len(data.Facts) != 2 {
		t.Fatalf("ожидалось 2 факта, получено %d", len(data.Facts))
	}

	if len(data.ContractTypes) != 1 {
		t.Errorf("ожидался 1 тип контракта, получено %d", len(data.ContractTypes))
	}
	if len(data.Locations) != 2 {
		t.Errorf("ожидалось 2 локации, получено %d", len(data.Locations))
	}

	// Одинаковые даты из разных ролей дают одну запись измерения:
	// 2025-01-10 (регистрация первого и начало второго), 2025-02-01, 2026-01-31
	if len(data.Dates) != 3 {
		t.Errorf("ожидалось 3 даты, получено %d", len(data.Dates))
	}

	if data.Metadata.ContractsProcessed != 2 || data.Metadata.FactsBuilt != 2 {
		t.Errorf("метаданные: contracts=%d facts=%d", data.Metadata.ContractsProcessed, data.Metadata.FactsBuilt)
	}
}

func TestTransformReferentialIntegrity(t *testing.T) {
	records := []models.EnrichedRecord{
		contractRecord("C-001", "Dubai Marina", "apt"),
		contractRecord("C-002", "Deira", "villa"),
		contractRecord("C-003", "Dubai Marina", "apt"),
	}
	records[0].RegistrationDate = datePtr(2025, 1, 1)
	records[2].RegistrationDate = datePtr(2025, 2, 1)

	data, err := testTransformer().Transform(&models.EnrichedTable{Records: records})
	if err != nil {
		t.Fatalf("Transform вернул ошибку: %v", err)
	}

	locationIDs := make(map[int]bool)
	for _, dim := range data.Locations {
		locationIDs[dim.ID] = true
	}
	dateKeys := make(map[int]bool)
	for _, dim := range data.Dates {
		dateKeys[dim.DateKey] = true
	}

	for _, fact := range data.Facts {
		if !locationIDs[fact.LocationID] {
			t.Errorf("факт %s ссылается на несуществующую локацию %d", fact.ContractID, fact.LocationID)
		}
		// Нулевой ключ означает отсутствующую дату, ненулевой должен разрешаться
		if fact.RegistrationDateKey != 0 && !dateKeys[fact.RegistrationDateKey] {
			t.Errorf("факт %s ссылается на несуществующую дату %d", fact.ContractID, fact.RegistrationDateKey)
		}
	}

	// Одинаковые контракты делят одну запись измерения
	if data.Facts[0].LocationID != data.Facts[2].LocationID {
		t.Error("одинаковые локации должны иметь общий суррогатный ключ")
	}
	if data.Facts[0].PropertyID != data.Facts[2].PropertyID {
		t.Error("одинаковая недвижимость должна иметь общий суррогатный ключ")
	}
}

func TestTransformMissingDatesGiveZeroKeys(t *testing.T) {
	record := contractRecord("C-001", "Deira", "apt")

	data, err := testTransformer().Transform(&models.EnrichedTable{
		Records: []models.EnrichedRecord{record},
	})
	if err != nil {
		t.Fatalf("Transform вернул ошибку: %v", err)
	}

	fact := data.Facts[0]
	if fact.RegistrationDateKey != 0 || fact.StartDateKey != 0 || fact.EndDateKey != 0 {
		t.Errorf("отсутствующие даты должны давать нулевые ключи, получено %d/%d/%d",
			fact.RegistrationDateKey, fact.StartDateKey, fact.EndDateKey)
	}
	if len(data.Dates) != 0 {
		t.Errorf("без дат измерение должно быть пустым, получено %d", len(data.Dates))
	}
}

func TestDimensionFirstSeenOrder(t *testing.T) {
	records := []models.EnrichedRecord{
		contractRecord("C-001", "Mirdif", "villa"),
		contractRecord("C-002", "Deira", "apt"),
		contractRecord("C-003", "Mirdif", "villa"),
		contractRecord("C-004", "Dubai Marina", "apt"),
	}

	dims, lookup := NewLocationProcessor(nil).Process(records)

	want := []string{"Mirdif", "Deira", "Dubai Marina"}
	if len(dims) != len(want) {
		t.Fatalf("ожидалось %d локаций, получено %d", len(want), len(dims))
	}
	for i, area := range want {
		if dims[i].AreaName != area {
			t.Errorf("позиция %d: %q, ожидалось %q", i, dims[i].AreaName, area)
		}
		// Суррогатные ключи идут в порядке первого появления
		if dims[i].ID != i+1 {
			t.Errorf("локация %q имеет ключ %d, ожидалось %d", area, dims[i].ID, i+1)
		}
	}

	if len(lookup) != len(want) {
		t.Errorf("в отображении %d ключей, ожидалось %d", len(lookup), len(want))
	}
}

func TestDateDimensionAttributes(t *testing.T) {
	record := models.EnrichedRecord{
		ContractRecord: models.ContractRecord{
			RegistrationDate: datePtr(2025, 7, 15),
		},
	}

	dims, lookup := NewDateProcessor(nil).Process([]models.EnrichedRecord{record})

	if len(dims) != 1 {
		t.Fatalf("ожидалась 1 дата, получено %d", len(dims))
	}
	dim := dims[0]
	if dim.DateKey != 20250715 {
		t.Errorf("DateKey = %d, ожидалось 20250715", dim.DateKey)
	}
	if dim.Year != 2025 || dim.Quarter != 3 || dim.Month != 7 || dim.DayOfMonth != 15 {
		t.Errorf("атрибуты даты: %+v", dim)
	}
	if dim.MonthName != "July" {
		t.Errorf("MonthName = %q, ожидалось July", dim.MonthName)
	}
	if dim.Season != "Summer" {
		t.Errorf("Season = %q, ожидалось Summer", dim.Season)
	}
	if _, ok := lookup[20250715]; !ok {
		t.Error("ключ 20250715 должен присутствовать в отображении")
	}
}

func TestFactProcessorUnresolvedKey(t *testing.T) {
	record := contractRecord("C-001", "Deira", "apt")

	// Пустые отображения: ссылка на тип контракта не разрешается
	_, err := NewFactProcessor(nil).Process([]models.EnrichedRecord{record}, dimensionLookups{
		contractTypes: map[string]int{},
		properties:    map[string]int{},
		locations:     map[string]int{},
		tenants:       map[string]int{},
		dates:         map[int]models.DimDate{},
	})

	if !errors.Is(err, ErrUnresolvedKey) {
		t.Fatalf("ожидалась ErrUnresolvedKey, получено: %v", err)
	}
}

func TestPropertyDimensionCompositeKey(t *testing.T) {
	first := contractRecord("C-001", "Deira", "apt")
	second := contractRecord("C-002", "Deira", "apt")
	// Та же недвижимость, но другая категория использования: отдельная запись
	second.UsageCategory = config.UsageCommercial

	dims, _ := NewPropertyProcessor(nil).Process([]models.EnrichedRecord{first, second})

	if len(dims) != 2 {
		t.Errorf("разные категории использования должны давать разные записи, получено %d", len(dims))
	}
}
