package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetAreaTier(t *testing.T) {
	tests := []struct {
		area string
		want string
	}{
		{"Dubai Marina", TierPremium},
		{"dubai marina", TierPremium},
		{"  DUBAI   MARINA  ", TierPremium},
		{"Jumeirah Village Circle", TierMidTier},
		{"International City", TierBudget},
		{"Dubai South", TierEmerging},
		{"Неизвестный район", TierUnclassified},
		{"", TierUnclassified},
	}

	for _, tt := range tests {
		if got := GetAreaTier(tt.area); got != tt.want {
			t.Errorf("GetAreaTier(%q) = %q, ожидалось %q", tt.area, got, tt.want)
		}
	}
}

func TestNormalizePropertyType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"apt", "Apartment"},
		{"APT", "Apartment"},
		{"Flat", "Apartment"},
		{"villa", "Villa"},
		{"Town House", "Townhouse"},
		{"shop", "Retail"},
		// Неизвестные типы приводятся к титульному регистру
		{"labour camp", "Labour Camp"},
		{"", "Unknown"},
		{"   ", "Unknown"},
	}

	for _, tt := range tests {
		if got := NormalizePropertyType(tt.raw); got != tt.want {
			t.Errorf("NormalizePropertyType(%q) = %q, ожидалось %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassifyUsage(t *testing.T) {
	tests := []struct {
		usage string
		want  string
	}{
		{"Residential", UsageResidential},
		{"Residential - Villa", UsageResidential},
		{"RESIDENTIAL", UsageResidential},
		{"Commercial", UsageCommercial},
		{"Commercial - Office", UsageCommercial},
		// Значение вне списков классифицируется по префиксу, не по подстроке
		{"Residential - Flat", UsageResidential},
		{"Non-Residential", UsageOther},
		{"Industrial", UsageOther},
		{"", UsageOther},
	}

	for _, tt := range tests {
		if got := ClassifyUsage(tt.usage); got != tt.want {
			t.Errorf("ClassifyUsage(%q) = %q, ожидалось %q", tt.usage, got, tt.want)
		}
	}

	if !IsResidential("Residential - Apartment") {
		t.Error("IsResidential должен вернуть true для Residential - Apartment")
	}
	if !IsCommercial("Commercial - Retail") {
		t.Error("IsCommercial должен вернуть true для Commercial - Retail")
	}
}

func TestLoadClassificationOverride(t *testing.T) {
	// После теста возвращаем таблицы по умолчанию
	defer func() {
		activeClassification = DefaultClassification
		rebuildIndexes()
	}()

	path := filepath.Join(t.TempDir(), "classification.json")
	payload := `{"area_tiers": {"Test Quarter": "Premium"}}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("не удалось записать файл классификации: %v", err)
	}

	if err := LoadClassification(path); err != nil {
		t.Fatalf("LoadClassification вернул ошибку: %v", err)
	}

	if got := GetAreaTier("Test Quarter"); got != TierPremium {
		t.Errorf("после переопределения GetAreaTier(Test Quarter) = %q, ожидалось %q", got, TierPremium)
	}
	// Переопределение заменяет таблицу районов целиком
	if got := GetAreaTier("Dubai Marina"); got != TierUnclassified {
		t.Errorf("после переопределения GetAreaTier(Dubai Marina) = %q, ожидалось %q", got, TierUnclassified)
	}
}

func TestLoadClassificationUsageOverride(t *testing.T) {
	// После теста возвращаем таблицы по умолчанию
	defer func() {
		activeClassification = DefaultClassification
		rebuildIndexes()
	}()

	path := filepath.Join(t.TempDir(), "classification.json")
	payload := `{"residential_usage": ["Warehouse Living"], "commercial_usage": ["Residential Office"]}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("не удалось записать файл классификации: %v", err)
	}

	if err := LoadClassification(path); err != nil {
		t.Fatalf("LoadClassification вернул ошибку: %v", err)
	}

	if got := ClassifyUsage("Warehouse Living"); got != UsageResidential {
		t.Errorf("после переопределения ClassifyUsage(Warehouse Living) = %q, ожидалось %q", got, UsageResidential)
	}
	// Список имеет приоритет над префиксом значения
	if got := ClassifyUsage("Residential Office"); got != UsageCommercial {
		t.Errorf("после переопределения ClassifyUsage(Residential Office) = %q, ожидалось %q", got, UsageCommercial)
	}
	if !IsResidential("Warehouse Living") {
		t.Error("IsResidential должен вернуть true для значения из списка residential_usage")
	}
}

func TestLoadClassificationMissingFile(t *testing.T) {
	if err := LoadClassification("/nonexistent/classification.json"); err == nil {
		t.Error("ожидалась ошибка для несуществующего файла")
	}
}
