package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Рыночные сегменты районов Дубая
const (
	TierPremium      = "Premium"
	TierMidTier      = "Mid-Tier"
	TierBudget       = "Budget"
	TierEmerging     = "Emerging"
	TierUnclassified = "Unclassified"
)

// Категории использования объектов
const (
	UsageResidential = "Residential"
	UsageCommercial  = "Commercial"
	UsageOther       = "Other"
)

// Classification содержит статические классификационные таблицы рынка.
// Таблицы можно переопределить JSON-файлом без изменения кода.
type Classification struct {
	// Районы Дубая по рыночным сегментам
	AreaTiers map[string]string `json:"area_tiers"`

	// Нормализация типов объектов (многие-к-одному)
	PropertyTypes map[string]string `json:"property_types"`

	// Списки значений property_usage для жилой и коммерческой недвижимости
	ResidentialUsage []string `json:"residential_usage"`
	CommercialUsage  []string `json:"commercial_usage"`
}

// Классификационные таблицы по умолчанию
var DefaultClassification = Classification{
	AreaTiers: map[string]string{
		// Премиальные районы
		"Downtown Dubai":            TierPremium,
		"Dubai Marina":              TierPremium,
		"Palm Jumeirah":             TierPremium,
		"Emirates Hills":            TierPremium,
		"Jumeirah Beach Residence":  TierPremium,
		"Business Bay":              TierPremium,
		"Dubai Hills Estate":        TierPremium,
		"Arabian Ranches":           TierPremium,
		// Районы среднего сегмента
		"Jumeirah Village Circle":   TierMidTier,
		"Jumeirah Village Triangle": TierMidTier,
		"Dubai Sports City":         TierMidTier,
		"Motor City":                TierMidTier,
		"The Greens":                TierMidTier,
		"The Views":                 TierMidTier,
		"Discovery Gardens":         TierMidTier,
		"Mirdif":                    TierMidTier,
		// Бюджетные районы
		"International City": TierBudget,
		"Deira":              TierBudget,
		"Bur Dubai":          TierBudget,
		"Al Nahda":           TierBudget,
		"Al Qusais":          TierBudget,
		// Развивающиеся районы
		"Dubai South":           TierEmerging,
		"Dubailand":             TierEmerging,
		"Dubai Production City": TierEmerging,
	},

	PropertyTypes: map[string]string{
		"apt":        "Apartment",
		"apartment":  "Apartment",
		"flat":       "Apartment",
		"villa":      "Villa",
		"townhouse":  "Townhouse",
		"town house": "Townhouse",
		"penthouse":  "Penthouse",
		"studio":     "Studio",
		"office":     "Office",
		"shop":       "Retail",
		"retail":     "Retail",
		"warehouse":  "Warehouse",
		"land":       "Land",
		"plot":       "Land",
	},

	ResidentialUsage: []string{
		"Residential",
		"Residential - Apartment",
		"Residential - Villa",
		"Residential - Townhouse",
		"Residential - Studio",
	},

	CommercialUsage: []string{
		"Commercial",
		"Commercial - Office",
		"Commercial - Retail",
		"Commercial - Warehouse",
	},
}

// Активные таблицы и нормализованные индексы для поиска без учета регистра
var (
	activeClassification = DefaultClassification
	areaTierIndex        map[string]string
	propertyTypeIndex    map[string]string
	usageIndex           map[string]string
)

func init() {
	rebuildIndexes()
}

// rebuildIndexes перестраивает индексы поиска по активным таблицам
func rebuildIndexes() {
	areaTierIndex = make(map[string]string, len(activeClassification.AreaTiers))
	for area, tier := range activeClassification.AreaTiers {
		areaTierIndex[normalizeKey(area)] = tier
	}

	propertyTypeIndex = make(map[string]string, len(activeClassification.PropertyTypes))
	for raw, normalized := range activeClassification.PropertyTypes {
		propertyTypeIndex[normalizeKey(raw)] = normalized
	}

	usageIndex = make(map[string]string,
		len(activeClassification.ResidentialUsage)+len(activeClassification.CommercialUsage))
	for _, usage := range activeClassification.ResidentialUsage {
		usageIndex[normalizeKey(usage)] = UsageResidential
	}
	for _, usage := range activeClassification.CommercialUsage {
		usageIndex[normalizeKey(usage)] = UsageCommercial
	}
}

// normalizeKey приводит ключ к виду для поиска без учета регистра и пробелов
func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// LoadClassification загружает классификационные таблицы из JSON-файла.
// Отсутствующие в файле секции сохраняют значения по умолчанию.
// Вызывается один раз при старте процесса.
func LoadClassification(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ошибка при чтении файла классификации %s: %w", path, err)
	}

	var loaded Classification
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("ошибка при разборе файла классификации %s: %w", path, err)
	}

	// Секции, отсутствующие в файле, сохраняют значения по умолчанию
	if loaded.AreaTiers == nil {
		loaded.AreaTiers = DefaultClassification.AreaTiers
	}
	if loaded.PropertyTypes == nil {
		loaded.PropertyTypes = DefaultClassification.PropertyTypes
	}
	if loaded.ResidentialUsage == nil {
		loaded.ResidentialUsage = DefaultClassification.ResidentialUsage
	}
	if loaded.CommercialUsage == nil {
		loaded.CommercialUsage = DefaultClassification.CommercialUsage
	}

	activeClassification = loaded
	rebuildIndexes()
	return nil
}

// GetAreaTier возвращает рыночный сегмент для указанного района.
// Поиск не зависит от регистра и лишних пробелов; для неизвестных районов
// возвращается TierUnclassified.
func GetAreaTier(areaName string) string {
	if tier, ok := areaTierIndex[normalizeKey(areaName)]; ok {
		return tier
	}
	return TierUnclassified
}

// NormalizePropertyType приводит тип объекта к стандартному виду.
// Для неизвестных типов возвращается исходная строка в титульном регистре.
func NormalizePropertyType(propertyType string) string {
	trimmed := strings.TrimSpace(propertyType)
	if trimmed == "" {
		return "Unknown"
	}

	if normalized, ok := propertyTypeIndex[normalizeKey(trimmed)]; ok {
		return normalized
	}
	return titleCase(trimmed)
}

// ClassifyUsage сводит исходное значение property_usage к одной из категорий:
// Residential, Commercial или Other
func ClassifyUsage(usage string) string {
	switch {
	case IsResidential(usage):
		return UsageResidential
	case IsCommercial(usage):
		return UsageCommercial
	default:
		return UsageOther
	}
}

// IsResidential проверяет, относится ли значение property_usage к жилой недвижимости.
// Сначала проверяется вхождение в активный список residential_usage, затем
// префикс "residential" для значений, отсутствующих в списке
func IsResidential(usage string) bool {
	key := normalizeKey(usage)
	if category, ok := usageIndex[key]; ok {
		return category == UsageResidential
	}
	return strings.HasPrefix(key, "residential")
}

// IsCommercial проверяет, относится ли значение property_usage к коммерческой недвижимости
func IsCommercial(usage string) bool {
	key := normalizeKey(usage)
	if category, ok := usageIndex[key]; ok {
		return category == UsageCommercial
	}
	return strings.HasPrefix(key, "commercial")
}

// titleCase переводит первую букву каждого слова в верхний регистр
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
