package config

import (
	"os"
	"strconv"
	"time"
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Конфигурация для подключения к OLAP БД (целевой)
	OLAPConfig DatabaseConfig `json:"olap_config"`

	// URL источника данных (открытые данные DLD по арендным контрактам)
	SourceURL string `json:"source_url"`

	// Каталог для кэша скачанных снапшотов
	SnapshotDir string `json:"snapshot_dir"`

	// Каталог для выгрузки аналитических отчетов (CSV)
	ReportsDir string `json:"reports_dir"`

	// Путь к JSON-файлу с переопределением классификационных таблиц (опционально)
	ClassificationFile string `json:"classification_file"`

	// Интервал запуска ETL
	RunInterval time.Duration `json:"run_interval"`

	// Размер пакета при загрузке в OLAP
	BatchSize int `json:"batch_size"`

	// Количество районов в отчете по районам с высоким спросом
	TopNAreas int `json:"top_n_areas"`

	// Строгий режим валидации (предупреждения считаются ошибками)
	StrictValidation bool `json:"strict_validation"`

	// Пороговые значения валидации контрактов
	Thresholds ValidationThresholds `json:"thresholds"`

	// Параметры расчета рыночных метрик
	Metrics MarketMetrics `json:"metrics"`

	// Таймаут и повторы при скачивании снапшота
	RequestTimeout time.Duration `json:"request_timeout"`
	MaxRetries     int           `json:"max_retries"`
	BackoffFactor  int           `json:"backoff_factor"`

	// Включение/отключение детального логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// ValidationThresholds содержит пороговые значения для валидации контрактов
type ValidationThresholds struct {
	// Диапазон годовой арендной платы (AED в год)
	MinAnnualRent float64 `json:"min_annual_rent"`
	MaxAnnualRent float64 `json:"max_annual_rent"`

	// Диапазон площади объекта (кв. футы)
	MinPropertySize float64 `json:"min_property_size"`
	MaxPropertySize float64 `json:"max_property_size"`

	// Диапазон цены за квадратный фут (AED)
	MinPSFResidential float64 `json:"min_psf_residential"`
	MaxPSFResidential float64 `json:"max_psf_residential"`
	MinPSFCommercial  float64 `json:"min_psf_commercial"`
	MaxPSFCommercial  float64 `json:"max_psf_commercial"`

	// Диапазон длительности контракта (дни)
	MinContractDays int `json:"min_contract_days"`
	MaxContractDays int `json:"max_contract_days"`
}

// MarketMetrics содержит параметры расчета рыночных метрик
type MarketMetrics struct {
	// Перцентили для классификации люксовых объектов
	LuxuryPSFPercentile  float64 `json:"luxury_psf_percentile"`
	LuxuryRentPercentile float64 `json:"luxury_rent_percentile"`

	// Множитель IQR для поиска выбросов
	OutlierIQRMultiplier float64 `json:"outlier_iqr_multiplier"`

	// Минимальный размер выборки для перцентильных расчетов
	MinSampleSize int `json:"min_sample_size"`
}

// Значения конфигурации по умолчанию
var (
	DefaultOLAPConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
		DBName:   "rent_analytics",
	}

	DefaultThresholds = ValidationThresholds{
		MinAnnualRent:     10000,
		MaxAnnualRent:     5000000,
		MinPropertySize:   200,
		MaxPropertySize:   50000,
		MinPSFResidential: 20,
		MaxPSFResidential: 500,
		MinPSFCommercial:  30,
		MaxPSFCommercial:  800,
		MinContractDays:   30,
		MaxContractDays:   730, // 2 года
	}

	DefaultMarketMetrics = MarketMetrics{
		LuxuryPSFPercentile:  75,
		LuxuryRentPercentile: 80,
		OutlierIQRMultiplier: 3.0,
		MinSampleSize:        10,
	}

	DefaultETLConfig = ETLConfig{
		OLAPConfig:            DefaultOLAPConfig,
		SourceURL:             "https://www.dubaipulse.gov.ae/dataset/dld-rent-contracts/resource/rent_contracts.csv",
		SnapshotDir:           ".cache",
		ReportsDir:            "output",
		RunInterval:           24 * time.Hour,
		BatchSize:             500,
		TopNAreas:             20,
		StrictValidation:      false,
		Thresholds:            DefaultThresholds,
		Metrics:               DefaultMarketMetrics,
		RequestTimeout:        30 * time.Second,
		MaxRetries:            3,
		BackoffFactor:         2,
		EnableDetailedLogging: true,
	}
)

// GetConfig возвращает конфигурацию ETL с учетом переменных окружения
func GetConfig() ETLConfig {
	config := DefaultETLConfig

	// Переопределения из окружения (RENT_ETL_*)
	if v := os.Getenv("RENT_ETL_DB_HOST"); v != "" {
		config.OLAPConfig.Host = v
	}
	if v := os.Getenv("RENT_ETL_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.OLAPConfig.Port = port
		}
	}
	if v := os.Getenv("RENT_ETL_DB_USER"); v != "" {
		config.OLAPConfig.User = v
	}
	if v := os.Getenv("RENT_ETL_DB_PASSWORD"); v != "" {
		config.OLAPConfig.Password = v
	}
	if v := os.Getenv("RENT_ETL_DB_NAME"); v != "" {
		config.OLAPConfig.DBName = v
	}
	if v := os.Getenv("RENT_ETL_SOURCE_URL"); v != "" {
		config.SourceURL = v
	}
	if v := os.Getenv("RENT_ETL_SNAPSHOT_DIR"); v != "" {
		config.SnapshotDir = v
	}
	if v := os.Getenv("RENT_ETL_REPORTS_DIR"); v != "" {
		config.ReportsDir = v
	}
	if v := os.Getenv("RENT_ETL_CLASSIFICATION_FILE"); v != "" {
		config.ClassificationFile = v
	}
	if v := os.Getenv("RENT_ETL_RUN_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil {
			config.RunInterval = interval
		}
	}
	if v := os.Getenv("RENT_ETL_TOP_N_AREAS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.TopNAreas = n
		}
	}
	if v := os.Getenv("RENT_ETL_STRICT"); v != "" {
		config.StrictValidation = v == "1" || v == "true"
	}

	return config
}
