package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/analytics"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/config"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/enrich"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/extract"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/load"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/transform"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/validate"
	"github.com/go-co-op/gocron"
)

// Имя файла локального снимка данных; сжатие snappy
const snapshotFileName = "rent_contracts.csv.sz"

type ETLRunner struct {
	config        config.ETLConfig
	dbConnections *config.DBConnections
	logger        *utils.ETLLogger
	downloader    *extract.Downloader
	validator     *validate.Validator
	enricher      *enrich.Enricher
	transformer   *transform.Transformer
	loadManager   *load.LoadManager
	exporter      *load.ReportExporter
	etlLogRepo    models.ETLLogRepository
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner() (*ETLRunner, error) {
	// Получаем конфигурацию
	etlConfig := config.GetConfig()

	// Инициализируем логгер
	logger := utils.NewETLLogger(etlConfig.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner")

	// Загружаем внешнюю классификацию районов и типов, если задана
	if etlConfig.ClassificationFile != "" {
		if err := config.LoadClassification(etlConfig.ClassificationFile); err != nil {
			return nil, fmt.Errorf("ошибка при загрузке классификации: %w", err)
		}
		logger.Info("Классификация загружена из %s", etlConfig.ClassificationFile)
	}

	// Подключаемся к базе данных
	connections, err := config.ConnectDatabases(etlConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базам данных: %w", err)
	}

	// Инициализируем репозиторий логов ETL
	etlLogRepo := models.NewMySQLETLLogRepository(connections.OLAPDB)

	// Создаем таблицу логов, если она еще не существует
	if err := etlLogRepo.CreateETLLogTable(); err != nil {
		return nil, fmt.Errorf("ошибка при создании таблицы логов ETL: %w", err)
	}

	return &ETLRunner{
		config:        etlConfig,
		dbConnections: connections,
		logger:        logger,
		downloader:    extract.NewDownloader(etlConfig, logger),
		validator:     validate.NewValidator(etlConfig.Thresholds, etlConfig.Metrics, etlConfig.StrictValidation, logger),
		enricher:      enrich.NewEnricher(etlConfig.Metrics, logger),
		transformer:   transform.NewTransformer(logger),
		loadManager:   load.NewLoadManager(connections.OLAPDB, logger, etlConfig.BatchSize),
		exporter:      load.NewReportExporter(etlConfig.ReportsDir, logger),
		etlLogRepo:    etlLogRepo,
	}, nil
}

// Close закрывает соединения с базами данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabases(r.dbConnections)
}

// ExecuteETL выполняет полный ETL процесс
func (r *ETLRunner) ExecuteETL(ctx context.Context) error {
	r.logger.LogETLStart()
	startTime := time.Now()

	// Создаем запись в журнале ETL
	logID, err := r.etlLogRepo.CreateLogEntry(startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале ETL: %w", err)
	}

	metadata, err := r.runPipeline(ctx)
	if err != nil {
		r.updateETLRunLogFailure(logID, err.Error())
		return err
	}

	r.updateETLRunLogSuccess(logID, metadata)
	r.logger.LogETLComplete(startTime, metadata.ContractsProcessed)
	return nil
}

// runPipeline выполняет фазы ETL: извлечение, валидацию, обогащение,
// аналитику, трансформацию и загрузку
func (r *ETLRunner) runPipeline(ctx context.Context) (models.ETLMetadata, error) {
	var metadata models.ETLMetadata

	// 1. Фаза извлечения данных (Extract)
	snapshotPath := filepath.Join(r.config.SnapshotDir, snapshotFileName)
	if err := r.downloader.Download(ctx, snapshotPath); err != nil {
		r.logger.Error("Ошибка в фазе Extract: %v", err)
		return metadata, fmt.Errorf("ошибка в фазе Extract: %w", err)
	}

	table, err := extract.ReadSnapshot(snapshotPath, r.logger)
	if err != nil {
		r.logger.Error("Ошибка при чтении снимка данных: %v", err)
		return metadata, fmt.Errorf("ошибка при чтении снимка данных: %w", err)
	}

	// 2. Фаза валидации
	report := r.validator.Validate(table)
	summary := report.GetSummary()
	metadata.ValidationErrors = summary.Errors
	metadata.ValidationWarnings = summary.Warnings

	// Структурные ошибки останавливают обработку; построчные замечания
	// фиксируются в журнале, в строгом режиме они тоже фатальны
	if report.HasStructuralErrors() {
		r.logger.Error("Валидация не пройдена:\n%s", report.String())
		return metadata, fmt.Errorf("валидация не пройдена: ошибок %d", summary.Errors)
	}
	if r.config.StrictValidation && !report.IsValid() {
		r.logger.Error("Валидация не пройдена в строгом режиме:\n%s", report.String())
		return metadata, fmt.Errorf("валидация не пройдена в строгом режиме: ошибок %d, предупреждений %d",
			summary.Errors, summary.Warnings)
	}

	// 3. Фаза обогащения
	enriched := r.enricher.Enrich(table)

	// 4. Аналитические отчеты
	if err := r.exportReports(enriched); err != nil {
		r.logger.Error("Ошибка при построении аналитических отчетов: %v", err)
		return metadata, fmt.Errorf("ошибка при построении аналитических отчетов: %w", err)
	}

	// 5. Фаза трансформации данных (Transform)
	transformedData, err := r.transformer.Transform(enriched)
	if err != nil {
		r.logger.Error("Ошибка в фазе Transform: %v", err)
		return metadata, fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 6. Фаза загрузки данных (Load)
	if err := r.loadManager.Load(transformedData); err != nil {
		r.logger.Error("Ошибка в фазе Load: %v", err)
		return metadata, fmt.Errorf("ошибка в фазе Load: %w", err)
	}

	transformedData.Metadata.ValidationErrors = metadata.ValidationErrors
	transformedData.Metadata.ValidationWarnings = metadata.ValidationWarnings
	return transformedData.Metadata, nil
}

// exportReports строит аналитические отчеты и сохраняет их в каталог отчетов
func (r *ETLRunner) exportReports(enriched *models.EnrichedTable) error {
	engine := analytics.NewMarketAnalytics(enriched, r.config.Metrics, r.logger)

	areas, err := engine.IdentifyHighDemandAreas(models.ColAreaName, r.config.TopNAreas)
	if err != nil {
		return err
	}
	if err := r.exporter.ExportAreaReport(areas); err != nil {
		return err
	}

	types, err := engine.AnalyzeByPropertyType()
	if err != nil {
		return err
	}
	if err := r.exporter.ExportPropertyTypeReport(types); err != nil {
		return err
	}

	usage, err := engine.SegmentByUsage()
	if err != nil {
		return err
	}
	if err := r.exporter.ExportUsageReport(usage); err != nil {
		return err
	}

	for _, period := range []string{analytics.PeriodMonthly, analytics.PeriodQuarterly, analytics.PeriodYearly} {
		trend, err := engine.CalculateRentalTrends(period)
		if err != nil {
			return err
		}
		if err := r.exporter.ExportTrendReport("trend_"+period+".csv", trend); err != nil {
			return err
		}
	}

	// Люксовая когорта требует минимального размера выборки;
	// на маленьком наборе отчет просто пропускается
	luxury, err := engine.IdentifyLuxuryProperties()
	switch {
	case err == nil:
		if err := r.exporter.ExportLuxuryReport(luxury); err != nil {
			return err
		}
	case errors.Is(err, analytics.ErrInsufficientData):
		r.logger.Info("Люксовый отчет пропущен: %v", err)
	default:
		return err
	}

	summary, err := engine.GenerateMarketSummary()
	if err != nil {
		return err
	}
	return r.exporter.ExportMarketSummary(summary)
}

// updateETLRunLogSuccess обновляет запись в журнале ETL при успешном завершении
func (r *ETLRunner) updateETLRunLogSuccess(logID string, metadata models.ETLMetadata) {
	if err := r.etlLogRepo.UpdateLogEntrySuccess(logID, time.Now(), metadata); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// updateETLRunLogFailure обновляет запись в журнале ETL при ошибке
func (r *ETLRunner) updateETLRunLogFailure(logID string, errorMessage string) {
	if err := r.etlLogRepo.UpdateLogEntryFailure(logID, time.Now(), errorMessage); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if err := r.ExecuteETL(ctx); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
}

// RunOnce запускает ETL процесс один раз
func RunOnce() {
	runner, err := NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	if err := runner.ExecuteETL(context.Background()); err != nil {
		log.Fatalf("Ошибка при выполнении ETL: %v", err)
	}
}

// RunScheduled запускает ETL процесс по расписанию
func RunScheduled() {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки сигналов
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем ETL Runner...")
		cancel()
	}()

	runner, err := NewETLRunner()
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "scheduled", "Режим работы: scheduled или once")

	flag.Parse()

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	switch *modePtr {
	case "once":
		RunOnce()
	case "scheduled":
		RunScheduled()
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: scheduled, once")
		os.Exit(1)
	}

	log.Println("ETL Runner завершил работу")
}
