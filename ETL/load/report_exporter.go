package load

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/analytics"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// ReportExporter сохраняет аналитические отчеты в файлы
type ReportExporter struct {
	dir    string
	logger *utils.ETLLogger
}

// NewReportExporter создает экспортер отчетов в указанный каталог
func NewReportExporter(dir string, logger *utils.ETLLogger) *ReportExporter {
	return &ReportExporter{dir: dir, logger: logger}
}

func (e *ReportExporter) writeCSV(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога отчетов: %w", err)
	}

	path := filepath.Join(e.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка при создании файла отчета %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("ошибка при записи отчета %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("ошибка при записи отчета %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("ошибка при записи отчета %s: %w", path, err)
	}

	if e.logger != nil {
		e.logger.Debug("Отчет сохранен: %s (%d строк)", path, len(rows))
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatNullableFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// ExportAreaReport сохраняет отчет по районам
func (e *ReportExporter) ExportAreaReport(areas []analytics.AreaStats) error {
	rows := make([][]string, len(areas))
	for i, a := range areas {
		rows[i] = []string{
			a.Area,
			strconv.Itoa(a.ContractCount),
			formatFloat(a.AvgRent),
			formatFloat(a.MedianRent),
			formatFloat(a.MinRent),
			formatFloat(a.MaxRent),
			formatFloat(a.AvgPSF),
			formatFloat(a.MarketSharePct),
		}
	}
	return e.writeCSV("areas.csv",
		[]string{"area", "contract_count", "avg_rent", "median_rent", "min_rent", "max_rent", "avg_psf", "market_share_pct"},
		rows)
}

// ExportPropertyTypeReport сохраняет отчет по типам недвижимости
func (e *ReportExporter) ExportPropertyTypeReport(types []analytics.PropertyTypeStats) error {
	rows := make([][]string, len(types))
	for i, t := range types {
		rows[i] = []string{
			t.PropertyType,
			strconv.Itoa(t.ContractCount),
			formatFloat(t.AvgRent),
			formatFloat(t.MedianRent),
			formatFloat(t.MinRent),
			formatFloat(t.MaxRent),
			formatFloat(t.MarketSharePct),
		}
	}
	return e.writeCSV("property_types.csv",
		[]string{"property_type", "contract_count", "avg_rent", "median_rent", "min_rent", "max_rent", "market_share_pct"},
		rows)
}

// ExportUsageReport сохраняет отчет по категориям использования
func (e *ReportExporter) ExportUsageReport(segments []analytics.UsageSegment) error {
	rows := make([][]string, len(segments))
	for i, s := range segments {
		rows[i] = []string{
			s.UsageCategory,
			strconv.Itoa(s.ContractCount),
			formatFloat(s.AvgRent),
			formatFloat(s.MedianRent),
			formatFloat(s.AvgArea),
			formatFloat(s.AvgPSF),
			formatFloat(s.MarketSharePct),
		}
	}
	return e.writeCSV("usage_segments.csv",
		[]string{"usage_category", "contract_count", "avg_rent", "median_rent", "avg_area", "avg_psf", "market_share_pct"},
		rows)
}

// ExportTrendReport сохраняет временной тренд аренды
func (e *ReportExporter) ExportTrendReport(name string, trend []analytics.TrendPoint) error {
	rows := make([][]string, len(trend))
	for i, p := range trend {
		rows[i] = []string{
			p.Period,
			strconv.Itoa(p.ContractCount),
			formatFloat(p.AvgRent),
			formatFloat(p.AvgPSF),
		}
	}
	return e.writeCSV(name,
		[]string{"period", "contract_count", "avg_rent", "avg_psf"},
		rows)
}

// ExportLuxuryReport сохраняет состав люксовой когорты
func (e *ReportExporter) ExportLuxuryReport(report *analytics.LuxuryReport) error {
	rows := make([][]string, len(report.Contracts))
	for i, c := range report.Contracts {
		rows[i] = []string{
			c.ContractID,
			c.AreaName,
			c.AreaTier,
			formatNullableFloat(c.AnnualAmount),
			formatNullableFloat(c.PricePerSqft),
		}
	}
	return e.writeCSV("luxury_contracts.csv",
		[]string{"contract_id", "area_name", "area_tier", "annual_amount", "price_per_sqft"},
		rows)
}

// ExportMarketSummary сохраняет сводный отчет по рынку в JSON
func (e *ReportExporter) ExportMarketSummary(summary *analytics.MarketSummary) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога отчетов: %w", err)
	}

	path := filepath.Join(e.dir, "market_summary.json")
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка при сериализации сводного отчета: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка при сохранении сводного отчета: %w", err)
	}

	if e.logger != nil {
		e.logger.Debug("Сводный отчет сохранен: %s", path)
	}
	return nil
}
