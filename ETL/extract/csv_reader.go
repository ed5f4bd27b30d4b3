package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
	"github.com/golang/snappy"
)

// Поддерживаемые форматы дат в исходных данных DLD
var dateLayouts = []string{
	"02-01-2006",
	"2006-01-02",
	"02/01/2006",
}

// ReadSnapshot читает снапшот контрактов из файла и возвращает рабочую таблицу.
// Файлы с расширением .sz распаковываются (snappy).
func ReadSnapshot(path string, logger *utils.ETLLogger) (*models.ContractTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии снапшота %s: %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".sz") {
		reader = snappy.NewReader(file)
	}

	return ReadContracts(reader, logger)
}

// ReadContracts разбирает CSV-данные арендных контрактов в ContractTable.
// Значения, которые не удалось разобрать, становятся null — строки не отбрасываются.
func ReadContracts(r io.Reader, logger *utils.ETLLogger) (*models.ContractTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Читаем заголовок
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении заголовка CSV: %w", err)
	}

	// Строим соответствие имени колонки ее индексу
	columns := make([]string, 0, len(header))
	columnMap := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		columns = append(columns, name)
		columnMap[name] = i
	}

	logger.Debug("Колонки снапшота: %v", columns)

	table := &models.ContractTable{Columns: columns}
	rowNumber := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("Ошибка при чтении строки %d: %v", rowNumber+1, err)
			continue
		}

		rowNumber++

		contract := models.ContractRecord{
			ContractID:       getColumnValue(record, columnMap, models.ColContractID),
			ContractRegType:  getColumnValue(record, columnMap, models.ColContractRegType),
			PropertyType:     getColumnValue(record, columnMap, models.ColPropertyType),
			PropertySubType:  getColumnValue(record, columnMap, models.ColPropertySubType),
			PropertyUsage:    getColumnValue(record, columnMap, models.ColPropertyUsage),
			TenantType:       getColumnValue(record, columnMap, models.ColTenantType),
			AreaName:         getColumnValue(record, columnMap, models.ColAreaName),
			ProjectName:      getColumnValue(record, columnMap, models.ColProjectName),
			MasterProject:    getColumnValue(record, columnMap, models.ColMasterProject),
			IsFreeHold:       parseBool(getColumnValue(record, columnMap, models.ColIsFreeHold)),
			ContractAmount:   parseNullableFloat(getColumnValue(record, columnMap, models.ColContractAmount)),
			AnnualAmount:     parseNullableFloat(getColumnValue(record, columnMap, models.ColAnnualAmount)),
			ActualArea:       parseNullableFloat(getColumnValue(record, columnMap, models.ColActualArea)),
			StartDate:        parseNullableDate(getColumnValue(record, columnMap, models.ColStartDate)),
			EndDate:          parseNullableDate(getColumnValue(record, columnMap, models.ColEndDate)),
			RegistrationDate: parseNullableDate(getColumnValue(record, columnMap, models.ColRegistrationDate)),
		}

		// Номер строки берем из источника, иначе нумеруем по порядку
		if lineNum := parseNullableInt(getColumnValue(record, columnMap, models.ColLineNumber)); lineNum != nil {
			contract.LineNumber = *lineNum
		} else {
			contract.LineNumber = rowNumber
		}

		// Количество объектов по умолчанию равно 1
		if noOfProp := parseNullableInt(getColumnValue(record, columnMap, models.ColNoOfProp)); noOfProp != nil {
			contract.NoOfProp = *noOfProp
		} else {
			contract.NoOfProp = 1
		}

		table.Records = append(table.Records, contract)
	}

	logger.Info("Прочитано контрактов из снапшота: %d", len(table.Records))
	return table, nil
}

// getColumnValue возвращает значение колонки по имени или пустую строку
func getColumnValue(record []string, columnMap map[string]int, columnName string) string {
	if idx, exists := columnMap[columnName]; exists && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// parseNullableFloat разбирает число с плавающей точкой; nil для пустых и некорректных значений
func parseNullableFloat(s string) *float64 {
	if s == "" || isNullLiteral(s) {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return &f
	}
	return nil
}

// parseNullableInt разбирает целое число; nil для пустых и некорректных значений
func parseNullableInt(s string) *int {
	if s == "" || isNullLiteral(s) {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return &i
	}
	return nil
}

// parseNullableDate разбирает дату в одном из поддерживаемых форматов
func parseNullableDate(s string) *time.Time {
	if s == "" || isNullLiteral(s) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseBool разбирает флаг свободного владения
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// isNullLiteral проверяет текстовые обозначения null в источнике
func isNullLiteral(s string) bool {
	lowered := strings.ToLower(s)
	return lowered == "null" || lowered == "n/a" || lowered == "na"
}
