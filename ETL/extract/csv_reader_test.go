package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

func testLogger() *utils.ETLLogger {
	return utils.NewETLLogger(false)
}

const sampleCSV = `Contract_ID,Contract_Reg_Type_EN,Ejari_Property_Type_EN,Property_Usage_EN,Area_Name_EN,Annual_Amount,Actual_Area,Contract_Start_Date,Contract_End_Date,No_Of_Prop
C-001,New,Apt,Residential,Dubai Marina,"120,000",1000,01-01-2025,31-12-2025,2
C-002,Renew,Villa,Residential,Mirdif,abc,,15-03-2025,,
C-003,New,Office,Commercial,Deira,85000,NULL,2025-02-01,2026-01-31,1
`

func TestReadContracts(t *testing.T) {
	table, err := ReadContracts(strings.NewReader(sampleCSV), testLogger())
	if err != nil {
		t.Fatalf("ReadContracts вернул ошибку: %v", err)
	}

	// Заголовки приводятся к нижнему регистру
	if !table.HasColumn("contract_id") || !table.HasColumn("annual_amount") {
		t.Fatalf("ожидались колонки contract_id и annual_amount, получено: %v", table.Columns)
	}

	if len(table.Records) != 3 {
		t.Fatalf("ожидалось 3 записи, получено %d", len(table.Records))
	}

	first := table.Records[0]
	if first.ContractID != "C-001" {
		t.Errorf("ContractID = %q, ожидалось C-001", first.ContractID)
	}
	// Запятые в числах отбрасываются
	if first.AnnualAmount == nil || *first.AnnualAmount != 120000 {
		t.Errorf("AnnualAmount = %v, ожидалось 120000", first.AnnualAmount)
	}
	if first.NoOfProp != 2 {
		t.Errorf("NoOfProp = %d, ожидалось 2", first.NoOfProp)
	}
	if first.StartDate == nil || !first.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v, ожидалось 2025-01-01", first.StartDate)
	}
}

func TestReadContractsKeepsUnparseableRows(t *testing.T) {
	table, err := ReadContracts(strings.NewReader(sampleCSV), testLogger())
	if err != nil {
		t.Fatalf("ReadContracts вернул ошибку: %v", err)
	}

	// Строка с некорректной суммой не отбрасывается, значение становится null
	second := table.Records[1]
	if second.ContractID != "C-002" {
		t.Fatalf("ожидался C-002, получен %q", second.ContractID)
	}
	if second.AnnualAmount != nil {
		t.Errorf("некорректная сумма должна стать null, получено %v", *second.AnnualAmount)
	}
	if second.ActualArea != nil {
		t.Errorf("пустая площадь должна стать null, получено %v", *second.ActualArea)
	}
	if second.EndDate != nil {
		t.Errorf("пустая дата окончания должна стать null, получено %v", second.EndDate)
	}
	// Количество объектов по умолчанию равно 1
	if second.NoOfProp != 1 {
		t.Errorf("NoOfProp = %d, ожидалось значение по умолчанию 1", second.NoOfProp)
	}
}

func TestReadContractsAlternateDateFormat(t *testing.T) {
	table, err := ReadContracts(strings.NewReader(sampleCSV), testLogger())
	if err != nil {
		t.Fatalf("ReadContracts вернул ошибку: %v", err)
	}

	third := table.Records[2]
	if third.StartDate == nil || !third.StartDate.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("дата в формате ISO должна разбираться, получено %v", third.StartDate)
	}
	// Текстовый NULL распознается
	if third.ActualArea != nil {
		t.Errorf("значение NULL должно стать null, получено %v", *third.ActualArea)
	}
}

func TestReadContractsSequentialLineNumbers(t *testing.T) {
	table, err := ReadContracts(strings.NewReader(sampleCSV), testLogger())
	if err != nil {
		t.Fatalf("ReadContracts вернул ошибку: %v", err)
	}

	for i, record := range table.Records {
		if record.LineNumber != i+1 {
			t.Errorf("LineNumber записи %d = %d, ожидалось %d", i, record.LineNumber, i+1)
		}
	}
}

func TestReadContractsEmptyBody(t *testing.T) {
	table, err := ReadContracts(strings.NewReader("contract_id,annual_amount\n"), testLogger())
	if err != nil {
		t.Fatalf("ReadContracts вернул ошибку: %v", err)
	}
	if len(table.Records) != 0 {
		t.Errorf("ожидалась пустая таблица, получено %d записей", len(table.Records))
	}
	if len(table.Columns) != 2 {
		t.Errorf("ожидалось 2 колонки, получено %d", len(table.Columns))
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"1", "t", "TRUE", "yes", "Y"}
	for _, v := range truthy {
		if !parseBool(v) {
			t.Errorf("parseBool(%q) должен вернуть true", v)
		}
	}
	falsy := []string{"", "0", "f", "no", "мусор"}
	for _, v := range falsy {
		if parseBool(v) {
			t.Errorf("parseBool(%q) должен вернуть false", v)
		}
	}
}
