package transform

import (
	"sort"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/enrich"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// DateProcessor строит измерение даты из всех дат, встречающихся в контрактах
type DateProcessor struct {
	logger *utils.ETLLogger
}

// NewDateProcessor создает процессор измерения даты
func NewDateProcessor(logger *utils.ETLLogger) *DateProcessor {
	return &DateProcessor{logger: logger}
}

// DateKey формирует детерминированный ключ даты: YEAR*10000 + MONTH*100 + DAY
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Process собирает объединение дат регистрации, начала и окончания контрактов.
// Одинаковые даты из разных ролей дают одну запись измерения.
func (p *DateProcessor) Process(records []models.EnrichedRecord) ([]models.DimDate, map[int]models.DimDate) {
	lookup := make(map[int]models.DimDate)

	add := func(date *time.Time) {
		if date == nil {
			return
		}
		key := DateKey(*date)
		if _, ok := lookup[key]; ok {
			return
		}
		month := int(date.Month())
		lookup[key] = models.DimDate{
			DateKey:    key,
			FullDate:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Year:       date.Year(),
			Quarter:    (month-1)/3 + 1,
			Month:      month,
			MonthName:  date.Month().String(),
			DayOfMonth: date.Day(),
			Season:     enrich.Season(month),
		}
	}

	for i := range records {
		add(records[i].RegistrationDate)
		add(records[i].StartDate)
		add(records[i].EndDate)
	}

	dims := make([]models.DimDate, 0, len(lookup))
	for _, dim := range lookup {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool {
		return dims[i].DateKey < dims[j].DateKey
	})

	if p.logger != nil {
		p.logger.Debug("Измерение дат: %d записей", len(dims))
	}
	return dims, lookup
}
