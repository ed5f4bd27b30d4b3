package transform

import (
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/dubai-rent-analytics/ETL/models"
	"github.com/LilVoxy/dubai-rent-analytics/ETL/utils"
)

// ErrUnresolvedKey возвращается, когда факт ссылается на измерение,
// для которого не нашлось суррогатного ключа
var ErrUnresolvedKey = errors.New("не найден суррогатный ключ измерения")

// FactProcessor строит таблицу фактов арендных контрактов
type FactProcessor struct {
	logger *utils.ETLLogger
}

// NewFactProcessor создает процессор таблицы фактов
func NewFactProcessor(logger *utils.ETLLogger) *FactProcessor {
	return &FactProcessor{logger: logger}
}

// dimensionLookups содержит отображения естественных ключей в суррогатные
type dimensionLookups struct {
	contractTypes map[string]int
	properties    map[string]int
	locations     map[string]int
	tenants       map[string]int
	dates         map[int]models.DimDate
}

// Process собирает факты, разрешая ссылки на измерения точным поиском.
// Неразрешенная ссылка означает ошибку построения измерений и останавливает обработку.
func (p *FactProcessor) Process(records []models.EnrichedRecord, lookups dimensionLookups) ([]models.FactRentalContract, error) {
	facts := make([]models.FactRentalContract, 0, len(records))

	for i := range records {
		r := &records[i]

		contractTypeID, ok := lookups.contractTypes[contractTypeKey(r)]
		if !ok {
			return nil, fmt.Errorf("%w: тип контракта %q (контракт %s)", ErrUnresolvedKey, r.ContractRegType, r.RowRef())
		}
		propertyID, ok := lookups.properties[propertyKey(r)]
		if !ok {
			return nil, fmt.Errorf("%w: недвижимость %q (контракт %s)", ErrUnresolvedKey, r.PropertyType, r.RowRef())
		}
		locationID, ok := lookups.locations[locationKey(r)]
		if !ok {
			return nil, fmt.Errorf("%w: локация %q (контракт %s)", ErrUnresolvedKey, r.AreaName, r.RowRef())
		}
		tenantID, ok := lookups.tenants[tenantKey(r)]
		if !ok {
			return nil, fmt.Errorf("%w: арендатор %q (контракт %s)", ErrUnresolvedKey, r.TenantType, r.RowRef())
		}

		registrationKey, err := p.resolveDateKey(r.RegistrationDate, lookups.dates, r.RowRef())
		if err != nil {
			return nil, err
		}
		startKey, err := p.resolveDateKey(r.StartDate, lookups.dates, r.RowRef())
		if err != nil {
			return nil, err
		}
		endKey, err := p.resolveDateKey(r.EndDate, lookups.dates, r.RowRef())
		if err != nil {
			return nil, err
		}

		facts = append(facts, models.FactRentalContract{
			ID:                   len(facts) + 1,
			ContractID:           r.ContractID,
			LineNumber:           r.LineNumber,
			ContractTypeID:       contractTypeID,
			PropertyID:           propertyID,
			LocationID:           locationID,
			TenantID:             tenantID,
			RegistrationDateKey:  registrationKey,
			StartDateKey:         startKey,
			EndDateKey:           endKey,
			ContractAmount:       r.ContractAmount,
			AnnualAmount:         r.AnnualAmount,
			NoOfProp:             r.NoOfProp,
			IsFreeHold:           r.IsFreeHold,
			PricePerSqft:         r.PricePerSqft,
			ContractDurationDays: r.ContractDurationDays,
		})
	}

	if p.logger != nil {
		p.logger.Debug("Таблица фактов: %d записей", len(facts))
	}
	return facts, nil
}

// resolveDateKey возвращает ключ даты или 0 для отсутствующей даты
func (p *FactProcessor) resolveDateKey(date *time.Time, dates map[int]models.DimDate, rowRef string) (int, error) {
	if date == nil {
		return 0, nil
	}
	key := DateKey(*date)
	if _, ok := dates[key]; !ok {
		return 0, fmt.Errorf("%w: дата %s (контракт %s)", ErrUnresolvedKey, date.Format("2006-01-02"), rowRef)
	}
	return key, nil
}
