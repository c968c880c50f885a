package statements

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/fairval/internal/contracts"
)

// Bundle is the set of raw statement records fetched from one vendor for
// one ticker, before merging.
type Bundle struct {
	Earnings []contracts.EarningsRecord
	Income   []contracts.IncomeRecord
	CashFlow []contracts.CashFlowRecord
	Balance  []contracts.BalanceSheetRecord
}

// Transformer maps raw vendor statement records into canonical
// FiscalQuarterRecords. One implementation per data source; selected by
// the configured DATA_SOURCE.
type Transformer interface {
	// Source returns the data source tag stored on produced records
	Source() string

	// Transform merges a bundle into quarter records keyed by fiscal date.
	// Missing counterpart statements degrade to zero values and mark the
	// record, they never fail the batch.
	Transform(ticker string, bundle Bundle, fetchedAt time.Time) []contracts.FiscalQuarterRecord
}

// NewTransformer returns the transformer for a configured data source
func NewTransformer(source string) (Transformer, error) {
	switch source {
	case "alphavantage":
		return &alphaVantageTransformer{}, nil
	case "fmp":
		return &fmpTransformer{}, nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", source)
	}
}

// alphaVantageTransformer labels quarters from the fiscal period end date
type alphaVantageTransformer struct{}

func (t *alphaVantageTransformer) Source() string {
	return "Alpha Vantage"
}

func (t *alphaVantageTransformer) Transform(ticker string, bundle Bundle, fetchedAt time.Time) []contracts.FiscalQuarterRecord {
	return merge(ticker, bundle, fetchedAt, t.Source(), func(income contracts.IncomeRecord) string {
		return calendarQuarter(income.FiscalDate)
	})
}

// fmpTransformer prefers the vendor's own period label ("Q3") when present
type fmpTransformer struct{}

func (t *fmpTransformer) Source() string {
	return "FMP"
}

func (t *fmpTransformer) Transform(ticker string, bundle Bundle, fetchedAt time.Time) []contracts.FiscalQuarterRecord {
	return merge(ticker, bundle, fetchedAt, t.Source(), func(income contracts.IncomeRecord) string {
		period := strings.ToUpper(strings.TrimSpace(income.Period))
		if strings.HasPrefix(period, "Q") && income.FiscalDate.Year() > 0 {
			return fmt.Sprintf("%d-%s", income.FiscalDate.Year(), period)
		}
		return calendarQuarter(income.FiscalDate)
	})
}

// calendarQuarter formats a fiscal end date as "2024-Q3"
func calendarQuarter(date time.Time) string {
	quarter := (int(date.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", date.Year(), quarter)
}

// merge combines the four statements per fiscal date. The income statement
// drives the iteration: a quarter without an income record is not usable
// at all, while missing earnings/cash-flow/balance data degrades to zero.
func merge(ticker string, bundle Bundle, fetchedAt time.Time, source string, label func(contracts.IncomeRecord) string) []contracts.FiscalQuarterRecord {
	earningsByDate := make(map[time.Time]contracts.EarningsRecord, len(bundle.Earnings))
	for _, e := range bundle.Earnings {
		earningsByDate[dateKey(e.FiscalDate)] = e
	}
	cashFlowByDate := make(map[time.Time]contracts.CashFlowRecord, len(bundle.CashFlow))
	for _, cf := range bundle.CashFlow {
		cashFlowByDate[dateKey(cf.FiscalDate)] = cf
	}
	balanceByDate := make(map[time.Time]contracts.BalanceSheetRecord, len(bundle.Balance))
	for _, bs := range bundle.Balance {
		balanceByDate[dateKey(bs.FiscalDate)] = bs
	}

	records := make([]contracts.FiscalQuarterRecord, 0, len(bundle.Income))
	for _, income := range bundle.Income {
		key := dateKey(income.FiscalDate)
		earnings, hasEarnings := earningsByDate[key]
		cashFlow, hasCashFlow := cashFlowByDate[key]
		balance, hasBalance := balanceByDate[key]

		grossMargin := 0.0
		netMargin := 0.0
		if income.Revenue > 0 {
			grossMargin = income.GrossProfit / income.Revenue
			netMargin = income.NetIncome / income.Revenue
		}

		// Capex is usually reported negative; FCF = OCF - |capex|
		capex := cashFlow.CapitalExpenditure
		if capex < 0 {
			capex = -capex
		}
		freeCashFlow := cashFlow.OperatingCashFlow - capex

		records = append(records, contracts.FiscalQuarterRecord{
			Ticker:        ticker,
			FiscalQuarter: label(income),
			FiscalDate:    income.FiscalDate,
			ReportedDate:  earnings.ReportedDate,
			EPS:           earnings.ReportedEPS,
			Revenue:       income.Revenue,
			GrossIncome:   income.GrossProfit,
			GrossMargin:   grossMargin,
			NetIncome:     income.NetIncome,
			NetMargin:     netMargin,
			Capex:         capex,
			FreeCashFlow:  freeCashFlow,
			CashBalance:   balance.CashAndEquivalents,
			TotalDebt:     balance.ShortTermDebt + balance.LongTermDebt,
			Source:        source,
			Degraded:      !hasEarnings || !hasCashFlow || !hasBalance,
			FetchedAt:     fetchedAt,
		})
	}

	return records
}

// dateKey truncates to the calendar day so statements from the same fiscal
// period match regardless of time-of-day noise in vendor payloads
func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
