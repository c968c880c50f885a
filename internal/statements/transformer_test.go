package statements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairval/internal/contracts"
)

func fiscalDate(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func fullBundle() Bundle {
	q3 := fiscalDate("2024-09-30")
	return Bundle{
		Earnings: []contracts.EarningsRecord{
			{FiscalDate: q3, ReportedDate: fiscalDate("2024-11-14"), ReportedEPS: 1.5},
		},
		Income: []contracts.IncomeRecord{
			{FiscalDate: q3, Revenue: 1000, GrossProfit: 400, NetIncome: 200},
		},
		CashFlow: []contracts.CashFlowRecord{
			{FiscalDate: q3, OperatingCashFlow: 300, CapitalExpenditure: -50},
		},
		Balance: []contracts.BalanceSheetRecord{
			{FiscalDate: q3, CashAndEquivalents: 5000, ShortTermDebt: 100, LongTermDebt: 900},
		},
	}
}

func TestTransform_MergesAllFourStatements(t *testing.T) {
	transformer, err := NewTransformer("alphavantage")
	require.NoError(t, err)

	fetchedAt := time.Now()
	records := transformer.Transform("AAPL", fullBundle(), fetchedAt)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "AAPL", r.Ticker)
	assert.Equal(t, "2024-Q3", r.FiscalQuarter)
	assert.Equal(t, 1.5, r.EPS)
	assert.Equal(t, fiscalDate("2024-11-14"), r.ReportedDate)
	assert.InDelta(t, 0.4, r.GrossMargin, 1e-9)
	assert.InDelta(t, 0.2, r.NetMargin, 1e-9)
	// Capex normalized to positive, FCF = OCF - capex
	assert.InDelta(t, 50.0, r.Capex, 1e-9)
	assert.InDelta(t, 250.0, r.FreeCashFlow, 1e-9)
	assert.InDelta(t, 1000.0, r.TotalDebt, 1e-9)
	assert.Equal(t, "Alpha Vantage", r.Source)
	assert.False(t, r.Degraded)
	assert.Equal(t, fetchedAt, r.FetchedAt)
}

func TestTransform_MissingCounterpartsDegrade(t *testing.T) {
	transformer, err := NewTransformer("alphavantage")
	require.NoError(t, err)

	bundle := fullBundle()
	bundle.Earnings = nil
	bundle.Balance = nil

	records := transformer.Transform("AAPL", bundle, time.Now())
	require.Len(t, records, 1)

	r := records[0]
	assert.True(t, r.Degraded)
	assert.Zero(t, r.EPS)
	assert.True(t, r.ReportedDate.IsZero())
	assert.Zero(t, r.TotalDebt)
	// Income-driven fields are still populated
	assert.InDelta(t, 1000.0, r.Revenue, 1e-9)
}

func TestTransform_NoIncomeMeansNoRecords(t *testing.T) {
	transformer, err := NewTransformer("alphavantage")
	require.NoError(t, err)

	bundle := fullBundle()
	bundle.Income = nil

	records := transformer.Transform("AAPL", bundle, time.Now())
	assert.Empty(t, records)
}

func TestTransform_ZeroRevenueSkipsMargins(t *testing.T) {
	transformer, err := NewTransformer("alphavantage")
	require.NoError(t, err)

	bundle := fullBundle()
	bundle.Income[0].Revenue = 0

	records := transformer.Transform("AAPL", bundle, time.Now())
	require.Len(t, records, 1)
	assert.Zero(t, records[0].GrossMargin)
	assert.Zero(t, records[0].NetMargin)
}

func TestTransform_MatchesStatementsByCalendarDay(t *testing.T) {
	transformer, err := NewTransformer("alphavantage")
	require.NoError(t, err)

	bundle := fullBundle()
	// Time-of-day noise in one payload must not break the merge
	bundle.Balance[0].FiscalDate = bundle.Balance[0].FiscalDate.Add(9 * time.Hour)

	records := transformer.Transform("AAPL", bundle, time.Now())
	require.Len(t, records, 1)
	assert.False(t, records[0].Degraded)
	assert.InDelta(t, 1000.0, records[0].TotalDebt, 1e-9)
}

func TestTransform_FmpPrefersPeriodLabel(t *testing.T) {
	transformer, err := NewTransformer("fmp")
	require.NoError(t, err)

	bundle := fullBundle()
	bundle.Income[0].Period = "Q4"

	records := transformer.Transform("AAPL", bundle, time.Now())
	require.Len(t, records, 1)
	// Fiscal Q4 ending in calendar September keeps the vendor label
	assert.Equal(t, "2024-Q4", records[0].FiscalQuarter)
	assert.Equal(t, "FMP", records[0].Source)
}

func TestTransform_FmpFallsBackToCalendarQuarter(t *testing.T) {
	transformer, err := NewTransformer("fmp")
	require.NoError(t, err)

	records := transformer.Transform("AAPL", fullBundle(), time.Now())
	require.Len(t, records, 1)
	assert.Equal(t, "2024-Q3", records[0].FiscalQuarter)
}

func TestNewTransformer_UnknownSource(t *testing.T) {
	_, err := NewTransformer("bloomberg")
	assert.Error(t, err)
}
