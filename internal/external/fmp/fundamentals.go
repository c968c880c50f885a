package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/fairval/internal/contracts"
)

func quarterParams(limit int) url.Values {
	params := url.Values{}
	params.Set("period", "quarter")
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// CompanyProfile fetches the company profile
func (c *Client) CompanyProfile(ctx context.Context, ticker string) (*contracts.ProfileRecord, error) {
	var raw []struct {
		CompanyName string `json:"companyName"`
		Sector      string `json:"sector"`
		Industry    string `json:"industry"`
	}
	if err := c.fetchJSON(ctx, "/profile/"+ticker, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no profile data for %s", ticker)
	}

	return &contracts.ProfileRecord{
		Name:     raw[0].CompanyName,
		Sector:   raw[0].Sector,
		Industry: raw[0].Industry,
	}, nil
}

// Earnings derives quarterly EPS from the income statement endpoint,
// which carries per-quarter diluted EPS and the filing date
func (c *Client) Earnings(ctx context.Context, ticker string, limit int) ([]contracts.EarningsRecord, error) {
	var raw []struct {
		Date       string  `json:"date"`
		FilingDate string  `json:"fillingDate"`
		EPSDiluted float64 `json:"epsdiluted"`
		EPS        float64 `json:"eps"`
	}
	if err := c.fetchJSON(ctx, "/income-statement/"+ticker, quarterParams(limit), &raw); err != nil {
		return nil, err
	}

	var records []contracts.EarningsRecord
	for _, q := range raw {
		fiscalDate := parseDate(q.Date)
		if fiscalDate.IsZero() {
			continue
		}
		eps := q.EPSDiluted
		if eps == 0 {
			eps = q.EPS
		}
		records = append(records, contracts.EarningsRecord{
			FiscalDate:   fiscalDate,
			ReportedDate: parseDate(q.FilingDate),
			ReportedEPS:  eps,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(records),
	}).Debug("Fetched earnings")
	return records, nil
}

// IncomeStatements fetches quarterly income statements, newest first
func (c *Client) IncomeStatements(ctx context.Context, ticker string, limit int) ([]contracts.IncomeRecord, error) {
	var raw []struct {
		Date        string  `json:"date"`
		Period      string  `json:"period"`
		Revenue     float64 `json:"revenue"`
		GrossProfit float64 `json:"grossProfit"`
		NetIncome   float64 `json:"netIncome"`
	}
	if err := c.fetchJSON(ctx, "/income-statement/"+ticker, quarterParams(limit), &raw); err != nil {
		return nil, err
	}

	var records []contracts.IncomeRecord
	for _, q := range raw {
		fiscalDate := parseDate(q.Date)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.IncomeRecord{
			FiscalDate:  fiscalDate,
			Period:      q.Period,
			Revenue:     q.Revenue,
			GrossProfit: q.GrossProfit,
			NetIncome:   q.NetIncome,
		})
	}
	return records, nil
}

// CashFlowStatements fetches quarterly cash flow statements, newest first
func (c *Client) CashFlowStatements(ctx context.Context, ticker string, limit int) ([]contracts.CashFlowRecord, error) {
	var raw []struct {
		Date               string  `json:"date"`
		OperatingCashFlow  float64 `json:"operatingCashFlow"`
		CapitalExpenditure float64 `json:"capitalExpenditure"`
	}
	if err := c.fetchJSON(ctx, "/cash-flow-statement/"+ticker, quarterParams(limit), &raw); err != nil {
		return nil, err
	}

	var records []contracts.CashFlowRecord
	for _, q := range raw {
		fiscalDate := parseDate(q.Date)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.CashFlowRecord{
			FiscalDate:         fiscalDate,
			OperatingCashFlow:  q.OperatingCashFlow,
			CapitalExpenditure: q.CapitalExpenditure,
		})
	}
	return records, nil
}

// BalanceSheets fetches quarterly balance sheets, newest first
func (c *Client) BalanceSheets(ctx context.Context, ticker string, limit int) ([]contracts.BalanceSheetRecord, error) {
	var raw []struct {
		Date                   string  `json:"date"`
		CashAndCashEquivalents float64 `json:"cashAndCashEquivalents"`
		ShortTermDebt          float64 `json:"shortTermDebt"`
		LongTermDebt           float64 `json:"longTermDebt"`
	}
	if err := c.fetchJSON(ctx, "/balance-sheet-statement/"+ticker, quarterParams(limit), &raw); err != nil {
		return nil, err
	}

	var records []contracts.BalanceSheetRecord
	for _, q := range raw {
		fiscalDate := parseDate(q.Date)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.BalanceSheetRecord{
			FiscalDate:         fiscalDate,
			CashAndEquivalents: q.CashAndCashEquivalents,
			ShortTermDebt:      q.ShortTermDebt,
			LongTermDebt:       q.LongTermDebt,
		})
	}
	return records, nil
}
