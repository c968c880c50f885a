package alphavantage

import (
	"context"
	"fmt"

	"github.com/wonny/fairval/internal/contracts"
)

// CompanyProfile fetches the company overview
func (c *Client) CompanyProfile(ctx context.Context, ticker string) (*contracts.ProfileRecord, error) {
	var raw struct {
		Name     string `json:"Name"`
		Sector   string `json:"Sector"`
		Industry string `json:"Industry"`
	}
	if err := c.fetchJSON(ctx, "OVERVIEW", ticker, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("no overview data for %s", ticker)
	}

	return &contracts.ProfileRecord{
		Name:     raw.Name,
		Sector:   raw.Sector,
		Industry: raw.Industry,
	}, nil
}

// Earnings fetches quarterly reported EPS, newest first, up to limit
// quarters
func (c *Client) Earnings(ctx context.Context, ticker string, limit int) ([]contracts.EarningsRecord, error) {
	var raw struct {
		QuarterlyEarnings []struct {
			FiscalDateEnding string `json:"fiscalDateEnding"`
			ReportedDate     string `json:"reportedDate"`
			ReportedEPS      string `json:"reportedEPS"`
		} `json:"quarterlyEarnings"`
	}
	if err := c.fetchJSON(ctx, "EARNINGS", ticker, nil, &raw); err != nil {
		return nil, err
	}

	var records []contracts.EarningsRecord
	for _, q := range raw.QuarterlyEarnings {
		if len(records) >= limit {
			break
		}
		fiscalDate := parseDate(q.FiscalDateEnding)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.EarningsRecord{
			FiscalDate:   fiscalDate,
			ReportedDate: parseDate(q.ReportedDate),
			ReportedEPS:  parseFloat(q.ReportedEPS),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(records),
	}).Debug("Fetched earnings")
	return records, nil
}

// IncomeStatements fetches quarterly income statements, newest first, up
// to limit quarters
func (c *Client) IncomeStatements(ctx context.Context, ticker string, limit int) ([]contracts.IncomeRecord, error) {
	var raw struct {
		QuarterlyReports []struct {
			FiscalDateEnding string `json:"fiscalDateEnding"`
			TotalRevenue     string `json:"totalRevenue"`
			GrossProfit      string `json:"grossProfit"`
			NetIncome        string `json:"netIncome"`
		} `json:"quarterlyReports"`
	}
	if err := c.fetchJSON(ctx, "INCOME_STATEMENT", ticker, nil, &raw); err != nil {
		return nil, err
	}

	var records []contracts.IncomeRecord
	for _, q := range raw.QuarterlyReports {
		if len(records) >= limit {
			break
		}
		fiscalDate := parseDate(q.FiscalDateEnding)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.IncomeRecord{
			FiscalDate:  fiscalDate,
			Revenue:     parseFloat(q.TotalRevenue),
			GrossProfit: parseFloat(q.GrossProfit),
			NetIncome:   parseFloat(q.NetIncome),
		})
	}
	return records, nil
}

// CashFlowStatements fetches quarterly cash flow statements, newest
// first, up to limit quarters
func (c *Client) CashFlowStatements(ctx context.Context, ticker string, limit int) ([]contracts.CashFlowRecord, error) {
	var raw struct {
		QuarterlyReports []struct {
			FiscalDateEnding   string `json:"fiscalDateEnding"`
			OperatingCashflow  string `json:"operatingCashflow"`
			CapitalExpenditure string `json:"capitalExpenditures"`
		} `json:"quarterlyReports"`
	}
	if err := c.fetchJSON(ctx, "CASH_FLOW", ticker, nil, &raw); err != nil {
		return nil, err
	}

	var records []contracts.CashFlowRecord
	for _, q := range raw.QuarterlyReports {
		if len(records) >= limit {
			break
		}
		fiscalDate := parseDate(q.FiscalDateEnding)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.CashFlowRecord{
			FiscalDate:         fiscalDate,
			OperatingCashFlow:  parseFloat(q.OperatingCashflow),
			CapitalExpenditure: parseFloat(q.CapitalExpenditure),
		})
	}
	return records, nil
}

// BalanceSheets fetches quarterly balance sheets, newest first, up to
// limit quarters
func (c *Client) BalanceSheets(ctx context.Context, ticker string, limit int) ([]contracts.BalanceSheetRecord, error) {
	var raw struct {
		QuarterlyReports []struct {
			FiscalDateEnding string `json:"fiscalDateEnding"`
			Cash             string `json:"cashAndCashEquivalentsAtCarryingValue"`
			ShortTermDebt    string `json:"shortTermDebt"`
			LongTermDebt     string `json:"longTermDebt"`
		} `json:"quarterlyReports"`
	}
	if err := c.fetchJSON(ctx, "BALANCE_SHEET", ticker, nil, &raw); err != nil {
		return nil, err
	}

	var records []contracts.BalanceSheetRecord
	for _, q := range raw.QuarterlyReports {
		if len(records) >= limit {
			break
		}
		fiscalDate := parseDate(q.FiscalDateEnding)
		if fiscalDate.IsZero() {
			continue
		}
		records = append(records, contracts.BalanceSheetRecord{
			FiscalDate:         fiscalDate,
			CashAndEquivalents: parseFloat(q.Cash),
			ShortTermDebt:      parseFloat(q.ShortTermDebt),
			LongTermDebt:       parseFloat(q.LongTermDebt),
		})
	}
	return records, nil
}
