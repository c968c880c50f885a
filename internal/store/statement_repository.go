package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fairval/internal/contracts"
)

// StatementRepository implements contracts.StatementRepository on Postgres
type StatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{pool: pool}
}

const statementColumns = `
	ticker, fiscal_quarter, fiscal_date, reported_date, eps, revenue,
	gross_income, gross_margin, net_income, net_margin, capex,
	free_cash_flow, cash_balance, total_debt, data_source, degraded, fetched_at
`

// GetByTicker retrieves quarterly records for a ticker, newest first
func (r *StatementRepository) GetByTicker(ctx context.Context, ticker string, limit int) ([]contracts.FiscalQuarterRecord, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM financial_data
		WHERE ticker = $1
		ORDER BY fiscal_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.FiscalQuarterRecord
	for rows.Next() {
		var rec contracts.FiscalQuarterRecord
		var reported *time.Time
		if err := rows.Scan(
			&rec.Ticker, &rec.FiscalQuarter, &rec.FiscalDate, &reported,
			&rec.EPS, &rec.Revenue, &rec.GrossIncome, &rec.GrossMargin,
			&rec.NetIncome, &rec.NetMargin, &rec.Capex, &rec.FreeCashFlow,
			&rec.CashBalance, &rec.TotalDebt, &rec.Source, &rec.Degraded, &rec.FetchedAt,
		); err != nil {
			return nil, err
		}
		if reported != nil {
			rec.ReportedDate = *reported
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert saves a single quarterly record, updating in place on the
// (ticker, fiscal_quarter) identity
func (r *StatementRepository) Upsert(ctx context.Context, record *contracts.FiscalQuarterRecord) error {
	query := `
		INSERT INTO financial_data (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (ticker, fiscal_quarter) DO UPDATE SET
			fiscal_date = EXCLUDED.fiscal_date,
			reported_date = EXCLUDED.reported_date,
			eps = EXCLUDED.eps,
			revenue = EXCLUDED.revenue,
			gross_income = EXCLUDED.gross_income,
			gross_margin = EXCLUDED.gross_margin,
			net_income = EXCLUDED.net_income,
			net_margin = EXCLUDED.net_margin,
			capex = EXCLUDED.capex,
			free_cash_flow = EXCLUDED.free_cash_flow,
			cash_balance = EXCLUDED.cash_balance,
			total_debt = EXCLUDED.total_debt,
			data_source = EXCLUDED.data_source,
			degraded = EXCLUDED.degraded,
			fetched_at = EXCLUDED.fetched_at
	`

	var reported *time.Time
	if !record.ReportedDate.IsZero() {
		reported = &record.ReportedDate
	}

	_, err := r.pool.Exec(ctx, query,
		record.Ticker, record.FiscalQuarter, record.FiscalDate, reported,
		record.EPS, record.Revenue, record.GrossIncome, record.GrossMargin,
		record.NetIncome, record.NetMargin, record.Capex, record.FreeCashFlow,
		record.CashBalance, record.TotalDebt, record.Source, record.Degraded, record.FetchedAt,
	)
	return err
}

// UpsertBatch saves multiple quarterly records
func (r *StatementRepository) UpsertBatch(ctx context.Context, records []contracts.FiscalQuarterRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		if err := r.Upsert(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByTicker removes all cached quarters for a ticker
func (r *StatementRepository) DeleteByTicker(ctx context.Context, ticker string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM financial_data WHERE ticker = $1`, ticker)
	return err
}
