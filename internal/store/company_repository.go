package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fairval/internal/contracts"
)

// CompanyRepository implements contracts.CompanyRepository on Postgres
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// GetByTicker retrieves a company profile, or nil when unknown
func (r *CompanyRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.Company, error) {
	query := `
		SELECT ticker, name, sector, industry, last_updated
		FROM companies
		WHERE ticker = $1
	`

	var c contracts.Company
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&c.Ticker, &c.Name, &c.Sector, &c.Industry, &c.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListTickers returns every tracked ticker, alphabetically
func (r *CompanyRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT ticker FROM companies ORDER BY ticker ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// Upsert saves a company profile, updating in place on ticker
func (r *CompanyRepository) Upsert(ctx context.Context, company *contracts.Company) error {
	query := `
		INSERT INTO companies (ticker, name, sector, industry, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.pool.Exec(ctx, query,
		company.Ticker, company.Name, company.Sector, company.Industry, company.LastUpdated,
	)
	return err
}
