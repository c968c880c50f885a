package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fairval/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository on Postgres
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

const priceColumns = `
	ticker, date, open_price, high_price, low_price, close_price,
	adjusted_close, volume, data_source, fetched_at
`

// GetByTickerAndDate retrieves the price point for a specific date, or nil
func (r *PriceRepository) GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM stock_prices
		WHERE ticker = $1 AND date = $2
	`

	var p contracts.PricePoint
	err := r.pool.QueryRow(ctx, query, ticker, date).Scan(
		&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close,
		&p.AdjClose, &p.Volume, &p.Source, &p.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByTickerAndDateRange retrieves price points within a date range,
// date ascending
func (r *PriceRepository) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PricePoint, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM stock_prices
		WHERE ticker = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []contracts.PricePoint
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(
			&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close,
			&p.AdjClose, &p.Volume, &p.Source, &p.FetchedAt,
		); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetLatestByTicker retrieves the most recent price point, or nil
func (r *PriceRepository) GetLatestByTicker(ctx context.Context, ticker string) (*contracts.PricePoint, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM stock_prices
		WHERE ticker = $1
		ORDER BY date DESC
		LIMIT 1
	`

	var p contracts.PricePoint
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close,
		&p.AdjClose, &p.Volume, &p.Source, &p.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert saves a single price point, updating on the (ticker, date) identity
func (r *PriceRepository) Upsert(ctx context.Context, point *contracts.PricePoint) error {
	query := `
		INSERT INTO stock_prices (` + priceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (ticker, date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			adjusted_close = EXCLUDED.adjusted_close,
			volume = EXCLUDED.volume,
			data_source = EXCLUDED.data_source,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := r.pool.Exec(ctx, query,
		point.Ticker, point.Date, point.Open, point.High, point.Low, point.Close,
		point.AdjClose, point.Volume, point.Source, point.FetchedAt,
	)
	return err
}

// UpsertBatch saves multiple price points
func (r *PriceRepository) UpsertBatch(ctx context.Context, points []contracts.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	for i := range points {
		if err := r.Upsert(ctx, &points[i]); err != nil {
			return err
		}
	}
	return nil
}
