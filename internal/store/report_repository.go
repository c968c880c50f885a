package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fairval/internal/contracts"
)

// ReportRepository implements contracts.ReportRepository on Postgres.
// The full report is stored as a JSONB document alongside a few scalar
// columns used for listing and purging; the document is the source of
// truth on reads.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Get retrieves the stored report for a (ticker, peer key) identity, or
// nil when none exists. Expiry is the caller's concern.
func (r *ReportRepository) Get(ctx context.Context, ticker, peerKey string) (*contracts.ValuationReport, error) {
	query := `
		SELECT report_data
		FROM valuation_reports
		WHERE ticker = $1 AND peer_key = $2
	`

	var raw []byte
	err := r.pool.QueryRow(ctx, query, ticker, peerKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report contracts.ValuationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("decode stored report for %s: %w", ticker, err)
	}
	return &report, nil
}

// Upsert saves a report, replacing any prior report for the same
// (ticker, peer key) identity
func (r *ReportRepository) Upsert(ctx context.Context, report *contracts.ValuationReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report for %s: %w", report.Ticker, err)
	}

	query := `
		INSERT INTO valuation_reports (
			ticker, peer_key, fair_value_low, fair_value_high, assessment,
			report_data, generated_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, peer_key) DO UPDATE SET
			fair_value_low = EXCLUDED.fair_value_low,
			fair_value_high = EXCLUDED.fair_value_high,
			assessment = EXCLUDED.assessment,
			report_data = EXCLUDED.report_data,
			generated_at = EXCLUDED.generated_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err = r.pool.Exec(ctx, query,
		report.Ticker, contracts.PeerKey(report.Peers),
		report.FairValue.Low, report.FairValue.High, report.FairValue.Assessment,
		raw, report.GeneratedAt, report.ExpiresAt,
	)
	return err
}

// DeleteExpired removes reports whose expiry is at or before now and
// returns the number of rows removed
func (r *ReportRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM valuation_reports WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
