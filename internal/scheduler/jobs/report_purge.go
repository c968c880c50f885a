package jobs

import (
	"context"
	"time"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/logger"
)

// ReportPurgeJob deletes expired valuation reports
type ReportPurgeJob struct {
	reports contracts.ReportRepository
	logger  *logger.Logger
}

// NewReportPurgeJob creates a new report purge job
func NewReportPurgeJob(reports contracts.ReportRepository, log *logger.Logger) *ReportPurgeJob {
	return &ReportPurgeJob{
		reports: reports,
		logger:  log,
	}
}

// Name returns the job name
func (j *ReportPurgeJob) Name() string {
	return "report_purge"
}

// Schedule returns the cron schedule (hourly)
func (j *ReportPurgeJob) Schedule() string {
	return "0 0 * * * *"
}

// Run deletes reports past their expiry
func (j *ReportPurgeJob) Run(ctx context.Context) error {
	removed, err := j.reports.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Expired reports purged")
	}
	return nil
}
