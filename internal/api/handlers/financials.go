package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/logger"
)

// StatementReader is what the financials handler needs from the
// statement cache manager
type StatementReader interface {
	Get(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, bool, error)
	ForceRefresh(ctx context.Context, ticker string) ([]contracts.FiscalQuarterRecord, error)
	Company(ctx context.Context, ticker string) (*contracts.Company, error)
}

// FinancialsHandler handles financial statement API endpoints
type FinancialsHandler struct {
	statements StatementReader
	logger     *logger.Logger
}

// NewFinancialsHandler creates a new financials handler
func NewFinancialsHandler(statements StatementReader, log *logger.Logger) *FinancialsHandler {
	return &FinancialsHandler{
		statements: statements,
		logger:     log,
	}
}

// FinancialsResponse wraps quarterly records with their serving context
type FinancialsResponse struct {
	Ticker   string                          `json:"ticker"`
	Company  *contracts.Company              `json:"company,omitempty"`
	Quarters []contracts.FiscalQuarterRecord `json:"quarters"`
	Degraded bool                            `json:"degraded"`
}

// GetFinancials returns cached quarterly records, fetching on a cache
// miss or staleness
// GET /api/financials/{ticker}
func (h *FinancialsHandler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	records, degraded, err := h.statements.Get(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to get financials")
		respondError(w, statusForError(err), err.Error())
		return
	}

	company, err := h.statements.Company(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Company lookup failed")
	}

	respondJSON(w, http.StatusOK, FinancialsResponse{
		Ticker:   ticker,
		Company:  company,
		Quarters: records,
		Degraded: degraded,
	})
}

// Refresh discards cached quarters and refetches from the vendor
// POST /api/financials/{ticker}/refresh
func (h *FinancialsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	records, err := h.statements.ForceRefresh(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Forced refresh failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, FinancialsResponse{
		Ticker:   ticker,
		Quarters: records,
	})
}
