package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/fairval/internal/contracts"
	"github.com/wonny/fairval/pkg/logger"
)

// ValuationRunner is what the valuation handler needs from the
// orchestrator
type ValuationRunner interface {
	PerformValuation(ctx context.Context, ticker string, peers []string) (*contracts.ValuationReport, error)
	CachedReport(ctx context.Context, ticker string, peers []string) (*contracts.ValuationReport, error)
}

// ValuationHandler handles valuation API endpoints
type ValuationHandler struct {
	valuations ValuationRunner
	logger     *logger.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(valuations ValuationRunner, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{
		valuations: valuations,
		logger:     log,
	}
}

// GetValuation returns a valuation report, reusing an unexpired cached
// report unless refresh=true forces recomputation.
// GET /api/valuation/{ticker}?peers=MSFT,GOOGL&refresh=true
func (h *ValuationHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	peers := splitPeers(r.URL.Query().Get("peers"))
	refresh := r.URL.Query().Get("refresh") == "true"

	if !refresh {
		report, err := h.valuations.CachedReport(ctx, ticker, peers)
		if err != nil {
			h.logger.WithError(err).Error("Failed to read cached report")
		} else if report != nil {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.valuations.PerformValuation(ctx, ticker, peers)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Valuation failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// splitPeers parses a comma-separated peer list, dropping empty entries
func splitPeers(raw string) []string {
	if raw == "" {
		return nil
	}
	var peers []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			peers = append(peers, p)
		}
	}
	return peers
}
