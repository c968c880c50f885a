package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fairval/pkg/logger"
)

// PriceReader is what the price handler needs from the price cache
// manager
type PriceReader interface {
	PriceOnDate(ctx context.Context, ticker string, date time.Time) (float64, error)
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// PriceHandler handles price API endpoints
type PriceHandler struct {
	prices PriceReader
	logger *logger.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(prices PriceReader, log *logger.Logger) *PriceHandler {
	return &PriceHandler{
		prices: prices,
		logger: log,
	}
}

// PriceResponse is a single resolved price
type PriceResponse struct {
	Ticker string  `json:"ticker"`
	Date   string  `json:"date,omitempty"`
	Price  float64 `json:"price"`
}

// GetPrice returns the current price, or the closing price on a given
// date when ?date=YYYY-MM-DD is set
// GET /api/price/{ticker}
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		price, err := h.prices.CurrentPrice(ctx, ticker)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Error("Current price lookup failed")
			respondError(w, statusForError(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, PriceResponse{Ticker: ticker, Price: price})
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	price, err := h.prices.PriceOnDate(ctx, ticker, date)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Price lookup failed")
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, PriceResponse{
		Ticker: ticker,
		Date:   date.Format("2006-01-02"),
		Price:  price,
	})
}
