package server

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/exchange"
	"currency-exchange-go/internal/models"
)

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.store.GetWallet(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	mids, err := s.currentMids(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]models.BalanceResponse, len(wallet))
	for i, balance := range wallet {
		resp[i] = toBalanceResponse(balance, exchange.ValueInPln(balance, mids[balance.CurrencyCode]))
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.store.GetWallet(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	mids, err := s.currentMids(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	total := decimal.Zero
	for _, balance := range wallet {
		total = total.Add(exchange.ValueInPln(balance, mids[balance.CurrencyCode]))
	}

	respondJSON(w, r, http.StatusOK, models.TotalResponse{Total: toFloat(total.Round(2))})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var req models.FundRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := s.engine.AddFunds(r.Context(), auth.UserID(r.Context()),
		decimal.NewFromFloat(req.Amount), req.CurrencyCode)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// The deposit path never consults the rate feed, so non-base deposits
	// are reported at face amount.
	respondJSON(w, r, http.StatusOK, toBalanceResponse(*balance, balance.Amount))
}

// currentMids snapshots the reference table into a code-to-mid lookup.
// Currencies absent from the table value at zero.
func (s *Server) currentMids(r *http.Request) (map[string]decimal.Decimal, error) {
	table, err := s.rates.CurrentTable(r.Context())
	if err != nil {
		return nil, err
	}

	mids := make(map[string]decimal.Decimal, len(table.Rates))
	for _, rate := range table.Rates {
		mids[rate.Code] = rate.Mid
	}
	return mids, nil
}
