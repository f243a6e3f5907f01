package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"currency-exchange-go/internal/models"
)

func (s *Server) handleCurrentRates(w http.ResponseWriter, r *http.Request) {
	table, err := s.rates.CurrentTable(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := models.RatesTableResponse{
		Table:         table.Table,
		No:            table.No,
		EffectiveDate: table.EffectiveDate,
		Rates:         make([]models.RateResponse, len(table.Rates)),
	}
	for i, rate := range table.Rates {
		resp.Rates[i] = toRateResponse(rate)
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleRateForCurrency(w http.ResponseWriter, r *http.Request) {
	rate, err := s.rates.Detailed(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toRateResponse(rate))
}

func (s *Server) handleHistoricalRates(w http.ResponseWriter, r *http.Request) {
	lastN := 10
	if raw := r.URL.Query().Get("lastN"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondMessage(w, r, http.StatusBadRequest, "lastN must be a positive integer")
			return
		}
		lastN = parsed
	}

	quotes, err := s.rates.Historical(r.Context(), chi.URLParam(r, "code"), lastN)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]models.RateResponse, len(quotes))
	for i, rate := range quotes {
		resp[i] = toRateResponse(rate)
	}

	respondJSON(w, r, http.StatusOK, resp)
}
