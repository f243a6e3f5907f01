package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"
)

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req models.TradeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.engine.ExecuteTrade(r.Context(), auth.UserID(r.Context()),
		models.TransactionType(req.Type), req.CurrencyCode, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.TradeResponse{
		Transaction: toTransactionResponse(result.Transaction),
		NewBalance:  toBalanceResponse(result.NewBalance, result.ValueInPln),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := historyFilter(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := s.store.ListTransactions(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]models.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		resp[i] = toTransactionResponse(tx)
	}

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.GetTransaction(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toTransactionResponse(*tx))
}

func historyFilter(r *http.Request) (store.TransactionFilter, error) {
	query := r.URL.Query()

	filter := store.TransactionFilter{
		Type:     models.TransactionType(query.Get("type")),
		Currency: strings.ToUpper(query.Get("currency")),
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, strconvError("limit")
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, strconvError("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

type strconvError string

func (e strconvError) Error() string {
	return string(e) + " must be a non-negative integer"
}
