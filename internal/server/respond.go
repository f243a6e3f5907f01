package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"currency-exchange-go/internal/exchange"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/rates"
	"currency-exchange-go/internal/store"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, models.ErrorResponse{Message: message})
}

// respondError maps a domain error onto an HTTP status. Caller mistakes and
// business-rule rejections are 4xx, upstream feed trouble is 502, anything
// internal stays a generic 500 without leaking details.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, exchange.ErrInvalidParameters):
		respondMessage(w, r, http.StatusBadRequest, "Invalid trade parameters")
	case errors.Is(err, exchange.ErrInsufficientFunds):
		respondMessage(w, r, http.StatusBadRequest, "Insufficient funds")
	case errors.Is(err, exchange.ErrRateUnavailable), errors.Is(err, rates.ErrFeedFailure):
		respondMessage(w, r, http.StatusBadGateway, "Exchange rate unavailable")
	case errors.Is(err, rates.ErrRateNotFound):
		respondMessage(w, r, http.StatusNotFound, "Currency not found")
	case errors.Is(err, store.ErrEmailTaken):
		respondMessage(w, r, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, store.ErrUserNotFound):
		respondMessage(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrTransactionNotFound):
		respondMessage(w, r, http.StatusNotFound, "Transaction not found")
	default:
		zap.L().Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondMessage(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toBalanceResponse(balance models.WalletBalance, valueInPln decimal.Decimal) models.BalanceResponse {
	return models.BalanceResponse{
		CurrencyCode: balance.CurrencyCode,
		CurrencyName: balance.CurrencyName,
		Amount:       toFloat(balance.Amount.Round(2)),
		ValueInPln:   toFloat(valueInPln.Round(2)),
		IsBase:       balance.IsBase,
	}
}

func toTransactionResponse(tx models.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		Id:           tx.Id,
		Type:         string(tx.Type),
		FromCurrency: tx.FromCurrency,
		ToCurrency:   tx.ToCurrency,
		FromAmount:   toFloat(tx.FromAmount),
		ToAmount:     toFloat(tx.ToAmount),
		RateUsed:     toFloat(tx.RateUsed),
		RateDate:     tx.RateDate,
		CreatedAt:    tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRateResponse(rate models.Rate) models.RateResponse {
	resp := models.RateResponse{
		Code:          rate.Code,
		Currency:      rate.Currency,
		Mid:           toFloat(rate.Mid),
		EffectiveDate: rate.EffectiveDate,
	}
	if rate.Bid.IsPositive() {
		bid := toFloat(rate.Bid)
		resp.Bid = &bid
	}
	if rate.Ask.IsPositive() {
		ask := toFloat(rate.Ask)
		resp.Ask = &ask
	}
	return resp
}
