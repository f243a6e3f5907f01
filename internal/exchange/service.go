package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"currency-exchange-go/internal/common"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateProvider supplies the mid-market reference rate for a currency code.
// Rates are fetched fresh per trade; there is no caching or staleness check
// beyond the fetch succeeding.
type RateProvider interface {
	Current(ctx context.Context, code string) (models.Rate, error)
}

// TradeResult is the outcome of a successful trade: the recorded transaction
// and the post-trade balance of whichever side changed (target balance for a
// buy, base balance for a sell).
type TradeResult struct {
	Transaction models.Transaction
	NewBalance  models.WalletBalance
	ValueInPln  decimal.Decimal
}

// Service is the trade execution engine. Every operation is a single-shot
// request/response cycle: no retries, no background work.
type Service struct {
	wallets    store.WalletStore
	ledger     store.TransactionLedger
	rates      RateProvider
	currencies *common.CurrencyRegistry
	spread     decimal.Decimal
	locks      userLocks
}

func NewService(wallets store.WalletStore, ledger store.TransactionLedger, rates RateProvider, currencies *common.CurrencyRegistry, spread decimal.Decimal) *Service {
	return &Service{
		wallets:    wallets,
		ledger:     ledger,
		rates:      rates,
		currencies: currencies,
		spread:     spread,
	}
}

// ExecuteTrade performs one buy or sell against the user's wallet: fetches a
// fresh reference rate, applies the spread, validates sufficient balance,
// atomically replaces the wallet and appends the audit transaction. Any
// failure before the wallet commit leaves all state untouched.
func (s *Service) ExecuteTrade(ctx context.Context, userId string, tradeType models.TransactionType, currencyCode string, amount decimal.Decimal) (*TradeResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidParameters)
	}
	if tradeType != models.TransactionBuy && tradeType != models.TransactionSell {
		return nil, fmt.Errorf("%w: type must be buy or sell", ErrInvalidParameters)
	}
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if currencyCode == "" {
		return nil, fmt.Errorf("%w: missing currency code", ErrInvalidParameters)
	}

	unlock := s.locks.lock(userId)
	defer unlock()

	wallet, err := s.wallets.GetWallet(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("reading wallet: %w", err)
	}

	baseIdx := findBase(wallet)
	if baseIdx < 0 {
		return nil, fmt.Errorf("%w: user %s has no %s balance", ErrWalletNotInitialized, userId, models.BaseCurrencyCode)
	}

	rate, err := s.rates.Current(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRateUnavailable, currencyCode, err)
	}
	if !rate.Mid.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive mid rate %s for %s", ErrRateUnavailable, rate.Mid, currencyCode)
	}

	executionRate := ExecutionRate(rate.Mid, s.spread, tradeType)

	next := make([]models.WalletBalance, len(wallet))
	copy(next, wallet)

	var fromCurrency, toCurrency string
	var fromAmount, toAmount decimal.Decimal
	var changedIdx int

	switch tradeType {
	case models.TransactionBuy:
		cost := amount.Mul(executionRate)
		if next[baseIdx].Amount.LessThan(cost) {
			return nil, fmt.Errorf("%w: %s balance %s is less than cost %s",
				ErrInsufficientFunds, models.BaseCurrencyCode, next[baseIdx].Amount, cost)
		}
		next[baseIdx].Amount = next[baseIdx].Amount.Sub(cost)

		idx := findCurrency(next, currencyCode)
		if idx < 0 {
			next = append(next, models.WalletBalance{
				CurrencyCode: currencyCode,
				CurrencyName: s.currencies.Name(currencyCode),
				Amount:       decimal.Zero,
			})
			idx = len(next) - 1
		}
		next[idx].Amount = next[idx].Amount.Add(amount)

		fromCurrency, toCurrency = models.BaseCurrencyCode, currencyCode
		fromAmount, toAmount = cost, amount
		changedIdx = idx

	case models.TransactionSell:
		idx := findCurrency(next, currencyCode)
		if idx < 0 || next[idx].Amount.LessThan(amount) {
			return nil, fmt.Errorf("%w: insufficient %s balance", ErrInsufficientFunds, currencyCode)
		}
		gain := amount.Mul(executionRate)
		next[idx].Amount = next[idx].Amount.Sub(amount)
		next[baseIdx].Amount = next[baseIdx].Amount.Add(gain)

		fromCurrency, toCurrency = currencyCode, models.BaseCurrencyCode
		fromAmount, toAmount = amount, gain
		changedIdx = baseIdx
	}

	if err := s.wallets.PutWallet(ctx, userId, next); err != nil {
		return nil, fmt.Errorf("%w: wallet commit: %v", ErrPersistenceFailure, err)
	}

	transaction := models.Transaction{
		Id:           uuid.New().String(),
		UserId:       userId,
		Type:         tradeType,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
		FromAmount:   fromAmount.Round(2),
		ToAmount:     toAmount.Round(2),
		RateUsed:     executionRate.Round(4),
		RateDate:     rate.EffectiveDate,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.ledger.AppendTransaction(ctx, transaction); err != nil && !errors.Is(err, store.ErrDuplicateTransaction) {
		// The wallet commit already took effect; the trade is settled
		// but unrecorded.
		zap.L().Error("Ledger append failed after wallet commit",
			zap.String("user_id", userId),
			zap.String("transaction_id", transaction.Id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLedgerAppend, err)
	}

	zap.L().Info("Trade executed",
		zap.String("user_id", userId),
		zap.String("type", string(tradeType)),
		zap.String("from", fromCurrency),
		zap.String("to", toCurrency),
		zap.String("rate_used", transaction.RateUsed.String()),
		zap.String("rate_date", rate.EffectiveDate))

	return &TradeResult{
		Transaction: transaction,
		NewBalance:  next[changedIdx],
		ValueInPln:  ValueInPln(next[changedIdx], rate.Mid),
	}, nil
}

// AddFunds credits a wallet unconditionally: deposits only increase assets,
// so there is no balance check, no spread and no rate dependency. The
// currency's balance entry is created on demand.
func (s *Service) AddFunds(ctx context.Context, userId string, amount decimal.Decimal, currencyCode string) (*models.WalletBalance, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidParameters)
	}
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if currencyCode == "" {
		currencyCode = models.BaseCurrencyCode
	}

	unlock := s.locks.lock(userId)
	defer unlock()

	wallet, err := s.wallets.GetWallet(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("reading wallet: %w", err)
	}

	idx := findCurrency(wallet, currencyCode)
	if idx < 0 {
		wallet = append(wallet, models.WalletBalance{
			CurrencyCode: currencyCode,
			CurrencyName: s.currencies.Name(currencyCode),
			Amount:       decimal.Zero,
			IsBase:       currencyCode == models.BaseCurrencyCode,
		})
		idx = len(wallet) - 1
	}
	wallet[idx].Amount = wallet[idx].Amount.Add(amount)

	if err := s.wallets.PutWallet(ctx, userId, wallet); err != nil {
		return nil, fmt.Errorf("%w: wallet commit: %v", ErrPersistenceFailure, err)
	}

	now := time.Now().UTC()
	transaction := models.Transaction{
		Id:           uuid.New().String(),
		UserId:       userId,
		Type:         models.TransactionDeposit,
		FromCurrency: currencyCode,
		ToCurrency:   currencyCode,
		FromAmount:   amount.Round(2),
		ToAmount:     amount.Round(2),
		RateUsed:     one,
		RateDate:     now.Format("2006-01-02"),
		CreatedAt:    now,
	}

	if err := s.ledger.AppendTransaction(ctx, transaction); err != nil && !errors.Is(err, store.ErrDuplicateTransaction) {
		zap.L().Error("Ledger append failed after deposit commit",
			zap.String("user_id", userId),
			zap.String("transaction_id", transaction.Id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLedgerAppend, err)
	}

	zap.L().Info("Funds added",
		zap.String("user_id", userId),
		zap.String("currency", currencyCode),
		zap.String("amount", amount.String()))

	balance := wallet[idx]
	return &balance, nil
}

func findBase(wallet []models.WalletBalance) int {
	for i, balance := range wallet {
		if balance.IsBase {
			return i
		}
	}
	return -1
}

func findCurrency(wallet []models.WalletBalance, code string) int {
	for i, balance := range wallet {
		if balance.CurrencyCode == code {
			return i
		}
	}
	return -1
}
