package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Base currency of every account. The base balance is created at account
// opening and never removed, even at zero.
const (
	BaseCurrencyCode = "PLN"
	BaseCurrencyName = "Polish Zloty"
)

// TransactionType enumerates the kinds of ledger entries.
type TransactionType string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionBuy     TransactionType = "buy"
	TransactionSell    TransactionType = "sell"
)

// User represents a registered account holder
type User struct {
	Id           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// WalletBalance represents one currency position in a user's wallet.
// Exactly one balance per user has IsBase set; it is created at account
// opening and never removed.
type WalletBalance struct {
	CurrencyCode string          `db:"currency_code"`
	CurrencyName string          `db:"currency_name"`
	Amount       decimal.Decimal `db:"amount"`
	IsBase       bool            `db:"is_base"`
}

// Transaction represents an immutable ledger entry (audit trail)
type Transaction struct {
	Id           string          `db:"id"`
	UserId       string          `db:"user_id"`
	Type         TransactionType `db:"type"`
	FromCurrency string          `db:"from_currency"`
	ToCurrency   string          `db:"to_currency"`
	FromAmount   decimal.Decimal `db:"from_amount"`
	ToAmount     decimal.Decimal `db:"to_amount"`
	RateUsed     decimal.Decimal `db:"rate_used"`
	RateDate     string          `db:"rate_date"`
	CreatedAt    time.Time       `db:"created_at"`
}

// ResetToken represents a single-use password reset token
type ResetToken struct {
	Token     string    `db:"token"`
	UserId    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Rate is a reference rate fetched from the feed. Ephemeral, never persisted.
type Rate struct {
	Code          string
	Currency      string
	Mid           decimal.Decimal
	Bid           decimal.Decimal
	Ask           decimal.Decimal
	EffectiveDate string
}
