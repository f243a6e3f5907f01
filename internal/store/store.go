package store

import (
	"context"
	"errors"

	"currency-exchange-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrTokenNotFound        = errors.New("reset token not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
)

// TransactionFilter narrows a ledger listing. Zero values mean "no filter";
// a zero Limit falls back to the backend default.
type TransactionFilter struct {
	Type     models.TransactionType
	Currency string
	Limit    int
	Offset   int
}

// UserStore manages accounts and password-reset tokens.
type UserStore interface {
	// CreateUser persists a new user and seeds the base-currency wallet
	// balance in the same transaction.
	CreateUser(ctx context.Context, user models.User) error
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, userId, passwordHash string) error

	StoreResetToken(ctx context.Context, token models.ResetToken) error
	GetResetToken(ctx context.Context, token string) (*models.ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error
}

// WalletStore is a per-user ordered collection of currency balances with
// full-read and full-replace semantics. PutWallet is atomic: either every
// balance row is replaced or none are.
type WalletStore interface {
	GetWallet(ctx context.Context, userId string) ([]models.WalletBalance, error)
	PutWallet(ctx context.Context, userId string, balances []models.WalletBalance) error
}

// TransactionLedger is the append-only, newest-first transaction history.
// Append is keyed by transaction id: re-appending an id that already exists
// returns ErrDuplicateTransaction without writing a second row, so a retry
// after a partial failure cannot double-record.
type TransactionLedger interface {
	AppendTransaction(ctx context.Context, tx models.Transaction) error
	ListTransactions(ctx context.Context, userId string, filter TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userId, transactionId string) (*models.Transaction, error)
}

// Store is the full storage contract the SQLite backend satisfies.
type Store interface {
	UserStore
	WalletStore
	TransactionLedger

	Close()
}
