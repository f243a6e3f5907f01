package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// AppendTransaction records one immutable ledger entry. Appends are keyed by
// transaction id: a second append with the same id returns
// ErrDuplicateTransaction and writes nothing, so retries after a partial
// failure cannot double-record.
func (s *Service) AppendTransaction(ctx context.Context, transaction models.Transaction) error {
	zap.L().Info("Appending transaction",
		zap.String("transaction_id", transaction.Id),
		zap.String("user_id", transaction.UserId),
		zap.String("type", string(transaction.Type)),
		zap.String("from", transaction.FromCurrency),
		zap.String("to", transaction.ToCurrency))

	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckDuplicateTransaction, transaction.Id).Scan(&existingId)
	if err == nil {
		zap.L().Warn("Duplicate transaction id detected, skipping",
			zap.String("transaction_id", transaction.Id))
		return fmt.Errorf("%w: id %s already exists", store.ErrDuplicateTransaction, transaction.Id)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check for duplicate transaction: %w", err)
	}

	_, err = s.db.ExecContext(ctx, queryInsertTransaction,
		transaction.Id, transaction.UserId, string(transaction.Type),
		transaction.FromCurrency, transaction.ToCurrency,
		transaction.FromAmount.String(), transaction.ToAmount.String(),
		transaction.RateUsed.String(), transaction.RateDate, transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactions returns the user's history newest-first, optionally
// filtered by type and by currency (either leg), with limit/offset paging.
func (s *Service) ListTransactions(ctx context.Context, userId string, filter store.TransactionFilter) ([]models.Transaction, error) {
	query := queryListTransactionsBase
	args := []any{userId}

	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Currency != "" {
		query += " AND (from_currency = ? OR to_currency = ?)"
		args = append(args, filter.Currency, filter.Currency)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to list transactions", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

func (s *Service) GetTransaction(ctx context.Context, userId, transactionId string) (*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTransaction, userId, transactionId)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get transaction: %w", err)
		}
		return nil, store.ErrTransactionNotFound
	}

	return scanTransaction(rows)
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var transaction models.Transaction
	var txType, fromAmountStr, toAmountStr, rateUsedStr string

	err := rows.Scan(&transaction.Id, &transaction.UserId, &txType,
		&transaction.FromCurrency, &transaction.ToCurrency,
		&fromAmountStr, &toAmountStr, &rateUsedStr,
		&transaction.RateDate, &transaction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	transaction.Type = models.TransactionType(txType)
	if transaction.FromAmount, err = decimal.NewFromString(fromAmountStr); err != nil {
		return nil, fmt.Errorf("failed to parse from_amount '%s': %w", fromAmountStr, err)
	}
	if transaction.ToAmount, err = decimal.NewFromString(toAmountStr); err != nil {
		return nil, fmt.Errorf("failed to parse to_amount '%s': %w", toAmountStr, err)
	}
	if transaction.RateUsed, err = decimal.NewFromString(rateUsedStr); err != nil {
		return nil, fmt.Errorf("failed to parse rate_used '%s': %w", rateUsedStr, err)
	}

	return &transaction, nil
}
