package database

import (
	"context"
	"database/sql"
	"fmt"

	"currency-exchange-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetWallet returns the user's wallet balances in insertion order.
func (s *Service) GetWallet(ctx context.Context, userId string) ([]models.WalletBalance, error) {
	zap.L().Debug("Getting wallet", zap.String("user_id", userId))

	rows, err := s.db.QueryContext(ctx, queryGetWallet, userId)
	if err != nil {
		zap.L().Error("Failed to get wallet", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var balances []models.WalletBalance
	for rows.Next() {
		var balance models.WalletBalance
		var amountStr string
		var isBase int
		if err := rows.Scan(&balance.CurrencyCode, &balance.CurrencyName, &amountStr, &isBase); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}

		balance.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance '%s': %w", amountStr, err)
		}
		balance.IsBase = isBase == 1

		balances = append(balances, balance)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during wallet row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}

	zap.L().Debug("Retrieved wallet", zap.String("user_id", userId), zap.Int("balances", len(balances)))
	return balances, nil
}

// PutWallet replaces the user's entire wallet in one database transaction.
// Either every balance row is written or none are, so no partial wallet
// state is ever observable.
func (s *Service) PutWallet(ctx context.Context, userId string, balances []models.WalletBalance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryDeleteWallet, userId); err != nil {
		return fmt.Errorf("failed to clear wallet: %w", err)
	}

	for i, balance := range balances {
		isBase := 0
		if balance.IsBase {
			isBase = 1
		}
		_, err := tx.ExecContext(ctx, queryInsertWalletBalance,
			userId, i, balance.CurrencyCode, balance.CurrencyName, balance.Amount.String(), isBase)
		if err != nil {
			return fmt.Errorf("failed to insert balance %s: %w", balance.CurrencyCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wallet replace: %w", err)
	}

	zap.L().Debug("Wallet replaced",
		zap.String("user_id", userId),
		zap.Int("balances", len(balances)))
	return nil
}
