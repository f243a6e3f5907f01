package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"

	"go.uber.org/zap"
)

// CreateUser persists a new user and seeds the base-currency balance in the
// same database transaction, so an account can never exist without its
// base wallet entry.
func (s *Service) CreateUser(ctx context.Context, user models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, queryInsertUser, user.Id, user.Email, user.Name, user.PasswordHash, createdAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", store.ErrEmailTaken, user.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, queryInsertWalletBalance,
		user.Id, 0, models.BaseCurrencyCode, models.BaseCurrencyName, "0", 1)
	if err != nil {
		return fmt.Errorf("failed to seed base balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("User created",
		zap.String("user_id", user.Id),
		zap.String("email", user.Email))
	return nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, queryGetUserById, userId))
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, queryGetUserByEmail, email))
}

// ListUsers returns every account, oldest first. Used by the reporting CLIs.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Id, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Service) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.Id, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (s *Service) UpdateUserPassword(ctx context.Context, userId, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, queryUpdateUserPassword, passwordHash, userId)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (s *Service) StoreResetToken(ctx context.Context, token models.ResetToken) error {
	_, err := s.db.ExecContext(ctx, queryInsertResetToken, token.Token, token.UserId, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (s *Service) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	var rt models.ResetToken
	err := s.db.QueryRowContext(ctx, queryGetResetToken, token).Scan(&rt.Token, &rt.UserId, &rt.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &rt, nil
}

func (s *Service) DeleteResetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteResetToken, token)
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
