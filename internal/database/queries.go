package database

const (
	// User queries
	queryInsertUser = `
		INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = ?`

	queryUpdateUserPassword = `
		UPDATE users SET password_hash = ? WHERE id = ?`

	queryListUsers = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		ORDER BY created_at, id`

	// Reset token queries
	queryInsertResetToken = `
		INSERT INTO reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)`

	queryGetResetToken = `
		SELECT token, user_id, expires_at
		FROM reset_tokens
		WHERE token = ?`

	queryDeleteResetToken = `
		DELETE FROM reset_tokens WHERE token = ?`

	// Wallet queries
	queryGetWallet = `
		SELECT currency_code, currency_name, amount, is_base
		FROM wallet_balances
		WHERE user_id = ?
		ORDER BY position`

	queryDeleteWallet = `
		DELETE FROM wallet_balances WHERE user_id = ?`

	queryInsertWalletBalance = `
		INSERT INTO wallet_balances (user_id, position, currency_code, currency_name, amount, is_base)
		VALUES (?, ?, ?, ?, ?, ?)`

	// Transaction queries
	queryCheckDuplicateTransaction = `
		SELECT id FROM transactions WHERE id = ? LIMIT 1`

	queryInsertTransaction = `
		INSERT INTO transactions (
			id, user_id, type, from_currency, to_currency,
			from_amount, to_amount, rate_used, rate_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransaction = `
		SELECT id, user_id, type, from_currency, to_currency,
		       from_amount, to_amount, rate_used, rate_date, created_at
		FROM transactions
		WHERE user_id = ? AND id = ?`

	// Newest-first; optional type/currency filters are appended dynamically.
	queryListTransactionsBase = `
		SELECT id, user_id, type, from_currency, to_currency,
		       from_amount, to_amount, rate_used, rate_date, created_at
		FROM transactions
		WHERE user_id = ?`
)
