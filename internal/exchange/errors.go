package exchange

import "errors"

// Trade-path error taxonomy. Callers discriminate with errors.Is; the HTTP
// layer maps each to a status code.
var (
	// ErrInvalidParameters rejects a malformed amount, type or currency.
	// Caller error, nothing was mutated.
	ErrInvalidParameters = errors.New("invalid trade parameters")

	// ErrRateUnavailable signals an upstream feed failure. Nothing was
	// mutated; the trade is safe to retry.
	ErrRateUnavailable = errors.New("rate unavailable")

	// ErrInsufficientFunds is the business-rule rejection. Nothing was
	// mutated.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWalletNotInitialized means the base-currency balance is missing.
	// Accounts are seeded with it at opening, so this is an internal
	// invariant violation, not a user-recoverable case.
	ErrWalletNotInitialized = errors.New("wallet not initialized")

	// ErrPersistenceFailure is a storage error during the wallet commit.
	// The mutation may or may not have taken effect.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrLedgerAppend is a ledger write failure after the wallet commit
	// succeeded: the trade is settled but unrecorded.
	ErrLedgerAppend = errors.New("ledger append failed after settlement")
)
