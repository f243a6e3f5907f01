package models

// Request and response shapes for the HTTP API. Monetary fields are plain
// JSON numbers; values are rounded before conversion (amounts to 2 decimal
// places, rates to 4).

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// UserResponse is the authenticated user's profile
type UserResponse struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// FundRequest is the payload for crediting a wallet
type FundRequest struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// TradeRequest is the payload for executing a buy or sell
type TradeRequest struct {
	Type         string  `json:"type"`
	CurrencyCode string  `json:"currencyCode"`
	Amount       float64 `json:"amount"`
}

// BalanceResponse represents one wallet position
type BalanceResponse struct {
	CurrencyCode string  `json:"currencyCode"`
	CurrencyName string  `json:"currencyName"`
	Amount       float64 `json:"amount"`
	ValueInPln   float64 `json:"valueInPln"`
	IsBase       bool    `json:"isBase"`
}

// TotalResponse is the full portfolio valuation
type TotalResponse struct {
	Total float64 `json:"total"`
}

// TransactionResponse represents one ledger entry
type TransactionResponse struct {
	Id           string  `json:"id"`
	Type         string  `json:"type"`
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	FromAmount   float64 `json:"fromAmount"`
	ToAmount     float64 `json:"toAmount"`
	RateUsed     float64 `json:"rateUsed"`
	RateDate     string  `json:"rateDate"`
	CreatedAt    string  `json:"createdAt"`
}

// TradeResponse is returned from a successful trade
type TradeResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  BalanceResponse     `json:"newBalance"`
}

// RateResponse represents one reference rate
type RateResponse struct {
	Code          string   `json:"code"`
	Currency      string   `json:"currency"`
	Mid           float64  `json:"mid"`
	Bid           *float64 `json:"bid,omitempty"`
	Ask           *float64 `json:"ask,omitempty"`
	EffectiveDate string   `json:"effectiveDate"`
}

// RatesTableResponse is the full table-A snapshot
type RatesTableResponse struct {
	Table         string         `json:"table"`
	No            string         `json:"no"`
	EffectiveDate string         `json:"effectiveDate"`
	Rates         []RateResponse `json:"rates"`
}

// ErrorResponse carries a caller-visible failure message
type ErrorResponse struct {
	Message string `json:"message"`
}
