package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/exchange"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/rates"
	"currency-exchange-go/internal/store"
)

type fakeStore struct {
	users   map[string]models.User
	wallets map[string][]models.WalletBalance
	txs     []models.Transaction
	resets  map[string]models.ResetToken

	lastFilter store.TransactionFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]models.User),
		wallets: make(map[string][]models.WalletBalance),
		resets:  make(map[string]models.ResetToken),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	f.users[user.Id] = user
	f.wallets[user.Id] = []models.WalletBalance{{
		CurrencyCode: models.BaseCurrencyCode,
		CurrencyName: models.BaseCurrencyName,
		Amount:       decimal.Zero,
		IsBase:       true,
	}}
	return nil
}

func (f *fakeStore) GetUserById(_ context.Context, userId string) (*models.User, error) {
	user, ok := f.users[userId]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeStore) UpdateUserPassword(_ context.Context, userId, passwordHash string) error {
	user, ok := f.users[userId]
	if !ok {
		return store.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	f.users[userId] = user
	return nil
}

func (f *fakeStore) StoreResetToken(_ context.Context, token models.ResetToken) error {
	f.resets[token.Token] = token
	return nil
}

func (f *fakeStore) GetResetToken(_ context.Context, token string) (*models.ResetToken, error) {
	reset, ok := f.resets[token]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	return &reset, nil
}

func (f *fakeStore) DeleteResetToken(_ context.Context, token string) error {
	delete(f.resets, token)
	return nil
}

func (f *fakeStore) GetWallet(_ context.Context, userId string) ([]models.WalletBalance, error) {
	return f.wallets[userId], nil
}

func (f *fakeStore) PutWallet(_ context.Context, userId string, balances []models.WalletBalance) error {
	f.wallets[userId] = balances
	return nil
}

func (f *fakeStore) AppendTransaction(_ context.Context, tx models.Transaction) error {
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeStore) ListTransactions(_ context.Context, userId string, filter store.TransactionFilter) ([]models.Transaction, error) {
	f.lastFilter = filter
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.UserId == userId {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, userId, transactionId string) (*models.Transaction, error) {
	for _, tx := range f.txs {
		if tx.UserId == userId && tx.Id == transactionId {
			return &tx, nil
		}
	}
	return nil, store.ErrTransactionNotFound
}

func (f *fakeStore) Close() {}

type fakeEngine struct {
	tradeResult *exchange.TradeResult
	tradeErr    error
	balance     *models.WalletBalance
	addErr      error

	gotType   models.TransactionType
	gotCode   string
	gotAmount decimal.Decimal
}

func (f *fakeEngine) ExecuteTrade(_ context.Context, _ string, tradeType models.TransactionType, currencyCode string, amount decimal.Decimal) (*exchange.TradeResult, error) {
	f.gotType, f.gotCode, f.gotAmount = tradeType, currencyCode, amount
	if f.tradeErr != nil {
		return nil, f.tradeErr
	}
	return f.tradeResult, nil
}

func (f *fakeEngine) AddFunds(_ context.Context, _ string, amount decimal.Decimal, currencyCode string) (*models.WalletBalance, error) {
	f.gotCode, f.gotAmount = currencyCode, amount
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.balance, nil
}

type fakeRates struct {
	rate     models.Rate
	rateErr  error
	table    *rates.Table
	tableErr error
	history  []models.Rate
	histErr  error
}

func (f *fakeRates) Detailed(_ context.Context, _ string) (models.Rate, error) {
	if f.rateErr != nil {
		return models.Rate{}, f.rateErr
	}
	return f.rate, nil
}

func (f *fakeRates) CurrentTable(_ context.Context) (*rates.Table, error) {
	if f.tableErr != nil {
		return nil, f.tableErr
	}
	return f.table, nil
}

func (f *fakeRates) Historical(_ context.Context, _ string, _ int) ([]models.Rate, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.history, nil
}

type testEnv struct {
	server *Server
	store  *fakeStore
	engine *fakeEngine
	rates  *fakeRates
	token  string
}

const testUserId = "user1"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(testUserId)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	fs := newFakeStore()
	fs.users[testUserId] = models.User{
		Id:           testUserId,
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: mustHash(t, "password1"),
	}
	fs.wallets[testUserId] = []models.WalletBalance{
		{CurrencyCode: "PLN", CurrencyName: "Polish Zloty", Amount: decimal.NewFromInt(1000), IsBase: true},
		{CurrencyCode: "EUR", CurrencyName: "Euro", Amount: decimal.NewFromInt(100)},
	}

	engine := &fakeEngine{}
	feed := &fakeRates{
		table: &rates.Table{
			Table:         "A",
			No:            "170/A/NBP/2025",
			EffectiveDate: "2025-09-01",
			Rates: []models.Rate{
				{Code: "EUR", Currency: "euro", Mid: decimal.RequireFromString("4.50"), EffectiveDate: "2025-09-01"},
				{Code: "USD", Currency: "dolar amerykański", Mid: decimal.RequireFromString("3.80"), EffectiveDate: "2025-09-01"},
			},
		},
	}

	srv := New(Config{
		HTTP:          models.ServerConfig{Port: 0},
		Store:         fs,
		Engine:        engine,
		Rates:         feed,
		Issuer:        issuer,
		ResetTokenTTL: time.Hour,
	})

	return &testEnv{server: srv, store: fs, engine: engine, rates: feed, token: token}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return hash
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name: "Bob", Email: "Bob@Example.com", Password: "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.AuthResponse](t, rec)
	if resp.Email != "bob@example.com" {
		t.Errorf("Expected lowercased email, got %q", resp.Email)
	}
	if resp.Token == "" {
		t.Error("Expected a token in the response")
	}

	// The new account opens with a zero base balance.
	wallet := env.store.wallets[resp.Id]
	if len(wallet) != 1 || !wallet[0].IsBase || !wallet[0].Amount.IsZero() {
		t.Errorf("Expected a single zero base balance, got %+v", wallet)
	}

	// Stored password is hashed, not plaintext.
	if env.store.users[resp.Id].PasswordHash == "hunter22" {
		t.Error("Password must not be stored in plaintext")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Email: "x@y.z"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name: "Dup", Email: "alice@example.com", Password: "pw",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate email, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "password1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[models.AuthResponse](t, rec)
	if resp.Id != testUserId || resp.Token == "" {
		t.Errorf("Unexpected login response %+v", resp)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "nobody@example.com", Password: "password1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown email, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[models.UserResponse](t, rec)
	if resp.Id != testUserId || resp.Email != "alice@example.com" {
		t.Errorf("Unexpected profile %+v", resp)
	}

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", env.token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", models.ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(env.store.resets) != 1 {
		t.Fatalf("Expected one stored reset token, got %d", len(env.store.resets))
	}

	var token string
	for stored := range env.store.resets {
		token = stored
	}

	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", "", models.ResetPasswordRequest{
		Token: token, NewPassword: "newpass1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if !auth.CheckPasswordHash("newpass1", env.store.users[testUserId].PasswordHash) {
		t.Error("Expected password hash to be updated")
	}
	if len(env.store.resets) != 0 {
		t.Error("Expected reset token to be consumed")
	}

	// Consumed token cannot be replayed.
	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", "", models.ResetPasswordRequest{
		Token: token, NewPassword: "again",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for consumed token, got %d", rec.Code)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", models.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for unknown email, got %d", rec.Code)
	}
	if len(env.store.resets) != 0 {
		t.Error("No token should be stored for an unknown email")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.store.resets["stale"] = models.ResetToken{
		Token:     "stale",
		UserId:    testUserId,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}

	rec := env.do(t, http.MethodPost, "/api/auth/reset-password", "", models.ResetPasswordRequest{
		Token: "stale", NewPassword: "newpass1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for expired token, got %d", rec.Code)
	}
}

func TestCurrentRates(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/rates/current", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[models.RatesTableResponse](t, rec)
	if resp.Table != "A" || len(resp.Rates) != 2 {
		t.Errorf("Unexpected table response %+v", resp)
	}
	if resp.Rates[0].Code != "EUR" || resp.Rates[0].Mid != 4.5 {
		t.Errorf("Unexpected first rate %+v", resp.Rates[0])
	}

	rec = env.do(t, http.MethodGet, "/api/rates/current", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

func TestRateForCurrency(t *testing.T) {
	env := newTestEnv(t)
	bid := decimal.RequireFromString("4.40")
	ask := decimal.RequireFromString("4.60")
	env.rates.rate = models.Rate{
		Code: "EUR", Currency: "euro",
		Mid: decimal.RequireFromString("4.50"), Bid: bid, Ask: ask,
		EffectiveDate: "2025-09-01",
	}

	rec := env.do(t, http.MethodGet, "/api/rates/EUR", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[models.RateResponse](t, rec)
	if resp.Mid != 4.5 || resp.Bid == nil || *resp.Bid != 4.4 || resp.Ask == nil || *resp.Ask != 4.6 {
		t.Errorf("Unexpected rate response %+v", resp)
	}
}

func TestRateForCurrencyNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.rates.rateErr = rates.ErrRateNotFound

	rec := env.do(t, http.MethodGet, "/api/rates/XXX", env.token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHistoricalRates(t *testing.T) {
	env := newTestEnv(t)
	env.rates.history = []models.Rate{
		{Code: "EUR", Mid: decimal.RequireFromString("4.48"), EffectiveDate: "2025-08-29"},
		{Code: "EUR", Mid: decimal.RequireFromString("4.50"), EffectiveDate: "2025-09-01"},
	}

	rec := env.do(t, http.MethodGet, "/api/rates/EUR/historical?lastN=2", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[[]models.RateResponse](t, rec)
	if len(resp) != 2 || resp[0].EffectiveDate != "2025-08-29" {
		t.Errorf("Unexpected historical response %+v", resp)
	}

	rec = env.do(t, http.MethodGet, "/api/rates/EUR/historical?lastN=bogus", env.token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad lastN, got %d", rec.Code)
	}
}

func TestBalances(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/wallet/balances", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	resp := decodeBody[[]models.BalanceResponse](t, rec)
	if len(resp) != 2 {
		t.Fatalf("Expected 2 balances, got %d", len(resp))
	}
	if resp[0].CurrencyCode != "PLN" || resp[0].ValueInPln != 1000 {
		t.Errorf("Base balance values at face amount, got %+v", resp[0])
	}
	if resp[1].CurrencyCode != "EUR" || resp[1].ValueInPln != 450 {
		t.Errorf("Expected EUR valued at mid, got %+v", resp[1])
	}
}

func TestBalancesFeedDown(t *testing.T) {
	env := newTestEnv(t)
	env.rates.tableErr = rates.ErrFeedFailure

	rec := env.do(t, http.MethodGet, "/api/wallet/balances", env.token, nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 when the feed is down, got %d", rec.Code)
	}
}

func TestTotal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/wallet/total", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[models.TotalResponse](t, rec)
	if resp.Total != 1450 {
		t.Errorf("Expected total 1450, got %v", resp.Total)
	}
}

func TestFund(t *testing.T) {
	env := newTestEnv(t)
	env.engine.balance = &models.WalletBalance{
		CurrencyCode: "PLN",
		CurrencyName: "Polish Zloty",
		Amount:       decimal.NewFromInt(1500),
		IsBase:       true,
	}

	rec := env.do(t, http.MethodPost, "/api/wallet/fund", env.token, models.FundRequest{Amount: 500})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.BalanceResponse](t, rec)
	if resp.Amount != 1500 || resp.ValueInPln != 1500 {
		t.Errorf("Unexpected fund response %+v", resp)
	}
	if !env.engine.gotAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected amount 500 passed to engine, got %s", env.engine.gotAmount)
	}
}

func TestFundInvalidAmount(t *testing.T) {
	env := newTestEnv(t)
	env.engine.addErr = exchange.ErrInvalidParameters

	rec := env.do(t, http.MethodPost, "/api/wallet/fund", env.token, models.FundRequest{Amount: -5})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestTrade(t *testing.T) {
	env := newTestEnv(t)
	env.engine.tradeResult = &exchange.TradeResult{
		Transaction: models.Transaction{
			Id:           "tx1",
			UserId:       testUserId,
			Type:         models.TransactionBuy,
			FromCurrency: "PLN",
			ToCurrency:   "EUR",
			FromAmount:   decimal.RequireFromString("459"),
			ToAmount:     decimal.NewFromInt(100),
			RateUsed:     decimal.RequireFromString("4.59"),
			RateDate:     "2025-09-01",
			CreatedAt:    time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		NewBalance: models.WalletBalance{CurrencyCode: "EUR", CurrencyName: "Euro", Amount: decimal.NewFromInt(100)},
		ValueInPln: decimal.NewFromInt(450),
	}

	rec := env.do(t, http.MethodPost, "/api/transactions/trade", env.token, models.TradeRequest{
		Type: "buy", CurrencyCode: "EUR", Amount: 100,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.TradeResponse](t, rec)
	if resp.Transaction.Id != "tx1" || resp.Transaction.RateUsed != 4.59 {
		t.Errorf("Unexpected transaction %+v", resp.Transaction)
	}
	if resp.Transaction.CreatedAt != "2025-09-01T12:00:00Z" {
		t.Errorf("Unexpected createdAt %q", resp.Transaction.CreatedAt)
	}
	if resp.NewBalance.CurrencyCode != "EUR" || resp.NewBalance.ValueInPln != 450 {
		t.Errorf("Unexpected new balance %+v", resp.NewBalance)
	}
	if env.engine.gotType != models.TransactionBuy || env.engine.gotCode != "EUR" {
		t.Errorf("Engine got type=%s code=%s", env.engine.gotType, env.engine.gotCode)
	}
}

func TestTradeErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid parameters", exchange.ErrInvalidParameters, http.StatusBadRequest},
		{"insufficient funds", exchange.ErrInsufficientFunds, http.StatusBadRequest},
		{"rate unavailable", exchange.ErrRateUnavailable, http.StatusBadGateway},
		{"ledger append failed", exchange.ErrLedgerAppend, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.engine.tradeErr = tt.err

			rec := env.do(t, http.MethodPost, "/api/transactions/trade", env.token, models.TradeRequest{
				Type: "buy", CurrencyCode: "EUR", Amount: 100,
			})
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)
	env.store.txs = []models.Transaction{
		{Id: "tx1", UserId: testUserId, Type: models.TransactionBuy, FromCurrency: "PLN", ToCurrency: "EUR",
			FromAmount: decimal.RequireFromString("459"), ToAmount: decimal.NewFromInt(100),
			RateUsed: decimal.RequireFromString("4.59"), RateDate: "2025-09-01",
			CreatedAt: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)},
		{Id: "other", UserId: "user2", Type: models.TransactionDeposit},
	}

	rec := env.do(t, http.MethodGet, "/api/transactions/history?type=buy&currency=eur&limit=5&offset=2", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	resp := decodeBody[[]models.TransactionResponse](t, rec)
	if len(resp) != 1 || resp[0].Id != "tx1" {
		t.Errorf("Unexpected history %+v", resp)
	}

	filter := env.store.lastFilter
	if filter.Type != models.TransactionBuy || filter.Currency != "EUR" || filter.Limit != 5 || filter.Offset != 2 {
		t.Errorf("Unexpected filter %+v", filter)
	}
}

func TestHistoryBadPaging(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/transactions/history?limit=zero", env.token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/transactions/history?offset=-1", env.token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative offset, got %d", rec.Code)
	}
}

func TestTransactionById(t *testing.T) {
	env := newTestEnv(t)
	env.store.txs = []models.Transaction{
		{Id: "tx1", UserId: testUserId, Type: models.TransactionDeposit, FromCurrency: "PLN", ToCurrency: "PLN",
			FromAmount: decimal.NewFromInt(500), ToAmount: decimal.NewFromInt(500),
			RateUsed: decimal.NewFromInt(1), RateDate: "2025-09-01",
			CreatedAt: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)},
	}

	rec := env.do(t, http.MethodGet, "/api/transactions/tx1", env.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeBody[models.TransactionResponse](t, rec)
	if resp.Id != "tx1" || resp.Type != "deposit" {
		t.Errorf("Unexpected transaction %+v", resp)
	}

	rec = env.do(t, http.MethodGet, "/api/transactions/missing", env.token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
