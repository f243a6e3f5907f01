package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/exchange"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/rates"
	"currency-exchange-go/internal/store"
)

// tradeEngine is the slice of the exchange service the handlers use.
type tradeEngine interface {
	ExecuteTrade(ctx context.Context, userId string, tradeType models.TransactionType, currencyCode string, amount decimal.Decimal) (*exchange.TradeResult, error)
	AddFunds(ctx context.Context, userId string, amount decimal.Decimal, currencyCode string) (*models.WalletBalance, error)
}

// rateSource is the slice of the rate client the handlers use.
type rateSource interface {
	Detailed(ctx context.Context, code string) (models.Rate, error)
	CurrentTable(ctx context.Context) (*rates.Table, error)
	Historical(ctx context.Context, code string, lastN int) ([]models.Rate, error)
}

var (
	_ tradeEngine = (*exchange.Service)(nil)
	_ rateSource  = (*rates.Client)(nil)
)

// Config wires the server's dependencies.
type Config struct {
	HTTP          models.ServerConfig
	Store         store.Store
	Engine        tradeEngine
	Rates         rateSource
	Issuer        *auth.TokenIssuer
	ResetTokenTTL time.Duration
}

// Server is the HTTP front of the exchange.
type Server struct {
	router        *chi.Mux
	server        *http.Server
	store         store.Store
	engine        tradeEngine
	rates         rateSource
	issuer        *auth.TokenIssuer
	resetTokenTTL time.Duration
}

// New creates the HTTP server with all routes mounted.
func New(cfg Config) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		store:         cfg.Store,
		engine:        cfg.Engine,
		rates:         cfg.Rates,
		issuer:        cfg.Issuer,
		resetTokenTTL: cfg.ResetTokenTTL,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(s.issuer))
				r.Post("/logout", s.handleLogout)
				r.Get("/me", s.handleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.issuer))

			r.Route("/rates", func(r chi.Router) {
				r.Get("/current", s.handleCurrentRates)
				r.Get("/{code}", s.handleRateForCurrency)
				r.Get("/{code}/historical", s.handleHistoricalRates)
			})

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/balances", s.handleBalances)
				r.Get("/total", s.handleTotal)
				r.Post("/fund", s.handleFund)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/trade", s.handleTrade)
				r.Get("/history", s.handleHistory)
				r.Get("/{id}", s.handleTransaction)
			})
		})
	})
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	zap.L().Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	zap.L().Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
