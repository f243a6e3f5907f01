package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"currency-exchange-go/internal/models"

	"github.com/shopspring/decimal"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	idleTimeout, err := getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getEnvDuration("AUTH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	resetTokenTTL, err := getEnvDuration("AUTH_RESET_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := getEnvDuration("RATES_FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	spread, err := getEnvDecimal("EXCHANGE_SPREAD", decimal.NewFromFloat(0.02))
	if err != nil {
		return nil, err
	}
	if spread.IsNegative() || spread.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("EXCHANGE_SPREAD must be in [0, 1), got %s", spread)
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("missing required AUTH_JWT_SECRET")
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "currency-exchange.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Server: models.ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 3001),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		Auth: models.AuthConfig{
			JWTSecret:     jwtSecret,
			TokenTTL:      tokenTTL,
			ResetTokenTTL: resetTokenTTL,
		},
		Rates: models.RatesConfig{
			BaseURL:      getEnvString("RATES_BASE_URL", "https://api.nbp.pl/api/exchangerates"),
			FetchTimeout: fetchTimeout,
		},
		Exchange: models.ExchangeConfig{
			Spread:         spread,
			CurrenciesFile: getEnvString("CURRENCIES_FILE", "currencies.yaml"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if value := os.Getenv(key); value != "" {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid decimal for %s: %q (%w)", key, value, err)
		}
		return d, nil
	}
	return defaultValue, nil
}
