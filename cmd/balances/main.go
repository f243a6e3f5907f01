package main

import (
	"context"
	"flag"
	"fmt"

	"currency-exchange-go/internal/common"
	"currency-exchange-go/internal/config"
	"currency-exchange-go/internal/database"
	"currency-exchange-go/internal/models"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalUsers        int
	totalBalances     int
	usersWithBalances int
}

func printBalance(balance models.WalletBalance, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	marker := ""
	if balance.IsBase {
		marker = " (base)"
	}

	fmt.Printf("%s %-4s %-22s: %20s%s\n",
		symbol,
		balance.CurrencyCode,
		balance.CurrencyName,
		balance.Amount.StringFixed(2),
		marker)
}

func printWallet(wallet []models.WalletBalance) {
	for i, balance := range wallet {
		printBalance(balance, i == len(wallet)-1)
	}
}

func printUserHeader(user models.User, balanceCount int) {
	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Currencies: %d\n", balanceCount)
	common.PrintBoxSeparator(78)
}

func resolveUsers(ctx context.Context, dbService *database.Service, email string) ([]models.User, error) {
	if email == "" {
		return dbService.ListUsers(ctx)
	}
	user, err := dbService.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return []models.User{*user}, nil
}

func generateReport(ctx context.Context, users []models.User, dbService *database.Service, logger *zap.Logger) balanceStats {
	stats := balanceStats{}

	for _, user := range users {
		stats.totalUsers++

		wallet, err := dbService.GetWallet(ctx, user.Id)
		if err != nil {
			logger.Error("Failed to read wallet",
				zap.String("user_id", user.Id),
				zap.Error(err))
			continue
		}
		if len(wallet) == 0 {
			continue
		}

		printUserHeader(user, len(wallet))
		printWallet(wallet)

		stats.usersWithBalances++
		stats.totalBalances += len(wallet)
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	users, err := resolveUsers(ctx, dbService, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to resolve users", zap.Error(err))
	}

	common.PrintHeader("WALLET BALANCE REPORT", common.DefaultWidth)

	stats := generateReport(ctx, users, dbService, logger)

	summary := fmt.Sprintf("SUMMARY: %d users with balances (%d positions across %d users queried)",
		stats.usersWithBalances, stats.totalBalances, stats.totalUsers)
	common.PrintFooter(summary, common.DefaultWidth)
}
