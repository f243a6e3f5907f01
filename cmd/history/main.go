package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"currency-exchange-go/internal/common"
	"currency-exchange-go/internal/config"
	"currency-exchange-go/internal/models"
	"currency-exchange-go/internal/store"

	"go.uber.org/zap"
)

func printTransaction(tx models.Transaction, isLast bool) {
	symbol := common.BoxPrefix(isLast)

	fmt.Printf("%s %s  %-7s  %10s %s -> %10s %s  @ %s (%s)\n",
		symbol,
		tx.CreatedAt.Format("2006-01-02 15:04:05"),
		tx.Type,
		tx.FromAmount.StringFixed(2),
		tx.FromCurrency,
		tx.ToAmount.StringFixed(2),
		tx.ToCurrency,
		tx.RateUsed.String(),
		tx.Id[:8])
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "User email to report on (required)")
	typeFlag := flag.String("type", "", "Filter by transaction type: deposit, buy or sell (optional)")
	currencyFlag := flag.String("currency", "", "Filter by currency code (optional)")
	limitFlag := flag.Int("limit", 0, "Maximum entries to print (optional)")
	flag.Parse()

	if *emailFlag == "" {
		logger.Fatal("Missing required -email flag")
	}

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

	user, err := dbService.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(*emailFlag)))
	if err != nil {
		logger.Fatal("Failed to find user", zap.String("email", *emailFlag), zap.Error(err))
	}

	filter := store.TransactionFilter{
		Type:     models.TransactionType(*typeFlag),
		Currency: strings.ToUpper(strings.TrimSpace(*currencyFlag)),
		Limit:    *limitFlag,
	}

	transactions, err := dbService.ListTransactions(ctx, user.Id, filter)
	if err != nil {
		logger.Fatal("Failed to list transactions", zap.Error(err))
	}

	common.PrintHeader("TRANSACTION HISTORY", common.DefaultWidth)

	fmt.Printf("\n┌─ User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("│  ID: %s\n", user.Id)
	fmt.Printf("│  Entries: %d\n", len(transactions))
	common.PrintBoxSeparator(78)

	for i, tx := range transactions {
		printTransaction(tx, i == len(transactions)-1)
	}

	summary := fmt.Sprintf("SUMMARY: %d transactions for %s", len(transactions), user.Email)
	common.PrintFooter(summary, common.DefaultWidth)
}
