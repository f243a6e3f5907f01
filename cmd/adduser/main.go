package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"
	"time"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/common"
	"currency-exchange-go/internal/config"
	"currency-exchange-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Email address for the new user (required)")
	nameFlag := flag.String("name", "", "Display name for the new user (required)")
	passwordFlag := flag.String("password", "", "Password for the new user (required)")
	flag.Parse()

	email := strings.ToLower(strings.TrimSpace(*emailFlag))
	name := strings.TrimSpace(*nameFlag)

	if err := validateEmail(email); err != nil {
		logger.Fatal("Invalid email", zap.Error(err))
	}
	if err := validateName(name); err != nil {
		logger.Fatal("Invalid name", zap.Error(err))
	}
	if err := validatePassword(*passwordFlag); err != nil {
		logger.Fatal("Invalid password", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	passwordHash, err := auth.HashPassword(*passwordFlag)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	user := models.User{
		Id:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := dbService.CreateUser(ctx, user); err != nil {
		logger.Fatal("Failed to create user", zap.Error(err))
	}

	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:    %s\n", user.Id)
	fmt.Printf("Name:  %s\n", user.Name)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Base:  %s (%s), opening balance 0\n", models.BaseCurrencyCode, models.BaseCurrencyName)
	common.PrintSeparator("=", common.DefaultWidth)
}
