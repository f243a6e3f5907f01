package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type CurrencyConfig struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type CurrenciesConfig struct {
	Currencies []CurrencyConfig `yaml:"currencies"`
}

// CurrencyRegistry maps ISO currency codes to display names.
type CurrencyRegistry struct {
	names map[string]string
}

// LoadCurrencyRegistry reads the currency registry from a yaml file.
func LoadCurrencyRegistry(currenciesFile string) (*CurrencyRegistry, error) {
	var currenciesPath string
	if filepath.IsAbs(currenciesFile) {
		currenciesPath = currenciesFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		currenciesPath = filepath.Join(wd, currenciesFile)
	}

	data, err := os.ReadFile(currenciesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", currenciesFile, err)
	}

	var config CurrenciesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", currenciesFile, err)
	}

	names := make(map[string]string, len(config.Currencies))
	for i, currency := range config.Currencies {
		if currency.Code == "" {
			return nil, fmt.Errorf("currency at index %d missing code", i)
		}
		if currency.Name == "" {
			return nil, fmt.Errorf("currency at index %d missing name", i)
		}
		names[currency.Code] = currency.Name
	}

	return &CurrencyRegistry{names: names}, nil
}

// NewCurrencyRegistry builds a registry from an in-memory map. Used in tests
// and as a fallback when no registry file is configured.
func NewCurrencyRegistry(names map[string]string) *CurrencyRegistry {
	if names == nil {
		names = map[string]string{}
	}
	return &CurrencyRegistry{names: names}
}

// Name returns the display name for a currency code, falling back to the
// code itself for unknown currencies.
func (r *CurrencyRegistry) Name(code string) string {
	if name, ok := r.names[code]; ok {
		return name
	}
	return code
}
