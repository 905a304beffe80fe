package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings are the non-secret application options.
type Settings struct {
	TargetCurrency string `mapstructure:"target_currency"`
	CachePath      string `mapstructure:"cache_path"`
	RatesURL       string `mapstructure:"rates_url"`
}

// LoadSettings reads the settings file at path. Absent keys fall back
// to defaults; an absent file is an error so typos in --config surface
// early.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("target_currency", "USD")
	v.SetDefault("cache_path", "proceeds-cache.db")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// DefaultSettings is what runs when no settings file is given.
func DefaultSettings() *Settings {
	return &Settings{
		TargetCurrency: "USD",
		CachePath:      "proceeds-cache.db",
	}
}
