// Package config loads the application configuration from Viper and
// environment variables and validates it before anything touches the
// spreadsheet.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/sheetstore"
)

// Config is the full application configuration.
type Config struct {
	LogLevel      string
	LogFormat     string
	SessionDBPath string
	SessionMaxAge time.Duration
	Sheets        sheetstore.Config
	SheetNames    map[string]string // table key -> deployment sheet name
}

// Load assembles the configuration with this precedence:
// 1. Viper configuration (config file or LEDGERLINE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Defaults
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:      "info",
		LogFormat:     "console",
		SessionMaxAge: 24 * time.Hour,
		Sheets:        sheetstore.DefaultConfig(),
	}

	if v := viper.GetString("log.level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("log.format"); v != "" {
		cfg.LogFormat = v
	}
	if v := viper.GetString("session.db_path"); v != "" {
		cfg.SessionDBPath = expandPath(v)
	}
	if v := viper.GetDuration("session.max_age"); v > 0 {
		cfg.SessionMaxAge = v
	}

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.Sheets.ServiceAccountPath = expandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.Sheets.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.Sheets.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.Sheets.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := viper.GetInt64("sheets.max_concurrent"); v > 0 {
		cfg.Sheets.MaxConcurrent = v
	}
	if v := viper.GetStringMapString("sheets.names"); len(v) > 0 {
		cfg.SheetNames = v
	}

	// Direct environment variables fill whatever is still unset.
	if cfg.Sheets.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			cfg.Sheets.ServiceAccountPath = expandPath(v)
		}
	}
	if cfg.Sheets.ClientID == "" {
		cfg.Sheets.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.Sheets.ClientSecret == "" {
		cfg.Sheets.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if cfg.Sheets.RefreshToken == "" {
		cfg.Sheets.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		cfg.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}

	if cfg.SessionDBPath == "" {
		cfg.SessionDBPath = defaultSessionPath()
	}

	if err := cfg.Sheets.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ledgerline.db"
	}
	return home + "/.local/share/ledgerline/sessions.db"
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
