package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL            string        `mapstructure:"api_base_url"`
	EndpointsFile         string        `mapstructure:"endpoints_file"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-projects-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("endpoints_file", "")
	v.SetDefault("request_timeout_seconds", 0) // 0 = no client-side timeout
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	cfg.EndpointsFile = strings.TrimSpace(cfg.EndpointsFile)
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))

	if cfg.APIBaseURL == "" && cfg.EndpointsFile == "" {
		return fmt.Errorf("either api_base_url or endpoints_file must be set")
	}

	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return nil
}
