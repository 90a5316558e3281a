package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for VitalPulse
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	SOS       SOSConfig       `mapstructure:"sos"`
	Security  SecurityConfig  `mapstructure:"security"`
	User      UserConfig      `mapstructure:"user"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// AIConfig holds generative-AI backend settings
type AIConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	APIKey    string  `mapstructure:"api_key"`
	Model     string  `mapstructure:"model"`
	Timeout   int     `mapstructure:"timeout"`
	RPM       int     `mapstructure:"rpm"`
	MaxTokens int     `mapstructure:"max_tokens"`
	Temp      float64 `mapstructure:"temperature"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path"`
}

// RemindersConfig holds medication reminder scheduler settings
type RemindersConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
}

// SOSConfig holds emergency dispatch settings
type SOSConfig struct {
	MapLinkBase   string `mapstructure:"map_link_base"`
	ShareLinkBase string `mapstructure:"share_link_base"`
}

// SecurityConfig holds security settings
type SecurityConfig struct {
	JWTSecret    string   `mapstructure:"jwt_secret"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// UserConfig holds the single-user profile settings
type UserConfig struct {
	DisplayName string `mapstructure:"display_name"`
}

// Load loads configuration from file, env, and defaults
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if dataDir == "" {
		dataDir = getDefaultDataDir()
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	v.Set("storage.data_dir", dataDir)
	v.Set("storage.sqlite_path", filepath.Join(dataDir, "vitalpulse.db"))
	v.Set("storage.badger_path", filepath.Join(dataDir, "badger"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "vitalpulse.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables (VITALPULSE_SERVER_PORT, VITALPULSE_AI_API_KEY, etc.)
	v.SetEnvPrefix("VITALPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	// AI backend defaults
	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60)
	v.SetDefault("ai.rpm", 60)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.temperature", 0.4)

	// Reminder defaults. The check interval must stay at or below a minute
	// so a scheduled HH:MM is never skipped over between ticks.
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.interval_seconds", 15)

	// SOS defaults
	v.SetDefault("sos.map_link_base", "https://www.google.com/maps?q=")
	v.SetDefault("sos.share_link_base", "https://wa.me/?text=")

	// Security defaults
	v.SetDefault("security.allow_origins", []string{"*"})

	// User defaults
	v.SetDefault("user.display_name", "John Doe")
}

func getDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "vitalpulse")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(home, ".local", "share", "vitalpulse")
}

// loadEnvOverrides loads specific env vars that Viper doesn't handle well
func loadEnvOverrides(cfg *Config) {
	getEnv := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fallback
	}

	cfg.AI.APIKey = getEnv("VITALPULSE_AI_API_KEY", cfg.AI.APIKey)
	cfg.AI.BaseURL = getEnv("VITALPULSE_AI_BASE_URL", cfg.AI.BaseURL)
	cfg.AI.Model = getEnv("VITALPULSE_AI_MODEL", cfg.AI.Model)

	cfg.Server.Address = getEnv("VITALPULSE_SERVER_ADDRESS", cfg.Server.Address)
	if port := os.Getenv("VITALPULSE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	cfg.Storage.DataDir = getEnv("VITALPULSE_STORAGE_DATA_DIR", cfg.Storage.DataDir)
	cfg.Security.JWTSecret = getEnv("VITALPULSE_SECURITY_JWT_SECRET", cfg.Security.JWTSecret)
	cfg.User.DisplayName = getEnv("VITALPULSE_USER_DISPLAY_NAME", cfg.User.DisplayName)
}

func validate(cfg *Config) error {
	if cfg.Reminders.IntervalSeconds <= 0 || cfg.Reminders.IntervalSeconds > 60 {
		return fmt.Errorf("reminders.interval_seconds must be between 1 and 60")
	}

	if cfg.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required")
	}

	// Generate JWT secret if not provided
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = generateRandomString(32)
	}

	return nil
}

func generateRandomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	return hex.EncodeToString(b)
}
