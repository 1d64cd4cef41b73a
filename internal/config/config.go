package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API APIConfig `mapstructure:"api"`
	UI  UIConfig  `mapstructure:"ui"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PackagesPath      string        `mapstructure:"packages_path"`
	AnnouncementsPath string        `mapstructure:"announcements_path"`
	TrackingPath      string        `mapstructure:"tracking_path"`
	ProfilePath       string        `mapstructure:"profile_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ItemsPerPage    int           `mapstructure:"items_per_page"`
	NotificationTTL time.Duration `mapstructure:"notification_ttl"`
	SortBy          string        `mapstructure:"sort_by"`
	LogFile         string        `mapstructure:"log_file"`
}

// EnvFile is the dotenv file loaded before the environment is read. It is
// optional.
var EnvFile = ".env"

// Load reads configuration from file and env. Env var overrides use prefix PAPYRUS_.
func Load() (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.packages_path", "/api/packages/")
	v.SetDefault("api.announcements_path", "/api/announcements/")
	v.SetDefault("api.tracking_path", "/api/tracking/")
	v.SetDefault("api.profile_path", "/api/profile/")
	v.SetDefault("ui.items_per_page", 10)
	v.SetDefault("ui.notification_ttl", 5*time.Second)
	v.SetDefault("ui.sort_by", "")
	v.SetDefault("ui.log_file", "")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("PAPYRUS_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "papyrus"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PAPYRUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	return c, nil
}

// Path is where Save writes the config file.
func Path() string {
	if p := os.Getenv("PAPYRUS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "papyrus", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.packages_path", cfg.API.PackagesPath)
	v.Set("api.announcements_path", cfg.API.AnnouncementsPath)
	v.Set("api.tracking_path", cfg.API.TrackingPath)
	v.Set("api.profile_path", cfg.API.ProfilePath)
	v.Set("ui.items_per_page", cfg.UI.ItemsPerPage)
	v.Set("ui.notification_ttl", cfg.UI.NotificationTTL.String())
	v.Set("ui.sort_by", cfg.UI.SortBy)
	v.Set("ui.log_file", cfg.UI.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
