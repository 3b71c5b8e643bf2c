package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Geo     GeoConfig     `mapstructure:"geo"`
	Health  HealthConfig  `mapstructure:"health"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// CatalogConfig holds TMDB configuration. BearerToken is preferred over
// APIKey when both are set.
type CatalogConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BearerToken  string `mapstructure:"bearer_token"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	PosterSize   string `mapstructure:"poster_size"`
	BackdropSize string `mapstructure:"backdrop_size"`
	LogoSize     string `mapstructure:"logo_size"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// GeoConfig holds IP geolocation configuration.
type GeoConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// HealthConfig holds upstream health check configuration.
type HealthConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Catalog: CatalogConfig{
			APIKey:       EmbeddedTMDBKey,
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PosterSize:   "w500",
			BackdropSize: "w780",
			LogoSize:     "w500",
			Timeout:      10,
		},
		Geo: GeoConfig{
			Enabled: true,
			BaseURL: "https://ipapi.co",
			Timeout: 3,
		},
		Health: HealthConfig{
			CheckInterval: 15 * time.Minute,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.wherewatch")
	}

	v.SetEnvPrefix("WHEREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The unprefixed names are what TMDB's own docs tell people to export.
	_ = v.BindEnv("catalog.api_key", "WHEREWATCH_CATALOG_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("catalog.bearer_token", "WHEREWATCH_CATALOG_BEARER_TOKEN", "TMDB_BEARER_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("catalog.api_key", d.Catalog.APIKey)
	v.SetDefault("catalog.bearer_token", "")
	v.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	v.SetDefault("catalog.image_base_url", d.Catalog.ImageBaseURL)
	v.SetDefault("catalog.poster_size", d.Catalog.PosterSize)
	v.SetDefault("catalog.backdrop_size", d.Catalog.BackdropSize)
	v.SetDefault("catalog.logo_size", d.Catalog.LogoSize)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)

	v.SetDefault("geo.enabled", d.Geo.Enabled)
	v.SetDefault("geo.base_url", d.Geo.BaseURL)
	v.SetDefault("geo.timeout", d.Geo.Timeout)

	v.SetDefault("health.check_interval", d.Health.CheckInterval)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
