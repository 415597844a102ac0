// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/pkg/security"
)

// Source describes one Jackett indexer endpoint.
type Source struct {
	Name     string            `mapstructure:"name"`
	URL      string            `mapstructure:"url"`
	APIKey   string            `mapstructure:"apiKey"`
	Trackers []string          `mapstructure:"trackers"`
	Cookie   string            `mapstructure:"cookie"`
	Headers  map[string]string `mapstructure:"headers"`
}

// Config holds the application configuration.
// It is loaded from an optional config file, then GSJ_* environment variables.
type Config struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	LogLevel     string `mapstructure:"logLevel"`
	LogPath      string `mapstructure:"logPath"`
	DatabasePath string `mapstructure:"databasePath"`

	// TLSLocalIP serves HTTPS with the local-ip.sh certificate.
	TLSLocalIP  bool   `mapstructure:"tlsLocalIP"`
	TLSCacheDir string `mapstructure:"tlsCacheDir"`

	CacheSize int           `mapstructure:"cacheSize"`
	CacheTTL  time.Duration `mapstructure:"cacheTTL"`

	RedirectTimeout    time.Duration `mapstructure:"redirectTimeout"`
	EngineTimeout      time.Duration `mapstructure:"engineTimeout"`
	SearchTimeout      time.Duration `mapstructure:"searchTimeout"`
	MaxRedirects       int           `mapstructure:"maxRedirects"`
	ResolveAttempts    int           `mapstructure:"resolveAttempts"`
	ResolveConcurrency int           `mapstructure:"resolveConcurrency"`
	MinPeers           int           `mapstructure:"minPeers"`
	EngineEnabled      bool          `mapstructure:"engineEnabled"`
	EngineConnections  int           `mapstructure:"engineConnections"`

	Categories []int    `mapstructure:"categories"`
	Sources    []Source `mapstructure:"sources"`
}

// Load reads configuration from configFile (ignored when it does not exist)
// and environment variables. Environment variables take precedence over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, apperrors.NewConfigurationError("failed to read config file "+configFile, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, apperrors.NewConfigurationError("failed to stat config file "+configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigurationError("failed to decode config", err)
	}

	cfg.addEnvSource(v)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", constants.DefaultHost)
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("logLevel", constants.DefaultLogLevel)
	v.SetDefault("logPath", "")
	v.SetDefault("databasePath", "")
	v.SetDefault("tlsLocalIP", false)
	v.SetDefault("tlsCacheDir", "")
	v.SetDefault("cacheSize", constants.DefaultCacheSize)
	v.SetDefault("cacheTTL", time.Duration(constants.DefaultCacheTTL)*time.Hour)
	v.SetDefault("redirectTimeout", constants.RedirectTimeout)
	v.SetDefault("engineTimeout", constants.EngineTimeout)
	v.SetDefault("searchTimeout", constants.SearchTimeout)
	v.SetDefault("maxRedirects", constants.MaxRedirectHops)
	v.SetDefault("resolveAttempts", constants.MaxResolveAttempts)
	v.SetDefault("resolveConcurrency", constants.ResolveConcurrency)
	v.SetDefault("minPeers", constants.MinPeers)
	v.SetDefault("engineEnabled", true)
	v.SetDefault("engineConnections", constants.EngineConnections)
	v.SetDefault("categories", constants.DefaultCategories)
	v.SetDefault("jackett.url", "")
	v.SetDefault("jackett.apiKey", "")
	v.SetDefault("jackett.trackers", "")
}

// addEnvSource appends a single source from GSJ_JACKETT_URL / GSJ_JACKETT_APIKEY
// / GSJ_JACKETT_TRACKERS so env-only deployments need no config file.
func (c *Config) addEnvSource(v *viper.Viper) {
	url := v.GetString("jackett.url")
	if url == "" {
		return
	}

	var trackers []string
	for _, tr := range strings.Split(v.GetString("jackett.trackers"), ",") {
		if tr = strings.TrimSpace(tr); tr != "" {
			trackers = append(trackers, tr)
		}
	}

	c.Sources = append(c.Sources, Source{
		Name:     "jackett",
		URL:      url,
		APIKey:   v.GetString("jackett.apiKey"),
		Trackers: trackers,
	})
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return apperrors.NewConfigurationError("at least one source is required", nil)
	}

	validator := security.NewAPIKeyValidator()
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		src.URL = strings.TrimRight(strings.TrimSpace(src.URL), "/")
		src.APIKey = validator.SanitizeAPIKey(src.APIKey)

		if src.Name == "" {
			src.Name = fmt.Sprintf("host%d", i+1)
		}
		if src.URL == "" {
			return apperrors.NewConfigurationError(fmt.Sprintf("source %s has no url", src.Name), nil)
		}
		if seen[src.Name] {
			return apperrors.NewConfigurationError(fmt.Sprintf("duplicate source name %s", src.Name), nil)
		}
		seen[src.Name] = true
	}

	if len(c.Categories) == 0 {
		c.Categories = constants.DefaultCategories
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = constants.MaxRedirectHops
	}
	if c.ResolveAttempts <= 0 {
		c.ResolveAttempts = constants.MaxResolveAttempts
	}
	if c.ResolveConcurrency <= 0 {
		c.ResolveConcurrency = constants.ResolveConcurrency
	}
	if c.EngineConnections <= 0 {
		c.EngineConnections = constants.EngineConnections
	}
	if c.MinPeers < 0 {
		c.MinPeers = 0
	}
	if c.RedirectTimeout <= 0 {
		c.RedirectTimeout = constants.RedirectTimeout
	}
	if c.EngineTimeout <= 0 {
		c.EngineTimeout = constants.EngineTimeout
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = constants.SearchTimeout
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Duration(constants.DefaultCacheTTL) * time.Hour
	}

	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
