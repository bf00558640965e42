package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/coverscan/internal/bridge"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
)

// Config is the coverscan configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Markers  MarkersConfig  `mapstructure:"markers" yaml:"markers"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Tracking TrackingConfig `mapstructure:"tracking" yaml:"tracking"`
	Sessions SessionsConfig `mapstructure:"sessions" yaml:"sessions"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
}

type MarkersConfig struct {
	// Source is a local path or an http(s) URL to the marker mapping
	Source string `mapstructure:"source" yaml:"source"`
}

type CatalogConfig struct {
	// Providers in lookup order: openlibrary, googlebooks, snapshot
	Providers      []string      `mapstructure:"providers" yaml:"providers"`
	OpenLibraryURL string        `mapstructure:"openlibrary_url" yaml:"openlibrary_url"`
	GoogleAPIKey   string        `mapstructure:"google_api_key" yaml:"google_api_key"`
	SnapshotPath   string        `mapstructure:"snapshot_path" yaml:"snapshot_path"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RetryAttempts  uint          `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

type TrackingConfig struct {
	// LostPolicy is "keep" (card stays visible) or "hide"
	LostPolicy string `mapstructure:"lost_policy" yaml:"lost_policy"`
}

type SessionsConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8888"},
		Markers: MarkersConfig{Source: "web/static/markers.json"},
		Catalog: CatalogConfig{
			Providers:      []string{"openlibrary"},
			OpenLibraryURL: catalog.DefaultOpenLibraryURL,
			RetryAttempts:  1,
			RetryDelay:     500 * time.Millisecond,
		},
		Tracking: TrackingConfig{LostPolicy: string(bridge.KeepCard)},
		Sessions: SessionsConfig{TTL: 30 * time.Minute},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config.
// An empty cfgFile searches ./coverscan.yaml and $HOME/.coverscan/coverscan.yaml.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("markers.source", defaults.Markers.Source)
	v.SetDefault("catalog.providers", defaults.Catalog.Providers)
	v.SetDefault("catalog.openlibrary_url", defaults.Catalog.OpenLibraryURL)
	v.SetDefault("catalog.google_api_key", "")
	v.SetDefault("catalog.snapshot_path", "")
	v.SetDefault("catalog.timeout", defaults.Catalog.Timeout)
	v.SetDefault("catalog.retry_attempts", defaults.Catalog.RetryAttempts)
	v.SetDefault("catalog.retry_delay", defaults.Catalog.RetryDelay)
	v.SetDefault("tracking.lost_policy", defaults.Tracking.LostPolicy)
	v.SetDefault("sessions.ttl", defaults.Sessions.TTL)

	// Environment variables with COVERSCAN_ prefix, e.g. COVERSCAN_CATALOG_GOOGLE_API_KEY
	v.SetEnvPrefix("COVERSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("coverscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.coverscan")
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of the config file, if one was read.
func (cm *Manager) WatchConfig() {
	if cm.v.ConfigFileUsed() == "" {
		return
	}

	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			slog.Error("Failed to reload config", "file", e.Name, "err", err)
			return
		}
		slog.Info("Config reloaded", "file", e.Name, "op", e.Op.String())

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# coverscan configuration
# Every key can be overridden with a COVERSCAN_ environment variable,
# e.g. COVERSCAN_CATALOG_GOOGLE_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// BuildProvider assembles the catalog chain described by the config
func (c *Config) BuildProvider(ctx context.Context, opts ...option.ClientOption) (catalog.Provider, error) {
	client := catalog.NewHTTPClient(c.Catalog.Timeout)

	providers := make([]catalog.Provider, 0, len(c.Catalog.Providers))
	for _, name := range c.Catalog.Providers {
		var p catalog.Provider
		switch name {
		case "openlibrary":
			p = catalog.NewOpenLibrary(c.Catalog.OpenLibraryURL, client)
		case "googlebooks":
			gb, err := catalog.NewGoogleBooks(ctx, c.Catalog.GoogleAPIKey, client, opts...)
			if err != nil {
				return nil, err
			}
			p = gb
		case "snapshot":
			if c.Catalog.SnapshotPath == "" {
				return nil, fmt.Errorf("catalog.snapshot_path is required for the snapshot provider")
			}
			snapshot, err := catalog.OpenSnapshot(c.Catalog.SnapshotPath)
			if err != nil {
				return nil, err
			}
			p = snapshot
		default:
			return nil, fmt.Errorf("unsupported catalog provider: %s", name)
		}
		providers = append(providers, catalog.WithRetry(p, c.Catalog.RetryAttempts, c.Catalog.RetryDelay))
	}

	switch len(providers) {
	case 0:
		return nil, fmt.Errorf("no catalog providers configured")
	case 1:
		return providers[0], nil
	default:
		return catalog.NewChain(providers...), nil
	}
}

// LostPolicy returns the configured policy
func (c *Config) LostPolicy() bridge.LostPolicy {
	return bridge.ParseLostPolicy(c.Tracking.LostPolicy)
}
