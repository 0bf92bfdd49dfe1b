// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (<user config dir>/agentstore/config.yaml, or ./config.yaml)
//  3. Default values (sensible defaults for local development)
//
// Main configuration categories:
//   - Storage: cloud account/container identifiers, local root, TTL and the
//     force-cloud override consumed by the storage manager
//   - Agents: the directory manifests are discovered from
//   - Logging: minimum level
//
// Error Handling:
//   - Sentinel errors for Go-idiomatic checking with errors.Is()
//   - Wrapped with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidStorageAccount indicates the cloud storage account name is invalid.
	ErrInvalidStorageAccount = errors.New("invalid storage account name")

	// ErrInvalidStorageContainer indicates the cloud storage container name is invalid.
	ErrInvalidStorageContainer = errors.New("invalid storage container name")

	// ErrInvalidStorageTTL indicates the storage handle TTL is out of range.
	ErrInvalidStorageTTL = errors.New("invalid storage TTL")

	// ErrInvalidLocalRoot indicates the local storage root is invalid.
	ErrInvalidLocalRoot = errors.New("invalid local storage root")

	// ErrInvalidAgentsDir indicates the agents directory name is invalid.
	ErrInvalidAgentsDir = errors.New("invalid agents directory")

	// ErrInvalidLogLevel indicates the log level string is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

const (
	// DefaultStorageTTLMinutes is how long a credentialed cloud handle is
	// trusted before forced reconstruction. The upstream credential provider
	// issues tokens with a roughly one-hour lifetime; refreshing at half that
	// interval leaves margin, and fixes the failure mode where a process idle
	// overnight presents an expired token on its first request of the day.
	DefaultStorageTTLMinutes = 30

	// MaxStorageTTLMinutes caps the TTL below the token lifetime.
	MaxStorageTTLMinutes = 55

	// DefaultAgentsDir is where agent manifests are discovered.
	DefaultAgentsDir = "agents"
)

// Config stores application configuration.
type Config struct {
	// Cloud storage identifiers. Both must be set for cloud storage to be
	// attempted outside the confirmed cloud host.
	StorageAccount   string `mapstructure:"storage_account" json:"storage_account"`
	StorageContainer string `mapstructure:"storage_container" json:"storage_container"`

	// ForceCloud makes the storage manager attempt cloud construction even
	// when no account is configured and the process is not on a cloud host.
	ForceCloud bool `mapstructure:"force_cloud_storage" json:"force_cloud_storage"`

	// LocalRoot is the base directory for the local storage backend.
	LocalRoot string `mapstructure:"storage_local_root" json:"storage_local_root"`

	// StorageTTLMinutes is the cloud handle TTL in minutes.
	StorageTTLMinutes int `mapstructure:"storage_ttl_minutes" json:"storage_ttl_minutes"`

	// AgentsDir is the storage directory agent manifests live in.
	AgentsDir string `mapstructure:"agents_dir" json:"agents_dir"`

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" json:"log_level"`
}

// StorageTTL returns the cloud handle TTL as a duration.
func (c *Config) StorageTTL() time.Duration {
	return time.Duration(c.StorageTTLMinutes) * time.Minute
}

// CloudConfigured reports whether both cloud identifiers are present,
// implying the developer intends to run against the cloud backend.
func (c *Config) CloudConfigured() bool {
	return c.StorageAccount != "" && c.StorageContainer != ""
}

// Load reads configuration from defaults, the config file and the
// environment, then validates it (fail-fast).
func Load() (*Config, error) {
	configDir, err := defaultConfigDir()
	if err != nil {
		return nil, err
	}
	return load(configDir)
}

// load is the testable core of Load: the config file search is rooted at
// configDir plus the working directory.
func load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// defaultConfigDir resolves <user config dir>/agentstore.
func defaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, "agentstore"), nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("storage_account", "")
	v.SetDefault("storage_container", "")
	v.SetDefault("force_cloud_storage", false)
	v.SetDefault("storage_local_root", filepath.Join(configDir, "storage"))
	v.SetDefault("storage_ttl_minutes", DefaultStorageTTLMinutes)
	v.SetDefault("agents_dir", DefaultAgentsDir)
	v.SetDefault("log_level", "info")
}

// bindEnvVariables binds environment overrides explicitly.
// AZURE_STORAGE_ACCOUNT is accepted as a fallback for storage_account so a
// developer already logged in to the cloud CLI needs no extra setup.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a failure here is a bug, not a
	// runtime condition.
	mustBind := func(key string, envVars ...string) {
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q: %v", key, err))
		}
	}

	mustBind("storage_account", "AGENTSTORE_STORAGE_ACCOUNT", "AZURE_STORAGE_ACCOUNT")
	mustBind("storage_container", "AGENTSTORE_STORAGE_CONTAINER")
	mustBind("force_cloud_storage", "AGENTSTORE_FORCE_CLOUD")
	mustBind("storage_local_root", "AGENTSTORE_LOCAL_ROOT")
	mustBind("storage_ttl_minutes", "AGENTSTORE_STORAGE_TTL_MINUTES")
	mustBind("agents_dir", "AGENTSTORE_AGENTS_DIR")
	mustBind("log_level", "AGENTSTORE_LOG_LEVEL")
}
