// Package core provides the collaboration intelligence engine and its public
// API surface.
package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bimcollab/collabintel-go/pkg/intelligence"
	"github.com/bimcollab/collabintel-go/pkg/store"
)

// Config contains the complete configuration for an Engine.
//
// All fields have working defaults; the zero value is not usable, create via
// DefaultConfig or one of the loaders.
//
// Example:
//
//	config := core.DefaultConfig()
//	config.PredictionThreshold = 0.75
//	engine, _ := core.NewEngine(config)
type Config struct {
	// AccessHistoryLimit bounds the retained accesses per element.
	// Default: 1000. The oldest access is evicted first.
	AccessHistoryLimit int `json:"access_history_limit"`

	// LedgerLimit bounds each of the global conflict and sync ledgers.
	// Default: 10000, FIFO eviction.
	LedgerLimit int `json:"ledger_limit"`

	// PredictionThreshold is the probability a conflict candidate must
	// exceed to be reported. Default: 0.7.
	PredictionThreshold float64 `json:"prediction_threshold"`

	// ShardCount is the number of lock stripes in the keyed stores.
	// Default: 16.
	ShardCount int `json:"shard_count"`
}

// DefaultConfig returns a Config with the standard limits and thresholds.
func DefaultConfig() *Config {
	return &Config{
		AccessHistoryLimit:  store.DefaultAccessHistoryLimit,
		LedgerLimit:         store.DefaultLedgerLimit,
		PredictionThreshold: intelligence.DefaultPredictionThreshold,
		ShardCount:          store.DefaultShardCount,
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config, falling back to defaults
//
// Supported environment variables:
//   - COLLABINTEL_ACCESS_HISTORY_LIMIT
//   - COLLABINTEL_LEDGER_LIMIT
//   - COLLABINTEL_PREDICTION_THRESHOLD
//   - COLLABINTEL_SHARD_COUNT
//
// Returns a Config instance, or an error if a variable is set but malformed.
//
// Example:
//
//	config, err := core.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnv() (*Config, error) {
	if envPath, found := FindEnvFile(); found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()

	var err error
	if cfg.AccessHistoryLimit, err = intEnvOrDefault("COLLABINTEL_ACCESS_HISTORY_LIMIT", cfg.AccessHistoryLimit); err != nil {
		return nil, NewEngineError("LoadConfigFromEnv", err)
	}
	if cfg.LedgerLimit, err = intEnvOrDefault("COLLABINTEL_LEDGER_LIMIT", cfg.LedgerLimit); err != nil {
		return nil, NewEngineError("LoadConfigFromEnv", err)
	}
	if cfg.ShardCount, err = intEnvOrDefault("COLLABINTEL_SHARD_COUNT", cfg.ShardCount); err != nil {
		return nil, NewEngineError("LoadConfigFromEnv", err)
	}
	if raw := os.Getenv("COLLABINTEL_PREDICTION_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, NewEngineError("LoadConfigFromEnv", err)
		}
		cfg.PredictionThreshold = threshold
	}

	return cfg, nil
}

// LoadConfigFromJSON loads configuration from a JSON file.
//
// Fields absent from the file keep their defaults.
//
// Parameters:
//   - path: Path to the JSON configuration file
//
// Returns a Config instance, or an error if loading or parsing fails.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewEngineError("LoadConfigFromJSON", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, NewEngineError("LoadConfigFromJSON", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
//
// Checks that every limit is positive and the prediction threshold is inside
// (0, 1).
//
// Returns an error if validation fails, nil otherwise.
func (c *Config) Validate() error {
	if c.AccessHistoryLimit < 1 {
		return NewEngineError("Validate", ErrInvalidConfig)
	}
	if c.LedgerLimit < 1 {
		return NewEngineError("Validate", ErrInvalidConfig)
	}
	if c.PredictionThreshold <= 0 || c.PredictionThreshold >= 1 {
		return NewEngineError("Validate", ErrInvalidConfig)
	}
	if c.ShardCount < 1 {
		return NewEngineError("Validate", ErrInvalidConfig)
	}
	return nil
}

// intEnvOrDefault parses an integer environment variable, returning the
// default when the variable is unset.
func intEnvOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
//
// Returns:
//   - path: Path to the found file (empty if not found)
//   - found: True if a file was found, false otherwise
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
