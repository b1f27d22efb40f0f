package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimcollab/collabintel-go/pkg/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	assert.Equal(t, 1000, cfg.AccessHistoryLimit)
	assert.Equal(t, 10000, cfg.LedgerLimit)
	assert.Equal(t, 0.7, cfg.PredictionThreshold)
	assert.Equal(t, 16, cfg.ShardCount)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*core.Config)
	}{
		{"zero history limit", func(c *core.Config) { c.AccessHistoryLimit = 0 }},
		{"negative ledger limit", func(c *core.Config) { c.LedgerLimit = -1 }},
		{"threshold at zero", func(c *core.Config) { c.PredictionThreshold = 0 }},
		{"threshold at one", func(c *core.Config) { c.PredictionThreshold = 1 }},
		{"zero shards", func(c *core.Config) { c.ShardCount = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("COLLABINTEL_ACCESS_HISTORY_LIMIT", "500")
	t.Setenv("COLLABINTEL_LEDGER_LIMIT", "2000")
	t.Setenv("COLLABINTEL_PREDICTION_THRESHOLD", "0.8")
	t.Setenv("COLLABINTEL_SHARD_COUNT", "8")

	cfg, err := core.LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.AccessHistoryLimit)
	assert.Equal(t, 2000, cfg.LedgerLimit)
	assert.Equal(t, 0.8, cfg.PredictionThreshold)
	assert.Equal(t, 8, cfg.ShardCount)
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("COLLABINTEL_ACCESS_HISTORY_LIMIT", "")
	t.Setenv("COLLABINTEL_LEDGER_LIMIT", "")
	t.Setenv("COLLABINTEL_PREDICTION_THRESHOLD", "")
	t.Setenv("COLLABINTEL_SHARD_COUNT", "")

	cfg, err := core.LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConfig(), cfg)
}

func TestLoadConfigFromEnvMalformed(t *testing.T) {
	t.Setenv("COLLABINTEL_LEDGER_LIMIT", "not-a-number")
	_, err := core.LoadConfigFromEnv()
	require.Error(t, err)

	var engineErr *core.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "LoadConfigFromEnv", engineErr.Op)
}

func TestLoadConfigFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ledger_limit": 123, "prediction_threshold": 0.6}`), 0o644))

	cfg, err := core.LoadConfigFromJSON(path)
	require.NoError(t, err)
	assert.Equal(t, 123, cfg.LedgerLimit)
	assert.Equal(t, 0.6, cfg.PredictionThreshold)
	assert.Equal(t, 1000, cfg.AccessHistoryLimit, "absent fields keep defaults")

	_, err = core.LoadConfigFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
