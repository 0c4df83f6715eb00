package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"bert_flex/internal/infrastructure/configloader"
	"bert_flex/internal/infrastructure/cooldown"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *configloader.Config {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MASCOT_PATH", filepath.Join(t.TempDir(), "none.png"))
	cfg, err := configloader.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	return cfg
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config/config.yml", ConfigPath())

	t.Setenv("CONFIG_PATH", "/etc/flex.yml")
	assert.Equal(t, "/etc/flex.yml", ConfigPath())
}

func TestNew_BuildsPipeline(t *testing.T) {
	cfg := testConfig(t)
	cfg.Solana.RPCURL = "http://127.0.0.1:1"

	app, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "http://127.0.0.1:1", app.Ledger.Endpoint())
	assert.Equal(t, "$BERT", app.Flex.Token().Ticker)
	assert.Equal(t, "solana", app.Flex.Token().ChainID, "chain id comes from the network definition")
	assert.Equal(t, "solana", app.Ledger.Definition().Identifier)
	assert.NotNil(t, app.Renderer)
}

func TestNewCooldown(t *testing.T) {
	t.Run("memory when redis is not configured", func(t *testing.T) {
		app := &App{Config: testConfig(t)}
		_, ok := app.NewCooldown(context.Background(), zap.NewNop()).(*cooldown.MemoryTracker)
		assert.True(t, ok)
	})

	t.Run("memory when redis is unreachable", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Cooldown.RedisAddr = "127.0.0.1:1"
		app := &App{Config: cfg}
		defer app.Close()

		_, ok := app.NewCooldown(context.Background(), zap.NewNop()).(*cooldown.MemoryTracker)
		assert.True(t, ok)
		assert.Empty(t, app.closers)
	})
}
