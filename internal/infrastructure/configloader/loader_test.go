package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "SOLANA_NETWORK", "SOLANA_RPC_URL", "LOG_LEVEL", "REDIS_ADDR", "HTTP_PORT", "MASCOT_PATH", "COOLDOWN_SECONDS"} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "solana", cfg.Solana.Network)
	assert.Empty(t, cfg.Solana.RPCURL, "the network's built-in endpoints are used")
	assert.Equal(t, "HgBRWfYxEfvPhtqkaeymCQtHCrKE46qQ43pKe8HCpump", cfg.Token.Mint)
	assert.Equal(t, "$BERT", cfg.Token.Ticker)
	assert.Equal(t, 1000, cfg.Solana.SignatureLimit)
	assert.Equal(t, 30*time.Second, cfg.RPCTimeout())
	assert.Equal(t, 15*time.Second, cfg.PriceTimeout())
	assert.Equal(t, 15*time.Second, cfg.CooldownWindow())
	assert.Equal(t, 800, cfg.Card.Width)
	assert.Equal(t, 480, cfg.Card.Height)
	assert.ErrorIs(t, cfg.RequireBotToken(), ErrMissingBotToken)
}

func TestLoad_FileValuesAndClamping(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
solana:
  rpcURL: https://rpc.example.com
  rpcTimeoutMs: 90000
  signatureLimit: 5000
dexScreener:
  requestTimeoutMillis: 1000
cooldown:
  seconds: 30
telegram:
  botToken: from-file
`)
	clearEnv(t)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://rpc.example.com", cfg.Solana.RPCURL)
	assert.Equal(t, 40*time.Second, cfg.RPCTimeout(), "rpc timeout is clamped to the upper bound")
	assert.Equal(t, 10*time.Second, cfg.PriceTimeout(), "price timeout is clamped to the lower bound")
	assert.Equal(t, 1000, cfg.Solana.SignatureLimit)
	assert.Equal(t, 30*time.Second, cfg.CooldownWindow())
	assert.NoError(t, cfg.RequireBotToken())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
solana:
  rpcURL: https://rpc.example.com
telegram:
  botToken: from-file
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("SOLANA_NETWORK", "solana-devnet")
	t.Setenv("SOLANA_RPC_URL", "https://env-rpc.example.com")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("COOLDOWN_SECONDS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "solana-devnet", cfg.Solana.Network)
	assert.Equal(t, "https://env-rpc.example.com", cfg.Solana.RPCURL)
	assert.Equal(t, "localhost:6379", cfg.Cooldown.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.CooldownWindow())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "solana: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
}

func TestConfig_TokenInfo(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	token := cfg.TokenInfo()
	assert.Equal(t, cfg.Token.Mint, token.Mint)
	assert.Equal(t, "BERT", token.Symbol)
	assert.Equal(t, "www.bert.global", token.Website)
	assert.Empty(t, token.ChainID, "filled from the network definition when not configured")

	cfg.Token.DEXScreenerChainID = "solana"
	assert.Equal(t, "solana", cfg.TokenInfo().ChainID)
}
