package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"bert_flex/internal/domain/entity"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrMissingBotToken is returned by RequireBotToken when no Telegram token is configured.
var ErrMissingBotToken = errors.New("telegram bot token is not set")

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// SolanaConfig holds the JSON-RPC endpoint settings.
type SolanaConfig struct {
	Network         string   `yaml:"network"` // "solana" or "solana-devnet"
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRPCURLs"`
	RPCTimeoutMs    int64    `yaml:"rpcTimeoutMs"`
	SignatureLimit  int      `yaml:"signatureLimit"`
	RateLimit       float64  `yaml:"rateLimit"`
	BurstLimit      int      `yaml:"burstLimit"`
}

// TokenConfig describes the token being flexed.
type TokenConfig struct {
	Mint               string `yaml:"mint"`
	Ticker             string `yaml:"ticker"`
	Name               string `yaml:"name"`
	Symbol             string `yaml:"symbol"`
	DEXScreenerChainID string `yaml:"dexScreenerChainId"`
	Website            string `yaml:"website"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// CooldownConfig holds the per-wallet cooldown settings. A non-empty RedisAddr
// switches the tracker from in-process memory to Redis.
type CooldownConfig struct {
	Seconds       int    `yaml:"seconds"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	KeyPrefix     string `yaml:"keyPrefix"`
}

// AssetsConfig holds paths to optional render assets.
type AssetsConfig struct {
	MascotPath string `yaml:"mascotPath"`
}

// TelegramConfig holds the bot settings.
type TelegramConfig struct {
	BotToken           string `yaml:"botToken"`
	PollTimeoutSeconds int    `yaml:"pollTimeoutSeconds"`
	Debug              bool   `yaml:"debug"`
}

// CardConfig holds the output card geometry.
type CardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Solana      SolanaConfig      `yaml:"solana"`
	Token       TokenConfig       `yaml:"token"`
	DEXScreener DEXScreenerConfig `yaml:"dexScreener"`
	Cooldown    CooldownConfig    `yaml:"cooldown"`
	Assets      AssetsConfig      `yaml:"assets"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Card        CardConfig        `yaml:"card"`
}

const (
	minRPCTimeout   = 20 * time.Second
	maxRPCTimeout   = 40 * time.Second
	minPriceTimeout = 10 * time.Second
	maxPriceTimeout = 20 * time.Second
)

// Load reads the YAML configuration file from the given path, applies defaults
// and then environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables take precedence over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to read .env file: %v", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("SOLANA_NETWORK"); v != "" {
		cfg.Solana.Network = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.Solana.RPCURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cooldown.RedisAddr = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("MASCOT_PATH"); v != "" {
		cfg.Assets.MascotPath = v
	}
	if v := os.Getenv("COOLDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cooldown.Seconds = n
		} else {
			logrus.Warnf("Ignoring COOLDOWN_SECONDS=%q: %v", v, err)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 120
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Solana.Network == "" {
		cfg.Solana.Network = "solana"
	}
	if cfg.Solana.RPCURL == "" {
		logrus.Infof("Solana.RPCURL not set, using the built-in endpoints of %s", cfg.Solana.Network)
	}
	if cfg.Solana.RPCTimeoutMs == 0 {
		cfg.Solana.RPCTimeoutMs = 30000
	}
	if cfg.Solana.SignatureLimit <= 0 || cfg.Solana.SignatureLimit > 1000 {
		cfg.Solana.SignatureLimit = 1000
	}
	if cfg.Solana.RateLimit <= 0 {
		cfg.Solana.RateLimit = 8
	}
	if cfg.Solana.BurstLimit <= 0 {
		cfg.Solana.BurstLimit = 4
	}

	if cfg.Token.Mint == "" {
		cfg.Token.Mint = "HgBRWfYxEfvPhtqkaeymCQtHCrKE46qQ43pKe8HCpump"
	}
	if cfg.Token.Ticker == "" {
		cfg.Token.Ticker = "$BERT"
	}
	if cfg.Token.Name == "" {
		cfg.Token.Name = "Bertram The Pomeranian"
	}
	if cfg.Token.Symbol == "" {
		cfg.Token.Symbol = "BERT"
	}
	if cfg.Token.Website == "" {
		cfg.Token.Website = "www.bert.global"
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 15000
	}

	if cfg.Cooldown.Seconds <= 0 {
		cfg.Cooldown.Seconds = 15
	}
	if cfg.Cooldown.KeyPrefix == "" {
		cfg.Cooldown.KeyPrefix = "flex:cooldown:"
	}
	if cfg.Assets.MascotPath == "" {
		cfg.Assets.MascotPath = "assets/cyberbert.png"
	}
	if cfg.Telegram.PollTimeoutSeconds <= 0 {
		cfg.Telegram.PollTimeoutSeconds = 60
	}
	if cfg.Card.Width <= 0 {
		cfg.Card.Width = 800
	}
	if cfg.Card.Height <= 0 {
		cfg.Card.Height = 480
	}
}

// RPCTimeout returns the per-call ledger timeout, clamped into [20s, 40s].
func (c *Config) RPCTimeout() time.Duration {
	return clamp(time.Duration(c.Solana.RPCTimeoutMs)*time.Millisecond, minRPCTimeout, maxRPCTimeout)
}

// PriceTimeout returns the market request timeout, clamped into [10s, 20s].
func (c *Config) PriceTimeout() time.Duration {
	return clamp(time.Duration(c.DEXScreener.RequestTimeoutMillis)*time.Millisecond, minPriceTimeout, maxPriceTimeout)
}

// CooldownWindow returns the per-wallet cooldown.
func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.Cooldown.Seconds) * time.Second
}

// TokenInfo returns the configured token as a domain value.
func (c *Config) TokenInfo() entity.TokenInfo {
	return entity.TokenInfo{
		Mint:     c.Token.Mint,
		Name:     c.Token.Name,
		Ticker:   c.Token.Ticker,
		Symbol:   c.Token.Symbol,
		ChainID:  c.Token.DEXScreenerChainID,
		Website:  c.Token.Website,
	}
}

// RequireBotToken fails when the bot cannot start.
func (c *Config) RequireBotToken() error {
	if c.Telegram.BotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
