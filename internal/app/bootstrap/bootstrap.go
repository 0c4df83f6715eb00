// Package bootstrap wires configuration into the flex pipeline shared by all binaries.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"bert_flex/internal/app/port"
	"bert_flex/internal/app/service"
	"bert_flex/internal/infrastructure/configloader"
	"bert_flex/internal/infrastructure/cooldown"
	"bert_flex/internal/infrastructure/dexscreener"
	"bert_flex/internal/infrastructure/network/client"
	networkdefinition "bert_flex/internal/infrastructure/network/definition"
	"bert_flex/internal/infrastructure/render"
	"bert_flex/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultConfigPath = "config/config.yml"
	redisPingTimeout  = 3 * time.Second
)

// ConfigPath returns CONFIG_PATH or the default location.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

// InitLogging loads the configuration and sets up zap plus the global slog bridge.
func InitLogging() (*configloader.Config, *zap.Logger, error) {
	cfg, err := configloader.Load(ConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("init zap logger: %w", err)
	}
	logger.InitSlog(zapLogger, cfg.Logging.Level)
	return cfg, zapLogger, nil
}

// App holds the long-lived components built from configuration.
type App struct {
	Config   *configloader.Config
	Ledger   *client.SolanaClient
	Renderer *render.CardRenderer
	Flex     *service.FlexServiceImpl
	closers  []func()
}

// New dials the ledger and builds the market, renderer and flex services.
func New(cfg *configloader.Config, zapLogger *zap.Logger) (*App, error) {
	appLogger := logger.NewSlogAdapter()
	token := cfg.TokenInfo()

	renderer, err := NewRenderer(cfg, zapLogger)
	if err != nil {
		return nil, err
	}

	netDef := networkdefinition.Resolve(cfg.Solana, appLogger)
	if token.ChainID == "" {
		token.ChainID = netDef.DEXScreenerChainID
	}
	ledger, err := client.NewSolanaClient(netDef, token.Mint, client.SolanaClientOptions{
		RPCCallTimeout: cfg.RPCTimeout(),
		SignatureLimit: cfg.Solana.SignatureLimit,
		RateLimit:      cfg.Solana.RateLimit,
		BurstLimit:     cfg.Solana.BurstLimit,
	}, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("init solana client: %w", err)
	}

	pairs := dexscreener.NewClient(cfg.DEXScreener.BaseURL, cfg.PriceTimeout(), zapLogger)
	market := service.NewMarketService(pairs, token, cfg.PriceTimeout(), appLogger)
	flex := service.NewFlexService(ledger, market, renderer, token, appLogger)

	appLogger.Info("Flex pipeline initialized",
		"token", token.Ticker,
		"network", netDef.Identifier,
		"rpc_endpoint", ledger.Endpoint(),
		"dexscreener", cfg.DEXScreener.BaseURL)

	return &App{
		Config:   cfg,
		Ledger:   ledger,
		Renderer: renderer,
		Flex:     flex,
		closers:  []func(){ledger.Close},
	}, nil
}

// NewRenderer builds the card renderer alone, for offline rendering.
func NewRenderer(cfg *configloader.Config, zapLogger *zap.Logger) (*render.CardRenderer, error) {
	renderer, err := render.NewCardRenderer(cfg.TokenInfo(), render.Options{
		Width:      cfg.Card.Width,
		Height:     cfg.Card.Height,
		MascotPath: cfg.Assets.MascotPath,
	}, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("init card renderer: %w", err)
	}
	return renderer, nil
}

// NewCooldown returns a Redis-backed tracker when cooldown.redisAddr is set and
// reachable, otherwise an in-process one.
func (a *App) NewCooldown(ctx context.Context, zapLogger *zap.Logger) port.CooldownTracker {
	cfg := a.Config.Cooldown
	window := a.Config.CooldownWindow()
	if cfg.RedisAddr == "" {
		zapLogger.Info("Using in-memory cooldown tracker", zap.Duration("window", window))
		return cooldown.NewMemoryTracker(window)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	tracker := cooldown.NewRedisTracker(rdb, window, cfg.KeyPrefix)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := tracker.Ping(pingCtx); err != nil {
		zapLogger.Warn("Redis unreachable, falling back to in-memory cooldown tracker",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return cooldown.NewMemoryTracker(window)
	}

	a.closers = append(a.closers, func() { _ = rdb.Close() })
	zapLogger.Info("Using Redis cooldown tracker", zap.String("addr", cfg.RedisAddr), zap.Duration("window", window))
	return tracker
}

// Close releases network resources in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
