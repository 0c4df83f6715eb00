package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"bert_flex/internal/app/bootstrap"
	"bert_flex/internal/app/provider"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/logger"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"

	"go.uber.org/zap"
)

const sampleWallet = "5c1C2RRRqDmbbqjBxcv4fZuknqA2mF7WhX3eLCbxcv4f"

func main() {
	wallet := flag.String("wallet", "", "wallet address to render a card for")
	walletFile := flag.String("file", "", "file with one wallet address per line")
	sample := flag.Bool("sample", false, "render a sample card without network access")
	outDir := flag.String("out", ".", "directory to write PNG files to")
	flag.Parse()

	if !*sample && *wallet == "" && *walletFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, zapLogger, err := bootstrap.InitLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("Cannot create output directory", "dir", *outDir, "error", err)
	}

	if *sample {
		renderer, err := bootstrap.NewRenderer(cfg, zapLogger)
		if err != nil {
			logger.Fatal("Failed to initialize renderer", "error", err)
		}
		card, err := renderer.Render(sampleSnapshot(time.Now()))
		if err != nil {
			logger.Fatal("Failed to render sample card", "error", err)
		}
		path := filepath.Join(*outDir, "sample_flex_card.png")
		if err := os.WriteFile(path, card.Image, 0o644); err != nil {
			logger.Fatal("Failed to write sample card", "path", path, "error", err)
		}
		logger.Info("Sample card saved", "path", path)
		return
	}

	wallets, err := collectWallets(*wallet, *walletFile)
	if err != nil {
		logger.Fatal("Failed to collect wallets", "error", err)
	}

	app, err := bootstrap.New(cfg, zapLogger)
	if err != nil {
		logger.Fatal("Failed to initialize flex pipeline", "error", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	written := 0
	for _, w := range wallets {
		if ctx.Err() != nil {
			break
		}
		log := zapLogger.With(zap.String("wallet", w.Address), zap.String("label", w.Label))

		result, err := app.Flex.Flex(ctx, w.Address)
		if err != nil {
			metrics.RequestsTotal.WithLabelValues("cli", "error").Inc()
			log.Error("Flex card failed", zap.Error(err))
			continue
		}
		metrics.RequestsTotal.WithLabelValues("cli", result.Outcome.String()).Inc()
		switch result.Outcome {
		case entity.OutcomeFetchFailed:
			log.Warn("Wallet data could not be read")
			continue
		case entity.OutcomeNoHoldings:
			log.Info("Wallet holds no tokens, skipping", zap.String("token", cfg.Token.Ticker))
			continue
		}

		path := filepath.Join(*outDir, w.Address+".png")
		if err := os.WriteFile(path, result.Card.Image, 0o644); err != nil {
			log.Error("Failed to write card", zap.String("path", path), zap.Error(err))
			continue
		}
		written++
		log.Info("Card saved", zap.String("path", path), zap.String("caption", result.Card.Caption))
	}
	logger.Info("Done", "wallets", len(wallets), "cards_written", written)
}

func collectWallets(address, filePath string) ([]entity.Wallet, error) {
	var wallets []entity.Wallet
	if address != "" {
		address = utils.NormalizeAddress(address)
		if err := utils.ValidateSolanaAddress(address); err != nil {
			return nil, err
		}
		wallets = append(wallets, entity.Wallet{Address: address})
	}
	if filePath != "" {
		fromFile, err := provider.NewWalletProvider(filePath, logger.NewSlogAdapter()).GetWallets()
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, fromFile...)
	}
	return wallets, nil
}

func sampleSnapshot(now time.Time) *entity.WalletSnapshot {
	market := &entity.MarketData{PriceUSD: 0.0098, MarketCapUSD: 10_800_000, PriceChange24hPct: 12.8}
	return &entity.WalletSnapshot{
		RequestID:       "sample",
		Address:         sampleWallet,
		ShortAddress:    utils.ShortAddress(sampleWallet),
		Balance:         utils.Float64Ptr(18_040_000),
		Market:          market,
		USDValue:        utils.Float64Ptr(176_740),
		HoldDuration:    "5m 6d",
		TenureLabel:     utils.TenureLabel("5m 6d"),
		RankBasis:       entity.RankBasisUnknown,
		BalanceDisplay:  "18.04M",
		USDValueDisplay: "$176.74K",
		FetchedAt:       now.UTC(),
	}
}
