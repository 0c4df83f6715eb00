package provider

import (
	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/infrastructure/walletloader"
)

type walletProviderImpl struct {
	walletFilePath string
	logger         port.Logger
}

// NewWalletProvider creates a new WalletProvider.
func NewWalletProvider(filePath string, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{walletFilePath: filePath, logger: logger}
}

// GetWallets loads wallet addresses from the configured file.
func (p *walletProviderImpl) GetWallets() ([]entity.Wallet, error) {
	p.logger.Debug("Loading wallets from file", "path", p.walletFilePath)
	wallets, err := walletloader.LoadWallets(p.walletFilePath, func(lineNum int, line string, err error) {
		p.logger.Warn("Skipping invalid wallet address", "path", p.walletFilePath, "line_number", lineNum, "line", line, "error", err)
	})
	if err != nil {
		p.logger.Error("Failed to load wallets", "path", p.walletFilePath, "error", err)
		return nil, err
	}
	p.logger.Info("Wallets loaded successfully", "count", len(wallets), "path", p.walletFilePath)
	return wallets, nil
}
