package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/utils"
)

// SkipFunc is called for every line that does not hold a valid wallet address.
type SkipFunc func(lineNum int, line string, err error)

// LoadWallets reads wallet addresses from a text file, one per line.
// A line may carry a label after a comma: "<address>,<label>".
// Blank lines and lines starting with # are ignored; duplicates are dropped.
func LoadWallets(filePath string, onSkip SkipFunc) ([]entity.Wallet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", filePath, err)
	}
	defer file.Close()

	var wallets []entity.Wallet
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		address, label, _ := strings.Cut(line, ",")
		address = utils.NormalizeAddress(address)
		if err := utils.ValidateSolanaAddress(address); err != nil {
			if onSkip != nil {
				onSkip(lineNum, line, err)
			}
			continue
		}
		if _, dup := seen[address]; dup {
			continue
		}
		seen[address] = struct{}{}
		wallets = append(wallets, entity.Wallet{Address: address, Label: strings.TrimSpace(label)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", filePath, err)
	}
	return wallets, nil
}
