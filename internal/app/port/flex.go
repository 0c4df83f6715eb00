package port

import (
	"context"

	"bert_flex/internal/domain/entity"
)

// FlexService defines the interface for building flex snapshots and cards.
type FlexService interface {
	// BuildSnapshot runs all lookups for the address concurrently and merges them.
	// It never fails as a whole: failed lookups leave their fields nil.
	BuildSnapshot(ctx context.Context, address string) *entity.WalletSnapshot

	// Flex builds the snapshot and, when the wallet holds the token, renders the card.
	Flex(ctx context.Context, address string) (*entity.FlexResult, error)

	// Price returns the current market summary, nil when unavailable.
	Price(ctx context.Context) *entity.MarketData

	// Token returns the token being reported on.
	Token() entity.TokenInfo
}
