package port

import (
	"context"

	"bert_flex/internal/domain/entity"
	dex_types "bert_flex/internal/entity"
)

// PairSource fetches raw trading pairs for a token.
type PairSource interface {
	GetTokenPairs(ctx context.Context, tokenAddress string) ([]dex_types.PairData, error)
}

// MarketService определяет интерфейс для получения рыночных данных токена.
type MarketService interface {
	// FetchMarketData returns the summary of the most liquid pair, or nil when unavailable.
	FetchMarketData(ctx context.Context) *entity.MarketData
}
