package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	dex_types "bert_flex/internal/entity"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"
)

// marketServiceImpl implements port.MarketService
type marketServiceImpl struct {
	pairSource port.PairSource
	token      entity.TokenInfo
	timeout    time.Duration
	logger     port.Logger
}

// NewMarketService creates a new instance of marketServiceImpl.
func NewMarketService(ps port.PairSource, token entity.TokenInfo, timeout time.Duration, l port.Logger) port.MarketService {
	l.Info("MarketService успешно инициализирован.", "mint", token.Mint)
	return &marketServiceImpl{
		pairSource: ps,
		token:      token,
		timeout:    timeout,
		logger:     l,
	}
}

// FetchMarketData implements port.MarketService.
func (s *marketServiceImpl) FetchMarketData(ctx context.Context) *entity.MarketData {
	started := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	pairs, err := s.pairSource.GetTokenPairs(ctx, s.token.Mint)
	if err != nil {
		metrics.ObserveLookup(entity.OperationMarket, metrics.OutcomeError, started)
		s.logger.Error("Failed to get token pairs", "mint", s.token.Mint, "error", err)
		return nil
	}

	best := selectMostLiquidPair(pairs, s.token.ChainID)
	if best == nil {
		metrics.ObserveLookup(entity.OperationMarket, metrics.OutcomeEmpty, started)
		s.logger.Warn("No trading pairs found for token", "mint", s.token.Mint)
		return nil
	}

	data, err := extractMarketData(best)
	if err != nil {
		metrics.ObserveLookup(entity.OperationMarket, metrics.OutcomeError, started)
		s.logger.Error("Failed to parse market data from pair",
			"pairAddress", best.PairAddress,
			"price_string", best.PriceUsd,
			"error", err)
		return nil
	}

	metrics.ObserveLookup(entity.OperationMarket, metrics.OutcomeOK, started)
	s.logger.Debug("Selected most liquid pair",
		"pairAddress", best.PairAddress,
		"dexId", best.DexID,
		"priceUsd", data.PriceUSD,
		"liquidityUsd", data.LiquidityUSD,
		"evaluatedPairCount", len(pairs))
	return data
}

// selectMostLiquidPair returns the pair with the highest USD liquidity. Missing liquidity
// counts as zero and the first pair wins ties. Pairs listed on another chain than
// chainID are skipped; an empty chainID or pair chain matches anything.
func selectMostLiquidPair(pairs []dex_types.PairData, chainID string) *dex_types.PairData {
	var best *dex_types.PairData
	var bestLiquidity float64
	for i := range pairs {
		pair := &pairs[i]
		if chainID != "" && pair.ChainID != "" && !strings.EqualFold(pair.ChainID, chainID) {
			continue
		}
		if liq := pairLiquidity(pair); best == nil || liq > bestLiquidity {
			best = pair
			bestLiquidity = liq
		}
	}
	return best
}

func pairLiquidity(pair *dex_types.PairData) float64 {
	return utils.SafeDerefFloat64(pair.Liquidity, func(l dex_types.DEXLiquidity) float64 { return l.Usd })
}

func extractMarketData(pair *dex_types.PairData) (*entity.MarketData, error) {
	var price float64
	if pair.PriceUsd != "" {
		p, err := strconv.ParseFloat(pair.PriceUsd, 64)
		if err != nil {
			return nil, err
		}
		price = p
	}

	return &entity.MarketData{
		PriceUSD:          price,
		MarketCapUSD:      utils.FirstNonZero(pair.MarketCap, pair.Fdv),
		PriceChange24hPct: pair.PriceChange.H24,
		Volume24hUSD:      pair.Volume.H24,
		LiquidityUSD:      pairLiquidity(pair),
		PairAddress:       pair.PairAddress,
		DexID:             pair.DexID,
	}, nil
}
