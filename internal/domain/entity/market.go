package entity

// MarketData is the price summary extracted from the most liquid trading pair.
// A nil *MarketData means the market lookup failed; fields are never partially set.
type MarketData struct {
	PriceUSD          float64 `json:"priceUsd"`
	MarketCapUSD      float64 `json:"marketCapUsd"`
	PriceChange24hPct float64 `json:"priceChange24hPct"`
	Volume24hUSD      float64 `json:"volume24hUsd"`
	LiquidityUSD      float64 `json:"liquidityUsd"`
	PairAddress       string  `json:"pairAddress,omitempty"`
	DexID             string  `json:"dexId,omitempty"`
}
