package entity

import "time"

// WalletSnapshot represents the merged result of all lookups for one wallet.
// Nil pointers mean the corresponding lookup failed or had nothing to report.
type WalletSnapshot struct {
	RequestID    string `json:"requestId"`
	Address      string `json:"address"`
	ShortAddress string `json:"shortAddress"`
	Network      string `json:"network"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`

	Balance  *float64    `json:"balance"`
	Market   *MarketData `json:"market"`
	USDValue *float64    `json:"usdValue"`

	FirstAcquiredAt *time.Time `json:"firstAcquiredAt"`
	HoldDuration    string     `json:"holdDuration"`
	TenureLabel     string     `json:"tenureLabel"`

	Rank                *int      `json:"rank"`
	RankBasis           RankBasis `json:"rankBasis"`
	TotalHoldersDisplay string    `json:"totalHoldersDisplay"`

	BalanceDisplay  string `json:"balanceDisplay"`
	USDValueDisplay string `json:"usdValueDisplay"`
	RankDisplay     string `json:"rankDisplay"`

	FetchedAt time.Time     `json:"fetchedAt"`
	Errors    []LookupError `json:"errors,omitempty"`
}

// HasHoldings reports whether the wallet holds a strictly positive balance.
func (s *WalletSnapshot) HasHoldings() bool {
	return s != nil && s.Balance != nil && *s.Balance > 0
}

// PriceUSD returns the token price, nil when market data is unavailable.
func (s *WalletSnapshot) PriceUSD() *float64 {
	if s.Market == nil {
		return nil
	}
	v := s.Market.PriceUSD
	return &v
}

// MarketCapUSD returns the market capitalization, nil when market data is unavailable.
func (s *WalletSnapshot) MarketCapUSD() *float64 {
	if s.Market == nil {
		return nil
	}
	v := s.Market.MarketCapUSD
	return &v
}

// PriceChange24hPct returns the 24h price change, nil when market data is unavailable.
func (s *WalletSnapshot) PriceChange24hPct() *float64 {
	if s.Market == nil {
		return nil
	}
	v := s.Market.PriceChange24hPct
	return &v
}

// Volume24hUSD returns the 24h traded volume, nil when market data is unavailable.
func (s *WalletSnapshot) Volume24hUSD() *float64 {
	if s.Market == nil {
		return nil
	}
	v := s.Market.Volume24hUSD
	return &v
}
