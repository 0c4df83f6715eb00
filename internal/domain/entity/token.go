package entity

// TokenInfo holds the details of the token being flexed.
type TokenInfo struct {
	Mint     string `json:"mint" yaml:"mint"`
	Name     string `json:"name" yaml:"name"`
	Ticker   string `json:"ticker" yaml:"ticker"` // display form, e.g. "$BERT"
	Symbol   string `json:"symbol" yaml:"symbol"` // plain form, e.g. "BERT"
	ChainID  string `json:"chainId" yaml:"chainId"` // DexScreener chain id, e.g. "solana"
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
}
