package entity

// Wallet is a single owner address to build a card for.
type Wallet struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}
