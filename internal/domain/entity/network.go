package entity

import "net/url"

// NetworkDefinition holds the configuration for the chain the tracked token lives on.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	Name               string   `json:"name" yaml:"name"`
	Identifier         string   `json:"identifier" yaml:"identifier"` // Уникальный идентификатор сети (например, "solana")
	PrimaryRPCURL      string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs    []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL   string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	DEXScreenerChainID string   `json:"dexScreenerChainId" yaml:"dexScreenerChainId"`
}

// AccountURL returns the block explorer page of an address, or "" when the network has no explorer.
// Query parameters of BlockExplorerURL (e.g. a cluster selector) are kept.
func (n NetworkDefinition) AccountURL(address string) string {
	if n.BlockExplorerURL == "" || address == "" {
		return ""
	}
	u, err := url.JoinPath(n.BlockExplorerURL, "account", address)
	if err != nil {
		return ""
	}
	return u
}

// RPCURLs returns the primary endpoint followed by the fallbacks, skipping blanks.
func (n NetworkDefinition) RPCURLs() []string {
	urls := make([]string, 0, 1+len(n.FallbackRPCURLs))
	if n.PrimaryRPCURL != "" {
		urls = append(urls, n.PrimaryRPCURL)
	}
	for _, u := range n.FallbackRPCURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
