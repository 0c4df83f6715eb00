package networkdefinition

import (
	"strings"

	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/infrastructure/configloader"
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	SolanaMainnet = entity.NetworkDefinition{
		Name:               "Solana Mainnet Beta",
		Identifier:         "solana",
		PrimaryRPCURL:      "https://api.mainnet-beta.solana.com",
		FallbackRPCURLs:    []string{"https://solana-rpc.publicnode.com"},
		BlockExplorerURL:   "https://solscan.io",
		DEXScreenerChainID: "solana",
	}
	SolanaDevnet = entity.NetworkDefinition{
		Name:               "Solana Devnet",
		Identifier:         "solana-devnet",
		PrimaryRPCURL:      "https://api.devnet.solana.com",
		BlockExplorerURL:   "https://solscan.io/?cluster=devnet",
		DEXScreenerChainID: "solana",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	SolanaMainnet.Identifier: SolanaMainnet,
	SolanaDevnet.Identifier:  SolanaDevnet,
}

// Lookup returns a predefined network by identifier.
func Lookup(identifier string) (entity.NetworkDefinition, bool) {
	def, ok := allKnownDefinitions[strings.ToLower(identifier)]
	return def, ok
}

// Resolve returns the configured network (mainnet when unset or unknown) with the
// configured endpoints applied. A configured RPC URL becomes the primary and the
// built-in endpoints follow as fallbacks.
func Resolve(cfg configloader.SolanaConfig, logger port.Logger) entity.NetworkDefinition {
	base, ok := Lookup(cfg.Network)
	if !ok {
		if cfg.Network != "" && logger != nil {
			logger.Warn("Unknown network, using mainnet", "network", cfg.Network)
		}
		base = SolanaMainnet
	}
	def := base
	def.FallbackRPCURLs = append([]string(nil), base.FallbackRPCURLs...)

	if len(cfg.FallbackRPCURLs) > 0 {
		def.FallbackRPCURLs = append(append([]string(nil), cfg.FallbackRPCURLs...), def.FallbackRPCURLs...)
	}
	if cfg.RPCURL != "" && !strings.EqualFold(cfg.RPCURL, def.PrimaryRPCURL) {
		def.FallbackRPCURLs = append([]string{def.PrimaryRPCURL}, def.FallbackRPCURLs...)
		def.PrimaryRPCURL = cfg.RPCURL
	}
	def.FallbackRPCURLs = dedupe(def.PrimaryRPCURL, def.FallbackRPCURLs)

	if logger != nil {
		logger.Debug("Resolved network definition",
			"network", def.Identifier,
			"primary_rpc", def.PrimaryRPCURL,
			"fallback_count", len(def.FallbackRPCURLs))
	}
	return def
}

func dedupe(primary string, urls []string) []string {
	seen := map[string]struct{}{strings.ToLower(primary): {}}
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		key := strings.ToLower(u)
		if _, ok := seen[key]; ok || u == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
