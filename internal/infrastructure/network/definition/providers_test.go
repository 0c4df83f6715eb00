package networkdefinition

import (
	"testing"

	"bert_flex/internal/infrastructure/configloader"
	"bert_flex/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestResolve_DefaultEndpoint(t *testing.T) {
	def := Resolve(configloader.SolanaConfig{RPCURL: "https://api.mainnet-beta.solana.com"}, nil)

	assert.Equal(t, "https://api.mainnet-beta.solana.com", def.PrimaryRPCURL)
	assert.Equal(t, []string{"https://solana-rpc.publicnode.com"}, def.FallbackRPCURLs)
	assert.Equal(t, "solana", def.DEXScreenerChainID)
}

func TestResolve_CustomEndpointDemotesBuiltIns(t *testing.T) {
	def := Resolve(configloader.SolanaConfig{
		RPCURL:          "https://premium.example.com",
		FallbackRPCURLs: []string{"https://backup.example.com", "https://solana-rpc.publicnode.com"},
	}, nil)

	assert.Equal(t, "https://premium.example.com", def.PrimaryRPCURL)
	assert.Equal(t, []string{
		"https://api.mainnet-beta.solana.com",
		"https://backup.example.com",
		"https://solana-rpc.publicnode.com",
	}, def.FallbackRPCURLs)
	assert.Equal(t, SolanaMainnet.FallbackRPCURLs, []string{"https://solana-rpc.publicnode.com"}, "predefined value is not mutated")
}

func TestResolve_SelectsNetwork(t *testing.T) {
	def := Resolve(configloader.SolanaConfig{Network: "solana-devnet"}, logger.NewNop())
	assert.Equal(t, "solana-devnet", def.Identifier)
	assert.Equal(t, "https://api.devnet.solana.com", def.PrimaryRPCURL)
	assert.Empty(t, def.FallbackRPCURLs)
	assert.Equal(t, "https://solscan.io/account/abc?cluster=devnet", def.AccountURL("abc"))

	def = Resolve(configloader.SolanaConfig{Network: "ethereum"}, logger.NewNop())
	assert.Equal(t, "solana", def.Identifier, "unknown networks fall back to mainnet")
	assert.Equal(t, "https://solscan.io/account/abc", def.AccountURL("abc"))
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("SOLANA")
	assert.True(t, ok)
	assert.Equal(t, "Solana Mainnet Beta", def.Name)

	_, ok = Lookup("ethereum")
	assert.False(t, ok)
}
