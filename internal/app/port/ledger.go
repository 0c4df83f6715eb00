package port

import (
	"context"
	"time"

	"bert_flex/internal/domain/entity"
)

// LedgerClient defines the read-only queries made against the chain's JSON-RPC API.
// Implementations absorb transport and parse failures: a nil result means the lookup failed.
type LedgerClient interface {
	// GetTokenBalance returns the summed balance across all of the owner's accounts for the mint.
	// Owners with no accounts get 0.
	GetTokenBalance(ctx context.Context, owner string) *float64

	// GetFirstAcquiredAt approximates when the owner first received the token.
	GetFirstAcquiredAt(ctx context.Context, owner string) *time.Time

	// GetHolderRank returns the owner's exact or estimated holder rank.
	GetHolderRank(ctx context.Context, owner string) *entity.RankInfo

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}
