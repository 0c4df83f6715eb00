package entity

// TokenAccountBalance is the parsed amount held by a single token-holding account.
type TokenAccountBalance struct {
	Account  string  `json:"account"`
	UIAmount float64 `json:"uiAmount"`
}

// RankBasis tells how a holder rank was obtained.
type RankBasis string

const (
	RankBasisUnknown   RankBasis = "unknown"
	RankBasisExactTopN RankBasis = "exact_top_n"
	RankBasisEstimated RankBasis = "estimated"
)

// RankInfo is the result of a holder rank lookup.
type RankInfo struct {
	Rank         *int      `json:"rank"`
	Basis        RankBasis `json:"basis"`
	TotalHolders string    `json:"totalHolders"` // "20+", "est.", a list size, or "unknown"
}
