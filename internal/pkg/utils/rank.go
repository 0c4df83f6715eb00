package utils

import "fmt"

// EstimateRank guesses a holder rank for a wallet that is not in the largest-holders list,
// from the ratio of its balance to the smallest balance in that list.
//
// This is an order-of-magnitude figure, not a measured position: the holder distribution
// below the list is unknown and the three tiers are fixed guesses. Returns nil when either
// balance is not positive.
func EstimateRank(userBalance, smallestTopBalance float64) *int {
	if userBalance <= 0 || smallestTopBalance <= 0 {
		return nil
	}
	ratio := userBalance / smallestTopBalance
	var rank int
	switch {
	case ratio > 0.5:
		rank = 20 + int((1-ratio)*30)
	case ratio > 0.1:
		rank = 50 + int((1-ratio)*200)
	default:
		rank = 250 + int((1-ratio)*1000)
	}
	return &rank
}

// FormatRank renders a holder rank with its tier badge.
func FormatRank(rank *int) string {
	if rank == nil {
		return "Unranked"
	}
	r := *rank
	switch {
	case r <= 10:
		return fmt.Sprintf("🐋 #%d (Top 10)", r)
	case r <= 50:
		return fmt.Sprintf("🦈 #%d (Top 50)", r)
	case r <= 100:
		return fmt.Sprintf("🐬 #%d (Top 100)", r)
	}
	return fmt.Sprintf("🐟 ~#%d", r)
}
