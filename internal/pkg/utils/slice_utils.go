package utils

import (
	dexscreener_entity "bert_flex/internal/entity" // Для DEXLiquidity
)

// SafeDerefFloat64 безопасно разыменовывает указатель и получает float64.
// Принимает указатель на DEXLiquidity и функцию-геттер.
func SafeDerefFloat64(liquidity *dexscreener_entity.DEXLiquidity, getter func(dexscreener_entity.DEXLiquidity) float64) float64 {
	if liquidity == nil {
		return 0.0
	}
	return getter(*liquidity)
}

// Float64Ptr returns a pointer to a copy of v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}

// FirstNonZero returns the first value that is present and non-zero.
func FirstNonZero(values ...*float64) float64 {
	for _, v := range values {
		if v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}
