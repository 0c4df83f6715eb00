package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTokenAmount renders a token amount with a B/M/K suffix.
// Example: 1234567 => "1.23M", 987 => "987.00"
func FormatTokenAmount(n float64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", n/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fK", n/1_000)
	}
	return FormatThousands(n, 2)
}

// FormatUSD renders a dollar value.
// Example: 176740 => "$176.74K", 0.0098 => "$0.0098"
func FormatUSD(n float64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("$%.2fM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("$%.2fK", n/1_000)
	case n >= 1:
		return "$" + FormatThousands(n, 2)
	}
	return fmt.Sprintf("$%.4f", n)
}

// FormatOptionalUSD is FormatUSD with "$0" for a missing or zero value.
func FormatOptionalUSD(n *float64) string {
	if n == nil || *n == 0 {
		return "$0"
	}
	return FormatUSD(*n)
}

// FormatOptionalTokenAmount is FormatTokenAmount with "0" for a missing or zero value.
func FormatOptionalTokenAmount(n *float64) string {
	if n == nil || *n == 0 {
		return "0"
	}
	return FormatTokenAmount(*n)
}

// FormatMarketCap renders a market cap with one decimal, "N/A" when unknown.
func FormatMarketCap(mcap *float64) string {
	if mcap == nil || *mcap == 0 {
		return "N/A"
	}
	v := *mcap
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	}
	return fmt.Sprintf("$%.0f", v)
}

// FormatCompactUSD renders "$X.XXM" from one million up, "$X,XXX" below.
func FormatCompactUSD(n float64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("$%.2fM", n/1_000_000)
	}
	return "$" + FormatThousands(n, 0)
}

// FormatPrice renders a unit price with eight decimals.
func FormatPrice(n float64) string {
	return fmt.Sprintf("$%.8f", n)
}

// FormatSignedPercent renders a percentage with an explicit sign, e.g. "+12.80%".
func FormatSignedPercent(n float64) string {
	return fmt.Sprintf("%+.2f%%", n)
}

// FormatChange24h renders the short card form, e.g. "+12.8% 24h".
func FormatChange24h(n float64) string {
	return fmt.Sprintf("%+.1f%% 24h", n)
}

// ShortAddress keeps the first and last four characters of an address.
func ShortAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}

// FormatThousands formats n with a fixed number of decimals and comma-grouped thousands.
func FormatThousands(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}
