package telegram

import (
	"fmt"
	"html"
	"strconv"

	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/utils"
)

const (
	cardFileName = "bert_flex_card.png"

	msgPriceFailed  = "❌ Couldn't fetch price data. Try again later."
	msgInvalidAddr  = "❌ That doesn't look like a valid Solana wallet address.\nIt should be 32-44 characters of base58 (letters and numbers, no 0/O/I/l)."
	msgFetchFailed  = "❌ Couldn't read wallet data. Check the address and try again."
	msgUnexpected   = "❌ Something went wrong generating your flex card.\nThe Solana RPC might be rate-limited. Try again in a minute!"
	msgNotAvailable = "N/A"
)

func welcomeText(token entity.TokenInfo) string {
	return fmt.Sprintf("🐶 <b>Welcome to the %s Flex Bot!</b>\n\n"+
		"Show off your <b>%s</b> bag with a custom cyberpunk flex card.\n\n"+
		"<b>Commands:</b>\n"+
		"  /flex &lt;wallet&gt; — Generate your flex card\n"+
		"  /price — Quick price check\n\n"+
		"<i>Paste your Solana wallet address to flex on the timeline.</i> 💎",
		html.EscapeString(token.Ticker), html.EscapeString(token.Name))
}

func fetchingPriceText(token entity.TokenInfo) string {
	return fmt.Sprintf("⏳ Fetching %s price...", token.Ticker)
}

func priceText(token entity.TokenInfo, m *entity.MarketData) string {
	arrow := "🟢 ▲"
	if m.PriceChange24hPct < 0 {
		arrow = "🔴 ▼"
	}
	return fmt.Sprintf("<b>%s Price Update</b>\n\n"+
		"💰 Price: <code>%s</code>\n"+
		"%s 24h: <b>%s</b>\n"+
		"📊 MCap: <b>%s</b>\n"+
		"📈 24h Vol: <b>%s</b>\n\n"+
		"<i>/flex &lt;wallet&gt; to show off your bag!</i>",
		html.EscapeString(token.Ticker),
		utils.FormatPrice(m.PriceUSD),
		arrow,
		utils.FormatSignedPercent(m.PriceChange24hPct),
		utils.FormatCompactUSD(m.MarketCapUSD),
		utils.FormatCompactUSD(m.Volume24hUSD))
}

func usageText(token entity.TokenInfo) string {
	return fmt.Sprintf("🐶 <b>How to flex:</b>\n\n"+
		"<code>/flex YourSolanaWalletAddress</code>\n\n"+
		"Paste your Solana wallet address after /flex to generate your %s flex card!",
		html.EscapeString(token.Ticker))
}

func cooldownText(seconds int) string {
	return "⏳ Cooldown! Try again in " + strconv.Itoa(seconds) + "s."
}

func generatingText(token entity.TokenInfo) string {
	return fmt.Sprintf("⚡ Generating %s flex card...\n<i>Scanning wallet on Solana...</i>", html.EscapeString(token.Ticker))
}

func noHoldingsText(token entity.TokenInfo) string {
	return fmt.Sprintf("😢 This wallet doesn't hold any %s!\n\nBuy some %s first, then come back to flex. 🐶",
		token.Ticker, token.Ticker)
}

func cardCaption(token entity.TokenInfo, s *entity.WalletSnapshot) string {
	holding := s.HoldDuration
	if holding == "" {
		holding = msgNotAvailable
	}
	return fmt.Sprintf("🐶 <b>%s FLEX</b> by %s\n\n"+
		"💰 %s %s (≈ %s)\n"+
		"💎 Holding for: %s\n\n"+
		"<i>Flex your bag → /flex</i>",
		html.EscapeString(token.Ticker), html.EscapeString(s.ShortAddress),
		s.BalanceDisplay, html.EscapeString(token.Symbol), html.EscapeString(s.USDValueDisplay),
		html.EscapeString(holding))
}
