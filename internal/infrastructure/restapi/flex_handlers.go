package restapi

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const surfaceHTTP = "http"

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIPriceResponse is the body of GET /price.
type APIPriceResponse struct {
	Token     string             `json:"token"`
	Mint      string             `json:"mint"`
	Market    *entity.MarketData `json:"market"`
	Price     string             `json:"price"`
	Change24h string             `json:"change24h"`
	MarketCap string             `json:"marketCap"`
	Volume24h string             `json:"volume24h"`
}

// FlexHandler serves flex cards, snapshots and price data over HTTP.
type FlexHandler struct {
	flexService port.FlexService
	cooldown    port.CooldownTracker
	logger      port.Logger
}

// NewFlexHandler creates a new instance of FlexHandler.
func NewFlexHandler(fs port.FlexService, cooldown port.CooldownTracker, l port.Logger) *FlexHandler {
	return &FlexHandler{flexService: fs, cooldown: cooldown, logger: l}
}

// GetFlexCardHandler renders the flex card for the wallet in the path.
func (h *FlexHandler) GetFlexCardHandler(c *gin.Context) {
	address, ok := h.walletParam(c)
	if !ok {
		return
	}
	if !h.acquire(c, address) {
		return
	}

	result, err := h.flexService.Flex(c.Request.Context(), address)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(surfaceHTTP, "error").Inc()
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIError{Error: "render_failed", Message: "Something went wrong generating the flex card."})
		return
	}
	metrics.RequestsTotal.WithLabelValues(surfaceHTTP, result.Outcome.String()).Inc()

	switch result.Outcome {
	case entity.OutcomeFetchFailed:
		c.JSON(http.StatusBadGateway, APIError{Error: result.Outcome.String(), Message: "Couldn't read wallet data. Check the address and try again."})
	case entity.OutcomeNoHoldings:
		c.JSON(http.StatusNotFound, APIError{Error: result.Outcome.String(), Message: "This wallet doesn't hold the token."})
	default:
		c.Header("X-Flex-Caption", url.QueryEscape(result.Card.Caption))
		c.Header("X-Request-Id", result.Snapshot.RequestID)
		c.Data(http.StatusOK, "image/png", result.Card.Image)
	}
}

// GetSnapshotHandler returns the merged wallet snapshot as JSON without rendering.
// It runs the same ledger lookups as a card, so it shares the per-wallet cooldown.
func (h *FlexHandler) GetSnapshotHandler(c *gin.Context) {
	address, ok := h.walletParam(c)
	if !ok {
		return
	}
	if !h.acquire(c, address) {
		return
	}
	snapshot := h.flexService.BuildSnapshot(c.Request.Context(), address)
	metrics.RequestsTotal.WithLabelValues(surfaceHTTP, "snapshot").Inc()

	body, err := json.Marshal(snapshot)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIError{Error: "encode_failed", Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetPriceHandler returns the current market summary.
func (h *FlexHandler) GetPriceHandler(c *gin.Context) {
	market := h.flexService.Price(c.Request.Context())
	if market == nil {
		c.JSON(http.StatusBadGateway, APIError{Error: "market_unavailable", Message: "Couldn't fetch price data. Try again later."})
		return
	}
	token := h.flexService.Token()
	c.JSON(http.StatusOK, APIPriceResponse{
		Token:     token.Ticker,
		Mint:      token.Mint,
		Market:    market,
		Price:     utils.FormatPrice(market.PriceUSD),
		Change24h: utils.FormatSignedPercent(market.PriceChange24hPct),
		MarketCap: utils.FormatCompactUSD(market.MarketCapUSD),
		Volume24h: utils.FormatCompactUSD(market.Volume24hUSD),
	})
}

func (h *FlexHandler) walletParam(c *gin.Context) (string, bool) {
	address := utils.NormalizeAddress(c.Param("wallet"))
	if err := utils.ValidateSolanaAddress(address); err != nil {
		metrics.RequestsTotal.WithLabelValues(surfaceHTTP, "invalid_address").Inc()
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid_address", Message: "Invalid Solana address. It should be 32-44 base58 characters."})
		return "", false
	}
	return address, true
}

func (h *FlexHandler) acquire(c *gin.Context, address string) bool {
	if h.cooldown == nil {
		return true
	}
	ok, remaining, err := h.cooldown.Acquire(c.Request.Context(), address)
	if err != nil {
		// Tracker errors fail open.
		h.logger.Warn("Cooldown check failed, serving request", "wallet_address", address, "error", err)
		return true
	}
	if ok {
		return true
	}
	seconds := int(math.Ceil(remaining.Seconds()))
	metrics.RequestsTotal.WithLabelValues(surfaceHTTP, "cooldown").Inc()
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.JSON(http.StatusTooManyRequests, APIError{Error: "cooldown", Message: "Cooldown! Try again in " + strconv.Itoa(seconds) + "s."})
	return false
}
