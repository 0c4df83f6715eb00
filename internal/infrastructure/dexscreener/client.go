package dexscreener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bert_flex/internal/app/port"
	"bert_flex/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// dexScreenerClientImpl implements port.PairSource against the public DEX Screener API.
type dexScreenerClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a new DEX Screener pair source.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) port.PairSource {
	return &dexScreenerClientImpl{
		client:  &fasthttp.Client{Name: "bert-flex"},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("DEXScreenerClient"),
	}
}

// GetTokenPairs implements port.PairSource.
func (c *dexScreenerClientImpl) GetTokenPairs(ctx context.Context, tokenAddress string) ([]entity.PairData, error) {
	if tokenAddress == "" {
		return nil, fmt.Errorf("tokenAddress cannot be empty")
	}
	requestURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, tokenAddress)

	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	// The context deadline wins when it is tighter than the client timeout.
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute request to DEX Screener", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("DEX Screener API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("DEX Screener API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var wrapper entity.DEXTokenPair
	if err := json.Unmarshal(rawBody, &wrapper); err == nil {
		c.logger.Debug("Successfully unmarshalled DEX Screener response (wrapped object)",
			zap.String("tokenAddress", tokenAddress),
			zap.Int("pairCount", len(wrapper.Pairs)))
		return wrapper.Pairs, nil
	}

	// Some endpoints answer with a bare array of pairs.
	var directPairs []entity.PairData
	if err := json.Unmarshal(rawBody, &directPairs); err != nil {
		c.logger.Error("Failed to unmarshal DEX Screener response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}

	c.logger.Debug("Successfully unmarshalled DEX Screener response (direct array)",
		zap.String("tokenAddress", tokenAddress),
		zap.Int("pairCount", len(directPairs)))
	return directPairs, nil
}
