package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMint = "HgBRWfYxEfvPhtqkaeymCQtHCrKE46qQ43pKe8HCpump"

func serveJSON(t *testing.T, status int, body string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &path
}

func TestGetTokenPairs_WrappedResponse(t *testing.T) {
	srv, path := serveJSON(t, http.StatusOK, `{
		"schemaVersion": "1.0.0",
		"pairs": [
			{"chainId": "solana", "dexId": "raydium", "pairAddress": "P1", "priceUsd": "0.0123",
			 "liquidity": {"usd": 50000}, "marketCap": 1200000, "fdv": 1300000,
			 "volume": {"h24": 34000}, "priceChange": {"h24": -4.5}},
			{"chainId": "solana", "dexId": "orca", "pairAddress": "P2", "priceUsd": "0.0121"}
		]
	}`)
	c := NewClient(srv.URL+"/", time.Second, zap.NewNop())

	pairs, err := c.GetTokenPairs(context.Background(), testMint)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "/latest/dex/tokens/"+testMint, path.Load())
	assert.Equal(t, "0.0123", pairs[0].PriceUsd)
	require.NotNil(t, pairs[0].Liquidity)
	assert.Equal(t, 50000.0, pairs[0].Liquidity.Usd)
	assert.Equal(t, -4.5, pairs[0].PriceChange.H24)
	assert.Nil(t, pairs[1].Liquidity)
	assert.Nil(t, pairs[1].MarketCap)
}

func TestGetTokenPairs_NullPairs(t *testing.T) {
	srv, _ := serveJSON(t, http.StatusOK, `{"schemaVersion": "1.0.0", "pairs": null}`)
	c := NewClient(srv.URL, time.Second, zap.NewNop())

	pairs, err := c.GetTokenPairs(context.Background(), testMint)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestGetTokenPairs_BareArray(t *testing.T) {
	srv, _ := serveJSON(t, http.StatusOK, `[{"pairAddress": "P1", "priceUsd": "1.5"}]`)
	c := NewClient(srv.URL, time.Second, zap.NewNop())

	pairs, err := c.GetTokenPairs(context.Background(), testMint)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "P1", pairs[0].PairAddress)
}

func TestGetTokenPairs_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv, _ := serveJSON(t, http.StatusTooManyRequests, `{"error":"rate limited"}`)
		_, err := NewClient(srv.URL, time.Second, zap.NewNop()).GetTokenPairs(context.Background(), testMint)
		require.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := serveJSON(t, http.StatusOK, `<html>nope</html>`)
		_, err := NewClient(srv.URL, time.Second, zap.NewNop()).GetTokenPairs(context.Background(), testMint)
		require.Error(t, err)
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := NewClient("http://localhost", time.Second, zap.NewNop()).GetTokenPairs(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"pairs": []}`))
		}))
		t.Cleanup(srv.Close)
		_, err := NewClient(srv.URL, 50*time.Millisecond, zap.NewNop()).GetTokenPairs(context.Background(), testMint)
		require.Error(t, err)
	})
}
