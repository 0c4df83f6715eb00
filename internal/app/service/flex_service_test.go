package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/logger"
	"bert_flex/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

// inFlightTracker records how many lookups overlap. A nil tracker records nothing.
type inFlightTracker struct {
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (t *inFlightTracker) track() func() {
	if t == nil {
		return func() {}
	}
	n := t.inFlight.Add(1)
	for {
		m := t.maxFlight.Load()
		if n <= m || t.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(t.delay)
	return func() { t.inFlight.Add(-1) }
}

type fakeLedger struct {
	balance   *float64
	firstSeen *time.Time
	rank      *entity.RankInfo
	tracker   *inFlightTracker
}

func (f *fakeLedger) GetTokenBalance(context.Context, string) *float64 {
	defer f.tracker.track()()
	return f.balance
}

func (f *fakeLedger) GetFirstAcquiredAt(context.Context, string) *time.Time {
	defer f.tracker.track()()
	return f.firstSeen
}

func (f *fakeLedger) GetHolderRank(context.Context, string) *entity.RankInfo {
	defer f.tracker.track()()
	return f.rank
}

func (f *fakeLedger) Definition() entity.NetworkDefinition {
	return entity.NetworkDefinition{Identifier: "solana", BlockExplorerURL: "https://solscan.io"}
}

type fakeMarket struct {
	data    *entity.MarketData
	tracker *inFlightTracker
}

func (f *fakeMarket) FetchMarketData(context.Context) *entity.MarketData {
	defer f.tracker.track()()
	return f.data
}

type fakeRenderer struct {
	calls int
	err   error
	seen  *entity.WalletSnapshot
}

func (f *fakeRenderer) Render(s *entity.WalletSnapshot) (*entity.FlexCard, error) {
	f.calls++
	f.seen = s
	if f.err != nil {
		return nil, f.err
	}
	return &entity.FlexCard{Image: []byte("png"), Width: 800, Height: 480, Caption: "caption"}, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newFlex(l *fakeLedger, m *fakeMarket, r *fakeRenderer) *FlexServiceImpl {
	s := NewFlexService(l, m, r, testToken, logger.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestBuildSnapshot_MergesAllLookups(t *testing.T) {
	firstSeen := fixedNow.Add(-45 * 24 * time.Hour)
	ledger := &fakeLedger{
		balance:   utils.Float64Ptr(1_000_000),
		firstSeen: &firstSeen,
		rank:      &entity.RankInfo{Rank: utils.IntPtr(7), Basis: entity.RankBasisExactTopN, TotalHolders: "20+"},
	}
	market := &fakeMarket{data: &entity.MarketData{PriceUSD: 0.01, MarketCapUSD: 9_500_000, PriceChange24hPct: 4.2}}

	snap := newFlex(ledger, market, &fakeRenderer{}).BuildSnapshot(context.Background(), testWallet)

	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.RequestID)
	assert.Equal(t, testWallet, snap.Address)
	assert.Equal(t, "9WzD...AWWM", snap.ShortAddress)
	assert.Equal(t, "solana", snap.Network)
	assert.Equal(t, "https://solscan.io/account/"+testWallet, snap.ExplorerURL)
	require.NotNil(t, snap.USDValue)
	assert.InDelta(t, 10_000.0, *snap.USDValue, 1e-6)
	assert.Equal(t, "1m 15d", snap.HoldDuration)
	assert.Equal(t, "STEADY", snap.TenureLabel)
	assert.Equal(t, 7, *snap.Rank)
	assert.Equal(t, entity.RankBasisExactTopN, snap.RankBasis)
	assert.Equal(t, "20+", snap.TotalHoldersDisplay)
	assert.Equal(t, "1.00M", snap.BalanceDisplay)
	assert.Equal(t, "$10.00K", snap.USDValueDisplay)
	assert.Equal(t, "🐋 #7 (Top 10)", snap.RankDisplay)
	assert.Equal(t, fixedNow, snap.FetchedAt)
	assert.Empty(t, snap.Errors)
}

func TestBuildSnapshot_RunsLookupsConcurrently(t *testing.T) {
	tracker := &inFlightTracker{delay: 50 * time.Millisecond}
	ledger := &fakeLedger{balance: utils.Float64Ptr(1), tracker: tracker}
	market := &fakeMarket{tracker: tracker}

	newFlex(ledger, market, &fakeRenderer{}).BuildSnapshot(context.Background(), testWallet)

	assert.Equal(t, int32(4), tracker.maxFlight.Load(), "balance, market, history and rank lookups overlap")
	assert.Zero(t, tracker.inFlight.Load())
}

func TestBuildSnapshot_FailuresDegradeIndependently(t *testing.T) {
	ledger := &fakeLedger{balance: utils.Float64Ptr(250)}

	snap := newFlex(ledger, &fakeMarket{}, &fakeRenderer{}).BuildSnapshot(context.Background(), testWallet)

	require.NotNil(t, snap.Balance)
	assert.Equal(t, 250.0, *snap.Balance)
	assert.Nil(t, snap.Market)
	assert.Nil(t, snap.USDValue)
	assert.Nil(t, snap.PriceUSD())
	assert.Equal(t, "$0", snap.USDValueDisplay)
	assert.Equal(t, utils.NewHolder, snap.HoldDuration)
	assert.Equal(t, "NEW", snap.TenureLabel)
	assert.Nil(t, snap.Rank)
	assert.Equal(t, entity.RankBasisUnknown, snap.RankBasis)
	assert.Equal(t, "unknown", snap.TotalHoldersDisplay)
	assert.Equal(t, "Unranked", snap.RankDisplay)

	ops := make([]string, 0, len(snap.Errors))
	for _, e := range snap.Errors {
		ops = append(ops, e.Operation)
	}
	assert.ElementsMatch(t, []string{entity.OperationMarket, entity.OperationRank}, ops)
}

func TestFlex_Outcomes(t *testing.T) {
	t.Run("fetch failed", func(t *testing.T) {
		r := &fakeRenderer{}
		res, err := newFlex(&fakeLedger{}, &fakeMarket{}, r).Flex(context.Background(), testWallet)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeFetchFailed, res.Outcome)
		assert.Nil(t, res.Card)
		assert.Zero(t, r.calls)
		assert.Equal(t, "0", res.Snapshot.BalanceDisplay)
	})

	t.Run("no holdings", func(t *testing.T) {
		r := &fakeRenderer{}
		res, err := newFlex(&fakeLedger{balance: utils.Float64Ptr(0)}, &fakeMarket{}, r).Flex(context.Background(), testWallet)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeNoHoldings, res.Outcome)
		assert.Zero(t, r.calls)
	})

	t.Run("ready", func(t *testing.T) {
		r := &fakeRenderer{}
		res, err := newFlex(&fakeLedger{balance: utils.Float64Ptr(42)}, &fakeMarket{}, r).Flex(context.Background(), testWallet)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeReady, res.Outcome)
		require.NotNil(t, res.Card)
		assert.Equal(t, 1, r.calls)
		assert.Same(t, res.Snapshot, r.seen)
	})

	t.Run("render error", func(t *testing.T) {
		renderErr := errors.New("boom")
		r := &fakeRenderer{err: renderErr}
		res, err := newFlex(&fakeLedger{balance: utils.Float64Ptr(42)}, &fakeMarket{}, r).Flex(context.Background(), testWallet)
		require.ErrorIs(t, err, renderErr)
		require.NotNil(t, res)
		assert.Nil(t, res.Card)
	})
}

func TestPrice(t *testing.T) {
	data := &entity.MarketData{PriceUSD: 0.0123}
	s := newFlex(&fakeLedger{}, &fakeMarket{data: data}, &fakeRenderer{})

	assert.Same(t, data, s.Price(context.Background()))
	assert.Equal(t, "$BERT", s.Token().Ticker)
}
