package service

import (
	"context"
	"fmt"
	"time"

	"bert_flex/internal/app/port"
	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FlexServiceImpl implements port.FlexService.
type FlexServiceImpl struct {
	ledger   port.LedgerClient
	market   port.MarketService
	renderer port.CardRenderer
	token    entity.TokenInfo
	logger   port.Logger
	now      func() time.Time
}

// NewFlexService creates a new instance of FlexServiceImpl.
func NewFlexService(
	ledger port.LedgerClient,
	market port.MarketService,
	renderer port.CardRenderer,
	token entity.TokenInfo,
	l port.Logger,
) *FlexServiceImpl {
	return &FlexServiceImpl{
		ledger:   ledger,
		market:   market,
		renderer: renderer,
		token:    token,
		logger:   l,
		now:      time.Now,
	}
}

// BuildSnapshot implements port.FlexService. The four lookups run concurrently and
// the merge waits for all of them; a failed lookup never cancels the others.
func (s *FlexServiceImpl) BuildSnapshot(ctx context.Context, address string) *entity.WalletSnapshot {
	requestID := uuid.NewString()
	log := s.logger.With("request_id", requestID, "wallet_address", address)
	log.Debug("Building wallet snapshot")

	var (
		balance   *float64
		market    *entity.MarketData
		firstSeen *time.Time
		rank      *entity.RankInfo
		g         errgroup.Group
	)
	g.Go(func() error {
		balance = s.ledger.GetTokenBalance(ctx, address)
		return nil
	})
	g.Go(func() error {
		market = s.market.FetchMarketData(ctx)
		return nil
	})
	g.Go(func() error {
		firstSeen = s.ledger.GetFirstAcquiredAt(ctx, address)
		return nil
	})
	g.Go(func() error {
		rank = s.ledger.GetHolderRank(ctx, address)
		return nil
	})
	_ = g.Wait()

	now := s.now().UTC()
	network := s.ledger.Definition()
	snapshot := &entity.WalletSnapshot{
		RequestID:       requestID,
		Address:         address,
		ShortAddress:    utils.ShortAddress(address),
		Network:         network.Identifier,
		ExplorerURL:     network.AccountURL(address),
		Balance:         balance,
		Market:          market,
		FirstAcquiredAt: firstSeen,
		FetchedAt:       now,
	}

	if price := snapshot.PriceUSD(); balance != nil && price != nil {
		snapshot.USDValue = utils.Float64Ptr(*balance * *price)
	}

	snapshot.HoldDuration = utils.FormatHoldDuration(firstSeen, now)
	snapshot.TenureLabel = utils.TenureLabel(snapshot.HoldDuration)

	if rank != nil {
		snapshot.Rank = rank.Rank
		snapshot.RankBasis = rank.Basis
		snapshot.TotalHoldersDisplay = rank.TotalHolders
	} else {
		snapshot.RankBasis = entity.RankBasisUnknown
		snapshot.TotalHoldersDisplay = "unknown"
	}

	snapshot.BalanceDisplay = utils.FormatOptionalTokenAmount(balance)
	snapshot.USDValueDisplay = utils.FormatOptionalUSD(snapshot.USDValue)
	snapshot.RankDisplay = utils.FormatRank(snapshot.Rank)

	if balance == nil {
		snapshot.Errors = append(snapshot.Errors, entity.LookupError{
			Operation: entity.OperationBalance, WalletAddress: address, Message: "token balance lookup failed"})
	}
	if market == nil {
		snapshot.Errors = append(snapshot.Errors, entity.LookupError{
			Operation: entity.OperationMarket, Message: "market data unavailable"})
	}
	if rank == nil {
		snapshot.Errors = append(snapshot.Errors, entity.LookupError{
			Operation: entity.OperationRank, WalletAddress: address, Message: "holder rank unavailable"})
	}

	log.Info("Wallet snapshot built",
		"balance", snapshot.BalanceDisplay,
		"usd_value", snapshot.USDValueDisplay,
		"hold_duration", snapshot.HoldDuration,
		"rank_basis", snapshot.RankBasis,
		"error_count", len(snapshot.Errors))
	return snapshot
}

// Flex implements port.FlexService. The card is rendered only for wallets with a
// positive balance; the returned error is set only when rendering itself fails.
func (s *FlexServiceImpl) Flex(ctx context.Context, address string) (*entity.FlexResult, error) {
	snapshot := s.BuildSnapshot(ctx, address)
	result := &entity.FlexResult{Snapshot: snapshot}

	switch {
	case snapshot.Balance == nil:
		result.Outcome = entity.OutcomeFetchFailed
		return result, nil
	case !snapshot.HasHoldings():
		result.Outcome = entity.OutcomeNoHoldings
		return result, nil
	}

	card, err := s.renderer.Render(snapshot)
	if err != nil {
		s.logger.Error("Failed to render flex card", "request_id", snapshot.RequestID, "error", err)
		return result, fmt.Errorf("render flex card for %s: %w", address, err)
	}
	result.Outcome = entity.OutcomeReady
	result.Card = card
	return result, nil
}

// Price implements port.FlexService.
func (s *FlexServiceImpl) Price(ctx context.Context) *entity.MarketData {
	return s.market.FetchMarketData(ctx)
}

// Token returns the token this service reports on.
func (s *FlexServiceImpl) Token() entity.TokenInfo {
	return s.token
}
