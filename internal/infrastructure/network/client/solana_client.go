package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bert_flex/internal/domain/entity"
	"bert_flex/internal/pkg/metrics"
	"bert_flex/internal/pkg/utils"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	methodGetTokenAccountsByOwner = "getTokenAccountsByOwner"
	methodGetTokenLargestAccounts = "getTokenLargestAccounts"
	methodGetSignaturesForAddress = "getSignaturesForAddress"
	defaultSignatureLimit         = 1000
	exactRankTotalHolders         = "20+"
	estimatedRankTotalHolders     = "est."
	unknownRankTotalHolders       = "unknown"
	limiterIdleTTL                = 5 * time.Minute
)

// SolanaClientOptions tunes transport behaviour.
type SolanaClientOptions struct {
	HTTPClient        *http.Client
	ConnectionTimeout time.Duration
	RPCCallTimeout    time.Duration
	SignatureLimit    int
	RateLimit         float64 // requests per second per owner address, 0 disables
	BurstLimit        int
}

// SolanaClient implements port.LedgerClient over the Solana JSON-RPC API.
type SolanaClient struct {
	rpcClient      *gethrpc.Client
	endpoint       string
	netDef         entity.NetworkDefinition
	mint           solana.PublicKey
	rpcCallTimeout time.Duration
	signatureLimit int
	rateLimit      rate.Limit
	burstLimit     int
	limiters       *cache.Cache // owner -> *rate.Limiter, nil when rate limiting is off
	limitersMu     sync.Mutex
	logger         *zap.Logger
}

// parsedTokenAccount is the jsonParsed shape of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string               `json:"mint"`
			Owner       string               `json:"owner"`
			TokenAmount solrpc.UiTokenAmount `json:"tokenAmount"`
		} `json:"info"`
		Type string `json:"type"`
	} `json:"parsed"`
	Program string `json:"program"`
}

type signaturesConfig struct {
	Limit int `json:"limit"`
}

type encodingConfig struct {
	Encoding solana.EncodingType `json:"encoding"`
}

// NewSolanaClient creates a new Solana client for the given network definition and token mint.
func NewSolanaClient(netDef entity.NetworkDefinition, mint string, opts SolanaClientOptions, logger *zap.Logger) (*SolanaClient, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint %q: %w", mint, err)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.ConnectionTimeout <= 0 {
		opts.ConnectionTimeout = 10 * time.Second
	}
	if opts.RPCCallTimeout <= 0 {
		opts.RPCCallTimeout = 30 * time.Second
	}
	if opts.SignatureLimit <= 0 {
		opts.SignatureLimit = defaultSignatureLimit
	}
	var limiters *cache.Cache
	if opts.RateLimit > 0 {
		if opts.BurstLimit <= 0 {
			opts.BurstLimit = 1
		}
		limiters = cache.New(limiterIdleTTL, 2*limiterIdleTTL)
	}

	rpcURLs := netDef.RPCURLs()
	var lastErr error
	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
		rpcClient, err := gethrpc.DialOptions(ctx, rpcURL, gethrpc.WithHTTPClient(opts.HTTPClient))
		cancel()

		if err == nil {
			return &SolanaClient{
				rpcClient:      rpcClient,
				endpoint:       rpcURL,
				netDef:         netDef,
				mint:           mintKey,
				rpcCallTimeout: opts.RPCCallTimeout,
				signatureLimit: opts.SignatureLimit,
				rateLimit:      rate.Limit(opts.RateLimit),
				burstLimit:     opts.BurstLimit,
				limiters:       limiters,
				logger:         logger.Named("SolanaClient"),
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC endpoints configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// Close releases the underlying RPC client.
func (c *SolanaClient) Close() {
	c.rpcClient.Close()
}

// Definition returns the network definition for this client.
func (c *SolanaClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Endpoint returns the RPC URL the client is connected to.
func (c *SolanaClient) Endpoint() string {
	return c.endpoint
}

// GetTokenBalance sums the balance of every account the owner holds for the mint.
func (c *SolanaClient) GetTokenBalance(ctx context.Context, owner string) *float64 {
	started := time.Now()
	accounts, err := c.fetchTokenAccounts(ctx, owner)
	if err != nil {
		c.fail(entity.OperationBalance, owner, started, err)
		return nil
	}
	if len(accounts) == 0 {
		metrics.ObserveLookup(entity.OperationBalance, metrics.OutcomeEmpty, started)
		return utils.Float64Ptr(0)
	}

	var total float64
	for _, acc := range accounts {
		total += acc.UIAmount
	}
	metrics.ObserveLookup(entity.OperationBalance, metrics.OutcomeOK, started)
	c.logger.Debug("Fetched token balance",
		zap.String("owner", owner),
		zap.Int("accountCount", len(accounts)),
		zap.Float64("balance", total))
	return &total
}

// GetFirstAcquiredAt returns the block time of the oldest signature visible on the owner's
// first token account. Only the newest signatureLimit signatures are examined, so for
// busy accounts this is the start of that window rather than the true first receipt.
func (c *SolanaClient) GetFirstAcquiredAt(ctx context.Context, owner string) *time.Time {
	started := time.Now()
	accounts, err := c.fetchTokenAccounts(ctx, owner)
	if err != nil {
		c.fail(entity.OperationHistory, owner, started, err)
		return nil
	}
	if len(accounts) == 0 {
		metrics.ObserveLookup(entity.OperationHistory, metrics.OutcomeEmpty, started)
		return nil
	}

	var signatures []*solrpc.TransactionSignature
	err = c.call(ctx, owner, &signatures, methodGetSignaturesForAddress,
		accounts[0].Account, signaturesConfig{Limit: c.signatureLimit})
	if err != nil {
		c.fail(entity.OperationHistory, owner, started, err)
		return nil
	}
	if len(signatures) == 0 {
		metrics.ObserveLookup(entity.OperationHistory, metrics.OutcomeEmpty, started)
		return nil
	}

	// Signatures come back newest first.
	oldest := signatures[len(signatures)-1]
	if oldest == nil || oldest.BlockTime == nil {
		metrics.ObserveLookup(entity.OperationHistory, metrics.OutcomeEmpty, started)
		return nil
	}
	ts := oldest.BlockTime.Time().UTC()
	metrics.ObserveLookup(entity.OperationHistory, metrics.OutcomeOK, started)
	c.logger.Debug("Fetched first acquisition time",
		zap.String("owner", owner),
		zap.String("tokenAccount", accounts[0].Account),
		zap.Int("signatureCount", len(signatures)),
		zap.Time("firstAcquiredAt", ts))
	return &ts
}

// GetHolderRank locates the owner's first token account in the largest-holders list.
// Owners outside the list get an estimate from utils.EstimateRank, which is coarse.
// The largest-holders list and the owner's accounts are fetched in one JSON-RPC batch.
func (c *SolanaClient) GetHolderRank(ctx context.Context, owner string) *entity.RankInfo {
	started := time.Now()
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		c.fail(entity.OperationRank, owner, started, err)
		return nil
	}

	var largest solrpc.GetTokenLargestAccountsResult
	var owned solrpc.GetTokenAccountsResult
	batch := []gethrpc.BatchElem{
		{
			Method: methodGetTokenLargestAccounts,
			Args:   []interface{}{c.mint.String()},
			Result: &largest,
		},
		{
			Method: methodGetTokenAccountsByOwner,
			Args:   c.tokenAccountsArgs(ownerKey),
			Result: &owned,
		},
	}
	if err := c.batchCall(ctx, owner, batch); err != nil {
		c.fail(entity.OperationRank, owner, started, err)
		return nil
	}
	for _, elem := range batch {
		if elem.Error != nil {
			c.fail(entity.OperationRank, owner, started, fmt.Errorf("%s: %w", elem.Method, elem.Error))
			return nil
		}
	}

	if len(largest.Value) == 0 {
		metrics.ObserveLookup(entity.OperationRank, metrics.OutcomeEmpty, started)
		return nil
	}

	accounts, err := decodeTokenAccounts(&owned)
	if err != nil {
		c.fail(entity.OperationRank, owner, started, err)
		return nil
	}
	if len(accounts) == 0 {
		metrics.ObserveLookup(entity.OperationRank, metrics.OutcomeEmpty, started)
		return &entity.RankInfo{Basis: entity.RankBasisUnknown, TotalHolders: strconv.Itoa(len(largest.Value))}
	}

	rank := rankFromLargest(largest.Value, accounts[0])
	metrics.ObserveLookup(entity.OperationRank, metrics.OutcomeOK, started)
	c.logger.Debug("Fetched holder rank",
		zap.String("owner", owner),
		zap.String("basis", string(rank.Basis)),
		zap.Int("listSize", len(largest.Value)))
	return rank
}

func rankFromLargest(largest []*solrpc.TokenLargestAccountsResult, first entity.TokenAccountBalance) *entity.RankInfo {
	for i, holder := range largest {
		if holder != nil && holder.Address.String() == first.Account {
			return &entity.RankInfo{Rank: utils.IntPtr(i + 1), Basis: entity.RankBasisExactTopN, TotalHolders: exactRankTotalHolders}
		}
	}

	var smallest float64
	if last := largest[len(largest)-1]; last != nil && last.UiAmount != nil {
		smallest = *last.UiAmount
	}
	if est := utils.EstimateRank(first.UIAmount, smallest); est != nil {
		return &entity.RankInfo{Rank: est, Basis: entity.RankBasisEstimated, TotalHolders: estimatedRankTotalHolders}
	}
	return &entity.RankInfo{Basis: entity.RankBasisUnknown, TotalHolders: unknownRankTotalHolders}
}

func (c *SolanaClient) fetchTokenAccounts(ctx context.Context, owner string) ([]entity.TokenAccountBalance, error) {
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner %q: %w", owner, err)
	}
	var result solrpc.GetTokenAccountsResult
	if err := c.call(ctx, owner, &result, methodGetTokenAccountsByOwner, c.tokenAccountsArgs(ownerKey)...); err != nil {
		return nil, err
	}
	return decodeTokenAccounts(&result)
}

func (c *SolanaClient) tokenAccountsArgs(owner solana.PublicKey) []interface{} {
	mint := c.mint
	return []interface{}{
		owner.String(),
		solrpc.GetTokenAccountsConfig{Mint: &mint},
		encodingConfig{Encoding: solana.EncodingJSONParsed},
	}
}

func decodeTokenAccounts(result *solrpc.GetTokenAccountsResult) ([]entity.TokenAccountBalance, error) {
	if result == nil {
		return nil, nil
	}
	balances := make([]entity.TokenAccountBalance, 0, len(result.Value))
	for _, acc := range result.Value {
		if acc == nil || acc.Account.Data == nil {
			return nil, fmt.Errorf("token account without data")
		}
		raw := acc.Account.Data.GetRawJSON()
		if raw == nil {
			return nil, fmt.Errorf("token account %s is not jsonParsed", acc.Pubkey)
		}
		var parsed parsedTokenAccount
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse token account %s: %w", acc.Pubkey, err)
		}
		var amount float64
		if parsed.Parsed.Info.TokenAmount.UiAmount != nil {
			amount = *parsed.Parsed.Info.TokenAmount.UiAmount
		}
		balances = append(balances, entity.TokenAccountBalance{Account: acc.Pubkey.String(), UIAmount: amount})
	}
	return balances, nil
}

// limiterFor returns the rate limiter of one owner address. Lookups for different
// wallets never wait on each other.
func (c *SolanaClient) limiterFor(owner string) *rate.Limiter {
	if c.limiters == nil {
		return nil
	}
	c.limitersMu.Lock()
	defer c.limitersMu.Unlock()
	if v, ok := c.limiters.Get(owner); ok {
		if l, ok := v.(*rate.Limiter); ok {
			return l
		}
	}
	l := rate.NewLimiter(c.rateLimit, c.burstLimit)
	c.limiters.SetDefault(owner, l)
	return l
}

// wait blocks on the owner's limiter. ctx must already carry the per-call deadline,
// so a throttled call fails within rpcCallTimeout.
func (c *SolanaClient) wait(ctx context.Context, owner, what string) error {
	limiter := c.limiterFor(owner)
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", what, err)
	}
	return nil
}

func (c *SolanaClient) call(ctx context.Context, owner string, result interface{}, method string, args ...interface{}) error {
	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.wait(rpcCallCtx, owner, method); err != nil {
		return err
	}
	if err := c.rpcClient.CallContext(rpcCallCtx, result, method, args...); err != nil {
		return fmt.Errorf("RPC call %s failed: %w", method, err)
	}
	return nil
}

func (c *SolanaClient) batchCall(ctx context.Context, owner string, batch []gethrpc.BatchElem) error {
	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.wait(rpcCallCtx, owner, "batch"); err != nil {
		return err
	}
	if err := c.rpcClient.BatchCallContext(rpcCallCtx, batch); err != nil {
		return fmt.Errorf("RPC batch call failed: %w", err)
	}
	return nil
}

func (c *SolanaClient) fail(operation, owner string, started time.Time, err error) {
	metrics.ObserveLookup(operation, metrics.OutcomeError, started)
	c.logger.Error("Ledger lookup failed",
		zap.String("operation", operation),
		zap.String("owner", owner),
		zap.String("endpoint", c.endpoint),
		zap.Error(err))
}
