package dexes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/poolcache"
	"solana-arb-scanner/internal/solana"
)

// Adapter binds one venue's decoder to the account fetcher and exposes
// price discovery for that venue's pools. Adapters hold no per-call mutable
// state; a single adapter is safe to share across concurrent pair scans.
type Adapter struct {
	venue       domain.Venue
	programID   string
	decoder     Decoder
	fetcher     solana.AccountFetcher
	cache       *poolcache.Cache
	hintA       domain.Token
	hintB       domain.Token
	slippageBps uint32
	logger      *zap.Logger
}

// AdapterOptions configures NewAdapter.
type AdapterOptions struct {
	Venue     domain.Venue
	ProgramID string // defaults to the venue's mainnet program
	Fetcher   solana.AccountFetcher
	Cache     *poolcache.Cache // optional
	// Token identity hints: pool accounts do not self-describe symbols or
	// decimals, so the expected pair is supplied externally.
	TokenAHint  domain.Token
	TokenBHint  domain.Token
	SlippageBps uint32 // defaults to DefaultSlippageBps
	Logger      *zap.Logger
}

// DefaultSlippageBps caps quote downside at 1% unless configured otherwise.
const DefaultSlippageBps = 100

// NewAdapter creates an adapter for the given venue.
func NewAdapter(opts AdapterOptions) (*Adapter, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("adapter for %s: fetcher is required", opts.Venue)
	}

	programID := opts.ProgramID
	if programID == "" {
		programID = opts.Venue.ProgramID()
	}

	decoder, err := NewDecoder(opts.Venue, programID)
	if err != nil {
		return nil, err
	}

	slippage := opts.SlippageBps
	if slippage == 0 {
		slippage = DefaultSlippageBps
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		venue:       opts.Venue,
		programID:   programID,
		decoder:     decoder,
		fetcher:     opts.Fetcher,
		cache:       opts.Cache,
		hintA:       opts.TokenAHint,
		hintB:       opts.TokenBHint,
		slippageBps: slippage,
		logger:      logger.With(zap.String("venue", opts.Venue.String())),
	}, nil
}

// Label returns the constant identity of this adapter.
func (a *Adapter) Label() domain.Venue {
	return a.venue
}

// GetPoolInfo fetches and decodes the pool account at poolAddress, then
// reads both vault balances to populate reserves. Results are served from
// the shared cache while unexpired.
func (a *Adapter) GetPoolInfo(ctx context.Context, poolAddress string) (*domain.PoolInfo, error) {
	if a.cache != nil {
		if pool, ok := a.cache.Get(poolAddress); ok && pool.Venue == a.venue {
			return pool, nil
		}
	}

	acc, err := a.fetcher.GetAccountBytes(ctx, poolAddress)
	if err != nil {
		return nil, fmt.Errorf("fetch pool %s: %w", poolAddress, err)
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: pool %s", domain.ErrAccountNotFound, poolAddress)
	}

	pool, err := a.decoder.Decode(poolAddress, acc.Data, acc.Owner, a.hintA, a.hintB)
	if err != nil {
		return nil, err
	}

	reserveA, err := a.vaultBalance(ctx, pool.TokenA.Vault)
	if err != nil {
		return nil, fmt.Errorf("vault %s of pool %s: %w", pool.TokenA.Vault, poolAddress, err)
	}
	reserveB, err := a.vaultBalance(ctx, pool.TokenB.Vault)
	if err != nil {
		return nil, fmt.Errorf("vault %s of pool %s: %w", pool.TokenB.Vault, poolAddress, err)
	}
	pool.Reserves.TokenAReserve = reserveA
	pool.Reserves.TokenBReserve = reserveB

	a.logger.Debug("decoded pool",
		zap.String("pool", poolAddress),
		zap.String("pair", pool.TokenA.Symbol+"/"+pool.TokenB.Symbol),
		zap.Uint64("reserve_a", reserveA),
		zap.Uint64("reserve_b", reserveB),
		zap.Uint32("fee_bps", pool.Fees.TradeFeeBps))

	if a.cache != nil {
		a.cache.Put(pool)
	}
	return pool, nil
}

// vaultBalance reads the amount field of an SPL token account.
func (a *Adapter) vaultBalance(ctx context.Context, vault string) (uint64, error) {
	acc, err := a.fetcher.GetAccountBytes(ctx, vault)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, domain.ErrAccountNotFound
	}
	if acc.Owner != domain.SPLTokenProgramID {
		return 0, fmt.Errorf("%w: vault owned by %s", domain.ErrOwnershipMismatch, acc.Owner)
	}
	return ParseTokenAccountAmount(acc.Data)
}

// GetSwapQuote simulates swapping amountIn of tokenIn against poolAddress.
// The pool must be active with both reserves positive; tokenIn must be one
// of the pool's two mints.
func (a *Adapter) GetSwapQuote(ctx context.Context, poolAddress string, amountIn uint64, tokenIn string) (*domain.SwapQuote, error) {
	if amountIn == 0 {
		return nil, domain.ErrInvalidAmount
	}

	pool, err := a.GetPoolInfo(ctx, poolAddress)
	if err != nil {
		return nil, err
	}
	if pool.State != domain.PoolStateActive {
		return nil, fmt.Errorf("%w: pool %s state %s", domain.ErrUnsupportedState, poolAddress, pool.State)
	}
	if pool.Reserves.TokenAReserve == 0 || pool.Reserves.TokenBReserve == 0 {
		return nil, fmt.Errorf("%w: pool %s has a zero reserve", domain.ErrMalformedAccount, poolAddress)
	}

	return buildQuote(pool, amountIn, tokenIn, a.slippageBps)
}

// CreateSwapInstruction serializes a venue-specific swap instruction for
// executing quote on behalf of trader. Purely a serialization step: the only
// check is that the quote's tokens belong to this venue's pool.
func (a *Adapter) CreateSwapInstruction(ctx context.Context, quote *domain.SwapQuote, trader string) (*Instruction, error) {
	if quote.Venue != a.venue {
		return nil, fmt.Errorf("%w: quote is for %s", domain.ErrInvalidToken, quote.Venue)
	}

	pool, err := a.GetPoolInfo(ctx, quote.PoolAddress)
	if err != nil {
		return nil, err
	}

	var inVault, outVault string
	switch quote.TokenIn {
	case pool.TokenA.Mint:
		inVault, outVault = pool.TokenA.Vault, pool.TokenB.Vault
	case pool.TokenB.Mint:
		inVault, outVault = pool.TokenB.Vault, pool.TokenA.Vault
	default:
		return nil, fmt.Errorf("%w: %s not in pool %s", domain.ErrInvalidToken, quote.TokenIn, quote.PoolAddress)
	}

	switch a.venue {
	case domain.VenueRaydiumV4:
		return &Instruction{
			ProgramID: a.programID,
			Accounts: []AccountMeta{
				{Address: domain.SPLTokenProgramID},
				{Address: quote.PoolAddress, Writable: true},
				{Address: inVault, Writable: true},
				{Address: outVault, Writable: true},
				{Address: trader, Signer: true, Writable: true},
			},
			Data: raydiumSwapData(quote.AmountIn, quote.MinAmountOut),
		}, nil
	case domain.VenueOrcaWhirlpool:
		aToB := quote.TokenIn == pool.TokenA.Mint
		return &Instruction{
			ProgramID: a.programID,
			Accounts: []AccountMeta{
				{Address: domain.SPLTokenProgramID},
				{Address: trader, Signer: true, Writable: true},
				{Address: quote.PoolAddress, Writable: true},
				{Address: pool.TokenA.Vault, Writable: true},
				{Address: pool.TokenB.Vault, Writable: true},
			},
			Data: orcaSwapData(quote.AmountIn, quote.MinAmountOut, aToB),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVenue, a.venue)
	}
}
