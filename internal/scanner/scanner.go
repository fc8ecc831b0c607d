// Package scanner orchestrates cross-venue arbitrage detection over a fixed
// list of pool addresses.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/idhash"
	"solana-arb-scanner/internal/pricing"
)

// VenueAdapter is the per-venue surface the scanner drives. Implemented by
// dexes.Adapter; faked in tests.
type VenueAdapter interface {
	Label() domain.Venue
	GetPoolInfo(ctx context.Context, poolAddress string) (*domain.PoolInfo, error)
	GetSwapQuote(ctx context.Context, poolAddress string, amountIn uint64, tokenIn string) (*domain.SwapQuote, error)
}

// DefaultConcurrency bounds the worker pool when none is configured.
const DefaultConcurrency = 4

// Options configures New.
type Options struct {
	// Adapters in fixed order; the probe fallback walks this order, so it
	// must be deterministic across runs.
	Adapters []VenueAdapter

	// VenueTable maps known pool addresses to venues. Addresses missing from
	// the table fall back to probing every adapter.
	VenueTable map[string]domain.Venue

	// TradeAmount is the fixed input size, in smallest units of pool A's
	// token_a, quoted on both legs.
	TradeAmount uint64

	// PriorityFee and RentFee are the fixed external costs subtracted from
	// gross profit, in the same smallest units.
	PriorityFee uint64
	RentFee     uint64

	Concurrency int
	Logger      *zap.Logger
	Now         func() time.Time // injectable clock
}

// PairFailure records one pair that could not be evaluated.
type PairFailure struct {
	PoolA  string
	PoolB  string
	Reason string
	Err    error
}

// ScanResult is the outcome of one full scan. Opportunities are sorted by
// ProfitBps descending; equal margins keep pair-enumeration order.
type ScanResult struct {
	Opportunities []*domain.ArbitrageOpportunity
	PairsScanned  int
	PairsSkipped  int
	Failures      []PairFailure
}

// Scanner runs the detection pipeline. Safe for a single Scan at a time per
// value; venue detection results are memoized across scans.
type Scanner struct {
	adapters    []VenueAdapter
	byVenue     map[domain.Venue]VenueAdapter
	table       map[string]domain.Venue
	tradeAmount uint64
	priorityFee uint64
	rentFee     uint64
	concurrency int
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	detected map[string]domain.Venue
}

// New creates a scanner over the given adapters.
func New(opts Options) (*Scanner, error) {
	if len(opts.Adapters) == 0 {
		return nil, fmt.Errorf("scanner: at least one adapter is required")
	}
	if opts.TradeAmount == 0 {
		return nil, fmt.Errorf("scanner: %w: trade amount must be positive", domain.ErrInvalidAmount)
	}

	byVenue := make(map[domain.Venue]VenueAdapter, len(opts.Adapters))
	for _, a := range opts.Adapters {
		if _, dup := byVenue[a.Label()]; dup {
			return nil, fmt.Errorf("scanner: duplicate adapter for %s", a.Label())
		}
		byVenue[a.Label()] = a
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	table := make(map[string]domain.Venue, len(opts.VenueTable))
	for addr, v := range opts.VenueTable {
		table[addr] = v
	}

	return &Scanner{
		adapters:    opts.Adapters,
		byVenue:     byVenue,
		table:       table,
		tradeAmount: opts.TradeAmount,
		priorityFee: opts.PriorityFee,
		rentFee:     opts.RentFee,
		concurrency: concurrency,
		logger:      logger,
		now:         now,
		detected:    make(map[string]domain.Venue),
	}, nil
}

type pair struct {
	a, b string
}

// pairOutcome is the result of one pair scan, written by exactly one worker
// into its own slot.
type pairOutcome struct {
	opportunity *domain.ArbitrageOpportunity
	skipped     bool
	failure     *PairFailure
}

// Scan evaluates every unordered pair (i < j) of addresses. Pair failures
// are collected, never fatal; a canceled context abandons the remaining
// pairs but keeps everything already computed.
func (s *Scanner) Scan(ctx context.Context, addresses []string) (*ScanResult, error) {
	pairs := enumeratePairs(addresses)
	outcomes := make([]pairOutcome, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = pairOutcome{failure: &PairFailure{
					PoolA: p.a, PoolB: p.b, Reason: "abandoned", Err: err,
				}}
				return nil
			}
			outcomes[i] = s.scanPair(gctx, p)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	result := &ScanResult{PairsScanned: len(pairs)}
	for _, o := range outcomes {
		switch {
		case o.opportunity != nil:
			result.Opportunities = append(result.Opportunities, o.opportunity)
		case o.failure != nil:
			result.Failures = append(result.Failures, *o.failure)
		case o.skipped:
			result.PairsSkipped++
		}
	}

	// Stable: equal margins keep enumeration order.
	sort.SliceStable(result.Opportunities, func(i, j int) bool {
		return result.Opportunities[i].ProfitBps > result.Opportunities[j].ProfitBps
	})

	s.logger.Info("scan complete",
		zap.Int("pairs", result.PairsScanned),
		zap.Int("opportunities", len(result.Opportunities)),
		zap.Int("skipped", result.PairsSkipped),
		zap.Int("failures", len(result.Failures)))

	return result, nil
}

func enumeratePairs(addresses []string) []pair {
	var pairs []pair
	for i := 0; i < len(addresses); i++ {
		for j := i + 1; j < len(addresses); j++ {
			pairs = append(pairs, pair{a: addresses[i], b: addresses[j]})
		}
	}
	return pairs
}

func (s *Scanner) scanPair(ctx context.Context, p pair) pairOutcome {
	fail := func(reason string, err error) pairOutcome {
		s.logger.Warn("pair failed",
			zap.String("pool_a", p.a), zap.String("pool_b", p.b),
			zap.String("reason", reason), zap.Error(err))
		return pairOutcome{failure: &PairFailure{PoolA: p.a, PoolB: p.b, Reason: reason, Err: err}}
	}
	skip := func(reason string) pairOutcome {
		s.logger.Debug("pair skipped",
			zap.String("pool_a", p.a), zap.String("pool_b", p.b),
			zap.String("reason", reason))
		return pairOutcome{skipped: true}
	}

	venueA, err := s.detectVenue(ctx, p.a)
	if err != nil {
		return fail("venue detection for pool a", err)
	}
	venueB, err := s.detectVenue(ctx, p.b)
	if err != nil {
		return fail("venue detection for pool b", err)
	}

	// Same-venue pairs cannot diverge in this model.
	if venueA == venueB {
		return skip("same venue")
	}

	adapterA, adapterB := s.byVenue[venueA], s.byVenue[venueB]

	poolA, err := adapterA.GetPoolInfo(ctx, p.a)
	if err != nil {
		return fail("fetch pool a", err)
	}
	poolB, err := adapterB.GetPoolInfo(ctx, p.b)
	if err != nil {
		return fail("fetch pool b", err)
	}

	if !sharesTokenPair(poolA, poolB) {
		return skip("token pairs differ")
	}

	// Leg A sells pool A's token_a; leg B buys it back on the other venue.
	quoteA, err := adapterA.GetSwapQuote(ctx, p.a, s.tradeAmount, poolA.TokenA.Mint)
	if err != nil {
		return fail("quote pool a", err)
	}
	legBIn, ok := oppositeLegInput(poolB, quoteA)
	if !ok {
		return skip("token pairs differ")
	}
	quoteB, err := adapterB.GetSwapQuote(ctx, p.b, s.tradeAmount, legBIn)
	if err != nil {
		return fail("quote pool b", err)
	}

	profitBps, err := pricing.CalculateProfitBps(quoteA, quoteB)
	if err != nil {
		// Contract violation between venue detection and quoting.
		return fail("profitability", err)
	}
	if profitBps <= 0 {
		return skip("no positive margin")
	}

	pnl, err := pricing.BuildPnl(quoteA, quoteB, s.priorityFee, s.rentFee)
	if err != nil {
		return fail("pnl", err)
	}

	ts := s.now().Unix()
	opp := &domain.ArbitrageOpportunity{
		ID:           idhash.OpportunityID(p.a, p.b, ts),
		Timestamp:    ts,
		RouteA:       quoteA.Route,
		RouteB:       quoteB.Route,
		ProfitBps:    profitBps,
		ProfitAmount: pnl.GrossProfit,
		Risk:         pricing.RiskScoreFromProfitBps(profitBps),
		Pnl:          pnl,
		MinOutA:      quoteA.MinAmountOut,
		MinOutB:      quoteB.MinAmountOut,
	}

	s.logger.Info("opportunity found",
		zap.String("id", opp.ID),
		zap.String("pool_a", p.a), zap.String("pool_b", p.b),
		zap.Int32("profit_bps", profitBps),
		zap.Uint64("net_profit", pnl.NetProfit))

	return pairOutcome{opportunity: opp}
}

// detectVenue resolves a pool address to its venue: the injected table first,
// then a probe over every adapter in fixed order. Probe hits are memoized, so
// detection is idempotent; each fallback acceptance is logged as a signal the
// table is stale.
func (s *Scanner) detectVenue(ctx context.Context, address string) (domain.Venue, error) {
	if venue, ok := s.table[address]; ok {
		if _, have := s.byVenue[venue]; !have {
			return "", fmt.Errorf("%w: table names %s but no adapter is configured", domain.ErrUnknownVenue, venue)
		}
		return venue, nil
	}

	s.mu.Lock()
	venue, ok := s.detected[address]
	s.mu.Unlock()
	if ok {
		return venue, nil
	}

	var probeErr error
	for _, adapter := range s.adapters {
		if _, err := adapter.GetPoolInfo(ctx, address); err != nil {
			probeErr = err
			continue
		}
		venue := adapter.Label()
		s.logger.Warn("venue resolved by probe, address missing from table",
			zap.String("pool", address),
			zap.String("venue", venue.String()))
		s.mu.Lock()
		s.detected[address] = venue
		s.mu.Unlock()
		return venue, nil
	}

	return "", fmt.Errorf("%w: %s (last probe: %v)", domain.ErrUnknownVenue, address, probeErr)
}

// sharesTokenPair reports whether both pools trade the same token pair,
// matched by symbol in either orientation.
func sharesTokenPair(a, b *domain.PoolInfo) bool {
	straight := a.TokenA.Symbol == b.TokenA.Symbol && a.TokenB.Symbol == b.TokenB.Symbol
	swapped := a.TokenA.Symbol == b.TokenB.Symbol && a.TokenB.Symbol == b.TokenA.Symbol
	return straight || swapped
}

// oppositeLegInput picks the pool B mint that continues the round trip: the
// one equal to leg A's output mint. Symbol-compatible pools with disjoint
// mints cannot form a round trip and report false.
func oppositeLegInput(poolB *domain.PoolInfo, quoteA *domain.SwapQuote) (string, bool) {
	switch quoteA.TokenOut {
	case poolB.TokenA.Mint:
		return poolB.TokenA.Mint, true
	case poolB.TokenB.Mint:
		return poolB.TokenB.Mint, true
	}
	return "", false
}
