package domain

// SwapHop is one atomic swap leg.
type SwapHop struct {
	PoolAddress string
	Venue       Venue
	TokenIn     string // mint
	TokenOut    string // mint
	AmountIn    uint64
	AmountOut   uint64
	FeeBps      uint32
}

// SwapRoute is a non-empty ordered sequence of hops where each hop's output
// token feeds the next hop's input. TotalFeeBps is the plain sum of hop fees,
// not compounded.
type SwapRoute struct {
	Hops        []SwapHop
	TotalFeeBps uint32
}

// SwapQuote is a simulated pre-trade estimate for a single-pool swap.
// AmountOut is the raw constant-product output; MinAmountOut is the execution
// floor after the fee and slippage deductions (never negative).
type SwapQuote struct {
	PoolAddress    string
	Venue          Venue
	TokenIn        string // mint
	TokenOut       string // mint
	AmountIn       uint64
	AmountOut      uint64
	MinAmountOut   uint64
	PriceImpactBps int32
	FeeAmount      uint64
	Route          SwapRoute
}

// Clone returns an independently owned copy.
func (q *SwapQuote) Clone() *SwapQuote {
	cp := *q
	cp.Route.Hops = make([]SwapHop, len(q.Route.Hops))
	copy(cp.Route.Hops, q.Route.Hops)
	return &cp
}
