package domain

// PoolState describes whether a pool accepts swaps.
type PoolState string

const (
	PoolStateActive   PoolState = "ACTIVE"
	PoolStateInactive PoolState = "INACTIVE"
	PoolStateUnknown  PoolState = "UNKNOWN"
)

// PoolReserves holds the pool-side balances in smallest units.
// Indices correspond positionally to PoolInfo.TokenA / TokenB.
type PoolReserves struct {
	TokenAReserve uint64
	TokenBReserve uint64
	LPSupply      uint64 // 0 when the venue does not expose it
}

// PoolFees holds the swap fee charged on the input amount.
type PoolFees struct {
	TradeFeeBps uint32 // basis points, [0, 10000]
}

// PoolInfo is the canonical decoded view of a pool account.
// TokenA/TokenB keep the venue's positional order; no cross-venue
// canonicalization happens here.
type PoolInfo struct {
	PoolAddress string
	Venue       Venue
	TokenA      Token
	TokenB      Token
	Reserves    PoolReserves
	Fees        PoolFees
	State       PoolState
}

// Quotable reports whether the pool can be priced: active with both
// reserves strictly positive. A zero-reserve pool is invalid, not a
// zero-price pool.
func (p *PoolInfo) Quotable() bool {
	return p.State == PoolStateActive &&
		p.Reserves.TokenAReserve > 0 &&
		p.Reserves.TokenBReserve > 0
}

// Clone returns an independently owned copy.
func (p *PoolInfo) Clone() *PoolInfo {
	cp := *p
	return &cp
}
