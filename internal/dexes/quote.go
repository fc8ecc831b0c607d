package dexes

import (
	"fmt"
	"math"
	"math/bits"

	"solana-arb-scanner/internal/domain"
)

// BpsDenominator is the basis-point scale used by all fee and slippage math.
const BpsDenominator = 10000

// constantProductOut simulates a swap against the constant-product invariant
// k = reserve_in * reserve_out. All division floors toward zero, matching
// on-chain integer math. The output is capped at reserve_out-1 so a pool is
// never fully drained.
func constantProductOut(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, fmt.Errorf("%w: zero reserve", domain.ErrMalformedAccount)
	}
	if amountIn == 0 {
		return 0, domain.ErrInvalidAmount
	}
	if amountIn > math.MaxUint64-reserveIn {
		return 0, fmt.Errorf("%w: amount overflows reserve", domain.ErrInvalidAmount)
	}

	newReserveIn := reserveIn + amountIn

	// k and the quotient need 128-bit width; the quotient is < reserve_out
	// so it always fits back into 64 bits.
	hi, lo := bits.Mul64(reserveIn, reserveOut)
	newReserveOut, _ := bits.Div64(hi, lo, newReserveIn)

	if newReserveOut == 0 {
		newReserveOut = 1
	}

	return reserveOut - newReserveOut, nil
}

// mulDivBps computes floor(value * bps / 10000) in 128-bit width.
func mulDivBps(value uint64, bps uint32) uint64 {
	hi, lo := bits.Mul64(value, uint64(bps))
	out, _ := bits.Div64(hi, lo, BpsDenominator)
	return out
}

// priceImpactBps measures how far the executed output falls short of the
// spot-price output, in basis points of the spot output.
func priceImpactBps(reserveIn, reserveOut, amountIn, amountOut uint64) int32 {
	hi, lo := bits.Mul64(amountIn, reserveOut)
	if reserveIn == 0 {
		return 0
	}
	spotOut, _ := bits.Div64(hi, lo, reserveIn)
	if spotOut == 0 || amountOut >= spotOut {
		return 0
	}
	shortfall := spotOut - amountOut
	hi, lo = bits.Mul64(shortfall, BpsDenominator)
	impact, _ := bits.Div64(hi, lo, spotOut)
	if impact > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(impact)
}

// buildQuote assembles a single-hop SwapQuote for pool, with amountIn of
// tokenIn. Implements the documented constant-product approximation:
//
//  1. k = reserve_in * reserve_out
//  2. new_reserve_in = reserve_in + amount_in
//  3. new_reserve_out = floor(k / new_reserve_in)
//  4. amount_out = reserve_out - new_reserve_out
//  5. fee_amount = floor(amount_in * fee_bps / 10000)
//  6. slippage_amount = floor(amount_out * slippage_bps / 10000)
//  7. min_amount_out = max(0, amount_out - fee_amount - slippage_amount)
func buildQuote(pool *domain.PoolInfo, amountIn uint64, tokenIn string, slippageBps uint32) (*domain.SwapQuote, error) {
	if amountIn == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if pool.State != domain.PoolStateActive {
		return nil, fmt.Errorf("%w: pool %s state %s", domain.ErrUnsupportedState, pool.PoolAddress, pool.State)
	}

	var reserveIn, reserveOut uint64
	var tokenOut string
	switch tokenIn {
	case pool.TokenA.Mint:
		reserveIn, reserveOut = pool.Reserves.TokenAReserve, pool.Reserves.TokenBReserve
		tokenOut = pool.TokenB.Mint
	case pool.TokenB.Mint:
		reserveIn, reserveOut = pool.Reserves.TokenBReserve, pool.Reserves.TokenAReserve
		tokenOut = pool.TokenA.Mint
	default:
		return nil, fmt.Errorf("%w: %s not in pool %s", domain.ErrInvalidToken, tokenIn, pool.PoolAddress)
	}

	amountOut, err := constantProductOut(reserveIn, reserveOut, amountIn)
	if err != nil {
		return nil, fmt.Errorf("quote pool %s: %w", pool.PoolAddress, err)
	}

	feeBps := pool.Fees.TradeFeeBps
	feeAmount := mulDivBps(amountIn, feeBps)
	slippageAmount := mulDivBps(amountOut, slippageBps)

	minAmountOut := uint64(0)
	if amountOut > feeAmount+slippageAmount {
		minAmountOut = amountOut - feeAmount - slippageAmount
	}

	hop := domain.SwapHop{
		PoolAddress: pool.PoolAddress,
		Venue:       pool.Venue,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		FeeBps:      feeBps,
	}

	return &domain.SwapQuote{
		PoolAddress:    pool.PoolAddress,
		Venue:          pool.Venue,
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		MinAmountOut:   minAmountOut,
		PriceImpactBps: priceImpactBps(reserveIn, reserveOut, amountIn, amountOut),
		FeeAmount:      feeAmount,
		Route: domain.SwapRoute{
			Hops:        []domain.SwapHop{hop},
			TotalFeeBps: feeBps,
		},
	}, nil
}
