// Package pricing computes round-trip profitability from pairs of swap
// quotes. Pure integer arithmetic, no I/O.
package pricing

import (
	"fmt"
	"math"
	"math/bits"

	"solana-arb-scanner/internal/domain"
)

// BpsDenominator is the basis-point scale shared with the quote math.
const BpsDenominator = 10000

// roundTripLegs verifies that a and b are opposite legs of a round trip:
// a's input token is b's output token and vice versa.
func roundTripLegs(a, b *domain.SwapQuote) error {
	if a.TokenIn != b.TokenOut || a.TokenOut != b.TokenIn {
		return fmt.Errorf("%w: %s->%s then %s->%s",
			domain.ErrIncompatibleTokenPair, a.TokenIn, a.TokenOut, b.TokenIn, b.TokenOut)
	}
	return nil
}

// mulDivFloor computes floor(value * mul / div) in 128-bit width.
func mulDivFloor(value, mul, div uint64) uint64 {
	hi, lo := bits.Mul64(value, mul)
	out, _ := bits.Div64(hi, lo, div)
	return out
}

// mulDivCeil computes ceil(value * mul / div) in 128-bit width.
func mulDivCeil(value, mul, div uint64) uint64 {
	hi, lo := bits.Mul64(value, mul)
	out, rem := bits.Div64(hi, lo, div)
	if rem > 0 {
		out++
	}
	return out
}

// CalculateProfitBps returns the round-trip margin in basis points:
// floor((amount_out_b - amount_out_a) / amount_out_a * 10000), where the
// floor rounds toward negative infinity so a loss never rounds up to break
// even. Requires the quotes to be opposite legs; a zero output on either leg
// yields 0 rather than an error. The result saturates at the int32 range.
func CalculateProfitBps(a, b *domain.SwapQuote) (int32, error) {
	if err := roundTripLegs(a, b); err != nil {
		return 0, err
	}
	if a.AmountOut == 0 || b.AmountOut == 0 {
		return 0, nil
	}

	if b.AmountOut >= a.AmountOut {
		gain := mulDivFloor(b.AmountOut-a.AmountOut, BpsDenominator, a.AmountOut)
		if gain > math.MaxInt32 {
			return math.MaxInt32, nil
		}
		return int32(gain), nil
	}

	loss := mulDivCeil(a.AmountOut-b.AmountOut, BpsDenominator, a.AmountOut)
	if loss >= -math.MinInt32 {
		return math.MinInt32, nil
	}
	return -int32(loss), nil
}

// CalculateNetProfit returns the round-trip profit in smallest units of leg
// a's input token, after the priority fee. Zero when the trip is not
// profitable.
func CalculateNetProfit(a, b *domain.SwapQuote, priorityFee uint64) (uint64, error) {
	bps, err := CalculateProfitBps(a, b)
	if err != nil {
		return 0, err
	}
	if bps <= 0 {
		return 0, nil
	}
	gross := mulDivFloor(a.AmountIn, uint64(bps), BpsDenominator)
	if gross <= priorityFee {
		return 0, nil
	}
	return gross - priorityFee, nil
}

// IsProfitable reports whether the round trip clears minProfitBps.
func IsProfitable(a, b *domain.SwapQuote, minProfitBps int32) (bool, error) {
	bps, err := CalculateProfitBps(a, b)
	if err != nil {
		return false, err
	}
	return bps >= minProfitBps, nil
}

// RiskScoreFromProfitBps tiers an opportunity by margin. Thresholds are a
// policy constant.
func RiskScoreFromProfitBps(bps int32) domain.RiskScore {
	switch {
	case bps <= 0:
		return domain.RiskHigh
	case bps <= 100:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// BuildPnl itemizes the round-trip profit after the fixed external costs of
// landing the transaction (priority fee plus non-refundable rent). Gross
// profit is floor(amount_in_a * profit_bps / 10000).
func BuildPnl(a, b *domain.SwapQuote, priorityFee, rentFee uint64) (domain.PnlBreakdown, error) {
	bps, err := CalculateProfitBps(a, b)
	if err != nil {
		return domain.PnlBreakdown{}, err
	}

	pnl := domain.PnlBreakdown{
		PriorityFee: priorityFee,
		RentFee:     rentFee,
	}
	if bps <= 0 {
		return pnl, nil
	}

	pnl.GrossProfit = mulDivFloor(a.AmountIn, uint64(bps), BpsDenominator)
	if pnl.GrossProfit > priorityFee+rentFee {
		pnl.NetProfit = pnl.GrossProfit - priorityFee - rentFee
		pnl.IsProfitable = true
	}
	return pnl, nil
}
