// Package report renders scan results as a flattened JSON document for the
// telemetry sink. The scanner and calculator stay format-free; everything
// display-related lives here.
package report

import (
	"encoding/json"
	"io"
	"time"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/scanner"
)

// Options carries the scan parameters echoed into the report header.
type Options struct {
	TradeAmount  uint64
	SlippageBps  uint32
	MinProfitBps int32
	PriorityFee  uint64
	RentFee      uint64
	GeneratedAt  time.Time
}

// Opportunity is one flattened round trip.
type Opportunity struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`

	PoolA  string `json:"pool_a"`
	PoolB  string `json:"pool_b"`
	VenueA string `json:"venue_a"`
	VenueB string `json:"venue_b"`

	TokenIn    string `json:"token_in"`
	TokenMid   string `json:"token_mid"`
	AmountIn   uint64 `json:"amount_in"`
	AmountOutA uint64 `json:"amount_out_a"`
	AmountOutB uint64 `json:"amount_out_b"`
	MinOutA    uint64 `json:"min_out_a"`
	MinOutB    uint64 `json:"min_out_b"`

	ProfitBps    int32            `json:"profit_bps"`
	ProfitAmount uint64           `json:"profit_amount"`
	Risk         domain.RiskScore `json:"risk"`

	GrossProfit  uint64 `json:"gross_profit"`
	PriorityFee  uint64 `json:"priority_fee"`
	RentFee      uint64 `json:"rent_fee"`
	NetProfit    uint64 `json:"net_profit"`
	IsProfitable bool   `json:"is_profitable"`

	// Qualified marks opportunities clearing the configured minimum margin.
	Qualified bool `json:"qualified"`
}

// Failure is one pair that could not be evaluated.
type Failure struct {
	PoolA  string `json:"pool_a"`
	PoolB  string `json:"pool_b"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

// Report is the full scan summary.
type Report struct {
	GeneratedAt  time.Time `json:"generated_at"`
	TradeAmount  uint64    `json:"trade_amount"`
	SlippageBps  uint32    `json:"slippage_bps"`
	MinProfitBps int32     `json:"min_profit_bps"`
	PriorityFee  uint64    `json:"priority_fee"`
	RentFee      uint64    `json:"rent_fee"`

	PairsScanned int `json:"pairs_scanned"`
	PairsSkipped int `json:"pairs_skipped"`

	Opportunities []Opportunity `json:"opportunities"`
	Failures      []Failure     `json:"failures,omitempty"`
}

// Build flattens a scan result. Opportunity order is preserved from the
// scanner's ranking.
func Build(result *scanner.ScanResult, opts Options) *Report {
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	r := &Report{
		GeneratedAt:   generated,
		TradeAmount:   opts.TradeAmount,
		SlippageBps:   opts.SlippageBps,
		MinProfitBps:  opts.MinProfitBps,
		PriorityFee:   opts.PriorityFee,
		RentFee:       opts.RentFee,
		PairsScanned:  result.PairsScanned,
		PairsSkipped:  result.PairsSkipped,
		Opportunities: make([]Opportunity, 0, len(result.Opportunities)),
	}

	for _, opp := range result.Opportunities {
		flat := Opportunity{
			ID:           opp.ID,
			Timestamp:    opp.Timestamp,
			ProfitBps:    opp.ProfitBps,
			ProfitAmount: opp.ProfitAmount,
			Risk:         opp.Risk,
			MinOutA:      opp.MinOutA,
			MinOutB:      opp.MinOutB,
			GrossProfit:  opp.Pnl.GrossProfit,
			PriorityFee:  opp.Pnl.PriorityFee,
			RentFee:      opp.Pnl.RentFee,
			NetProfit:    opp.Pnl.NetProfit,
			IsProfitable: opp.Pnl.IsProfitable,
			Qualified:    opp.ProfitBps >= opts.MinProfitBps,
		}
		if len(opp.RouteA.Hops) > 0 {
			hop := opp.RouteA.Hops[0]
			flat.PoolA = hop.PoolAddress
			flat.VenueA = hop.Venue.String()
			flat.TokenIn = hop.TokenIn
			flat.TokenMid = hop.TokenOut
			flat.AmountIn = hop.AmountIn
			flat.AmountOutA = hop.AmountOut
		}
		if len(opp.RouteB.Hops) > 0 {
			hop := opp.RouteB.Hops[0]
			flat.PoolB = hop.PoolAddress
			flat.VenueB = hop.Venue.String()
			flat.AmountOutB = hop.AmountOut
		}
		r.Opportunities = append(r.Opportunities, flat)
	}

	for _, f := range result.Failures {
		flat := Failure{PoolA: f.PoolA, PoolB: f.PoolB, Reason: f.Reason}
		if f.Err != nil {
			flat.Error = f.Err.Error()
		}
		r.Failures = append(r.Failures, flat)
	}

	return r
}

// Write renders the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
