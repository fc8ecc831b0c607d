package domain

// RiskScore tiers an opportunity by profit margin. Thresholds are a policy
// constant, not derived from market data.
type RiskScore string

const (
	RiskLow    RiskScore = "LOW"
	RiskMedium RiskScore = "MEDIUM"
	RiskHigh   RiskScore = "HIGH"
)

// PnlBreakdown itemizes the profit of a round trip after fixed external
// costs (priority fee and non-refundable rent), in smallest units of the
// traded base token.
type PnlBreakdown struct {
	GrossProfit  uint64
	PriorityFee  uint64
	RentFee      uint64
	NetProfit    uint64
	IsProfitable bool
}

// ArbitrageOpportunity is a discovered round trip across two venues.
// ID is unique within a scan but not stable across re-scans.
type ArbitrageOpportunity struct {
	ID           string
	Timestamp    int64 // Unix seconds at discovery
	RouteA       SwapRoute
	RouteB       SwapRoute
	ProfitBps    int32  // signed; positive means profitable
	ProfitAmount uint64 // gross profit in base token smallest units
	Risk         RiskScore
	Pnl          PnlBreakdown
	MinOutA      uint64
	MinOutB      uint64
}
