package domain

import "math"

// Token identifies one side of a pool.
// Mint and Vault are base58-encoded account addresses; Vault is the SPL token
// account that holds the pool's balance of this token.
type Token struct {
	Mint     string // token mint address
	Symbol   string // display symbol, e.g. "SOL"
	Decimals uint8  // smallest-unit scale
	Vault    string // pool vault token account
}

// Amount is an integer token quantity in the smallest unit, paired with the
// decimal scale used only for display. All arithmetic stays on Value.
type Amount struct {
	Value    uint64
	Decimals uint8
}

// NewAmount creates an Amount.
func NewAmount(value uint64, decimals uint8) Amount {
	return Amount{Value: value, Decimals: decimals}
}

// FromUI converts a UI-scale quantity into an Amount. Used at the config
// boundary only; core math never goes back through floats.
func FromUI(ui float64, decimals uint8) Amount {
	return Amount{
		Value:    uint64(ui * math.Pow10(int(decimals))),
		Decimals: decimals,
	}
}

// UI returns the display value (Value / 10^Decimals). Display only.
func (a Amount) UI() float64 {
	return float64(a.Value) / math.Pow10(int(a.Decimals))
}
