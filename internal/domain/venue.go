package domain

import "fmt"

// Venue is a closed enumeration of supported DEX protocols. Adding a venue
// requires new decoder code, so the set is intentionally not open-ended.
type Venue string

const (
	VenueRaydiumV4     Venue = "RAYDIUM_V4"
	VenueOrcaWhirlpool Venue = "ORCA_WHIRLPOOL"
)

// Mainnet program IDs.
const (
	RaydiumV4ProgramID     = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	OrcaWhirlpoolProgramID = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	SPLTokenProgramID      = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// Well-known mints.
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// Venues returns all supported venues in fixed order. Probe fallback and
// adapter construction iterate this order, which keeps venue detection
// deterministic.
func Venues() []Venue {
	return []Venue{VenueRaydiumV4, VenueOrcaWhirlpool}
}

// ProgramID returns the on-chain program that owns this venue's pool accounts.
func (v Venue) ProgramID() string {
	switch v {
	case VenueRaydiumV4:
		return RaydiumV4ProgramID
	case VenueOrcaWhirlpool:
		return OrcaWhirlpoolProgramID
	default:
		return ""
	}
}

// String returns the display name.
func (v Venue) String() string {
	switch v {
	case VenueRaydiumV4:
		return "Raydium V4"
	case VenueOrcaWhirlpool:
		return "Orca Whirlpool"
	default:
		return string(v)
	}
}

// VenueFromProgramID maps a program ID back to its venue.
func VenueFromProgramID(programID string) (Venue, bool) {
	switch programID {
	case RaydiumV4ProgramID:
		return VenueRaydiumV4, true
	case OrcaWhirlpoolProgramID:
		return VenueOrcaWhirlpool, true
	default:
		return "", false
	}
}

// ParseVenue parses a config-file venue name.
func ParseVenue(s string) (Venue, error) {
	switch s {
	case "raydium_v4", "raydium", "RAYDIUM_V4":
		return VenueRaydiumV4, nil
	case "orca_whirlpool", "orca", "whirlpool", "ORCA_WHIRLPOOL":
		return VenueOrcaWhirlpool, nil
	default:
		return "", fmt.Errorf("unknown venue %q", s)
	}
}
