// Package dexes holds the per-venue pool account decoders and the adapters
// that bind them to live RPC data.
package dexes

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"

	"solana-arb-scanner/internal/domain"
)

// Decoder turns raw pool account bytes into a PoolInfo. Pure: no network
// access. Each venue carries its own layout knowledge; the set of venues is
// closed (see domain.Venues).
type Decoder interface {
	// Venue returns the venue this decoder understands.
	Venue() domain.Venue

	// Decode validates ownership and layout, then extracts mints, vaults,
	// fee parameters, and pool state. Token symbol/decimals come from the
	// hints because pool accounts do not self-describe them reliably; mints
	// and vaults always come from the bytes. Reserves are left zero; they
	// live in the vault token accounts, which the adapter reads.
	//
	// Returns domain.ErrOwnershipMismatch when owner differs from the
	// decoder's expected program, domain.ErrMalformedAccount when the byte
	// layout is inconsistent.
	Decode(address string, raw []byte, owner string, hintA, hintB domain.Token) (*domain.PoolInfo, error)
}

// NewDecoder returns the decoder for venue, checking ownership against
// programID (normally the venue's mainnet program, but injectable for tests
// and forks).
func NewDecoder(venue domain.Venue, programID string) (Decoder, error) {
	switch venue {
	case domain.VenueRaydiumV4:
		return &raydiumDecoder{programID: programID}, nil
	case domain.VenueOrcaWhirlpool:
		return &orcaDecoder{programID: programID}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVenue, venue)
	}
}

// SPL token account layout: mint(32) owner(32) amount(8) ...; minimum size
// of an initialized account.
const (
	tokenAccountMinLen      = 165
	tokenAccountAmountStart = 64
)

// ParseTokenAccountAmount extracts the balance from a raw SPL token account.
func ParseTokenAccountAmount(data []byte) (uint64, error) {
	if len(data) < tokenAccountMinLen {
		return 0, fmt.Errorf("%w: token account is %d bytes, want >= %d",
			domain.ErrMalformedAccount, len(data), tokenAccountMinLen)
	}
	return binary.LittleEndian.Uint64(data[tokenAccountAmountStart:]), nil
}

// readPubkey reads 32 bytes at offset and returns the base58 address.
func readPubkey(data []byte, offset int) (string, error) {
	if offset+32 > len(data) {
		return "", fmt.Errorf("%w: pubkey at offset %d out of bounds", domain.ErrMalformedAccount, offset)
	}
	return base58.Encode(data[offset : offset+32]), nil
}

// readUint64LE reads a little-endian uint64 at offset.
func readUint64LE(data []byte, offset int) (uint64, error) {
	if offset+8 > len(data) {
		return 0, fmt.Errorf("%w: u64 at offset %d out of bounds", domain.ErrMalformedAccount, offset)
	}
	return binary.LittleEndian.Uint64(data[offset:]), nil
}

// readUint16LE reads a little-endian uint16 at offset.
func readUint16LE(data []byte, offset int) (uint16, error) {
	if offset+2 > len(data) {
		return 0, fmt.Errorf("%w: u16 at offset %d out of bounds", domain.ErrMalformedAccount, offset)
	}
	return binary.LittleEndian.Uint16(data[offset:]), nil
}

// assignHints maps the externally supplied token hints onto the decoded
// mint order. The on-chain order is positional truth: if the first decoded
// mint matches hintB, the hints swap sides. Unmatched hints fall back to
// positional assignment.
func assignHints(mintA, mintB, vaultA, vaultB string, hintA, hintB domain.Token) (domain.Token, domain.Token) {
	a, b := hintA, hintB
	if mintA == hintB.Mint || mintB == hintA.Mint {
		a, b = hintB, hintA
	}
	a.Mint, a.Vault = mintA, vaultA
	b.Mint, b.Vault = mintB, vaultB
	return a, b
}
