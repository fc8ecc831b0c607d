package dexes

import (
	"fmt"

	"solana-arb-scanner/internal/domain"
)

// Orca Whirlpool account layout (anchor account, 8-byte discriminator).
//
// Whirlpools are concentrated-liquidity pools; this scanner prices them with
// the same constant-product approximation as classic AMMs, using the vault
// balances as reserves. That is a documented inaccuracy carried over from
// the system design, not correct tick math.
const (
	orcaAccountLen = 653

	orcaFeeRateOffset = 45  // u16, hundredths of a basis point
	orcaMintAOffset   = 101 // pubkey
	orcaVaultAOffset  = 133 // pubkey
	orcaMintBOffset   = 181 // pubkey
	orcaVaultBOffset  = 213 // pubkey
)

type orcaDecoder struct {
	programID string
}

func (d *orcaDecoder) Venue() domain.Venue {
	return domain.VenueOrcaWhirlpool
}

func (d *orcaDecoder) Decode(address string, raw []byte, owner string, hintA, hintB domain.Token) (*domain.PoolInfo, error) {
	if owner != d.programID {
		return nil, fmt.Errorf("%w: %s owned by %s, want %s",
			domain.ErrOwnershipMismatch, address, owner, d.programID)
	}
	if len(raw) != orcaAccountLen {
		return nil, fmt.Errorf("%w: whirlpool %s is %d bytes, want %d",
			domain.ErrMalformedAccount, address, len(raw), orcaAccountLen)
	}

	feeRate, err := readUint16LE(raw, orcaFeeRateOffset)
	if err != nil {
		return nil, err
	}

	mintA, err := readPubkey(raw, orcaMintAOffset)
	if err != nil {
		return nil, err
	}
	vaultA, err := readPubkey(raw, orcaVaultAOffset)
	if err != nil {
		return nil, err
	}
	mintB, err := readPubkey(raw, orcaMintBOffset)
	if err != nil {
		return nil, err
	}
	vaultB, err := readPubkey(raw, orcaVaultBOffset)
	if err != nil {
		return nil, err
	}
	if mintA == mintB {
		return nil, fmt.Errorf("%w: whirlpool %s has identical mints",
			domain.ErrMalformedAccount, address)
	}

	tokenA, tokenB := assignHints(mintA, mintB, vaultA, vaultB, hintA, hintB)

	return &domain.PoolInfo{
		PoolAddress: address,
		Venue:       domain.VenueOrcaWhirlpool,
		TokenA:      tokenA,
		TokenB:      tokenB,
		Fees: domain.PoolFees{
			// fee_rate is hundredths of a bp (3000 = 30 bps).
			TradeFeeBps: uint32(feeRate) / 100,
		},
		// The whirlpool account carries no swap-enable flag this
		// approximation reads; a decodable pool is treated as active.
		State: domain.PoolStateActive,
	}, nil
}
