package dexes

import "encoding/binary"

// AccountMeta is one account reference inside an instruction.
type AccountMeta struct {
	Address  string
	Signer   bool
	Writable bool
}

// Instruction is an opaque, venue-specific wire-level instruction. The core
// only serializes these; signing, simulation, and broadcast belong to the
// transaction executor boundary.
type Instruction struct {
	ProgramID string
	Accounts  []AccountMeta
	Data      []byte
}

// Raydium V4 swap (swapBaseIn) instruction discriminator.
const raydiumSwapDiscriminator = 0x09

// Anchor discriminator for the Whirlpool swap instruction
// (sha256("global:swap")[0:8]).
var orcaSwapDiscriminator = []byte{0xf8, 0xc6, 0x9e, 0x91, 0xe1, 0x75, 0x87, 0xc8}

// raydiumSwapData serializes the swapBaseIn argument block:
// discriminator(1) + amount_in(8 LE) + min_amount_out(8 LE).
func raydiumSwapData(amountIn, minAmountOut uint64) []byte {
	data := make([]byte, 17)
	data[0] = raydiumSwapDiscriminator
	binary.LittleEndian.PutUint64(data[1:], amountIn)
	binary.LittleEndian.PutUint64(data[9:], minAmountOut)
	return data
}

// orcaSwapData serializes the whirlpool swap argument block:
// discriminator(8) + amount(8 LE) + other_amount_threshold(8 LE) +
// sqrt_price_limit(16, zero = no limit) + amount_specified_is_input(1) +
// a_to_b(1).
func orcaSwapData(amountIn, minAmountOut uint64, aToB bool) []byte {
	data := make([]byte, 0, 42)
	data = append(data, orcaSwapDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, amountIn)
	data = binary.LittleEndian.AppendUint64(data, minAmountOut)
	data = append(data, make([]byte, 16)...)
	data = append(data, 1) // amount specified is the input side
	if aToB {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	return data
}
