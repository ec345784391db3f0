// Package difficulty implements the 256-bit difficulty-target arithmetic
// used to translate a per-unit PoW target into an absolute target
// proportional to declared space.
//
// The scaling divide is exact 256-bit unsigned arithmetic; github.com/
// holiman/uint256 (the same big-integer library go-ethereum's core/vm
// leans on for all EVM 256-bit math) replaces a hand-rolled big-endian
// long division.
package difficulty

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Scale computes floor(diff256 / numUnits), re-encoded big-endian.
// numUnits == 0 is a division-by-zero error.
func Scale(diff [32]byte, numUnits uint32) ([32]byte, error) {
	if numUnits == 0 {
		return [32]byte{}, fmt.Errorf("difficulty: scale by zero num_units")
	}

	d := new(uint256.Int).SetBytes(diff[:])
	divisor := uint256.NewInt(uint64(numUnits))
	d.Div(d, divisor)

	return d.Bytes32(), nil
}
