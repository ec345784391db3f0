package difficulty

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestScaleDivisionByZero(t *testing.T) {
	_, err := Scale([32]byte{0xFF}, 0)
	require.Error(t, err)
}

func TestScaleBounds(t *testing.T) {
	cases := []struct {
		diff  [32]byte
		units uint32
	}{
		{diff: fill(0xFF), units: 1},
		{diff: fill(0xFF), units: 3},
		{diff: fill(0x0F), units: 7},
		{diff: fill(0x01), units: 1000},
	}

	for _, c := range cases {
		scaled, err := Scale(c.diff, c.units)
		require.NoError(t, err)

		d := new(uint256.Int).SetBytes(c.diff[:])
		s := new(uint256.Int).SetBytes(scaled[:])
		u := uint256.NewInt(uint64(c.units))

		lower := new(uint256.Int).Mul(s, u)
		upper := new(uint256.Int).Add(s, uint256.NewInt(1))
		upper.Mul(upper, u)

		require.True(t, lower.Cmp(d) <= 0, "scale*units must be <= diff")
		require.True(t, d.Cmp(upper) < 0, "diff must be < (scale+1)*units")
	}
}

func fill(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}
