package difficulty

import (
	"github.com/holiman/uint256"

	"github.com/hkdf-labs/postproof/pkg/postio"
)

// ProvingDifficulty computes D1 = floor(2^64 * k1 / numLabels), the
// 64-bit per-lane difficulty target every AES lane is compared against.
// The shift into a 256-bit intermediate avoids the overflow a native uint64
// multiply would hit for any numLabels that makes the scaled value
// approach the full 64-bit range.
func ProvingDifficulty(k1, numLabels uint64) (uint64, error) {
	if numLabels == 0 {
		return 0, postio.New(postio.KindInvalidConfig, "difficulty.ProvingDifficulty", "zero num_labels")
	}

	numerator := new(uint256.Int).Lsh(uint256.NewInt(k1), 64)
	denom := uint256.NewInt(numLabels)
	numerator.Div(numerator, denom)

	return numerator.Uint64(), nil
}
