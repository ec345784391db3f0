// Package initialize builds a plot's label file: for every index in a
// range it derives the scrypt label for that index under a commitment,
// and optionally tracks the single smallest label seen so far (the VRF
// nonce candidate used to unlock the space-time PoW window).
//
// A small Backend interface is satisfied by every concrete label
// generator (CPU, GPU/accelerator), selected by a factory function, so
// callers never depend on a specific implementation.
package initialize

import (
	"context"

	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/postio"
)

// VRFNonce is the numerically smallest canonical label observed during
// generation, together with its index. Label holds the
// full 32-byte canonical scrypt output (not the truncated 16-byte
// on-disk label) so it can be compared byte-for-byte against a
// difficulty target.
type VRFNonce struct {
	Index uint64
	Label [kdf.CanonicalLabelSize]byte
}

// Backend generates labels for indices in [lo, hi) into out, writing
// postio.LabelSize bytes per index in order. If difficulty is non-nil, a
// running VRF-nonce scan is performed over each label's full 32-byte
// canonical form (before truncation into out) and the best candidate
// found (if any) is returned.
type Backend interface {
	Generate(ctx context.Context, commitment [postio.CommitmentSize]byte, lo, hi uint64, difficulty *[kdf.CanonicalLabelSize]byte, out []byte) (*VRFNonce, error)
}

// BufferLen returns the number of bytes Generate expects in out for the
// range [lo, hi).
func BufferLen(lo, hi uint64) (int, error) {
	if hi < lo {
		return 0, postio.New(postio.KindInvalidConfig, "initialize.BufferLen", "hi < lo")
	}
	n := hi - lo
	if n > (1<<63)/postio.LabelSize {
		return 0, postio.New(postio.KindRangeTooLarge, "initialize.BufferLen", "index range does not fit in a buffer")
	}
	return int(n) * postio.LabelSize, nil
}

// scanForVRFNonce finds the smallest canonical label below difficulty in
// a contiguous run of full 32-byte canonical labels, mirroring
// Scrypter::scan_for_vrf_nonce from the original OpenCL implementation:
// the comparison is strict less-than and difficulty tightens to the best
// label found so far, so only a strictly smaller label updates it.
func scanForVRFNonce(canonical []byte, startIndex uint64, difficulty [kdf.CanonicalLabelSize]byte) *VRFNonce {
	var best *VRFNonce
	cur := difficulty
	for i := 0; i*kdf.CanonicalLabelSize < len(canonical); i++ {
		label := canonical[i*kdf.CanonicalLabelSize : (i+1)*kdf.CanonicalLabelSize]
		if lessThan(label, cur[:]) {
			var l [kdf.CanonicalLabelSize]byte
			copy(l[:], label)
			best = &VRFNonce{Index: startIndex + uint64(i), Label: l}
			cur = l
		}
	}
	return best
}

func lessThan(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
