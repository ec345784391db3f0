// Package verify implements the verifier: it reconstructs the claimed
// label subset from a commitment, recomputes indices and PoW values, and
// accepts a proof only when every structural and difficulty invariant
// holds.
package verify

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/hkdf-labs/postproof/internal/difficulty"
	"github.com/hkdf-labs/postproof/pkg/aesindex"
	"github.com/hkdf-labs/postproof/pkg/config"
	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/metadata"
	"github.com/hkdf-labs/postproof/pkg/postio"
	"github.com/hkdf-labs/postproof/pkg/pow"
)

const nonceBatchWidth = 16

// k2PowDifficultyTo32 mirrors pkg/prove's scaling of the 64-bit K2 PoW
// target up to a 256-bit big-endian value so both sides of the PoW
// predicate agree on its shape.
func k2PowDifficultyTo32(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[:8], v)
	return out
}

// Verify checks proof against md under cfg, using powImpl for the K2 PoW
// predicate. It returns a postio.Error with Kind == KindInvalidProof on
// any structural or difficulty failure, carrying the failing check in
// Reason.
func Verify(proof *postio.Proof, md metadata.ProofMetadata, cfg config.Config, powImpl pow.Verifier) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	numLabels := md.NumLabels()
	if numLabels == 0 {
		return postio.New(postio.KindInvalidConfig, "verify.Verify", "zero num_labels")
	}

	if uint64(len(proof.Indices)) != cfg.K2 {
		return invalidProof("index count", "got %d indices, expected k2=%d", len(proof.Indices), cfg.K2)
	}

	seen := make(map[uint64]struct{}, len(proof.Indices))
	for _, idx := range proof.Indices {
		if idx >= numLabels {
			return invalidProof("bounds", "index %d >= num_labels %d", idx, numLabels)
		}
		if _, dup := seen[idx]; dup {
			return invalidProof("duplicate", "index %d appears more than once", idx)
		}
		seen[idx] = struct{}{}
	}

	d1, err := difficulty.ProvingDifficulty(cfg.K1, numLabels)
	if err != nil {
		return err
	}

	nonceGroup := uint8(proof.Nonce / nonceBatchWidth)
	laneOffset := int(proof.Nonce % nonceBatchWidth)

	key := aesindex.DeriveKey(md.Challenge, uint32(nonceGroup))
	stream, err := aesindex.NewStream(key)
	if err != nil {
		return postio.Wrap(postio.KindDeviceFailure, "verify.Verify", err)
	}

	commitment := md.Commitment()
	canonical := make([]byte, kdf.CanonicalLabelSize)

	// Zero Params select kdf.DefaultLabelParams, as initialize.NewCPUBackend does.
	params := cfg.Scrypt
	if params == (kdf.Params{}) {
		params = kdf.DefaultLabelParams
	}

	labelAt := func(idx uint64) ([16]byte, error) {
		if err := kdf.Label(commitment, idx, params, canonical); err != nil {
			return [16]byte{}, postio.Wrap(postio.KindDeviceFailure, "verify.Verify", err)
		}
		var lb [16]byte
		copy(lb[:], canonical[:postio.LabelSize])
		return lb, nil
	}

	for _, idx := range proof.Indices {
		lb, err := labelAt(idx)
		if err != nil {
			return err
		}
		if stream.Lane(lb, laneOffset) >= d1 {
			return invalidProof("difficulty", "index %d lane value not below D1", idx)
		}
	}

	var ch8 [8]byte
	copy(ch8[:], md.Challenge[:8])
	nodeID := md.NodeID
	if err := powImpl.Verify(proof.Pow, nonceGroup, ch8, k2PowDifficultyTo32(cfg.K2PowDifficulty), &nodeID); err != nil {
		return invalidProof("pow", "k2 proof-of-work rejected: %v", err)
	}

	if err := verifyK3Sample(proof, md, cfg, d1, labelAt, stream, laneOffset); err != nil {
		return err
	}

	return nil
}

// verifyK3Sample re-checks a deterministic k3-sized sample of the
// proof's indices, selected by a PRF keyed on the challenge. Every index
// was already checked in the full pass above; this is a separate,
// independent re-check rather than a cheaper substitute for the full
// scan, so a prover can't rely on the full scan alone ever being skipped.
func verifyK3Sample(proof *postio.Proof, md metadata.ProofMetadata, cfg config.Config, d1 uint64, labelAt func(uint64) ([16]byte, error), stream *aesindex.Stream, laneOffset int) error {
	if cfg.K3 == 0 || cfg.K3 >= cfg.K2 {
		return nil
	}

	for j := uint64(0); j < cfg.K3; j++ {
		pos := samplePosition(md.Challenge, j, uint64(len(proof.Indices)))
		idx := proof.Indices[pos]

		lb, err := labelAt(idx)
		if err != nil {
			return err
		}
		if stream.Lane(lb, laneOffset) >= d1 {
			return invalidProof("k3", "sampled index %d (sample %d) lane value not below D1", idx, j)
		}
	}
	return nil
}

// samplePosition derives the j'th K3 sample position in [0, n) from a
// PRF keyed by challenge, via blake3(challenge || j) mod n.
func samplePosition(challenge [32]byte, j, n uint64) uint64 {
	h := blake3.New()
	h.Write(challenge[:])
	var jb [8]byte
	binary.LittleEndian.PutUint64(jb[:], j)
	h.Write(jb[:])
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8]) % n
}

func invalidProof(reason, format string, args ...any) error {
	return &postio.Error{Kind: postio.KindInvalidProof, Op: "verify.Verify", Reason: reason + ": " + fmt.Sprintf(format, args...)}
}
