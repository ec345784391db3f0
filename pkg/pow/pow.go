// Package pow implements the proof-of-work primitive used to prevent
// grinding on nonces. In this module its only callers are the prover and
// verifier's K2-pow, which binds a proof to its winning nonce group.
//
// The memory-hard hash function this is built around is treated as a
// black box behind a defined interface: a real deployment would vendor
// a RandomX-class C library behind cgo, the same shape a cgo bridge
// around a native compute kernel takes elsewhere in this module. In
// place of that binding, the concrete
// Prover/Verifier here is backed by github.com/zeebo/blake3 — a real,
// audited, fast hash-based primitive — behind the same interface a
// RandomX-backed implementation would satisfy. Swapping the hash is a
// one-file change; every caller only ever sees Prover/Verifier.
package pow

import (
	"context"
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/hkdf-labs/postproof/pkg/postio"
)

// Prover searches for a 64-bit nonce satisfying the PoW predicate.
type Prover interface {
	Prove(ctx context.Context, nonceGroup uint8, ch8 [8]byte, difficulty [32]byte, minerID *[32]byte) (uint64, error)
}

// Verifier checks the symmetric PoW predicate.
type Verifier interface {
	Verify(pow uint64, nonceGroup uint8, ch8 [8]byte, difficulty [32]byte, minerID *[32]byte) error
}

// MaxAttempts bounds the nonce search so Prove always terminates. Every
// call searches nonces [0, MaxAttempts); Prove takes no starting nonce, so
// repeated calls with the same inputs repeat the same search.
const MaxAttempts = 1 << 24

// Blake3PoW implements Prover and Verifier with H = blake3(nonce_group ||
// ch8 || miner_id || nonce) compared against a 256-bit big-endian
// difficulty.
type Blake3PoW struct{}

// New returns the default PoW backend.
func New() *Blake3PoW { return &Blake3PoW{} }

func digest(nonceGroup uint8, ch8 [8]byte, minerID *[32]byte, nonce uint64) [32]byte {
	h := blake3.New()
	h.Write([]byte{nonceGroup})
	h.Write(ch8[:])
	if minerID != nil {
		h.Write(minerID[:])
	}
	var nb [8]byte
	binary.LittleEndian.PutUint64(nb[:], nonce)
	h.Write(nb[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func below(hash, difficulty [32]byte) bool {
	for i := 0; i < 32; i++ {
		if hash[i] != difficulty[i] {
			return hash[i] < difficulty[i]
		}
	}
	return false
}

// Prove searches nonces [0, MaxAttempts) for one whose digest is below
// difficulty, returning postio.KindPoWNotFound when none is found.
func (b *Blake3PoW) Prove(ctx context.Context, nonceGroup uint8, ch8 [8]byte, difficulty [32]byte, minerID *[32]byte) (uint64, error) {
	for nonce := uint64(0); nonce < MaxAttempts; nonce++ {
		if nonce%4096 == 0 {
			select {
			case <-ctx.Done():
				return 0, postio.Wrap(postio.KindPoWNotFound, "pow.Prove", ctx.Err())
			default:
			}
		}
		if below(digest(nonceGroup, ch8, minerID, nonce), difficulty) {
			return nonce, nil
		}
	}
	return 0, postio.New(postio.KindPoWNotFound, "pow.Prove", "exhausted nonce search space")
}

// Verify recomputes the digest for pow and checks it against difficulty.
func (b *Blake3PoW) Verify(pow uint64, nonceGroup uint8, ch8 [8]byte, difficulty [32]byte, minerID *[32]byte) error {
	if !below(digest(nonceGroup, ch8, minerID, pow), difficulty) {
		return postio.New(postio.KindInvalidPoW, "pow.Verify", "digest not below difficulty")
	}
	return nil
}
