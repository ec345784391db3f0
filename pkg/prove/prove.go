// Package prove implements the scanning prover: given a stored label
// file and a challenge, it finds a 16-nonce batch and collects K2
// passing label indices for one winning nonce in that batch, then binds
// the result with a K2 proof-of-work.
package prove

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/hkdf-labs/postproof/internal/difficulty"
	"github.com/hkdf-labs/postproof/pkg/aesindex"
	"github.com/hkdf-labs/postproof/pkg/config"
	"github.com/hkdf-labs/postproof/pkg/postio"
	"github.com/hkdf-labs/postproof/pkg/pow"
)

// LabelSource reads 16-byte stored labels by index, abstracting over a
// plain on-disk label file (FileSource) or any other byte-addressable
// backing store a caller might substitute in tests.
type LabelSource interface {
	ReadLabel(i uint64, out []byte) error
}

// FileSource reads labels directly from a flat label file via io.ReaderAt:
// a concatenation of 16-byte labels, no header.
type FileSource struct {
	R io.ReaderAt
}

func (f FileSource) ReadLabel(i uint64, out []byte) error {
	if len(out) != postio.LabelSize {
		return postio.NewBufferSize("prove.FileSource.ReadLabel", len(out), postio.LabelSize)
	}
	_, err := f.R.ReadAt(out, postio.LabelOffset(i))
	if err != nil {
		return postio.Wrap(postio.KindIoFailure, "prove.FileSource.ReadLabel", err)
	}
	return nil
}

// nonceBatchWidth is the number of nonces one AES key covers; this
// prover always scans exactly one 16-wide batch at a time.
const nonceBatchWidth = 16

// Options controls the bounded search the prover performs.
type Options struct {
	// MaxNonceBatches bounds the outer loop over nonce batches; 0 uses a
	// conservative default.
	MaxNonceBatches int
	// ChunkSize is the number of labels read per scan chunk; 0 uses a
	// conservative default. Chunking only affects how often cancellation
	// is checked — the accumulated result does not depend on it.
	ChunkSize uint64
}

const (
	defaultMaxNonceBatches = 256
	defaultChunkSize       = 1 << 16
)

func (o Options) withDefaults() Options {
	if o.MaxNonceBatches <= 0 {
		o.MaxNonceBatches = defaultMaxNonceBatches
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = defaultChunkSize
	}
	return o
}

// k2PowDifficultyTo32 scales the config's 64-bit K2 PoW target up to the
// 256-bit target shape pkg/pow's predicate expects, by placing it in the
// most-significant 8 bytes: target256 = v << 192. A fraction v/2^64 of
// the 64-bit space becomes the same fraction of the full 256-bit hash
// space, so the K2-pow search has the same selectivity a native 64-bit
// comparison would have had.
func k2PowDifficultyTo32(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[:8], v)
	return out
}

// Prove scans src for a proof against challenge under commitment.
// nodeID binds the K2 proof-of-work to the same identity a verifier
// will recompute it under (metadata.ProofMetadata.NodeID).
func Prove(ctx context.Context, src LabelSource, numLabels uint64, challenge [32]byte, cfg config.Config, powImpl pow.Prover, nodeID [32]byte, opts Options) (*postio.Proof, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	d1, err := difficulty.ProvingDifficulty(cfg.K1, numLabels)
	if err != nil {
		return nil, err
	}

	var ch8 [8]byte
	copy(ch8[:], challenge[:8])

	label := make([]byte, postio.LabelSize)

	for batch := 0; batch < opts.MaxNonceBatches; batch++ {
		nonceGroup := uint8(batch)
		key := aesindex.DeriveKey(challenge, uint32(nonceGroup))
		stream, err := aesindex.NewStream(key)
		if err != nil {
			return nil, postio.Wrap(postio.KindDeviceFailure, "prove.Prove", err)
		}

		accumulators := make([][]uint64, nonceBatchWidth)

		for chunkStart := uint64(0); chunkStart < numLabels; chunkStart += opts.ChunkSize {
			select {
			case <-ctx.Done():
				return nil, postio.Wrap(postio.KindIoFailure, "prove.Prove", ctx.Err())
			default:
			}

			chunkEnd := chunkStart + opts.ChunkSize
			if chunkEnd > numLabels {
				chunkEnd = numLabels
			}

			for i := chunkStart; i < chunkEnd; i++ {
				var lb [16]byte
				if err := src.ReadLabel(i, label); err != nil {
					return nil, err
				}
				copy(lb[:], label)

				lanes := stream.Lanes(lb)
				for j := 0; j < nonceBatchWidth; j++ {
					if lanes[j] < d1 {
						accumulators[j] = append(accumulators[j], i)
					}
				}
				if _, ok := firstReachingK2(accumulators, cfg.K2); ok {
					break
				}
			}

			if j, ok := firstReachingK2(accumulators, cfg.K2); ok {
				nonce := uint32(nonceGroup)*nonceBatchWidth + uint32(j)
				indices := accumulators[j][:cfg.K2]

				k2pow, err := powImpl.Prove(ctx, nonceGroup, ch8, k2PowDifficultyTo32(cfg.K2PowDifficulty), &nodeID)
				if err != nil {
					return nil, postio.Wrap(postio.KindPoWNotFound, "prove.Prove", err)
				}

				return &postio.Proof{Nonce: nonce, Pow: k2pow, Indices: indices}, nil
			}
		}
	}

	return nil, postio.New(postio.KindProofNotFound, "prove.Prove", "exhausted configured nonce batch budget")
}

func firstReachingK2(accumulators [][]uint64, k2 uint64) (int, bool) {
	for j, acc := range accumulators {
		if uint64(len(acc)) >= k2 {
			return j, true
		}
	}
	return 0, false
}
