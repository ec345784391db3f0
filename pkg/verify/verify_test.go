package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hkdf-labs/postproof/pkg/config"
	"github.com/hkdf-labs/postproof/pkg/initialize"
	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/metadata"
	"github.com/hkdf-labs/postproof/pkg/postio"
	"github.com/hkdf-labs/postproof/pkg/pow"
	"github.com/hkdf-labs/postproof/pkg/prove"
)

type memSource struct{ labels []byte }

func (m memSource) ReadLabel(i uint64, out []byte) error {
	off := i * postio.LabelSize
	copy(out, m.labels[off:off+postio.LabelSize])
	return nil
}

const numLabels = 4096

func setup(t *testing.T) (*postio.Proof, metadata.ProofMetadata, config.Config, *pow.Blake3PoW) {
	t.Helper()
	nodeID := [32]byte{1}
	atxID := [32]byte{2}
	commitment := postio.Commitment(nodeID, atxID)

	backend := initialize.NewCPUBackend(kdf.Params{})
	labels := make([]byte, numLabels*postio.LabelSize)
	_, err := backend.Generate(context.Background(), commitment, 0, numLabels, nil, labels)
	require.NoError(t, err)

	challenge := [32]byte{0x7, 0x7, 0x7}
	// K2PowDifficulty is tight enough (~1/65536 of nonces pass) that the
	// K2-pow predicate is actually load-bearing: a flipped pow value or a
	// pow recomputed under the wrong node ID fails it, instead of every
	// nonce trivially passing.
	cfg := config.Config{K1: 64, K2: 4, K3: 2, K2PowDifficulty: 1 << 48}
	powImpl := pow.New()

	proof, err := prove.Prove(context.Background(), memSource{labels}, numLabels, challenge, cfg, powImpl, nodeID, prove.Options{})
	require.NoError(t, err)

	md := metadata.ProofMetadata{NodeID: nodeID, CommitmentAtxID: atxID, Challenge: challenge, NumUnits: 1, LabelsPerUnit: numLabels}
	return proof, md, cfg, powImpl
}

func TestVerifyAcceptsValidProof(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	require.NoError(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsFlippedNonce(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Nonce ^= 1
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsFlippedPow(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Pow ^= 1
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsFlippedIndex(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Indices[0] ^= 1
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsWrongCommitment(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	md.NodeID[0] ^= 1
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsDuplicateIndex(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Indices[1] = proof.Indices[0]
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsOutOfBoundsIndex(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Indices[0] = numLabels + 10
	require.Error(t, Verify(proof, md, cfg, powImpl))
}

func TestVerifyRejectsWrongIndexCount(t *testing.T) {
	proof, md, cfg, powImpl := setup(t)
	proof.Indices = proof.Indices[:len(proof.Indices)-1]
	require.Error(t, Verify(proof, md, cfg, powImpl))
}
