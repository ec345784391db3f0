// Package metadata holds the fixed struct a verifier needs to re-derive
// a prover's commitment and label-space bounds without the prover's
// local config.
package metadata

import "github.com/hkdf-labs/postproof/pkg/postio"

// ProofMetadata carries everything the verifier needs alongside a Proof
// and a Config.
type ProofMetadata struct {
	NodeID          [32]byte
	CommitmentAtxID [32]byte
	Challenge       [32]byte
	NumUnits        uint32
	LabelsPerUnit   uint64
}

// Commitment re-derives the 32-byte identity commitment this metadata's
// labels were initialized under.
func (m ProofMetadata) Commitment() [postio.CommitmentSize]byte {
	return postio.Commitment(m.NodeID, m.CommitmentAtxID)
}

// NumLabels returns the total label count backing this metadata's space.
func (m ProofMetadata) NumLabels() uint64 {
	return postio.NumLabels(m.NumUnits, m.LabelsPerUnit)
}
