// Package postio holds the external, on-disk and on-wire representations
// shared by every other package in this module: the commitment derivation,
// the label file layout, and the proof wire codec.
package postio

import "crypto/sha256"

// CommitmentSize is the length in bytes of a node's identity commitment.
const CommitmentSize = 32

// LabelSize is the length in bytes of a single stored label.
const LabelSize = 16

// CanonicalLabelSize is the length of the full scrypt output a label is
// truncated from; the VRF-nonce scan operates on this wider form.
const CanonicalLabelSize = 32

// Commitment derives the 32-byte identity commitment hashed from a node's
// identity and the ATX id of the commitment transaction.
func Commitment(nodeID, commitmentAtxID [32]byte) [CommitmentSize]byte {
	h := sha256.New()
	h.Write(nodeID[:])
	h.Write(commitmentAtxID[:])
	var out [CommitmentSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// LabelOffset returns the byte offset of label i in the flat label file.
func LabelOffset(i uint64) int64 {
	return int64(i) * int64(LabelSize)
}

// NumLabels returns the total label count backing numUnits units of space.
func NumLabels(numUnits uint32, labelsPerUnit uint64) uint64 {
	return uint64(numUnits) * labelsPerUnit
}
