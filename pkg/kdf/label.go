package kdf

import "encoding/binary"

// CanonicalLabelSize is the width of the full scrypt output a label is
// derived from before truncation.
const CanonicalLabelSize = 32

// Label derives the canonical 32-byte form of label i for the given
// commitment: scrypt(password = commitment || i_le8, salt = "", params).
// The caller truncates to the first 16 bytes to get the stored label; the
// full form is kept available for the VRF-nonce scan.
func Label(commitment [32]byte, index uint64, params Params, out []byte) error {
	password := make([]byte, 32+8)
	copy(password, commitment[:])
	binary.LittleEndian.PutUint64(password[32:], index)
	return Derive(password, nil, params, out)
}
