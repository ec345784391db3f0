// Package aesindex implements the keyed pseudo-random indexing function
// used by the prover and verifier: a 16-byte AES key derived from a
// challenge and a nonce-batch id turns a stored label's bytes into
// sixteen 8-byte lanes, one per nonce in the batch, so a single AES
// keying covers an entire 16-nonce proving window for that label.
//
// crypto/aes is used directly rather than a third-party block-cipher
// package: it is Go's constant-time reference AES implementation, the
// same way this module reaches for crypto/sha256 directly for its own
// low-level primitives.
package aesindex

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// LanesPerLabel is the number of 8-byte lanes derived per label, one per
// nonce in a proving batch.
const LanesPerLabel = 16

// blocksPerLabel is the number of raw AES-128 block encryptions needed to
// expand one 16-byte label into LanesPerLabel eight-byte lanes.
const blocksPerLabel = (LanesPerLabel * 8) / aes.BlockSize

// DeriveKey derives the 16-byte AES key bound to a challenge and a nonce
// batch id; one key is shared by every nonce in a 16-wide batch.
func DeriveKey(challenge [32]byte, nonceGroup uint32) [16]byte {
	var groupBytes [4]byte
	binary.LittleEndian.PutUint32(groupBytes[:], nonceGroup)

	h := sha256.New()
	h.Write(challenge[:])
	h.Write(groupBytes[:])
	sum := h.Sum(nil)

	var key [16]byte
	copy(key[:], sum[:16])
	return key
}

// Stream is a keyed indexing function over label values: Lane(label, j)
// is the pseudo-random value compared against the proving difficulty for
// nonce offset j within the Stream's batch.
type Stream struct {
	cipher cipher.Block
}

// NewStream builds a Stream keyed by the given 16-byte AES key.
func NewStream(key [16]byte) (*Stream, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aesindex: new cipher: %w", err)
	}
	return &Stream{cipher: block}, nil
}

// block encrypts label XORed against a small sub-counter, expanding one
// 16-byte label into blocksPerLabel independent-looking AES outputs.
func (s *Stream) block(label [16]byte, sub uint64) [aes.BlockSize]byte {
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], sub)

	var plain [aes.BlockSize]byte
	copy(plain[:], label[:])
	for k := 0; k < 8; k++ {
		plain[8+k] ^= ctr[k]
	}

	var out [aes.BlockSize]byte
	s.cipher.Encrypt(out[:], plain[:])
	return out
}

// Lanes returns all LanesPerLabel lane values for the given label, per
// the mapping documented in doc.go: the label is expanded into
// blocksPerLabel AES outputs (sub-counters 0..blocksPerLabel), which are
// concatenated and split into sixteen 64-bit little-endian lanes. Lane j
// is the value compared against the proving difficulty for the nonce at
// offset j within the current 16-nonce batch.
func (s *Stream) Lanes(label [16]byte) [LanesPerLabel]uint64 {
	var buf [LanesPerLabel * 8]byte
	for sub := uint64(0); sub < blocksPerLabel; sub++ {
		b := s.block(label, sub)
		copy(buf[sub*aes.BlockSize:], b[:])
	}

	var lanes [LanesPerLabel]uint64
	for j := 0; j < LanesPerLabel; j++ {
		lanes[j] = binary.LittleEndian.Uint64(buf[j*8 : j*8+8])
	}
	return lanes
}

// Lane returns a single lane value without materializing all sixteen —
// used by the verifier, which only needs the lane for the proof's one
// winning nonce per index.
func (s *Stream) Lane(label [16]byte, lane int) uint64 {
	sub := uint64(lane / 2)
	b := s.block(label, sub)
	off := (lane % 2) * 8
	return binary.LittleEndian.Uint64(b[off : off+8])
}
