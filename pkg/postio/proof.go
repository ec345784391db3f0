package postio

import (
	"encoding/binary"
	"fmt"
)

// Proof is the compact artifact produced by a prover and checked by a
// verifier: a winning nonce, the K2-pow value bound to it, and the set of
// label indices (in canonical read order) that passed the difficulty test.
type Proof struct {
	Nonce   uint32
	Pow     uint64
	Indices []uint64
}

// Encode serializes the proof to its canonical wire form: nonce (u32 LE),
// pow (u64 LE), then len(Indices) little-endian base-128 varints, each the
// delta from the previous index (the first delta is taken from 0).
func (p *Proof) Encode() []byte {
	buf := make([]byte, 0, 4+8+len(p.Indices)*2)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], p.Nonce)
	buf = append(buf, tmp[:]...)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], p.Pow)
	buf = append(buf, tmp8[:]...)

	var prev uint64
	var varintBuf [binary.MaxVarintLen64]byte
	for _, idx := range p.Indices {
		delta := idx - prev
		n := binary.PutUvarint(varintBuf[:], delta)
		buf = append(buf, varintBuf[:n]...)
		prev = idx
	}
	return buf
}

// DecodeProof parses the wire form produced by Encode, reading exactly
// k2 indices.
func DecodeProof(data []byte, k2 int) (*Proof, error) {
	if len(data) < 4+8 {
		return nil, fmt.Errorf("postio: proof too short: %d bytes", len(data))
	}
	p := &Proof{
		Nonce:   binary.LittleEndian.Uint32(data[0:4]),
		Pow:     binary.LittleEndian.Uint64(data[4:12]),
		Indices: make([]uint64, 0, k2),
	}

	rest := data[12:]
	var prev uint64
	for i := 0; i < k2; i++ {
		delta, n := binary.Uvarint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("postio: truncated varint at index %d", i)
		}
		rest = rest[n:]
		idx := prev + delta
		p.Indices = append(p.Indices, idx)
		prev = idx
	}
	return p, nil
}
