// Package kdf wraps the scrypt key-derivation function behind the compact
// parameter form the rest of this module shares. It is a thin layer over
// golang.org/x/crypto/scrypt, the same dependency go-ethereum's keystore
// (accounts/keystore) leans on for its own password-derived encryption
// keys.
package kdf

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// Params is the compact scrypt parameter triple (log2N, log2R, log2P)
// used for label initialization and for the verifier's label
// reconstruction.
type Params struct {
	Log2N uint8
	Log2R uint8
	Log2P uint8
}

// New builds a Params from log2 exponents.
func New(log2N, log2R, log2P uint8) Params {
	return Params{Log2N: log2N, Log2R: log2R, Log2P: log2P}
}

// DefaultLabelParams is the canonical scrypt configuration for label
// initialization: N = 4096 (log2N = 12), r = 1, p = 1.
var DefaultLabelParams = Params{Log2N: 12, Log2R: 0, Log2P: 0}

func (p Params) n() int { return 1 << p.Log2N }
func (p Params) r() int { return 1 << p.Log2R }
func (p Params) p() int { return 1 << p.Log2P }

// N returns the scrypt CPU/memory cost parameter N = 1<<log2N.
func (p Params) N() int { return p.n() }

// Derive runs scrypt(password, salt, N, r, p, len(out)) into out in place.
func Derive(password, salt []byte, params Params, out []byte) error {
	key, err := scrypt.Key(password, salt, params.n(), params.r(), params.p(), len(out))
	if err != nil {
		return fmt.Errorf("kdf: scrypt derive: %w", err)
	}
	copy(out, key)
	return nil
}
