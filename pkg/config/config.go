// Package config holds the tunable parameters shared by initialization,
// proving, and verification.
package config

import (
	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/postio"
)

// Config is the full set of proving/verification parameters.
// K3PowDifficulty is present-and-optional but is not read by this module:
// verify.Verify performs no separate K3 PoW check whatever its value, and
// only the K3 difficulty sub-sample test applies.
type Config struct {
	K1 uint64
	K2 uint64
	K3 uint64

	K2PowDifficulty uint64
	K3PowDifficulty *uint64

	PowDifficulty [32]byte
	// PowScrypt is reserved for a memory-hard PoW backend that derives its
	// own working set via scrypt-shaped parameters, the way a real
	// RandomX-class primitive would. pow.Blake3PoW, the concrete
	// black-box stand-in this module ships, takes no KDF parameters, so
	// PowScrypt has no reader today; a RandomX-class Prover/Verifier
	// swapped in behind the same interface is the intended consumer.
	PowScrypt kdf.Params
	Scrypt    kdf.Params
}

// Validate checks the structural invariants that make a Config
// internally consistent.
func (c Config) Validate() error {
	if c.K3 > c.K2 {
		return postio.New(postio.KindInvalidConfig, "config.Validate", "k3 > k2")
	}
	if c.K2 == 0 {
		return postio.New(postio.KindInvalidConfig, "config.Validate", "k2 is zero")
	}
	return nil
}
