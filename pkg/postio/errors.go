package postio

import "fmt"

// Kind discriminates the exhaustive error conditions surfaced across the
// initializer, prover, and verifier: a small struct carrying a
// discriminated kind plus an operation and an underlying cause.
type Kind int

const (
	KindInvalidConfig Kind = iota
	KindRangeTooLarge
	KindInvalidBufferSize
	KindDeviceFailure
	KindIoFailure
	KindPoWNotFound
	KindInvalidPoW
	KindProofNotFound
	KindInvalidProof
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "invalid_config"
	case KindRangeTooLarge:
		return "range_too_large"
	case KindInvalidBufferSize:
		return "invalid_buffer_size"
	case KindDeviceFailure:
		return "device_failure"
	case KindIoFailure:
		return "io_failure"
	case KindPoWNotFound:
		return "pow_not_found"
	case KindInvalidPoW:
		return "invalid_pow"
	case KindProofNotFound:
		return "proof_not_found"
	case KindInvalidProof:
		return "invalid_proof"
	default:
		return "unknown"
	}
}

// Error is the structured error type shared by every package in this
// module. Op names the failing operation, Reason carries a free-form
// detail (e.g. which invariant failed for KindInvalidProof), and Err
// wraps the underlying cause when one exists (device driver error, I/O
// error).
type Error struct {
	Kind   Kind
	Op     string
	Reason string
	Err    error

	// Got/Expected are populated for KindInvalidBufferSize.
	Got, Expected int
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidBufferSize {
		return fmt.Sprintf("postio: %s: %s: got %d, expected %d", e.Op, e.Kind, e.Got, e.Expected)
	}
	if e.Err != nil {
		return fmt.Sprintf("postio: %s: %s: %s: %v", e.Op, e.Kind, e.Reason, e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("postio: %s: %s: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("postio: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &Error{Kind: KindProofNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, reason string) error {
	return &Error{Kind: kind, Op: op, Reason: reason}
}

// Wrap builds an *Error that wraps an underlying cause.
func Wrap(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewBufferSize builds the KindInvalidBufferSize contract-violation error.
func NewBufferSize(op string, got, expected int) error {
	return &Error{Kind: KindInvalidBufferSize, Op: op, Got: got, Expected: expected}
}
