package initialize

import (
	"context"

	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/postio"
)

// CPUBackend generates labels directly with pkg/kdf, one scrypt call per
// index. It is the reference implementation every accelerator backend
// must agree with bit-for-bit.
type CPUBackend struct {
	Params kdf.Params
}

// NewCPUBackend builds a CPUBackend using the supplied scrypt params, or
// kdf.DefaultLabelParams when params is the zero value.
func NewCPUBackend(params kdf.Params) *CPUBackend {
	if params == (kdf.Params{}) {
		params = kdf.DefaultLabelParams
	}
	return &CPUBackend{Params: params}
}

func (c *CPUBackend) Generate(ctx context.Context, commitment [postio.CommitmentSize]byte, lo, hi uint64, difficulty *[kdf.CanonicalLabelSize]byte, out []byte) (*VRFNonce, error) {
	expected, err := BufferLen(lo, hi)
	if err != nil {
		return nil, err
	}
	if len(out) != expected {
		return nil, postio.NewBufferSize("initialize.CPUBackend.Generate", len(out), expected)
	}

	canonical := make([]byte, kdf.CanonicalLabelSize)
	var nonce *VRFNonce
	cur := difficulty

	for idx := lo; idx < hi; idx++ {
		if idx%4096 == 0 {
			select {
			case <-ctx.Done():
				return nil, postio.Wrap(postio.KindDeviceFailure, "initialize.CPUBackend.Generate", ctx.Err())
			default:
			}
		}

		if err := kdf.Label(commitment, idx, c.Params, canonical); err != nil {
			return nil, postio.Wrap(postio.KindDeviceFailure, "initialize.CPUBackend.Generate", err)
		}

		off := (idx - lo) * postio.LabelSize
		copy(out[off:off+postio.LabelSize], canonical[:postio.LabelSize])

		if cur != nil && lessThan(canonical, cur[:]) {
			var l [kdf.CanonicalLabelSize]byte
			copy(l[:], canonical)
			nonce = &VRFNonce{Index: idx, Label: l}
			cur = &l
		}
	}

	return nonce, nil
}
