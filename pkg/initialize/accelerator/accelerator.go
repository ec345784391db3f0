// Package accelerator adapts initialize.Backend to an external scrypt
// kernel: a small cgo shim around a native kernel, with mock
// implementations standing in for hardware that isn't present on the
// build machine, so the Go-level contract (buffer sizes, argument
// order, device enumeration) can be developed and tested without the
// real driver.
//
// The kernel contract is a read-only commitment buffer, a write-only
// output buffer sized global_work_size * 32 bytes, a scratch ("padcache")
// buffer, and kernel arguments (N, start_index, commitment, output,
// padcache). The padcache Generate passes is a single uint32: its size
// does not depend on N, and the mock kernel does not touch it.
package accelerator

/*
#include <stdlib.h>
#include <stdint.h>
#include <string.h>

typedef struct {
	char name[256];
	int compute_units;
	size_t global_mem_bytes;
} accel_device_prop_t;

static int mock_accel_get_device_count(void) {
	return 1;
}

static int mock_accel_get_device_properties(int device_id, accel_device_prop_t* props) {
	if (props == NULL) return -1;
	strcpy(props->name, "Mock Scrypt Accelerator");
	props->compute_units = 40;
	props->global_mem_bytes = 8589934592;
	return 0;
}

// mock_scrypt_kernel fills output with deterministic bytes derived from
// commitment and the label index, standing in for the real OpenCL
// kernel this shim would otherwise invoke on a real device.
static int mock_scrypt_kernel(uint32_t n, uint64_t start_index, const uint32_t* commitment,
                               uint8_t* output, uint32_t* padcache, size_t count) {
	(void)n;
	(void)padcache;
	for (size_t i = 0; i < count; i++) {
		uint64_t idx = start_index + (uint64_t)i;
		for (int b = 0; b < 32; b++) {
			uint8_t c = ((const uint8_t*)commitment)[b % 32];
			output[i * 32 + b] = (uint8_t)(c ^ (uint8_t)(idx >> ((b % 8) * 8)) ^ (uint8_t)b);
		}
	}
	return 0;
}

extern int accel_get_device_count(void) {
	return mock_accel_get_device_count();
}

extern int accel_get_device_properties(int device_id, accel_device_prop_t* props) {
	return mock_accel_get_device_properties(device_id, props);
}

extern int accel_run_scrypt(uint32_t n, uint64_t start_index, const uint32_t* commitment,
                             uint8_t* output, uint32_t* padcache, size_t count) {
	return mock_scrypt_kernel(n, start_index, commitment, output, padcache, count);
}
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/hkdf-labs/postproof/pkg/initialize"
	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/postio"
)

// DeviceProperties reports the accelerator the kernel would run on.
type DeviceProperties struct {
	Name         string
	ComputeUnits int
	GlobalMemory int64
}

// GetDeviceCount returns the number of accelerators the shim can see.
func GetDeviceCount() int {
	return int(C.accel_get_device_count())
}

// GetDeviceProperties reports properties for one accelerator.
func GetDeviceProperties(deviceID int) (*DeviceProperties, error) {
	var props C.accel_device_prop_t
	if rc := C.accel_get_device_properties(C.int(deviceID), &props); rc != 0 {
		return nil, postio.New(postio.KindDeviceFailure, "accelerator.GetDeviceProperties", "device query failed")
	}
	return &DeviceProperties{
		Name:         C.GoString(&props.name[0]),
		ComputeUnits: int(props.compute_units),
		GlobalMemory: int64(props.global_mem_bytes),
	}, nil
}

// Backend drives the native scrypt kernel in fixed-size batches, the way
// Scrypter::scrypt chunks a label range into global_work_size-sized
// kernel launches and reads the output buffer back after each one.
type Backend struct {
	DeviceID   int
	N          uint32
	GlobalSize int
}

// NewBackend builds an accelerator-backed Backend. globalSize is the
// number of labels computed per kernel launch (Scrypter's
// global_work_size); n is the scrypt cost parameter.
func NewBackend(deviceID int, n uint32, globalSize int) *Backend {
	if globalSize <= 0 {
		globalSize = 160
	}
	return &Backend{DeviceID: deviceID, N: n, GlobalSize: globalSize}
}

func (b *Backend) Generate(ctx context.Context, commitment [postio.CommitmentSize]byte, lo, hi uint64, difficulty *[kdf.CanonicalLabelSize]byte, out []byte) (*VRFNonceAlias, error) {
	expected, err := initialize.BufferLen(lo, hi)
	if err != nil {
		return nil, err
	}
	if len(out) != expected {
		return nil, postio.NewBufferSize("accelerator.Backend.Generate", len(out), expected)
	}

	commitmentWords := make([]uint32, 8)
	for i := 0; i < 8; i++ {
		commitmentWords[i] = uint32(commitment[i*4]) | uint32(commitment[i*4+1])<<8 |
			uint32(commitment[i*4+2])<<16 | uint32(commitment[i*4+3])<<24
	}

	padcache := make([]uint32, 1)
	var nonce *VRFNonceAlias
	cur := difficulty

	canonical := make([]byte, b.GlobalSize*kdf.CanonicalLabelSize)

	for start := lo; start < hi; start += uint64(b.GlobalSize) {
		select {
		case <-ctx.Done():
			return nil, postio.Wrap(postio.KindDeviceFailure, "accelerator.Backend.Generate", ctx.Err())
		default:
		}

		count := uint64(b.GlobalSize)
		if start+count > hi {
			count = hi - start
		}
		batch := canonical[:count*kdf.CanonicalLabelSize]

		rc := C.accel_run_scrypt(
			C.uint32_t(b.N),
			C.uint64_t(start),
			(*C.uint32_t)(unsafe.Pointer(&commitmentWords[0])),
			(*C.uint8_t)(unsafe.Pointer(&batch[0])),
			(*C.uint32_t)(unsafe.Pointer(&padcache[0])),
			C.size_t(count),
		)
		if rc != 0 {
			return nil, postio.New(postio.KindDeviceFailure, "accelerator.Backend.Generate", "kernel launch failed")
		}

		if cur != nil {
			if found := scanBatch(batch, start, *cur); found != nil {
				nonce = found
				cur = &found.Label
			}
		}

		for i := uint64(0); i < count; i++ {
			off := (start + i - lo) * postio.LabelSize
			full := batch[i*kdf.CanonicalLabelSize : (i+1)*kdf.CanonicalLabelSize]
			copy(out[off:off+postio.LabelSize], full[:postio.LabelSize])
		}
	}

	return nonce, nil
}

// VRFNonceAlias is initialize.VRFNonce; aliased locally so this file
// reads without a cross-package type qualifier on every line.
type VRFNonceAlias = initialize.VRFNonce

func scanBatch(canonical []byte, startIndex uint64, difficulty [kdf.CanonicalLabelSize]byte) *VRFNonceAlias {
	var best *VRFNonceAlias
	cur := difficulty
	for i := 0; i*kdf.CanonicalLabelSize < len(canonical); i++ {
		label := canonical[i*kdf.CanonicalLabelSize : (i+1)*kdf.CanonicalLabelSize]
		if bytesLess(label, cur[:]) {
			var l [kdf.CanonicalLabelSize]byte
			copy(l[:], label)
			best = &VRFNonceAlias{Index: startIndex + uint64(i), Label: l}
			cur = l
		}
	}
	return best
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
