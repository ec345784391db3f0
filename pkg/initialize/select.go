package initialize

import "github.com/hkdf-labs/postproof/pkg/kdf"

// BackendProbe reports whether an accelerator backend is usable, without
// this package importing the cgo-bound accelerator package directly (it
// lives one level down in pkg/initialize/accelerator to keep cgo out of
// the pure-Go core). Callers that have linked the accelerator package
// pass its GetDeviceCount as the probe.
type BackendProbe func() int

// DetectionReport describes which backend was picked and why; this
// module only ever has two candidate backends, so an N-way
// preferred-order table collapses to a single accelerator check.
type DetectionReport struct {
	AcceleratorAvailable bool
	AcceleratorCount     int
	Selected             string
}

// SelectBackend picks the accelerator backend when one or more devices
// are reported by probe, falling back to the CPU backend otherwise: a
// "prefer hardware, fall back to software" policy reduced to this
// module's two backends.
func SelectBackend(probe BackendProbe, params kdf.Params, makeAccelerator func(deviceID int) Backend) (Backend, DetectionReport) {
	count := 0
	if probe != nil {
		count = probe()
	}

	report := DetectionReport{AcceleratorAvailable: count > 0, AcceleratorCount: count}

	if count > 0 && makeAccelerator != nil {
		report.Selected = "accelerator"
		return makeAccelerator(0), report
	}

	report.Selected = "cpu"
	return NewCPUBackend(params), report
}
