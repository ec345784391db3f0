// Package hostinfo probes the local machine for the capabilities the
// label initializer and prover care about: AES-NI support (which backend
// should be picked), CPU core count (how many parallel chunks to run),
// and total memory (how large a scrypt padcache tile is safe).
//
// A small struct holds detected capabilities per concern, populated by
// a handful of detect steps, with a human-readable summary for
// diagnostics. Concrete probes use github.com/klauspost/cpuid/v2 (CPU
// feature bits) and github.com/shirou/gopsutil/v3 (host memory/CPU
// counts) in place of raw device-file/nvidia-smi checks.
package hostinfo

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Capabilities reports what this host can do for label initialization
// and proving.
type Capabilities struct {
	AESNI          bool
	LogicalCores   int
	PhysicalCores  int
	TotalMemoryMiB uint64
	CPUBrand       string
}

// Probe runs host detection once, mirroring DeviceDetector.
// DetectAvailableMethods in spirit: a handful of independent detectXxx
// steps populate one result.
func Probe() Capabilities {
	c := Capabilities{
		AESNI:        cpuid.CPU.Supports(cpuid.AESNI),
		LogicalCores: runtime.NumCPU(),
		CPUBrand:     cpuid.CPU.BrandName,
	}

	if counts, err := cpu.Counts(false); err == nil {
		c.PhysicalCores = counts
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		c.TotalMemoryMiB = vm.Total / (1024 * 1024)
	}

	return c
}

// RecommendedChunkSize suggests a label-scan chunk size (in labels)
// scaled to the host's logical core count: 16384 labels per core. The
// prover scans chunks one after another on a single goroutine.
func (c Capabilities) RecommendedChunkSize() uint64 {
	cores := c.LogicalCores
	if cores < 1 {
		cores = 1
	}
	const baseChunk = 1 << 14
	return uint64(baseChunk * cores)
}

// Summary renders a human-readable capability report, in the same
// two-column style as DeviceDetector.GetDetectionSummary.
func (c Capabilities) Summary() string {
	var b strings.Builder
	b.WriteString("Host capability summary:\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "%-20s %t\n", "AES-NI", c.AESNI)
	fmt.Fprintf(&b, "%-20s %d\n", "Logical cores", c.LogicalCores)
	fmt.Fprintf(&b, "%-20s %d\n", "Physical cores", c.PhysicalCores)
	fmt.Fprintf(&b, "%-20s %d MiB\n", "Total memory", c.TotalMemoryMiB)
	fmt.Fprintf(&b, "%-20s %s\n", "CPU", c.CPUBrand)
	return b.String()
}
