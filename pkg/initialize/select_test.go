package initialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hkdf-labs/postproof/pkg/kdf"
)

func TestSelectBackendPrefersAccelerator(t *testing.T) {
	called := false
	backend, report := SelectBackend(func() int { return 2 }, kdf.Params{}, func(deviceID int) Backend {
		called = true
		require.Equal(t, 0, deviceID)
		return NewCPUBackend(kdf.Params{})
	})

	require.NotNil(t, backend)
	require.True(t, called)
	require.Equal(t, "accelerator", report.Selected)
	require.True(t, report.AcceleratorAvailable)
	require.Equal(t, 2, report.AcceleratorCount)
}

func TestSelectBackendFallsBackToCPU(t *testing.T) {
	backend, report := SelectBackend(func() int { return 0 }, kdf.Params{}, nil)

	require.IsType(t, &CPUBackend{}, backend)
	require.Equal(t, "cpu", report.Selected)
	require.False(t, report.AcceleratorAvailable)
}
