package initialize

import (
	"testing"

	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/stretchr/testify/require"
)

func label(b byte) [kdf.CanonicalLabelSize]byte {
	var l [kdf.CanonicalLabelSize]byte
	for i := range l {
		l[i] = b
	}
	return l
}

// Four labels 0xFF,0xEE,0xDD,0xEE scanned against an all-0xFF difficulty
// must settle on index 2 (0xDD), not index 3 (0xEE), because once the
// difficulty tightens to 0xDD a later 0xEE no longer qualifies.
func TestScanForVRFNonce(t *testing.T) {
	var buf []byte
	for _, b := range []byte{0xFF, 0xEE, 0xDD, 0xEE} {
		l := label(b)
		buf = append(buf, l[:]...)
	}

	nonce := scanForVRFNonce(buf, 0, label(0xFF))
	require.NotNil(t, nonce)
	require.Equal(t, uint64(2), nonce.Index)
	require.Equal(t, label(0xDD), nonce.Label)
}

func TestScanForVRFNonceNoneBelowDifficulty(t *testing.T) {
	var buf []byte
	for _, b := range []byte{0xFF, 0xFF} {
		l := label(b)
		buf = append(buf, l[:]...)
	}
	nonce := scanForVRFNonce(buf, 0, label(0x00))
	require.Nil(t, nonce)
}

func TestBufferLen(t *testing.T) {
	n, err := BufferLen(10, 20)
	require.NoError(t, err)
	require.Equal(t, 10*16, n)

	_, err = BufferLen(20, 10)
	require.Error(t, err)
}
