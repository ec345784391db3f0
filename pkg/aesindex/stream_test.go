package aesindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanesMatchesLane(t *testing.T) {
	key := DeriveKey([32]byte{1, 2, 3}, 7)
	stream, err := NewStream(key)
	require.NoError(t, err)

	var label [16]byte
	for i := range label {
		label[i] = byte(i * 3)
	}

	lanes := stream.Lanes(label)
	for j := 0; j < LanesPerLabel; j++ {
		require.Equal(t, lanes[j], stream.Lane(label, j), "lane %d mismatch", j)
	}
}

func TestStreamIsDeterministic(t *testing.T) {
	key := DeriveKey([32]byte{9}, 42)
	s1, err := NewStream(key)
	require.NoError(t, err)
	s2, err := NewStream(key)
	require.NoError(t, err)

	label := [16]byte{0xAA, 0xBB}
	require.Equal(t, s1.Lanes(label), s2.Lanes(label))
}

func TestDifferentLabelsDivergeUnderSameKey(t *testing.T) {
	key := DeriveKey([32]byte{5}, 1)
	stream, err := NewStream(key)
	require.NoError(t, err)

	a := stream.Lanes([16]byte{1})
	b := stream.Lanes([16]byte{2})
	require.NotEqual(t, a, b)
}

func TestDifferentNonceGroupsDivergeForSameLabel(t *testing.T) {
	label := [16]byte{7, 7, 7}

	s1, err := NewStream(DeriveKey([32]byte{3}, 0))
	require.NoError(t, err)
	s2, err := NewStream(DeriveKey([32]byte{3}, 1))
	require.NoError(t, err)

	require.NotEqual(t, s1.Lanes(label), s2.Lanes(label))
}
