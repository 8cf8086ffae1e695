package riscv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDramRoundTrip(t *testing.T) {
	d := NewDram(DramSize, nil)
	for _, size := range []uint64{8, 16, 32, 64} {
		require.NoError(t, d.Store(DramBase, size, 0xdeadbeefcafebabe))
		got, err := d.Load(DramBase, size)
		require.NoError(t, err)
		want := uint64(0xdeadbeefcafebabe) & ((uint64(1) << size) - 1)
		require.Equal(t, want, got, "size=%d", size)
	}
}

func TestDramInitialContentsFromCode(t *testing.T) {
	code := []byte{0xef, 0xbe, 0xad, 0xde}
	d := NewDram(DramSize, code)
	got, err := d.Load(DramBase, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), got)
}

func TestDramRejectsBadWidth(t *testing.T) {
	d := NewDram(DramSize, nil)
	_, err := d.Load(DramBase, 24)
	require.Error(t, err)
	trap, ok := err.(*Trap)
	require.True(t, ok)
	require.Equal(t, LoadAccessFault, trap.Code)
}
