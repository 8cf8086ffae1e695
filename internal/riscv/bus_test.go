package riscv

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testBus(t *testing.T) *Bus {
	t.Helper()
	return NewBus(
		NewDram(DramSize, nil),
		NewClint(),
		NewPlic(),
		NewUart(discardReader{}, &discardWriter{}, zerolog.Nop()),
		NewVirtioMMIO(make([]byte, SectorSize)),
	)
}

func TestClintRoundTrip64BitOnly(t *testing.T) {
	c := NewClint()
	require.NoError(t, c.Store(ClintMtimeCmp, 64, 0xabc))
	v, err := c.Load(ClintMtimeCmp, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(0xabc), v)

	_, err = c.Load(ClintMtimeCmp, 32)
	require.Error(t, err)

	_, err = c.Load(ClintBase, 64)
	require.Error(t, err)
}

func TestPlicRoundTrip32BitOnly(t *testing.T) {
	p := NewPlic()
	require.NoError(t, p.Store(PlicSClaim, 32, 10))
	v, err := p.Load(PlicSClaim, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(10), v)

	_, err = p.Load(PlicSClaim, 64)
	require.Error(t, err)

	// Unmapped addresses in range read zero, ignore stores.
	require.NoError(t, p.Store(PlicBase, 32, 0xff))
	v, err = p.Load(PlicBase, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestVirtioInterruptsOnceAfterNotify(t *testing.T) {
	v := NewVirtioMMIO(make([]byte, 16))
	require.False(t, v.IsInterrupting())
	require.NoError(t, v.Store(VirtioQueueNotify, 32, 0))
	require.True(t, v.IsInterrupting())
	require.False(t, v.IsInterrupting())
}

func TestBusDispatchesByAddressRange(t *testing.T) {
	b := testBus(t)
	require.NoError(t, b.Store(DramBase, 64, 7))
	v, err := b.Load(DramBase, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)

	require.NoError(t, b.Store(ClintMtimeCmp, 64, 9))
	v, err = b.Load(ClintMtimeCmp, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(9), v)

	_, err = b.Load(0x5000_0000, 64)
	require.Error(t, err)
	trap := err.(*Trap)
	require.Equal(t, LoadAccessFault, trap.Code)
	require.Equal(t, uint64(0x5000_0000), trap.Value)
}
