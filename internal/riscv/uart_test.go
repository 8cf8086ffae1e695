package riscv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestUartEchoesWrittenBytesToStdout(t *testing.T) {
	var out bytes.Buffer
	u := NewUart(discardReader{}, &out, zerolog.Nop())
	msg := "Hello, world!\n"
	for _, b := range []byte(msg) {
		require.NoError(t, u.Store(UartBase+UartTHR, 8, uint64(b)))
	}
	require.Equal(t, msg, out.String())
}

func TestUartDeliversStdinByteToRHR(t *testing.T) {
	var out bytes.Buffer
	u := NewUart(strings.NewReader("A"), &out, zerolog.Nop())

	deadline := time.After(2 * time.Second)
	for {
		v, err := u.Load(UartBase+UartLSR, 8)
		require.NoError(t, err)
		if v&uint64(MaskUartLsrRX) != 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for LSR data-ready bit")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	require.True(t, u.IsInterrupting())

	b, err := u.Load(UartBase+UartRHR, 8)
	require.NoError(t, err)
	require.Equal(t, uint64('A'), b)

	v, err := u.Load(UartBase+UartLSR, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v&uint64(MaskUartLsrRX))
}

func TestUartRejectsNonByteWidth(t *testing.T) {
	var out bytes.Buffer
	u := NewUart(discardReader{}, &out, zerolog.Nop())
	_, err := u.Load(UartBase, 16)
	require.Error(t, err)
	_, ok := err.(*Trap)
	require.True(t, ok)
}

func TestUartIsInterruptingIsAnAtomicSwap(t *testing.T) {
	var out bytes.Buffer
	u := NewUart(strings.NewReader("x"), &out, zerolog.Nop())
	deadline := time.After(2 * time.Second)
	for !u.interrupting.Load() {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the receive goroutine")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	require.True(t, u.IsInterrupting())
	require.False(t, u.IsInterrupting())
}
