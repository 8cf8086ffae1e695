package riscv

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Uart is a 16550-subset serial port register file, grounded on
// original_source/include/uart.h generalized from the C++ mutex +
// condition_variable + detached std::thread idiom to Go's sync.Mutex,
// sync.Cond and a detached goroutine — the same handoff pattern the
// corpus uses for device register files shared between a hart thread
// and an I/O thread (other_examples' BigBossBoolingB serial.go uses a
// plain sync.Mutex register file; this adds the condition variable the
// spec's producer/consumer handoff requires).
//
// The RX-pending bit (LSR bit 0) is the handoff token between the
// receive goroutine (producer) and the hart (consumer); the condvar
// prevents byte loss but does not order interrupts relative to the
// fetch-execute cycle — ordering is the step loop's job (§4.9).
type Uart struct {
	mu   sync.Mutex
	cond *sync.Cond
	regs [UartSize]uint8

	interrupting atomic.Bool

	out io.Writer
}

// NewUart starts the asynchronous receive goroutine reading from in
// and returns a ready Uart that writes transmitted bytes to out.
func NewUart(in io.Reader, out io.Writer, log zerolog.Logger) *Uart {
	u := &Uart{out: out}
	u.cond = sync.NewCond(&u.mu)
	u.regs[UartLSR] |= MaskUartLsrTX
	go u.receiveLoop(in, log)
	return u
}

func (u *Uart) receiveLoop(in io.Reader, log zerolog.Logger) {
	r := bufio.NewReader(in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Msg("uart: stdin read failed")
			}
			return
		}
		u.mu.Lock()
		for u.regs[UartLSR]&MaskUartLsrRX != 0 {
			u.cond.Wait()
		}
		u.regs[UartRHR] = b
		u.interrupting.Store(true)
		u.regs[UartLSR] |= MaskUartLsrRX
		u.cond.Signal()
		u.mu.Unlock()
	}
}

// IsInterrupting atomically reads-and-clears the interrupt flag, per
// §4.4; this is the atomic exchange the spec requires so the hart
// observes each incoming byte as at most one SEIP edge.
func (u *Uart) IsInterrupting() bool {
	return u.interrupting.Swap(false)
}

// Load performs an 8-bit-only MMIO read.
func (u *Uart) Load(addr uint64, size uint64) (uint64, error) {
	if size != 8 {
		return 0, NewLoadAccessFault(addr)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	index := addr - UartBase
	if index == UartRHR {
		u.cond.Signal()
		u.regs[UartLSR] &^= MaskUartLsrRX
		return uint64(u.regs[UartRHR]), nil
	}
	return uint64(u.regs[index]), nil
}

// Store performs an 8-bit-only MMIO write.
func (u *Uart) Store(addr uint64, size uint64, value uint64) error {
	if size != 8 {
		return NewStoreAMOAccessFault(addr)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	index := addr - UartBase
	if index == UartTHR {
		b := []byte{byte(value & 0xff)}
		if _, err := u.out.Write(b); err != nil {
			return NewStoreAMOAccessFault(addr)
		}
		if f, ok := u.out.(interface{ Flush() error }); ok {
			f.Flush()
		}
		return nil
	}
	u.regs[index] = byte(value & 0xff)
	return nil
}
