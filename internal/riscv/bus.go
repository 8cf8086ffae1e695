package riscv

// Bus dispatches loads/stores by physical address range to the device
// that owns it, per §4.6. An address matching no device raises the
// corresponding access fault with addr, grounded on
// original_source/include/Bus.h.
type Bus struct {
	Dram   *Dram
	Clint  *Clint
	Plic   *Plic
	Uart   *Uart
	Virtio *VirtioMMIO
}

// NewBus wires the devices that make up the memory map of §3.
func NewBus(dram *Dram, clint *Clint, plic *Plic, uart *Uart, virtio *VirtioMMIO) *Bus {
	return &Bus{Dram: dram, Clint: clint, Plic: plic, Uart: uart, Virtio: virtio}
}

func (b *Bus) Load(addr uint64, size uint64) (uint64, error) {
	switch {
	case addr >= UartBase && addr <= UartEnd:
		return b.Uart.Load(addr, size)
	case addr >= ClintBase && addr <= ClintEnd:
		return b.Clint.Load(addr, size)
	case addr >= PlicBase && addr <= PlicEnd:
		return b.Plic.Load(addr, size)
	case addr >= VirtioBase && addr <= VirtioEnd:
		return b.Virtio.Load(addr, size)
	case addr >= DramBase && addr <= DramEnd:
		return b.Dram.Load(addr, size)
	default:
		return 0, NewLoadAccessFault(addr)
	}
}

func (b *Bus) Store(addr uint64, size uint64, value uint64) error {
	switch {
	case addr >= UartBase && addr <= UartEnd:
		return b.Uart.Store(addr, size, value)
	case addr >= ClintBase && addr <= ClintEnd:
		return b.Clint.Store(addr, size, value)
	case addr >= PlicBase && addr <= PlicEnd:
		return b.Plic.Store(addr, size, value)
	case addr >= VirtioBase && addr <= VirtioEnd:
		return b.Virtio.Store(addr, size, value)
	case addr >= DramBase && addr <= DramEnd:
		return b.Dram.Store(addr, size, value)
	default:
		return NewStoreAMOAccessFault(addr)
	}
}

// UartIsInterrupting forwards to the UART device, used by the step
// loop's interrupt scan (§4.9).
func (b *Bus) UartIsInterrupting() bool {
	return b.Uart.IsInterrupting()
}

// VirtioIsInterrupting forwards to the VirtIO device.
func (b *Bus) VirtioIsInterrupting() bool {
	return b.Virtio.IsInterrupting()
}
