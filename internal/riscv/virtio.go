package riscv

// VirtioMMIO is a legacy (version 1) VirtIO block device register
// file, grounded on original_source/include/virtio.h. Descriptor-table
// walking and request processing are out of scope per §4.5 / §9 — the
// disk image is exposed via ReadDisk/WriteDisk for a future
// queue-processing pass to use.
type VirtioMMIO struct {
	id             uint64
	driverFeatures uint32
	pageSize       uint32
	queueSel       uint32
	queueNum       uint32
	queuePFN       uint32
	queueNotify    uint32
	status         uint32
	disk           []byte
}

// NewVirtioMMIO wraps disk as the backing store for the block device.
func NewVirtioMMIO(disk []byte) *VirtioMMIO {
	return &VirtioMMIO{
		queueNotify: MaxBlockQueue,
		disk:        disk,
	}
}

// IsInterrupting returns true exactly once after queue_notify has been
// written with a value below MaxBlockQueue, then resets the notify
// sentinel, per §4.5.
func (v *VirtioMMIO) IsInterrupting() bool {
	if v.queueNotify < MaxBlockQueue {
		v.queueNotify = MaxBlockQueue
		return true
	}
	return false
}

func (v *VirtioMMIO) Load(addr uint64, size uint64) (uint64, error) {
	if size != 32 {
		return 0, NewLoadAccessFault(addr)
	}
	switch addr {
	case VirtioMagic:
		return 0x74726976, nil
	case VirtioVersion:
		return 0x1, nil
	case VirtioDeviceID:
		return 0x2, nil
	case VirtioVendorID:
		return 0x554d4551, nil
	case VirtioDeviceFeatures:
		return 0, nil
	case VirtioDriverFeatures:
		return uint64(v.driverFeatures), nil
	case VirtioQueueNumMax:
		return 8, nil
	case VirtioQueuePFN:
		return uint64(v.queuePFN), nil
	case VirtioStatus:
		return uint64(v.status), nil
	default:
		return 0, nil
	}
}

func (v *VirtioMMIO) Store(addr uint64, size uint64, value uint64) error {
	if size != 32 {
		return NewStoreAMOAccessFault(addr)
	}
	switch addr {
	case VirtioDeviceFeatures:
		v.driverFeatures = uint32(value)
	case VirtioGuestPageSize:
		v.pageSize = uint32(value)
	case VirtioQueueSel:
		v.queueSel = uint32(value)
	case VirtioQueueNum:
		v.queueNum = uint32(value)
	case VirtioQueuePFN:
		v.queuePFN = uint32(value)
	case VirtioQueueNotify:
		v.queueNotify = uint32(value)
	case VirtioStatus:
		v.status = uint32(value)
	}
	return nil
}

// NextRequestID returns a fresh, monotonically increasing virtio
// request id, mirroring the original's get_new_id(); unused until
// queue processing is implemented, kept so that addition is a
// localized change rather than a redesign.
func (v *VirtioMMIO) NextRequestID() uint64 {
	v.id++
	return v.id
}

// DescriptorTableAddr computes the guest-physical address of the
// virtqueue descriptor table, mirroring the original's desc_addr().
func (v *VirtioMMIO) DescriptorTableAddr() uint64 {
	return uint64(v.queuePFN) * uint64(v.pageSize)
}

// ReadDisk reads one byte from the backing disk image at addr.
func (v *VirtioMMIO) ReadDisk(addr uint64) uint64 {
	return uint64(v.disk[addr])
}

// WriteDisk writes one byte to the backing disk image at addr.
func (v *VirtioMMIO) WriteDisk(addr uint64, value uint64) {
	v.disk[addr] = byte(value)
}
