package mockdevice

import "github.com/rocgofft/rocgofft/internal/device"

// Allocator implements device.Allocator by handing out plain host slices.
type Allocator struct{}

func NewAllocator() Allocator { return Allocator{} }

func (Allocator) Allocate(elems int) (device.Buffer, error) {
	return NewBuffer(elems), nil
}

func (Allocator) AllocateComplex(values []complex128) (device.Buffer, error) {
	return NewBufferFrom(values), nil
}
