// Package mockdevice is a CPU-backed implementation of internal/device's
// driver interfaces (grounded on the teacher's gpu/mock_backend.go, which
// fakes an entire GPU backend in Go for tests). It lets the Executor and
// the round-trip property tests run without real hardware.
package mockdevice

// Buffer is a host-memory stand-in for a device allocation: a flat
// complex128 array, matching mock_backend.go's mockBuffer holding host
// slices directly instead of a real device pointer.
type Buffer struct {
	Data []complex128
}

// NewBuffer allocates a zeroed buffer of n complex elements.
func NewBuffer(n int) *Buffer {
	return &Buffer{Data: make([]complex128, n)}
}

// NewBufferFrom copies data into a new buffer.
func NewBufferFrom(data []complex128) *Buffer {
	b := NewBuffer(len(data))
	copy(b.Data, data)
	return b
}

func (b *Buffer) Size() int64 {
	return int64(len(b.Data)) * 16
}
