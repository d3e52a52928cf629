// Package device names the driver collaborator surface the Executor
// dispatches through (spec §1: the actual GPU driver and device kernels
// are explicitly out of scope; only these interfaces are specified).
// internal/device/mockdevice provides an in-process, CPU-backed
// implementation for testing without hardware.
package device

import (
	"context"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Buffer is a device-resident allocation the Executor reads and writes
// through opaque handles (spec §6: "in_ptrs[], out_ptrs[], work_ptr").
type Buffer interface {
	Size() int64
}

// Event marks the completion of one asynchronous launch (spec §5:
// "asynchronous kernel launches relying on queue order").
type Event interface {
	Wait(ctx context.Context) error
}

// Queue serializes a plan execution's launches onto one device stream.
type Queue interface {
	Synchronize(ctx context.Context) error
}

// Callback is a pass-through pointer pair the Executor forwards to a
// launch without inspecting or synchronizing on it (spec §5: "load/store
// callbacks are pointers into caller code; the Executor passes them
// through without synchronization").
type Callback struct {
	FnPtr, DataPtr uintptr
	LDSBytes       int
}

// LeafLaunch carries everything a leaf's device kernel needs at dispatch
// time: its resolved shape and buffers, plus any twiddle table and
// callbacks the catalog entry declared (spec §4.7: "resolves per-node
// device pointers, sets launch parameters, and dispatches to kernels").
type LeafLaunch struct {
	Scheme    plantree.SchemeTag
	Length    int
	InStride  int
	OutStride int
	// TotalElems is the plan's full element count (length product *
	// batch count); combined with Length and the strides it determines
	// how many independent instances of this leaf's transform tile the
	// buffer, without the tree needing to carry a separate per-node
	// batch count (spec §4.7 assigns grid/block shape computation to the
	// Executor, not the plan tree).
	TotalElems int
	Direction  plantree.Direction
	Precision  plantree.Precision

	Input, Output Buffer
	Twiddle       Buffer
	Work          Buffer

	Load  *Callback
	Store *Callback

	LDSBytes int
}

// Launcher dispatches one leaf's kernel. Real implementations submit to a
// GPU driver; mockdevice.Device executes a CPU reference implementation
// in-process.
type Launcher interface {
	Launch(ctx context.Context, q Queue, launch LeafLaunch) (Event, error)
}

// Allocator creates the scratch buffers the Executor needs for temporary
// junctions and twiddle tables (spec §4.7 "resolves per-node device
// pointers"). Real backends allocate device memory; mockdevice allocates
// host slices.
type Allocator interface {
	Allocate(elems int) (Buffer, error)
	AllocateComplex(values []complex128) (Buffer, error)
}
