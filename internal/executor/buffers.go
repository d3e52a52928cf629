package executor

import (
	"github.com/rocgofft/rocgofft/internal/device"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// ExecutionBuffers names the caller-owned buffers one Execute call reads
// and writes (spec §6: "in_ptrs[], out_ptrs[], work_ptr"), plus the
// optional load/store callbacks forwarded to every leaf launch unchanged.
type ExecutionBuffers struct {
	UserIn  device.Buffer
	UserOut device.Buffer

	// Work is the caller-supplied scratch buffer. Execute does not read
	// it: temporaries come from the buffers MaterializeTwiddles allocates.
	Work device.Buffer

	Load  *device.Callback
	Store *device.Callback
}

// bufferSet resolves plantree.BufferIdentity to a concrete device.Buffer
// for the duration of one Execute call. TempA/TempB/TempC are allocated
// once per Plan and reused across Execute calls.
type bufferSet struct {
	user  ExecutionBuffers
	temps map[plantree.BufferIdentity]device.Buffer
}

func (b bufferSet) resolve(id plantree.BufferIdentity) device.Buffer {
	switch id {
	case plantree.UserIn:
		return b.user.UserIn
	case plantree.UserOut:
		return b.user.UserOut
	default:
		return b.temps[id]
	}
}
