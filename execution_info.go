package rocgofft

import "github.com/rocgofft/rocgofft/internal/device"

// ExecutionInfo carries the per-call buffers, callbacks, and stream
// assignment for one Plan.Execute call (spec §6:
// "rocfft_execution_info_set_work_buffer" /
// "rocfft_execution_info_set_load_callback" /
// "rocfft_execution_info_set_store_callback" /
// "rocfft_execution_info_set_stream"). Grounded on the teacher's
// PlanOptions-style small-struct-with-setters convention in gpu/backend.go.
type ExecutionInfo struct {
	InputBuffer  device.Buffer
	OutputBuffer device.Buffer
	WorkBuffer   device.Buffer

	loadCallback  *device.Callback
	storeCallback *device.Callback
	stream        device.Queue
}

// NewExecutionInfo returns an ExecutionInfo bound to the given input and
// output buffers; use the setters below to add an optional work buffer,
// callbacks, or stream before calling Plan.Execute.
func NewExecutionInfo(in, out device.Buffer) ExecutionInfo {
	return ExecutionInfo{InputBuffer: in, OutputBuffer: out}
}

// SetWorkBuffer supplies a caller-owned scratch buffer. Plan.Execute does
// not read it: the plan allocates its own temporaries in PlanCreate.
func (e *ExecutionInfo) SetWorkBuffer(buf device.Buffer) {
	e.WorkBuffer = buf
}

// SetLoadCallback registers a load callback thunk forwarded to every leaf
// launch without inspection (spec §5).
func (e *ExecutionInfo) SetLoadCallback(cb device.Callback) {
	e.loadCallback = &cb
}

// SetStoreCallback registers a store callback thunk forwarded to every
// leaf launch without inspection (spec §5).
func (e *ExecutionInfo) SetStoreCallback(cb device.Callback) {
	e.storeCallback = &cb
}

// SetStream overrides the device queue this Execute call submits to,
// instead of the Plan's default queue.
func (e *ExecutionInfo) SetStream(q device.Queue) {
	e.stream = q
}
