package rocgofft

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/catalog"
	"github.com/rocgofft/rocgofft/internal/device"
	"github.com/rocgofft/rocgofft/internal/executor"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Plan is a constructed, ready-to-execute transform plan (spec §6:
// "rocfft_plan_create" / "rocfft_execute" / "rocfft_plan_destroy").
// Grounded on the teacher's gpu.Plan: ordered construction with cleanup on
// partial failure, and nil-guarded methods so a zero-value or destroyed
// Plan fails safely rather than panicking.
type Plan struct {
	inner    *executor.Plan
	launcher device.Launcher
	queue    device.Queue
}

// PlanCreate builds, fuses, assigns buffers for, and materializes
// twiddles for desc in one call, returning a Plan ready for Execute (spec
// §6 folds the staged internal lifecycle behind a single constructor).
func PlanCreate(desc plantree.Description, cat *catalog.Catalog, launcher device.Launcher, q device.Queue, alloc device.Allocator, log zerolog.Logger) (*Plan, error) {
	inner, err := executor.New(desc, cat, log)
	if err != nil {
		return nil, errors.Wrap(err, "PlanCreate")
	}
	if err := inner.AssignBuffers(); err != nil {
		return nil, errors.Wrap(err, "PlanCreate")
	}
	if err := inner.MaterializeTwiddles(alloc); err != nil {
		return nil, errors.Wrap(err, "PlanCreate")
	}

	return &Plan{inner: inner, launcher: launcher, queue: q}, nil
}

// WorkBufferSize reports the plan's internally-managed temporary buffer
// requirement in elements (spec §6: "rocfft_plan_get_work_buffer_size").
func (p *Plan) WorkBufferSize() int64 {
	if p == nil || p.inner == nil {
		return 0
	}
	return p.inner.WorkBufferSize()
}

// Execute runs the plan against the buffers and callbacks named by info
// (spec §6: "rocfft_execute"). A destroyed or nil Plan returns
// ErrInvalidArgument rather than panicking.
func (p *Plan) Execute(ctx context.Context, info ExecutionInfo) error {
	if p == nil || p.inner == nil {
		return errors.Wrap(ErrInvalidArgument, "Execute: plan is nil or destroyed")
	}

	buffers := executor.ExecutionBuffers{
		UserIn:  info.InputBuffer,
		UserOut: info.OutputBuffer,
		Work:    info.WorkBuffer,
		Load:    info.loadCallback,
		Store:   info.storeCallback,
	}

	q := p.queue
	if info.stream != nil {
		q = info.stream
	}

	return p.inner.Execute(ctx, q, p.launcher, buffers)
}

// Destroy releases the plan's resources. It is safe to call on a nil Plan
// and safe to call more than once.
func (p *Plan) Destroy() error {
	if p == nil {
		return nil
	}
	p.inner = nil
	p.launcher = nil
	p.queue = nil
	return nil
}
