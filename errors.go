package rocgofft

import "github.com/rocgofft/rocgofft/internal/errs"

// Sentinel errors returned by plan construction and execution. Every
// internal layer wraps one of these with github.com/pkg/errors so callers
// can still errors.Is against the stable set below.
var (
	// ErrInvalidArgument is returned for malformed transform descriptions.
	ErrInvalidArgument = errs.ErrInvalidArgument

	// ErrUnsupportedConfiguration is returned when no leaf kernel or
	// buffer assignment could be found for a request.
	ErrUnsupportedConfiguration = errs.ErrUnsupportedConfiguration

	// ErrAllocationFailed is returned when a twiddle table or temporary
	// work buffer cannot be allocated.
	ErrAllocationFailed = errs.ErrAllocationFailed

	// ErrDeviceFailure is returned when a kernel launch or queue
	// operation reports failure from the driver collaborator.
	ErrDeviceFailure = errs.ErrDeviceFailure

	// ErrInvalidWorkBuffer names the undersized-work-buffer outcome.
	// Plan.Execute does not size-check a caller-supplied work buffer, so
	// no function in this module returns it.
	ErrInvalidWorkBuffer = errs.ErrInvalidWorkBuffer
)
