// Package errs defines the stable error taxonomy shared by every layer of
// the planning pipeline. Components return one of these sentinels (wrapped
// with additional context via fmt.Errorf or pkg/errors.Wrapf) so callers can
// errors.Is against a small, documented set of outcomes.
package errs

import "errors"

var (
	// ErrInvalidArgument is returned for malformed transform descriptions:
	// inconsistent lengths/strides, mismatched real/complex array types,
	// or an in-place request whose layout constraints are not satisfied.
	ErrInvalidArgument = errors.New("rocgofft: invalid argument")

	// ErrUnsupportedConfiguration is returned when planning completes its
	// passes (Fuse-Shim and Buffer Assigner both had their chance) but no
	// leaf kernel or buffer assignment could be found for the request.
	ErrUnsupportedConfiguration = errors.New("rocgofft: unsupported configuration")

	// ErrAllocationFailed is returned when a twiddle table or temporary
	// work buffer cannot be allocated.
	ErrAllocationFailed = errors.New("rocgofft: allocation failed")

	// ErrDeviceFailure is returned when a kernel launch or queue
	// operation reports failure from the driver collaborator.
	ErrDeviceFailure = errors.New("rocgofft: device failure")

	// ErrInvalidWorkBuffer names the undersized-work-buffer outcome.
	// Execute does not size-check a caller-supplied work buffer, so no
	// function in this module returns it.
	ErrInvalidWorkBuffer = errors.New("rocgofft: invalid work buffer")
)
