package plantree

import (
	"github.com/pkg/errors"

	"github.com/rocgofft/rocgofft/internal/errs"
)

// Description is the Transform Description (spec §3): a batched,
// multidimensional, strided FFT request. Lengths are ordered row-major,
// L[0] is the slowest-varying (outermost) dimension and L[len-1] is the
// innermost (contiguous-candidate) dimension.
type Description struct {
	Length       []int
	InStride     []int
	OutStride    []int
	BatchCount   int
	InDist       int
	OutDist      int
	Precision    Precision
	Direction    Direction
	Flavor       Flavor
	Placement    Placement
	InArrayType  ArrayType
	OutArrayType ArrayType

	// LoadCallback and StoreCallback name caller-registered callback
	// thunks (spec §6); zero value means "none".
	LoadCallback  CallbackID
	StoreCallback CallbackID

	// WorkBufferSize, if nonzero, is the caller-supplied work buffer
	// size in bytes; zero means "let the library decide".
	WorkBufferSize int64
}

// CallbackID identifies a registered load/store callback thunk. The
// representation (function pointer + data pointer + LDS bytes) lives at
// the Host API / Executor boundary (spec §9); plantree only threads an
// opaque identifier through the tree.
type CallbackID uint64

// Normalized returns a copy of d with every length-1 dimension removed
// (spec §9 "Ambiguous source behavior": a length-1 dimension collapses the
// transform to the remaining dimensions). Strides and distances for the
// stripped dimensions are discarded; batch parameters are untouched.
func (d Description) Normalized() Description {
	out := d
	out.Length = nil
	out.InStride = nil
	out.OutStride = nil

	for i, l := range d.Length {
		if l == 1 && len(d.Length) > 1 {
			continue
		}
		out.Length = append(out.Length, l)
		out.InStride = append(out.InStride, d.InStride[i])
		out.OutStride = append(out.OutStride, d.OutStride[i])
	}

	if len(out.Length) == 0 {
		out.Length = []int{1}
		out.InStride = []int{1}
		out.OutStride = []int{1}
	}

	return out
}

// HermitianLength returns the Hermitian-packed length for the last
// dimension of a real transform: floor(L_last/2)+1 (spec §3).
func HermitianLength(lastReal int) int {
	return lastReal/2 + 1
}

// Validate checks the invariants spec §3 assigns to a Transform
// Description, returning errs.ErrInvalidArgument (wrapped with context) on
// the first violation found.
func (d Description) Validate() error {
	nd := len(d.Length)
	if nd == 0 {
		return errors.Wrap(errs.ErrInvalidArgument, "length vector must not be empty")
	}
	if len(d.InStride) != nd || len(d.OutStride) != nd {
		return errors.Wrapf(errs.ErrInvalidArgument,
			"stride vector length must match length vector (got %d lengths, %d/%d strides)",
			nd, len(d.InStride), len(d.OutStride))
	}
	for i, l := range d.Length {
		if l < 1 {
			return errors.Wrapf(errs.ErrInvalidArgument, "length[%d] = %d must be positive", i, l)
		}
		if d.InStride[i] < 1 || d.OutStride[i] < 1 {
			return errors.Wrapf(errs.ErrInvalidArgument,
				"stride[%d] must be positive (in=%d out=%d)", i, d.InStride[i], d.OutStride[i])
		}
	}
	if d.BatchCount < 1 {
		return errors.Wrapf(errs.ErrInvalidArgument, "batch count = %d must be positive", d.BatchCount)
	}

	if d.Flavor == RealFlavor {
		if err := d.validateRealPairing(); err != nil {
			return err
		}
	} else {
		if d.InArrayType.IsReal() || d.OutArrayType.IsReal() || d.InArrayType.IsHermitian() || d.OutArrayType.IsHermitian() {
			return errors.Wrap(errs.ErrInvalidArgument, "complex flavor requires complex array types")
		}
	}

	if d.Placement == InPlace {
		if err := d.validateInPlace(); err != nil {
			return err
		}
	}

	return nil
}

func (d Description) validateRealPairing() error {
	realSide, hermSide := d.InArrayType, d.OutArrayType
	if d.Direction == Inverse {
		realSide, hermSide = d.OutArrayType, d.InArrayType
	}
	if !realSide.IsReal() {
		return errors.Wrap(errs.ErrInvalidArgument, "real flavor requires a real array type on the time-domain side")
	}
	if !hermSide.IsHermitian() {
		return errors.Wrap(errs.ErrInvalidArgument, "real flavor requires a hermitian array type on the frequency-domain side")
	}
	return nil
}

// validateInPlace enforces spec §3/§8 P6: in-place complex plans require
// identical input/output layout; in-place real/complex plans require unit
// innermost stride.
func (d Description) validateInPlace() error {
	innermost := len(d.Length) - 1

	if d.InStride[innermost] != 1 || d.OutStride[innermost] != 1 {
		return errors.Wrap(errs.ErrInvalidArgument, "in-place transforms require unit innermost stride")
	}

	if d.Flavor == ComplexFlavor {
		for i := range d.Length {
			if d.InStride[i] != d.OutStride[i] {
				return errors.Wrap(errs.ErrInvalidArgument, "in-place complex transforms require identical input/output stride")
			}
		}
		if d.InDist != d.OutDist {
			return errors.Wrap(errs.ErrInvalidArgument, "in-place complex transforms require identical input/output distance")
		}
	}

	return nil
}
