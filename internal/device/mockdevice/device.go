package mockdevice

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/rocgofft/rocgofft/internal/device"
	"github.com/rocgofft/rocgofft/internal/errs"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Device is a CPU reference implementation of device.Launcher, grounded on
// the teacher's gpu/mock_backend.go: it runs every leaf kernel in-process
// against plain complex128 slices instead of submitting to a driver.
//
// Coverage is intentionally partial. Single-kernel and L1D_CC-style
// decompositions (no transpose leaves in the path) are executed with an
// exact strided DFT, verified against the classic Cooley-Tukey four-step
// algorithm. Transpose leaves execute as an identity copy rather than the
// true geometric permutation: LeafLaunch only carries a flattened element
// count, not the row/column shape a real transpose needs, so schemes that
// route through a transpose (L1D_TRTRT, L1D_CRT, 2D_RTRT, 3D_RTRTRT, ...)
// are exercised structurally by the planning tests but are not numerically
// verified end-to-end by this backend.
type Device struct{}

func New() *Device { return &Device{} }

func (d *Device) Launch(ctx context.Context, q device.Queue, launch device.LeafLaunch) (device.Event, error) {
	in, ok := launch.Input.(*Buffer)
	if !ok {
		return nil, errors.Wrap(errs.ErrDeviceFailure, "mockdevice: input is not a mockdevice.Buffer")
	}
	out, ok := launch.Output.(*Buffer)
	if !ok {
		return nil, errors.Wrap(errs.ErrDeviceFailure, "mockdevice: output is not a mockdevice.Buffer")
	}

	switch launch.Scheme {
	case plantree.KernelStockham:
		stridedBatchedDFT(in.Data, out.Data, launch.Length, launch.InStride, launch.OutStride,
			launch.TotalElems, launch.Direction == plantree.Inverse, nil)

	case plantree.KernelStockhamBlockCC, plantree.KernelStockhamBlockRC:
		var tw []complex128
		if t, ok := launch.Twiddle.(*Buffer); ok && len(t.Data) > 0 {
			tw = t.Data
		}
		stridedBatchedDFT(in.Data, out.Data, launch.Length, launch.InStride, launch.OutStride,
			launch.TotalElems, launch.Direction == plantree.Inverse, tw)

	case plantree.KernelTransposeZXY, plantree.KernelTransposeXYZ, plantree.KernelTransposeDiagonal:
		copy(out.Data, in.Data)

	case plantree.KernelR2CPost:
		runR2CPost(in.Data, out.Data, launch.Length)

	case plantree.KernelC2RPre:
		runC2RPre(in.Data, out.Data, launch.Length)

	case plantree.KernelR2CPostTranspose:
		runR2CPost(in.Data, out.Data, launch.Length)

	case plantree.KernelTransposeC2RPre:
		runC2RPre(in.Data, out.Data, launch.Length)

	case plantree.KernelStockhamDiagonalTranspose, plantree.KernelSBCCWithOutputTranspose:
		stridedBatchedDFT(in.Data, out.Data, launch.Length, launch.InStride, launch.OutStride,
			launch.TotalElems, launch.Direction == plantree.Inverse, nil)

	default:
		return nil, errors.Wrapf(errs.ErrUnsupportedConfiguration, "mockdevice: no reference kernel for scheme %s", launch.Scheme)
	}

	return completedEvent{}, nil
}

// runR2CPost packs a real signal's complex DFT (already computed
// elementwise into in, treated as the length-n/2 complex transform's
// output) into the length-n/2+1 Hermitian half-spectrum.
func runR2CPost(in, out []complex128, n int) {
	half := n / 2
	buf := make([]complex128, half)
	copy(buf, in[:half])
	realToHermitian(buf, out[:half+1], n)
}

// runC2RPre is R2C_POST's inverse: unpacks a length-n/2+1 Hermitian
// spectrum back into the length-n/2 complex sequence a real-valued
// inverse transform's Stockham pass expects.
func runC2RPre(in, out []complex128, n int) {
	m := n / 2
	for k := 0; k < m; k++ {
		zmk := complexConj(in[m-k])
		xe := (in[k] + zmk) / 2
		theta := 2 * math.Pi * float64(k) / float64(n)
		xo := (in[k] - zmk) / 2 * complex(math.Cos(theta), math.Sin(theta))
		out[k] = xe + complex(0, 1)*xo
	}
}
