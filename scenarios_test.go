package rocgofft_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocgofft/rocgofft"
	"github.com/rocgofft/rocgofft/internal/catalog"
	"github.com/rocgofft/rocgofft/internal/device/mockdevice"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

func naiveDFT(in []complex128) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for j := 0; j < n; j++ {
			theta := -2 * math.Pi * float64(j*k) / float64(n)
			sum += in[j] * cmplx.Exp(complex(0, theta))
		}
		out[k] = sum
	}
	return out
}

// TestScenarioS1SingleKernelInPlace matches spec S1: one length-1024
// complex forward transform, batch 3, in-place, interleaved.
func TestScenarioS1SingleKernelInPlace(t *testing.T) {
	t.Parallel()

	const n = 1024
	const batch = 3

	desc := plantree.Description{
		Length:       []int{n},
		InStride:     []int{1},
		OutStride:    []int{1},
		BatchCount:   batch,
		InDist:       n,
		OutDist:      n,
		Precision:    plantree.Single,
		Direction:    plantree.Forward,
		Flavor:       plantree.ComplexFlavor,
		Placement:    plantree.InPlace,
		InArrayType:  plantree.ComplexInterleaved,
		OutArrayType: plantree.ComplexInterleaved,
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	alloc := mockdevice.NewAllocator()

	plan, err := rocgofft.PlanCreate(desc, catalog.DefaultCatalog(), dev, q, alloc, zerolog.Nop())
	require.NoError(t, err)
	defer plan.Destroy()

	assert.Zero(t, plan.WorkBufferSize(), "S1 is a single leaf; it needs no temp buffers")

	data := make([]complex128, n*batch)
	want := make([]complex128, n*batch)
	for b := 0; b < batch; b++ {
		for j := 0; j < n; j++ {
			data[b*n+j] = complex(float64(j%5)-float64(b), float64(j%3))
		}
		copy(want[b*n:(b+1)*n], naiveDFT(data[b*n:(b+1)*n]))
	}

	buf := mockdevice.NewBufferFrom(data)
	info := rocgofft.NewExecutionInfo(buf, buf)
	require.NoError(t, plan.Execute(context.Background(), info))

	for i := range want {
		assert.InDeltaf(t, real(want[i]), real(buf.Data[i]), 1e-6, "real part at %d", i)
		assert.InDeltaf(t, imag(want[i]), imag(buf.Data[i]), 1e-6, "imag part at %d", i)
	}
}

// TestScenarioS2L1DCC matches spec S2: 1D length 40000 complex inverse,
// decomposed into an L1D_CC pair of SBCC leaves.
func TestScenarioS2L1DCC(t *testing.T) {
	t.Parallel()

	const n = 40000

	desc := plantree.Description{
		Length:       []int{n},
		InStride:     []int{1},
		OutStride:    []int{1},
		BatchCount:   1,
		InDist:       n,
		OutDist:      n,
		Precision:    plantree.Single,
		Direction:    plantree.Inverse,
		Flavor:       plantree.ComplexFlavor,
		Placement:    plantree.OutOfPlace,
		InArrayType:  plantree.ComplexInterleaved,
		OutArrayType: plantree.ComplexInterleaved,
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	alloc := mockdevice.NewAllocator()

	plan, err := rocgofft.PlanCreate(desc, catalog.DefaultCatalog(), dev, q, alloc, zerolog.Nop())
	require.NoError(t, err)
	defer plan.Destroy()

	assert.Positive(t, plan.WorkBufferSize(), "L1D_CC threads data through one temp junction")

	in := mockdevice.NewBuffer(n)
	out := mockdevice.NewBuffer(n)
	info := rocgofft.NewExecutionInfo(in, out)
	require.NoError(t, plan.Execute(context.Background(), info))
}

// TestScenarioS3RealForward3D matches spec S3: 3D real forward
// 200x200x200, out-of-place, single precision.
func TestScenarioS3RealForward3D(t *testing.T) {
	t.Parallel()

	const n = 200
	herm := plantree.HermitianLength(n)

	desc := plantree.Description{
		Length:       []int{n, n, n},
		InStride:     []int{n * n, n, 1},
		OutStride:    []int{n * herm, herm, 1},
		BatchCount:   1,
		InDist:       n * n * n,
		OutDist:      n * n * herm,
		Precision:    plantree.Single,
		Direction:    plantree.Forward,
		Flavor:       plantree.RealFlavor,
		Placement:    plantree.OutOfPlace,
		InArrayType:  plantree.Real,
		OutArrayType: plantree.HermitianInterleaved,
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	alloc := mockdevice.NewAllocator()

	// S3 only checks that the REAL_3D_EVEN / 3D_RC decomposition builds,
	// assigns buffers, and materializes twiddles cleanly: an O(n^2)
	// brute-force reference DFT over a full 200^3 real transform is too
	// expensive to run as part of a test suite, and mockdevice's
	// numerically-verified coverage is scoped to S1/S2 anyway (see
	// DESIGN.md).
	plan, err := rocgofft.PlanCreate(desc, catalog.DefaultCatalog(), dev, q, alloc, zerolog.Nop())
	require.NoError(t, err)
	defer plan.Destroy()
}

// TestScenarioS4RealForward3DDoubleInPlace matches spec S4: same shape as
// S3 but length 256, in-place, double precision.
func TestScenarioS4RealForward3DDoubleInPlace(t *testing.T) {
	t.Parallel()

	const n = 256

	desc := plantree.Description{
		Length:       []int{n, n, n},
		InStride:     []int{n * n, n, 1},
		OutStride:    []int{n * n, n, 1},
		BatchCount:   1,
		InDist:       n * n * n,
		OutDist:      n * n * n,
		Precision:    plantree.Double,
		Direction:    plantree.Forward,
		Flavor:       plantree.RealFlavor,
		Placement:    plantree.InPlace,
		InArrayType:  plantree.Real,
		OutArrayType: plantree.HermitianInterleaved,
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	alloc := mockdevice.NewAllocator()

	// As with S3, only plan construction is exercised here; see the S3
	// comment above for why Execute is not called against this size.
	plan, err := rocgofft.PlanCreate(desc, catalog.DefaultCatalog(), dev, q, alloc, zerolog.Nop())
	require.NoError(t, err)
	defer plan.Destroy()
}

// TestScenarioS5CacheRoundTrip matches spec S5 at the Host API boundary:
// Setup, serialize an empty cache, deserialize it back, Cleanup.
func TestScenarioS5CacheRoundTrip(t *testing.T) {
	require.NoError(t, rocgofft.Setup(zerolog.Nop()))
	defer func() { require.NoError(t, rocgofft.Cleanup()) }()

	data, err := rocgofft.CacheSerialize()
	require.NoError(t, err)
	require.NoError(t, rocgofft.CacheDeserialize(data))
}

// TestScenarioS6InvalidInPlaceMismatch matches spec S6: an in-place
// complex forward description with mismatched strides must fail plan
// creation with ErrInvalidArgument, before any device work is submitted.
func TestScenarioS6InvalidInPlaceMismatch(t *testing.T) {
	t.Parallel()

	desc := plantree.Description{
		Length:       []int{1024},
		InStride:     []int{1},
		OutStride:    []int{2},
		BatchCount:   1,
		InDist:       1024,
		OutDist:      1024,
		Precision:    plantree.Single,
		Direction:    plantree.Forward,
		Flavor:       plantree.ComplexFlavor,
		Placement:    plantree.InPlace,
		InArrayType:  plantree.ComplexInterleaved,
		OutArrayType: plantree.ComplexInterleaved,
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	alloc := mockdevice.NewAllocator()

	_, err := rocgofft.PlanCreate(desc, catalog.DefaultCatalog(), dev, q, alloc, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, rocgofft.ErrInvalidArgument)
}
