package rocgofft_test

import (
	"context"
	"math/cmplx"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft"
	"github.com/rocgofft/rocgofft/internal/catalog"
	"github.com/rocgofft/rocgofft/internal/device/mockdevice"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// FuzzRoundTripSingleKernel covers property P1 (spec §8): running a
// forward transform followed by an inverse transform reproduces the
// original input, once the inverse result is scaled by 1/n (mockdevice's
// stridedBatchedDFT applies no normalization of its own). Seeded with
// the built-in catalog's single-KERNEL_STOCKHAM lengths, including S1's
// 1024 — the one path mockdevice's DFT reference is fully verified
// against (see DESIGN.md); lengths that decompose into more than one
// leaf (e.g. S2's L1D_CC at 40000) are out of scope here.
func FuzzRoundTripSingleKernel(f *testing.F) {
	for _, n := range []int{4, 8, 64, 100, 128, 200, 256, 512, 1024} {
		f.Add(n, uint8(1))
	}

	f.Fuzz(func(t *testing.T, n int, seed uint8) {
		cat := catalog.DefaultCatalog()
		if !cat.SingleKernelCovers(n, plantree.Single) {
			t.Skip("n is not a single-kernel-covered length")
		}

		in := make([]complex128, n)
		for j := range in {
			in[j] = complex(float64((j+int(seed))%7)-3, float64((j*3+int(seed))%5)-2)
		}

		dev := mockdevice.New()
		q := mockdevice.NewQueue()
		alloc := mockdevice.NewAllocator()

		desc := plantree.Description{
			Length:       []int{n},
			InStride:     []int{1},
			OutStride:    []int{1},
			BatchCount:   1,
			InDist:       n,
			OutDist:      n,
			Precision:    plantree.Single,
			Direction:    plantree.Forward,
			Flavor:       plantree.ComplexFlavor,
			Placement:    plantree.OutOfPlace,
			InArrayType:  plantree.ComplexInterleaved,
			OutArrayType: plantree.ComplexInterleaved,
		}

		forwardPlan, err := rocgofft.PlanCreate(desc, cat, dev, q, alloc, zerolog.Nop())
		if err != nil {
			t.Fatalf("PlanCreate(forward) error = %v", err)
		}
		defer forwardPlan.Destroy()

		freq := mockdevice.NewBuffer(n)
		if err := forwardPlan.Execute(context.Background(), rocgofft.NewExecutionInfo(mockdevice.NewBufferFrom(in), freq)); err != nil {
			t.Fatalf("Execute(forward) error = %v", err)
		}

		inverseDesc := desc
		inverseDesc.Direction = plantree.Inverse
		inversePlan, err := rocgofft.PlanCreate(inverseDesc, cat, dev, q, alloc, zerolog.Nop())
		if err != nil {
			t.Fatalf("PlanCreate(inverse) error = %v", err)
		}
		defer inversePlan.Destroy()

		roundTripped := mockdevice.NewBuffer(n)
		if err := inversePlan.Execute(context.Background(), rocgofft.NewExecutionInfo(freq, roundTripped)); err != nil {
			t.Fatalf("Execute(inverse) error = %v", err)
		}

		scale := complex(float64(n), 0)
		for j := range in {
			got := roundTripped.Data[j] / scale
			if cmplx.Abs(got-in[j]) > 1e-4 {
				t.Fatalf("round trip at index %d: got %v, want %v", j, got, in[j])
			}
		}
	})
}
