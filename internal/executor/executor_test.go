package executor

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/catalog"
	"github.com/rocgofft/rocgofft/internal/device/mockdevice"
	"github.com/rocgofft/rocgofft/internal/errs"
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

// TestS1EndToEnd drives a full Plan lifecycle (scenario S1: one length-1024
// complex forward transform, batch 3, unit stride, out-of-place) against
// mockdevice and checks the result against a brute-force DFT.
func TestS1EndToEnd(t *testing.T) {
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
		Placement:    plantree.OutOfPlace,
		InArrayType:  plantree.ComplexInterleaved,
		OutArrayType: plantree.ComplexInterleaved,
	}

	plan, err := New(desc, catalog.DefaultCatalog(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if plan.State() != Built {
		t.Fatalf("State() = %s, want %s", plan.State(), Built)
	}

	if err := plan.AssignBuffers(); err != nil {
		t.Fatalf("AssignBuffers() error = %v", err)
	}
	if plan.State() != BuffersAssigned {
		t.Fatalf("State() = %s, want %s", plan.State(), BuffersAssigned)
	}

	alloc := mockdevice.NewAllocator()
	if err := plan.MaterializeTwiddles(alloc); err != nil {
		t.Fatalf("MaterializeTwiddles() error = %v", err)
	}
	if plan.State() != Ready {
		t.Fatalf("State() = %s, want %s", plan.State(), Ready)
	}

	in := make([]complex128, n*batch)
	for b := 0; b < batch; b++ {
		for j := 0; j < n; j++ {
			in[b*n+j] = complex(float64(j%5)-float64(b), float64(j%3))
		}
	}

	userIn := mockdevice.NewBufferFrom(in)
	userOut := mockdevice.NewBuffer(n * batch)

	dev := mockdevice.New()
	q := mockdevice.NewQueue()

	if err := plan.Execute(context.Background(), q, dev, ExecutionBuffers{
		UserIn:  userIn,
		UserOut: userOut,
	}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if plan.State() != Ready {
		t.Fatalf("State() after Execute = %s, want %s", plan.State(), Ready)
	}

	for b := 0; b < batch; b++ {
		want := naiveDFT(in[b*n : (b+1)*n])
		got := userOut.Data[b*n : (b+1)*n]
		for j := range want {
			if cmplx.Abs(got[j]-want[j]) > 1e-6 {
				t.Fatalf("batch %d index %d: got %v, want %v", b, j, got[j], want[j])
			}
		}
	}
}

func TestExecuteRejectsPlanNotReady(t *testing.T) {
	t.Parallel()

	desc := plantree.Description{
		Length:       []int{1024},
		InStride:     []int{1},
		OutStride:    []int{1},
		BatchCount:   1,
		InDist:       1024,
		OutDist:      1024,
		Precision:    plantree.Single,
		Direction:    plantree.Forward,
		Flavor:       plantree.ComplexFlavor,
		Placement:    plantree.OutOfPlace,
		InArrayType:  plantree.ComplexInterleaved,
		OutArrayType: plantree.ComplexInterleaved,
	}

	plan, err := New(desc, catalog.DefaultCatalog(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dev := mockdevice.New()
	q := mockdevice.NewQueue()
	err = plan.Execute(context.Background(), q, dev, ExecutionBuffers{
		UserIn:  mockdevice.NewBuffer(1024),
		UserOut: mockdevice.NewBuffer(1024),
	})
	if err == nil {
		t.Fatal("Execute() on a BUILT plan = nil error, want error")
	}
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("Execute() error = %v, want wrapping ErrInvalidArgument", err)
	}
}
