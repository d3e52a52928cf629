package plantree

import "testing"

// fakeSupport is a minimal LengthSupport used to exercise the Node Tree
// Builder without depending on internal/catalog.
type fakeSupport struct {
	singleKernel map[int]bool
	sbcc         map[int]bool
	blockRC      map[int]bool
	fits2D       map[[2]int]bool
}

func newFakeSupport() *fakeSupport {
	return &fakeSupport{
		singleKernel: map[int]bool{1024: true, 256: true, 64: true, 8: true, 4: true},
		sbcc:         map[int]bool{200: true, 128: true},
		blockRC:      map[int]bool{},
		fits2D:       map[[2]int]bool{},
	}
}

func (f *fakeSupport) SingleKernelCovers(n int, _ Precision) bool { return f.singleKernel[n] }
func (f *fakeSupport) SBCCSupported(n int, _ Precision) bool      { return f.sbcc[n] }
func (f *fakeSupport) SupportsBlockRC(n int, _ Precision) bool    { return f.blockRC[n] }
func (f *fakeSupport) FitsSingleKernel2D(r, c int, _ Precision) bool {
	return f.fits2D[[2]int{r, c}]
}
func (f *fakeSupport) AllowedRadices(_ SchemeTag) []int { return []int{2, 3, 4, 5, 7, 8, 10, 13, 200} }

func simpleDescription(n int) Description {
	return Description{
		Length:       []int{n},
		InStride:     []int{1},
		OutStride:    []int{1},
		BatchCount:   3,
		InDist:       n,
		OutDist:      n,
		Precision:    Single,
		Direction:    Forward,
		Flavor:       ComplexFlavor,
		Placement:    InPlace,
		InArrayType:  ComplexInterleaved,
		OutArrayType: ComplexInterleaved,
	}
}

// TestS1SingleKernelStockham covers spec scenario S1: 1D single complex
// forward, length 1024, batch 3, in-place interleaved -> one KERNEL_STOCKHAM
// leaf.
func TestS1SingleKernelStockham(t *testing.T) {
	t.Parallel()

	tree, err := Build(simpleDescription(1024), newFakeSupport())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != KernelStockham {
		t.Fatalf("root scheme = %v, want KERNEL_STOCKHAM", root.Scheme)
	}
	if !root.Scheme.IsLeaf() {
		t.Fatal("root should be a leaf for S1")
	}
	if root.InputID != UserIn || root.OutputID != UserOut {
		t.Fatalf("root buffer identities = (%v,%v), want (USER_IN,USER_OUT)", root.InputID, root.OutputID)
	}
}

// TestS2L1DCCNoTranspose covers spec scenario S2: length 40000 = 200*200,
// both SBCC-supported -> L1D_CC with two SBCC leaves, no transpose.
func TestS2L1DCCNoTranspose(t *testing.T) {
	t.Parallel()

	tree, err := Build(simpleDescription(40000), newFakeSupport())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != L1DCC {
		t.Fatalf("root scheme = %v, want L1D_CC", root.Scheme)
	}
	if len(root.Children) != 2 {
		t.Fatalf("L1D_CC children = %d, want 2", len(root.Children))
	}
	for _, c := range root.Children {
		n := tree.Node(c)
		if n.Scheme != KernelStockhamBlockCC {
			t.Errorf("child scheme = %v, want KERNEL_STOCKHAM_BLOCK_CC (no transpose)", n.Scheme)
		}
	}
}

func TestS6InvalidInPlaceMismatch(t *testing.T) {
	t.Parallel()

	d := simpleDescription(1024)
	d.Placement = InPlace
	d.OutStride = []int{2} // istride != ostride

	if _, err := Build(d, newFakeSupport()); err == nil {
		t.Fatal("Build() with mismatched in-place strides = nil error, want error")
	}
}

func TestBuildRealEven(t *testing.T) {
	t.Parallel()

	support := newFakeSupport()
	support.singleKernel[512] = true

	d := Description{
		Length:       []int{1024},
		InStride:     []int{1},
		OutStride:    []int{1},
		BatchCount:   1,
		Precision:    Single,
		Direction:    Forward,
		Flavor:       RealFlavor,
		Placement:    OutOfPlace,
		InArrayType:  Real,
		OutArrayType: HermitianInterleaved,
	}

	tree, err := Build(d, support)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != RealTransformEven {
		t.Fatalf("root scheme = %v, want REAL_TRANSFORM_EVEN", root.Scheme)
	}
	if len(root.Children) != 2 {
		t.Fatalf("REAL_TRANSFORM_EVEN children = %d, want 2 (sub-transform + post leaf)", len(root.Children))
	}

	foundPost := false
	for _, c := range root.Children {
		if tree.Node(c).Scheme == KernelR2CPost {
			foundPost = true
		}
	}
	if !foundPost {
		t.Error("expected a KERNEL_R2C_POST leaf among REAL_TRANSFORM_EVEN children")
	}
}

func TestNormalizedStripsLengthOneDims(t *testing.T) {
	t.Parallel()

	d := Description{
		Length:    []int{1, 64, 1},
		InStride:  []int{4096, 1, 64},
		OutStride: []int{4096, 1, 64},
	}

	norm := d.Normalized()
	if len(norm.Length) != 1 || norm.Length[0] != 64 {
		t.Fatalf("Normalized().Length = %v, want [64]", norm.Length)
	}
}

func TestValidateRejectsEmptyLength(t *testing.T) {
	t.Parallel()

	d := Description{BatchCount: 1}
	if err := d.Validate(); err == nil {
		t.Fatal("Validate() with empty length = nil error, want error")
	}
}

func TestValidateRejectsLengthStrideMismatch(t *testing.T) {
	t.Parallel()

	d := Description{Length: []int{8, 8}, InStride: []int{1}, OutStride: []int{1}, BatchCount: 1}
	if err := d.Validate(); err == nil {
		t.Fatal("Validate() with mismatched stride count = nil error, want error")
	}
}

func simpleDescription3D(lengths [3]int) Description {
	return Description{
		Length:       []int{lengths[0], lengths[1], lengths[2]},
		InStride:     []int{lengths[1] * lengths[2], lengths[2], 1},
		OutStride:    []int{lengths[1] * lengths[2], lengths[2], 1},
		BatchCount:   1,
		Precision:    Single,
		Direction:    Forward,
		Flavor:       ComplexFlavor,
		Placement:    OutOfPlace,
		InArrayType:  ComplexInterleaved,
		OutArrayType: ComplexInterleaved,
	}
}

// TestBuild3DBlockRC covers the second-choice 3D decomposition (spec
// §4.4): a slow dimension the catalog covers for block-RC but not full
// SBCC picks 3D_BLOCK_RC over 3D_RC.
func TestBuild3DBlockRC(t *testing.T) {
	t.Parallel()

	support := newFakeSupport()
	support.blockRC[60] = true

	tree, err := Build(simpleDescription3D([3]int{60, 60, 4}), support)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != ThreeDBlockRC {
		t.Fatalf("root scheme = %v, want 3D_BLOCK_RC", root.Scheme)
	}

	foundSBRC := false
	for _, c := range root.Children {
		if tree.Node(c).Scheme == KernelStockhamBlockRC {
			foundSBRC = true
		}
	}
	if !foundSBRC {
		t.Error("expected a KERNEL_STOCKHAM_BLOCK_RC leaf among 3D_BLOCK_RC children")
	}
}

// TestBuild3DRTRTRTForCubicShape covers the cubic tie-break: when
// neither SBCC nor block-RC covers the slow dimension and all three
// dimensions are equal, the builder falls back to 3D_RTRTRT.
func TestBuild3DRTRTRTForCubicShape(t *testing.T) {
	t.Parallel()

	tree, err := Build(simpleDescription3D([3]int{4, 4, 4}), newFakeSupport())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != ThreeDRTRTRT {
		t.Fatalf("root scheme = %v, want 3D_RTRTRT", root.Scheme)
	}
}

// TestBuild3DTRTRTRForNonCubicShape covers the last-resort 3D
// decomposition: a non-cubic shape the catalog covers for neither SBCC
// nor block-RC falls to 3D_TRTRTR rather than 3D_RTRTRT.
func TestBuild3DTRTRTRForNonCubicShape(t *testing.T) {
	t.Parallel()

	tree, err := Build(simpleDescription3D([3]int{4, 8, 4}), newFakeSupport())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	root := tree.Node(tree.Root())
	if root.Scheme != ThreeDTRTRTR {
		t.Fatalf("root scheme = %v, want 3D_TRTRTR", root.Scheme)
	}
}

func TestHermitianLength(t *testing.T) {
	t.Parallel()

	if got := HermitianLength(1024); got != 513 {
		t.Errorf("HermitianLength(1024) = %d, want 513", got)
	}
	if got := HermitianLength(7); got != 4 {
		t.Errorf("HermitianLength(7) = %d, want 4", got)
	}
}
