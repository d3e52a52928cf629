package plantree

import (
	"github.com/pkg/errors"

	"github.com/rocgofft/rocgofft/internal/errs"
	"github.com/rocgofft/rocgofft/internal/mathutil"
)

// Build constructs the initial plan tree for a validated Transform
// Description (spec §4.4). Every leaf in the returned tree carries either
// a catalog-coverable CatalogKey or the Bluestein scheme tag (itself
// decomposed into catalog-coverable leaves by buildBluestein); twiddle
// requirements are recorded per node as they are decided.
func Build(desc Description, support LengthSupport) (*Tree, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	norm := desc.Normalized()
	b := &builder{support: support, tree: NewTree()}

	var root NodeIndex
	var err error

	switch len(norm.Length) {
	case 1:
		if norm.Flavor == RealFlavor {
			root, err = b.buildReal1D(norm)
		} else {
			root, err = b.build1D(norm, norm.Length[0], norm.InStride[0], norm.OutStride[0])
		}
	case 2:
		root, err = b.build2D(norm)
	case 3:
		root, err = b.build3D(norm)
	default:
		return nil, errors.Wrapf(errs.ErrUnsupportedConfiguration, "unsupported dimensionality %d", len(norm.Length))
	}
	if err != nil {
		return nil, err
	}

	b.tree.nodes[root].InputID = UserIn
	b.tree.nodes[root].OutputID = UserOut
	b.tree.root = root

	return b.tree, nil
}

type builder struct {
	support LengthSupport
	tree    *Tree
}

// --- 1D complex ---------------------------------------------------------

func (b *builder) build1D(d Description, n, inStride, outStride int) (NodeIndex, error) {
	if b.support.SingleKernelCovers(n, d.Precision) {
		return b.leaf1D(KernelStockham, d, n, inStride, outStride, TwiddleRequirement{Small: n}), nil
	}

	radices, ok := mathutil.Factorize(n, b.support.AllowedRadices(L1DCC))
	if !ok || len(radices) < 2 {
		return b.buildBluestein(d, n, inStride, outStride)
	}

	n1 := radices[0]
	n2 := n / n1

	switch {
	case b.support.SBCCSupported(n1, d.Precision) && b.support.SBCCSupported(n2, d.Precision) && n2 >= n1:
		return b.buildL1DCC(d, n1, n2, inStride, outStride)
	case n1 != n2:
		return b.buildL1DTRTRT(d, n1, n2, inStride, outStride)
	default:
		return b.buildL1DCRT(d, n1, n2, inStride, outStride)
	}
}

// buildL1DCC implements the L1D_CC scheme: two Stockham-Block-CC leaves,
// no transpose, used when both Cooley-Tukey factors are SBCC-supported
// (spec S2: length 40000 = 200*200).
func (b *builder) buildL1DCC(d Description, n1, n2, inStride, outStride int) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme:       L1DCC,
		Length:       []int{n1 * n2},
		InStride:     []int{inStride},
		OutStride:    []int{outStride},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
	})

	col := b.leaf1D(KernelStockhamBlockCC, d, n2, inStride*n1, inStride, TwiddleRequirement{})
	row := b.leaf1D(KernelStockhamBlockCC, d, n1, inStride, outStride, TwiddleRequirement{LargeN1: n1, LargeN2: n2})

	b.tree.SetParent(col, internal)
	b.tree.SetParent(row, internal)

	return internal, nil
}

// buildL1DCRT implements column-CC -> row -> transpose.
func (b *builder) buildL1DCRT(d Description, n1, n2, inStride, outStride int) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme:       L1DCRT,
		Length:       []int{n1 * n2},
		InStride:     []int{inStride},
		OutStride:    []int{outStride},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
	})

	col := b.leaf1D(KernelStockhamBlockCC, d, n2, inStride*n1, inStride, TwiddleRequirement{})
	row := b.leaf1D(KernelStockham, d, n1, inStride, inStride, TwiddleRequirement{LargeN1: n1, LargeN2: n2})
	tr := b.leaf1D(KernelTransposeXYZ, d, n1*n2, inStride, outStride, TwiddleRequirement{})

	b.tree.SetParent(col, internal)
	b.tree.SetParent(row, internal)
	b.tree.SetParent(tr, internal)

	return internal, nil
}

// buildL1DTRTRT implements transpose -> row(N2) -> transpose -> row(N1) ->
// transpose, used when the SBCC path is unavailable and the two factors
// differ (spec §4.4).
func (b *builder) buildL1DTRTRT(d Description, n1, n2, inStride, outStride int) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme:       L1DTRTRT,
		Length:       []int{n1 * n2},
		InStride:     []int{inStride},
		OutStride:    []int{outStride},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
	})

	t1 := b.leaf1D(KernelTransposeZXY, d, n1*n2, inStride, inStride, TwiddleRequirement{})
	r1 := b.leaf1D(KernelStockham, d, n2, inStride, inStride, TwiddleRequirement{Small: n2})
	t2 := b.leaf1D(KernelTransposeXYZ, d, n1*n2, inStride, inStride, TwiddleRequirement{})
	r2 := b.leaf1D(KernelStockham, d, n1, inStride, inStride, TwiddleRequirement{LargeN1: n1, LargeN2: n2})
	t3 := b.leaf1D(KernelTransposeZXY, d, n1*n2, inStride, outStride, TwiddleRequirement{})

	for _, child := range []NodeIndex{t1, r1, t2, r2, t3} {
		b.tree.SetParent(child, internal)
	}

	return internal, nil
}

func (b *builder) leaf1D(scheme SchemeTag, d Description, n, inStride, outStride int, tw TwiddleRequirement) NodeIndex {
	// Transpose kernels are shape-agnostic (spec §4.1): their catalog
	// entries are registered without a Length, so the lookup key must
	// match with a nil Length rather than this leaf's specific n.
	catalogLength := []int{n}
	if scheme.IsTranspose() {
		catalogLength = nil
	}

	return b.tree.Add(Node{
		Scheme:       scheme,
		Length:       []int{n},
		InStride:     []int{inStride},
		OutStride:    []int{outStride},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
		Twiddle:      tw,
		CatalogKey: CatalogKey{
			Scheme:       scheme,
			Length:       catalogLength,
			Precision:    d.Precision,
			Placement:    d.Placement,
			InArrayType:  d.InArrayType,
			OutArrayType: d.OutArrayType,
		},
	})
}

// --- Bluestein ------------------------------------------------------------

// buildBluestein wraps an unsupported length in the chirp-z transform: a
// convolution carried out as a padded complex FFT of the next supported
// (highly-composite) length at least 2n-1, with the chirp multiply folded
// into the pre/post processing. Only the outer scheme tag and the inner
// sub-transform's shape are modeled here; the chirp sequence values
// themselves are a twiddle-factory concern (spec §9: not specified how
// twiddles are numerically computed).
func (b *builder) buildBluestein(d Description, n, inStride, outStride int) (NodeIndex, error) {
	m := nextHighlyComposite(n, b.support.AllowedRadices(L1DCC))
	if m == 0 {
		return invalidIndex, errors.Wrapf(errs.ErrUnsupportedConfiguration, "no catalog-supported length found for Bluestein padding of %d", n)
	}

	internal := b.tree.Add(Node{
		Scheme:       Bluestein,
		Length:       []int{n},
		InStride:     []int{inStride},
		OutStride:    []int{outStride},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
		Large1D:      m,
	})

	inner, err := b.build1D(d, m, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	b.tree.SetParent(inner, internal)

	return internal, nil
}

func nextHighlyComposite(n int, allowed []int) int {
	target := 2*n - 1
	for m := target; m < target*2+8; m++ {
		if _, ok := mathutil.Factorize(m, allowed); ok {
			return m
		}
	}
	return 0
}
