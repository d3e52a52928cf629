package plantree

// buildReal1D implements REAL_TRANSFORM_EVEN / REAL_TRANSFORM_USING_CMPLX
// (spec §4.4). Even lengths wrap a complex sub-transform of length N/2
// with an R2C-post or C2R-pre processing leaf; odd or non-factorable
// lengths fall through to Bluestein over a complex embedding.
func (b *builder) buildReal1D(d Description) (NodeIndex, error) {
	n := d.Length[0]

	if n%2 != 0 {
		return b.buildRealUsingCmplx(d, n)
	}

	half := n / 2
	complexDesc := d
	complexDesc.Flavor = ComplexFlavor
	complexDesc.InArrayType = ComplexInterleaved
	complexDesc.OutArrayType = ComplexInterleaved

	inner, err := b.build1D(complexDesc, half, 1, 1)
	if err != nil {
		return b.buildRealUsingCmplx(d, n)
	}

	internal := b.tree.Add(Node{
		Scheme:       RealTransformEven,
		Length:       []int{n},
		InStride:     d.InStride,
		OutStride:    d.OutStride,
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
		Twiddle:      TwiddleRequirement{Small: n},
	})
	b.tree.SetParent(inner, internal)

	post := b.realPostPreLeaf(d, n)
	b.tree.SetParent(post, internal)

	return internal, nil
}

// realPostPreLeaf emits the R2C-post leaf (forward real transform) or
// C2R-pre leaf (inverse real transform) that converts between the packed
// half-length complex spectrum and the Hermitian-interleaved result.
func (b *builder) realPostPreLeaf(d Description, n int) NodeIndex {
	scheme := KernelR2CPost
	if d.Direction == Inverse {
		scheme = KernelC2RPre
	}

	hermLen := HermitianLength(n)

	return b.tree.Add(Node{
		Scheme:       scheme,
		Length:       []int{hermLen},
		InStride:     []int{1},
		OutStride:    []int{1},
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
		Twiddle:      TwiddleRequirement{Small: n},
		CatalogKey: CatalogKey{
			Scheme:       scheme,
			Length:       []int{n},
			Precision:    d.Precision,
			Placement:    d.Placement,
			InArrayType:  d.InArrayType,
			OutArrayType: d.OutArrayType,
		},
	})
}

func (b *builder) buildRealUsingCmplx(d Description, n int) (NodeIndex, error) {
	complexDesc := d
	complexDesc.Flavor = ComplexFlavor
	complexDesc.InArrayType = ComplexInterleaved
	complexDesc.OutArrayType = ComplexInterleaved

	inner, err := b.buildBluestein(complexDesc, n, 1, 1)
	if err != nil {
		return invalidIndex, err
	}

	internal := b.tree.Add(Node{
		Scheme:       RealTransformUsingCmplx,
		Length:       []int{n},
		InStride:     d.InStride,
		OutStride:    d.OutStride,
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
	})
	b.tree.SetParent(inner, internal)

	return internal, nil
}

// --- 2D / 3D ---------------------------------------------------------------

// build2D implements the 2D decomposition rules (spec §4.4): prefer
// 2D_SINGLE when both dimensions fit one fused kernel, else 2D_RC when the
// slow dimension is SBCC-supported, else 2D_RTRT.
func (b *builder) build2D(d Description) (NodeIndex, error) {
	if d.Flavor == RealFlavor {
		return b.buildRealMultiDim(d)
	}

	rows, cols := d.Length[0], d.Length[1]

	switch {
	case b.support.FitsSingleKernel2D(rows, cols, d.Precision):
		return b.leafND(TwoDSingle, d), nil
	case b.support.SBCCSupported(rows, d.Precision):
		return b.build2DRC(d, rows, cols)
	default:
		return b.build2DRTRT(d, rows, cols)
	}
}

func (b *builder) build2DRC(d Description, rows, cols int) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: TwoDRC, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	colPass := b.leaf1D(KernelStockhamBlockCC, d, rows, cols, cols, TwiddleRequirement{})
	rowPass, err := b.build1D(d, cols, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	b.tree.SetParent(colPass, internal)
	b.tree.SetParent(rowPass, internal)

	return internal, nil
}

func (b *builder) build2DRTRT(d Description, rows, cols int) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: TwoDRTRT, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	rowPass1, err := b.build1D(d, cols, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	tr1 := b.leaf1D(KernelTransposeZXY, d, rows*cols, 1, 1, TwiddleRequirement{})
	rowPass2, err := b.build1D(d, rows, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	tr2 := b.leaf1D(KernelTransposeXYZ, d, rows*cols, 1, 1, TwiddleRequirement{})

	for _, c := range []NodeIndex{rowPass1, tr1, rowPass2, tr2} {
		b.tree.SetParent(c, internal)
	}

	return internal, nil
}

// build3D implements the 3D decomposition rules (spec §4.4): try 3D_RC,
// 3D_BLOCK_RC, 3D_RTRTRT, 3D_TRTRTR in order.
func (b *builder) build3D(d Description) (NodeIndex, error) {
	if d.Flavor == RealFlavor {
		return b.buildRealMultiDim(d)
	}

	slow := d.Length[0]

	switch {
	case b.support.SBCCSupported(slow, d.Precision):
		return b.build3DRC(d)
	case b.support.SupportsBlockRC(slow, d.Precision):
		return b.build3DBlockRC(d)
	case allDimsEqual(d.Length):
		return b.build3DRTRTRT(d)
	default:
		return b.build3DTRTRTR(d)
	}
}

func allDimsEqual(lengths []int) bool {
	for _, n := range lengths[1:] {
		if n != lengths[0] {
			return false
		}
	}
	return true
}

func (b *builder) build3DRC(d Description) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: ThreeDRC, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	innerMost := d.Length[len(d.Length)-1]
	fast, err := b.build1D(d, innerMost, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	b.tree.SetParent(fast, internal)

	for _, n := range d.Length[:len(d.Length)-1] {
		sbcc := b.leaf1D(KernelStockhamBlockCC, d, n, 1, 1, TwiddleRequirement{})
		b.tree.SetParent(sbcc, internal)
	}

	return internal, nil
}

// build3DBlockRC implements 3D_BLOCK_RC: the fast dimension via the usual
// 1D decomposition, the remaining dimensions via combined
// Stockham-Block-RC leaves rather than the separate SBCC leaves 3D_RC
// uses (spec §4.4's second-choice 3D decomposition, for slow dimensions
// the catalog covers for block-RC but not full SBCC).
func (b *builder) build3DBlockRC(d Description) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: ThreeDBlockRC, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	innerMost := d.Length[len(d.Length)-1]
	fast, err := b.build1D(d, innerMost, 1, 1)
	if err != nil {
		return invalidIndex, err
	}
	b.tree.SetParent(fast, internal)

	for _, n := range d.Length[:len(d.Length)-1] {
		sbrc := b.leaf1D(KernelStockhamBlockRC, d, n, 1, 1, TwiddleRequirement{})
		b.tree.SetParent(sbrc, internal)
	}

	return internal, nil
}

// build3DTRTRTR is 3D_RTRTRT's mirror: each pass leads with its
// transpose instead of trailing it, used as the last-resort 3D
// decomposition when neither SBCC nor block-RC covers the slow
// dimension and the shape isn't the cubic case build3DRTRTRT favors.
func (b *builder) build3DTRTRTR(d Description) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: ThreeDTRTRTR, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	total := productOf(d.Length)
	for _, n := range d.Length {
		tr := b.leaf1D(KernelTransposeZXY, d, total, 1, 1, TwiddleRequirement{})
		b.tree.SetParent(tr, internal)
		pass, err := b.build1D(d, n, 1, 1)
		if err != nil {
			return invalidIndex, err
		}
		b.tree.SetParent(pass, internal)
	}

	return internal, nil
}

func (b *builder) build3DRTRTRT(d Description) (NodeIndex, error) {
	internal := b.tree.Add(Node{
		Scheme: ThreeDRTRTRT, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})

	for _, n := range d.Length {
		pass, err := b.build1D(d, n, 1, 1)
		if err != nil {
			return invalidIndex, err
		}
		b.tree.SetParent(pass, internal)
		tr := b.leaf1D(KernelTransposeZXY, d, productOf(d.Length), 1, 1, TwiddleRequirement{})
		b.tree.SetParent(tr, internal)
	}

	return internal, nil
}

// buildRealMultiDim implements REAL_3D_EVEN / the 2D real analogue: the
// innermost dimension is transformed via REAL_TRANSFORM_EVEN, the
// remaining dimensions via SBCC passes over the packed half-length complex
// data (spec S3: "REAL_3D_EVEN wrapping 3D_RC").
func (b *builder) buildRealMultiDim(d Description) (NodeIndex, error) {
	n := len(d.Length)
	innermost := d.Length[n-1]

	realInner := d
	realInner.Length = []int{innermost}
	realInner.InStride = []int{d.InStride[n-1]}
	realInner.OutStride = []int{d.OutStride[n-1]}

	innerNode, err := b.buildReal1D(realInner)
	if err != nil {
		return invalidIndex, err
	}

	scheme := ThreeDRC
	outer := Real3DEven
	if n == 2 {
		scheme = TwoDRC
	}

	wrapper := b.tree.Add(Node{
		Scheme: outer, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
	})
	inner := b.tree.Add(Node{
		Scheme: scheme, Length: d.Length, InStride: d.InStride, OutStride: d.OutStride,
		Direction: d.Direction, Placement: d.Placement, InArrayType: ComplexInterleaved, OutArrayType: ComplexInterleaved,
	})
	b.tree.SetParent(inner, wrapper)
	b.tree.SetParent(innerNode, inner)

	// The outer SBCC passes run over the packed half-length complex
	// spectrum inner already declares itself over (InArrayType/
	// OutArrayType: ComplexInterleaved above), not over d's real/
	// Hermitian array types.
	complexOuter := d
	complexOuter.InArrayType = ComplexInterleaved
	complexOuter.OutArrayType = ComplexInterleaved

	for _, m := range d.Length[:n-1] {
		sbcc := b.leaf1D(KernelStockhamBlockCC, complexOuter, m, 1, 1, TwiddleRequirement{})
		b.tree.SetParent(sbcc, inner)
	}

	return wrapper, nil
}

func (b *builder) leafND(scheme SchemeTag, d Description) NodeIndex {
	return b.tree.Add(Node{
		Scheme:       scheme,
		Length:       d.Length,
		InStride:     d.InStride,
		OutStride:    d.OutStride,
		Direction:    d.Direction,
		Placement:    d.Placement,
		InArrayType:  d.InArrayType,
		OutArrayType: d.OutArrayType,
		CatalogKey: CatalogKey{
			Scheme: scheme, Length: d.Length, Precision: d.Precision, Placement: d.Placement,
			InArrayType: d.InArrayType, OutArrayType: d.OutArrayType,
		},
	})
}

func productOf(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}
