package plantree

// LengthSupport answers the catalog-coverage questions the Node Tree
// Builder needs while decomposing a Transform Description (spec §4.4). It
// is implemented by internal/catalog.Catalog; plantree depends only on
// this narrow interface so the builder can be unit-tested against a fake
// without importing the catalog package.
type LengthSupport interface {
	// SingleKernelCovers reports whether one catalog entry can transform
	// all of length n directly (no decomposition needed).
	SingleKernelCovers(n int, p Precision) bool

	// SBCCSupported reports whether n is a catalog-supported
	// Stockham-Block-CC length.
	SBCCSupported(n int, p Precision) bool

	// SupportsBlockRC reports whether n is a catalog-supported
	// Stockham-Block-RC length (spec §4.4: 3D_BLOCK_RC).
	SupportsBlockRC(n int, p Precision) bool

	// FitsSingleKernel2D reports whether a 2D transform of the given
	// shape fits entirely in one fused kernel's LDS budget.
	FitsSingleKernel2D(rows, cols int, p Precision) bool

	// AllowedRadices returns the radix set usable when factoring a
	// length for the given scheme.
	AllowedRadices(scheme SchemeTag) []int
}
