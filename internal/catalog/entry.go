// Package catalog implements the Kernel Catalog (spec §4.1): an immutable
// registry of leaf kernel entries, keyed by the same fields as a plan-tree
// leaf's CatalogKey, plus the lookups the Node Tree Builder and Fuse-Shim
// Pass need to decide how to decompose or fuse a transform.
package catalog

import "github.com/rocgofft/rocgofft/internal/plantree"

// Entry describes one device kernel or generator recipe the runtime may
// dispatch (spec §4.1).
type Entry struct {
	Key plantree.CatalogKey

	ThreadsPerBlock    int
	TransformsPerBlock int
	FactorList         []int
	LDSBytes           int
	TwiddleShape       TwiddleShape

	RequiresUnitStride bool
	SupportsNonUnitStride bool

	// RuntimeGenerated marks a recipe kernel compiled on demand rather than
	// a precompiled entry point; GeneratorSpec is meaningful only then.
	RuntimeGenerated bool
	GeneratorSpec    GeneratorSpec

	EntryPoint string
}

// TwiddleShape names which twiddle tables a kernel entry expects to be
// materialized before dispatch (spec §4.3).
type TwiddleShape struct {
	Small      int
	LargeN1    int
	LargeN2    int
	RadixPasses []int
}

// GeneratorSpec carries the parameters needed to recreate a
// runtime-compiled kernel's source (spec §4.1, "recipes for runtime
// compiled ones"). No code in this module converts it into an
// internal/codegen.Spec.
type GeneratorSpec struct {
	Template string
	Radix    int
	Length   int
	Direction plantree.Direction
}
