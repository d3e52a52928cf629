package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// maxLDSBytes is the shared-memory budget a single workgroup may consume,
// matching the LDS size on the AMD architectures rocFFT targets (spec
// §4.5: fuse candidates are skipped when they would exceed it).
const maxLDSBytes = 64 * 1024

// Catalog is the immutable, read-only-after-init kernel registry (spec
// §5: "the Kernel Catalog is read-only after process init"). It
// implements plantree.LengthSupport and fuseshim.Support so the Node Tree
// Builder and Fuse-Shim Pass depend only on those narrow interfaces.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry

	// singleKernelLengths, sbccLengths and blockRCLengths index entries by
	// (scheme-class, length, precision) for the builder's coverage
	// questions, which don't know the full CatalogKey (array types, sbrc
	// variant) up front.
	singleKernelLengths map[lengthKey]bool
	sbccLengths         map[lengthKey]bool
	blockRCLengths      map[lengthKey]bool
	radicesByScheme     map[plantree.SchemeTag][]int
}

type lengthKey struct {
	n int
	p plantree.Precision
}

// New builds an empty catalog; callers populate it with Register or
// LoadCatalogJSON before use.
func New() *Catalog {
	return &Catalog{
		entries:             make(map[string]Entry),
		singleKernelLengths: make(map[lengthKey]bool),
		sbccLengths:         make(map[lengthKey]bool),
		blockRCLengths:      make(map[lengthKey]bool),
		radicesByScheme:     make(map[plantree.SchemeTag][]int),
	}
}

// keyString encodes a CatalogKey as a map key. CatalogKey carries a
// []int Length field and so is not itself comparable; a nil Length
// (the plain transpose schemes' wildcard key, spec §4.1) encodes
// distinctly from any concrete length.
func keyString(k plantree.CatalogKey) string {
	return fmt.Sprintf("%d|%v|%d|%d|%d|%d|%s|%d",
		k.Scheme, k.Length, k.Precision, k.Placement, k.InArrayType, k.OutArrayType, k.SBRCVariant, k.StaticDim)
}

// Register adds or overwrites one entry. Only used while building the
// catalog (at init or while loading a JSON payload); the catalog is
// treated as read-only once construction returns it to callers.
func (c *Catalog) Register(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[keyString(e.Key)] = e

	if len(e.Key.Length) != 1 {
		return
	}
	n := e.Key.Length[0]
	lk := lengthKey{n: n, p: e.Key.Precision}

	switch e.Key.Scheme {
	case plantree.KernelStockham:
		c.singleKernelLengths[lk] = true
		c.addRadix(plantree.L1DCC, n)
	case plantree.KernelStockhamBlockCC:
		c.sbccLengths[lk] = true
		c.addRadix(plantree.L1DCC, n)
	case plantree.KernelStockhamBlockRC:
		c.blockRCLengths[lk] = true
	}
}

func (c *Catalog) addRadix(scheme plantree.SchemeTag, n int) {
	for _, r := range c.radicesByScheme[scheme] {
		if r == n {
			return
		}
	}
	c.radicesByScheme[scheme] = append(c.radicesByScheme[scheme], n)
}

// Lookup returns the entry matching key, if any (spec §4.1: "returns at
// most one entry per key").
func (c *Catalog) Lookup(key plantree.CatalogKey) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[keyString(key)]
	return e, ok
}

// Covers reports whether key has a usable catalog entry. It implements
// internal/bufassign.Support, letting the Buffer Assigner honor spec
// §4.6 constraint 3: a leaf is never assigned a placement its catalog
// entry forbids.
func (c *Catalog) Covers(key plantree.CatalogKey) bool {
	_, ok := c.Lookup(key)
	return ok
}

// --- plantree.LengthSupport --------------------------------------------

func (c *Catalog) SingleKernelCovers(n int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.singleKernelLengths[lengthKey{n: n, p: p}]
}

func (c *Catalog) SBCCSupported(n int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sbccLengths[lengthKey{n: n, p: p}]
}

// SupportsBlockRC reports whether n is a catalog-supported
// Stockham-Block-RC length, used by the 3D builder's second-choice
// decomposition (spec §4.4: 3D_BLOCK_RC).
func (c *Catalog) SupportsBlockRC(n int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blockRCLengths[lengthKey{n: n, p: p}]
}

// FitsSingleKernel2D reports whether a fused 2D_SINGLE entry exists for
// exactly this shape.
func (c *Catalog) FitsSingleKernel2D(rows, cols int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := plantree.CatalogKey{Scheme: plantree.TwoDSingle, Length: []int{rows, cols}, Precision: p}
	_, ok := c.entries[keyString(key)]
	return ok
}

// AllowedRadices returns the lengths registered for the given scheme's
// leaf kernels, used by mathutil.Factorize (spec §4.1: "a scheme-specific
// allowed set"). Falls back to a conservative built-in set for schemes the
// catalog hasn't indexed radices for yet.
func (c *Catalog) AllowedRadices(scheme plantree.SchemeTag) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.radicesByScheme[scheme]; ok && len(r) > 0 {
		out := make([]int, len(r))
		copy(out, r)
		return out
	}
	return []int{2, 3, 4, 5, 7, 8, 10, 11, 13}
}

// --- fuseshim.Support ----------------------------------------------------

// SupportsFused reports whether a catalog entry covers the fused scheme at
// this shape (spec §4.5: "skip on no catalog entry").
func (c *Catalog) SupportsFused(scheme plantree.SchemeTag, length []int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.fusedEntry(scheme, length, p)
	return ok
}

// fusedEntry returns an entry registered for scheme at exactly this length
// and precision, whatever its placement and array types: the Fuse-Shim
// Pass asks about a fused shape by these three fields only. The caller
// holds c.mu.
func (c *Catalog) fusedEntry(scheme plantree.SchemeTag, length []int, p plantree.Precision) (Entry, bool) {
	for _, e := range c.entries {
		if e.Key.Scheme == scheme && e.Key.Precision == p && slices.Equal(e.Key.Length, length) {
			return e, true
		}
	}
	return Entry{}, false
}

// WithinLDSBudget reports whether the fused entry's shared-memory
// requirement fits the hardware budget (spec §4.5: "skip on... LDS budget
// exceeded"). An entry with no recorded LDS requirement is assumed to fit.
func (c *Catalog) WithinLDSBudget(scheme plantree.SchemeTag, length []int, p plantree.Precision) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.fusedEntry(scheme, length, p)
	if !ok {
		return true
	}
	return e.LDSBytes <= maxLDSBytes
}
