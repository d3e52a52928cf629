// Package fuseshim implements the Fuse-Shim Pass (spec §4.5): a bottom-up,
// fixed-point tree rewrite that replaces adjacent (producer, consumer) leaf
// pairs with a single fused leaf when a catalog entry covers the combined
// shape, reducing kernel launches and global-memory round-trips. Fuses
// never cross a scheme boundary that changes the mathematical
// decomposition — only ones that are pure data-movement rearrangements
// (spec §4.5).
package fuseshim

import (
	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Support answers whether a candidate fused kernel exists in the catalog
// and fits within the LDS budget. Implemented by internal/catalog.Catalog.
type Support interface {
	SupportsFused(scheme plantree.SchemeTag, length []int, p plantree.Precision) bool
	WithinLDSBudget(scheme plantree.SchemeTag, length []int, p plantree.Precision) bool
}

// isTranspose reports whether s is any of the transpose scheme tags.
func isTranspose(s plantree.SchemeTag) bool {
	return s.IsTranspose()
}

// Result reports what the pass did, for diagnostics and tests.
type Result struct {
	FusedCount   int
	DroppedNoOps int
}

// Apply rewrites tree in place, applying shim patterns repeatedly until a
// fixed point (spec §4.5). precision is the plan's precision, needed to
// query Support.
func Apply(tree *plantree.Tree, support Support, precision plantree.Precision, log zerolog.Logger) Result {
	var result Result

	for pass := 0; pass < tree.Len(); pass++ {
		changed := false

		tree.WalkBottomUp(func(_ plantree.NodeIndex, n *plantree.Node) {
			if len(n.Children) < 2 {
				return
			}
			if rewriteChildren(tree, n, support, precision, &result, log) {
				changed = true
			}
		})

		if !changed {
			break
		}
	}

	return result
}

// rewriteChildren scans n's children for adjacent pairs matching a shim
// pattern and rewrites the first match found; returns whether any rewrite
// happened so the caller can re-scan for fixed point.
func rewriteChildren(tree *plantree.Tree, n *plantree.Node, support Support, precision plantree.Precision, result *Result, log zerolog.Logger) bool {
	children := n.Children

	for i := 0; i+1 < len(children); i++ {
		a := tree.Node(children[i])
		b := tree.Node(children[i+1])

		if dropped := tryDropNoOpTranspose(tree, n, i, a, b); dropped {
			result.DroppedNoOps++
			return true
		}

		fused, ok := tryFuse(a, b, support, precision, log)
		if !ok {
			continue
		}

		replaceIdx := children[i]
		tree.ReplaceSubtree(replaceIdx, fused)
		n.Children = append(append(append([]plantree.NodeIndex{}, children[:i]...), replaceIdx), children[i+2:]...)
		result.FusedCount++
		return true
	}

	return false
}

// tryDropNoOpTranspose removes a transpose leaf whose input/output strides
// are already identical (the permutation is already carried by the
// surrounding strides), splicing its neighbors together (spec §4.5:
// "dropping no-op transposes").
func tryDropNoOpTranspose(tree *plantree.Tree, n *plantree.Node, i int, a, b *plantree.Node) bool {
	var dropIdx int
	switch {
	case isTranspose(a.Scheme) && len(a.InStride) > 0 && a.InStride[0] == a.OutStride[0]:
		dropIdx = i
	case isTranspose(b.Scheme) && len(b.InStride) > 0 && b.InStride[0] == b.OutStride[0]:
		dropIdx = i + 1
	default:
		return false
	}

	n.Children = append(append([]plantree.NodeIndex{}, n.Children[:dropIdx]...), n.Children[dropIdx+1:]...)
	return true
}

// tryFuse matches the shim patterns named in spec §4.5 against an adjacent
// (a, b) pair and, if the catalog covers the fused shape and it fits the
// LDS budget, returns a replacement leaf node.
func tryFuse(a, b *plantree.Node, support Support, precision plantree.Precision, log zerolog.Logger) (plantree.Node, bool) {
	scheme, length, ok := matchPattern(a, b)
	if !ok {
		return plantree.Node{}, false
	}

	if !support.SupportsFused(scheme, length, precision) {
		log.Debug().Str("scheme", scheme.String()).Ints("length", length).
			Msg("fuse-shim: skipped, no catalog entry for fused shape")
		return plantree.Node{}, false
	}
	if !support.WithinLDSBudget(scheme, length, precision) {
		log.Debug().Str("scheme", scheme.String()).Ints("length", length).
			Msg("fuse-shim: skipped, fused kernel exceeds LDS budget")
		return plantree.Node{}, false
	}

	fused := *a
	fused.Scheme = scheme
	fused.Length = length
	fused.OutStride = b.OutStride
	fused.OutArrayType = b.OutArrayType
	fused.CatalogKey = plantree.CatalogKey{
		Scheme: scheme, Length: length, Precision: precision,
		Placement: a.Placement, InArrayType: a.InArrayType, OutArrayType: b.OutArrayType,
	}

	return fused, true
}

// matchPattern recognizes the fixed set of shim patterns from spec §4.5.
func matchPattern(a, b *plantree.Node) (scheme plantree.SchemeTag, length []int, ok bool) {
	switch {
	case a.Scheme == plantree.KernelR2CPost && isTranspose(b.Scheme):
		return plantree.KernelR2CPostTranspose, a.Length, true
	case isTranspose(a.Scheme) && b.Scheme == plantree.KernelC2RPre:
		return plantree.KernelTransposeC2RPre, b.Length, true
	case a.Scheme == plantree.KernelStockham && isTranspose(b.Scheme) && isPowerOfTwoLen(a.Length):
		return plantree.KernelStockhamDiagonalTranspose, a.Length, true
	case a.Scheme == plantree.KernelStockhamBlockCC && isTranspose(b.Scheme):
		return plantree.KernelSBCCWithOutputTranspose, a.Length, true
	default:
		return 0, nil, false
	}
}

func isPowerOfTwoLen(length []int) bool {
	if len(length) != 1 {
		return false
	}
	n := length[0]
	return n > 0 && n&(n-1) == 0
}
