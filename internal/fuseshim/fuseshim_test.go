package fuseshim

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// alwaysSupport reports every fused shape as catalog-covered and within
// budget, isolating the pattern-matching logic from catalog specifics.
type alwaysSupport struct{}

func (alwaysSupport) SupportsFused(plantree.SchemeTag, []int, plantree.Precision) bool { return true }
func (alwaysSupport) WithinLDSBudget(plantree.SchemeTag, []int, plantree.Precision) bool {
	return true
}

// neverSupport reports no fused shape as catalog-covered, so fuses should
// be skipped.
type neverSupport struct{}

func (neverSupport) SupportsFused(plantree.SchemeTag, []int, plantree.Precision) bool { return false }
func (neverSupport) WithinLDSBudget(plantree.SchemeTag, []int, plantree.Precision) bool {
	return true
}

func buildRC2Tree() *plantree.Tree {
	tree := plantree.NewTree()
	root := tree.Add(plantree.Node{Scheme: plantree.RealTransformEven, Length: []int{1024}})
	r2c := tree.Add(plantree.Node{Scheme: plantree.KernelR2CPost, Length: []int{513}})
	tr := tree.Add(plantree.Node{Scheme: plantree.KernelTransposeZXY, Length: []int{513}, InStride: []int{1}, OutStride: []int{513}})
	tree.SetParent(r2c, root)
	tree.SetParent(tr, root)
	return tree
}

func TestApplyFusesR2CPostTranspose(t *testing.T) {
	t.Parallel()

	tree := buildRC2Tree()
	result := Apply(tree, alwaysSupport{}, plantree.Single, zerolog.Nop())

	if result.FusedCount != 1 {
		t.Fatalf("FusedCount = %d, want 1", result.FusedCount)
	}

	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1 after fuse", len(root.Children))
	}
	if tree.Node(root.Children[0]).Scheme != plantree.KernelR2CPostTranspose {
		t.Fatalf("fused child scheme = %v, want KERNEL_R2C_POST_TRANSPOSE", tree.Node(root.Children[0]).Scheme)
	}
}

func TestApplySkipsWhenCatalogDoesNotCoverFusedShape(t *testing.T) {
	t.Parallel()

	tree := buildRC2Tree()
	result := Apply(tree, neverSupport{}, plantree.Single, zerolog.Nop())

	if result.FusedCount != 0 {
		t.Fatalf("FusedCount = %d, want 0 when catalog has no fused entry", result.FusedCount)
	}

	root := tree.Node(tree.Root())
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2 (no fuse applied)", len(root.Children))
	}
}

func TestApplyDropsNoOpTranspose(t *testing.T) {
	t.Parallel()

	tree := plantree.NewTree()
	root := tree.Add(plantree.Node{Scheme: plantree.L1DTRTRT, Length: []int{64}})
	a := tree.Add(plantree.Node{Scheme: plantree.KernelStockham, Length: []int{8}})
	noop := tree.Add(plantree.Node{Scheme: plantree.KernelTransposeZXY, Length: []int{64}, InStride: []int{1}, OutStride: []int{1}})
	b := tree.Add(plantree.Node{Scheme: plantree.KernelStockham, Length: []int{8}})
	tree.SetParent(a, root)
	tree.SetParent(noop, root)
	tree.SetParent(b, root)

	result := Apply(tree, alwaysSupport{}, plantree.Single, zerolog.Nop())

	if result.DroppedNoOps != 1 {
		t.Fatalf("DroppedNoOps = %d, want 1", result.DroppedNoOps)
	}
	if len(tree.Node(tree.Root()).Children) != 2 {
		t.Fatalf("root children = %d, want 2 after dropping no-op transpose", len(tree.Node(tree.Root()).Children))
	}
}
