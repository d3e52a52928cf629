// Package bufassign implements the Buffer Assigner (spec §4.6): a
// depth-first walk over the plan tree that resolves every node's
// (InputID, OutputID) pair to a concrete BufferIdentity, preferring to
// keep an in-place subtree entirely on the user's buffer and otherwise
// threading data through the smallest available temp, escalating to
// TEMP_C only when TEMP_A and TEMP_B are both live at once.
package bufassign

import (
	"github.com/pkg/errors"

	"github.com/rocgofft/rocgofft/internal/errs"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Stats reports the footprint of an assignment, for diagnostics and tests.
type Stats struct {
	// PeakTempBuffers is the largest number of temp buffers simultaneously
	// live during the walk (spec invariant: never exceeds 3).
	PeakTempBuffers int
	// OutOfPlaceWrites counts the number of junctions that needed a fresh
	// temp allocation rather than reusing the subtree's own buffer.
	OutOfPlaceWrites int
}

// Support answers whether a leaf's resolved catalog key has a usable
// entry, so the Buffer Assigner can reject a placement its catalog entry
// forbids (spec §4.6 constraint 3). Implemented by internal/catalog.Catalog;
// bufassign depends only on this narrow interface, mirroring
// internal/fuseshim.Support.
type Support interface {
	Covers(key plantree.CatalogKey) bool
}

// Assign resolves InputID/OutputID for every node in tree, starting from
// the root's already-known (USER_IN, USER_OUT) pair (spec §4.6). Every
// leaf's CatalogKey (already carrying its chosen Placement) is checked
// against support; a leaf whose catalog entry doesn't cover that
// placement fails the assignment with ErrUnsupportedConfiguration.
func Assign(tree *plantree.Tree, support Support) (Stats, error) {
	root := tree.Root()
	n := tree.Node(root)

	p := newPool()
	s := &Stats{}

	if err := assignNode(tree, root, n.InputID, n.OutputID, p, s, support); err != nil {
		return Stats{}, err
	}

	return *s, nil
}

// assignNode fixes node idx's own buffers to (in, out) and, if it has
// children, threads a sequential pipeline through them: child 0 reads in,
// child len-1 writes out, and every junction in between is assigned a
// buffer by the pool (spec §4.6: "in-place first, then smallest free
// temp... minimizing peak footprint").
func assignNode(tree *plantree.Tree, idx plantree.NodeIndex, in, out plantree.BufferIdentity, p *pool, s *Stats, support Support) error {
	n := tree.Node(idx)
	n.InputID = in
	n.OutputID = out

	if n.Scheme.IsLeaf() && !support.Covers(n.CatalogKey) {
		return errors.Wrapf(errs.ErrUnsupportedConfiguration,
			"node %d (%s): no catalog entry for length %v, placement %v", idx, n.Scheme, n.CatalogKey.Length, n.CatalogKey.Placement)
	}

	if len(n.Children) == 0 {
		return nil
	}

	cur := in
	for i, c := range n.Children {
		last := i == len(n.Children)-1

		var childOut plantree.BufferIdentity
		switch {
		case last:
			childOut = out
		case n.Placement == plantree.InPlace:
			childOut = in
		default:
			allocated, err := p.alloc()
			if err != nil {
				return errors.Wrapf(err, "assigning buffer for node %d, child %d", idx, i)
			}
			childOut = allocated
			s.OutOfPlaceWrites++
			if p.liveCount() > s.PeakTempBuffers {
				s.PeakTempBuffers = p.liveCount()
			}
		}

		if err := assignNode(tree, c, cur, childOut, p, s, support); err != nil {
			return err
		}

		if !last && n.Placement != plantree.InPlace && cur.IsTemp() {
			p.release(cur)
		}
		cur = childOut
	}

	return nil
}

// pool tracks which of TEMP_A, TEMP_B, TEMP_C are currently allocated.
// alloc always returns the smallest free identity (spec §4.6), so TEMP_C
// is only ever handed out once both TEMP_A and TEMP_B are live.
type pool struct {
	live map[plantree.BufferIdentity]bool
}

func newPool() *pool {
	return &pool{live: make(map[plantree.BufferIdentity]bool, 3)}
}

var ordered = []plantree.BufferIdentity{plantree.TempA, plantree.TempB, plantree.TempC}

func (p *pool) alloc() (plantree.BufferIdentity, error) {
	for _, id := range ordered {
		if !p.live[id] {
			p.live[id] = true
			return id, nil
		}
	}
	return 0, errors.Wrap(errs.ErrAllocationFailed, "no free temp buffer (TEMP_A, TEMP_B, TEMP_C all live)")
}

func (p *pool) release(id plantree.BufferIdentity) {
	delete(p.live, id)
}

func (p *pool) liveCount() int {
	return len(p.live)
}
