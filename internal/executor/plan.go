package executor

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/bufassign"
	"github.com/rocgofft/rocgofft/internal/catalog"
	"github.com/rocgofft/rocgofft/internal/device"
	"github.com/rocgofft/rocgofft/internal/errs"
	"github.com/rocgofft/rocgofft/internal/fuseshim"
	"github.com/rocgofft/rocgofft/internal/plantree"
	"github.com/rocgofft/rocgofft/internal/twiddle"
)

// Plan owns one built plan tree and carries it through the lifecycle spec
// §4.7 names: BUILT -> BUFFERS_ASSIGNED -> TWIDDLES_MATERIALIZED -> READY,
// then READY <-> EXECUTING on every Execute call.
type Plan struct {
	desc    plantree.Description
	tree    *plantree.Tree
	catalog *catalog.Catalog
	log     zerolog.Logger

	state State

	bufStats bufassign.Stats
	temps    map[plantree.BufferIdentity]device.Buffer
	twiddles map[plantree.NodeIndex]device.Buffer

	totalElems int
}

// New runs the Node Tree Builder and Fuse-Shim Pass over desc and returns
// a plan in the BUILT state.
func New(desc plantree.Description, cat *catalog.Catalog, log zerolog.Logger) (*Plan, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	tree, err := plantree.Build(desc, cat)
	if err != nil {
		return nil, errors.Wrap(err, "build plan tree")
	}
	fuseshim.Apply(tree, cat, desc.Precision, log)

	if err := validateCatalogCoverage(tree, cat); err != nil {
		return nil, err
	}

	total := desc.BatchCount
	for _, l := range desc.Length {
		total *= l
	}

	return &Plan{
		desc:       desc,
		tree:       tree,
		catalog:    cat,
		log:        log,
		state:      Built,
		twiddles:   make(map[plantree.NodeIndex]device.Buffer),
		totalElems: total,
	}, nil
}

// validateCatalogCoverage rejects a plan whose Node Tree Builder or
// Fuse-Shim Pass produced a leaf with no matching catalog entry. Spec
// §4.1: "missing entries signal that the Node Tree Builder must choose a
// different decomposition"; spec §7 surfaces this once Fuse-Shim has had
// its chance to fuse the leaf into something the catalog does cover.
func validateCatalogCoverage(tree *plantree.Tree, cat *catalog.Catalog) error {
	var missing error
	tree.Walk(func(idx plantree.NodeIndex, n *plantree.Node) {
		if missing != nil || !n.Scheme.IsLeaf() {
			return
		}
		if _, ok := cat.Lookup(n.CatalogKey); !ok {
			missing = errors.Wrapf(errs.ErrUnsupportedConfiguration,
				"no catalog entry for leaf %d (%s, length %v, precision %s, placement %v)",
				idx, n.Scheme, n.CatalogKey.Length, n.CatalogKey.Precision, n.CatalogKey.Placement)
		}
	})
	return missing
}

func (p *Plan) State() State { return p.state }

// AssignBuffers runs the Buffer Assigner, advancing BUILT -> BUFFERS_ASSIGNED.
func (p *Plan) AssignBuffers() error {
	if p.state != Built {
		return errors.Wrapf(errs.ErrInvalidArgument, "AssignBuffers: plan in state %s, want %s", p.state, Built)
	}

	stats, err := bufassign.Assign(p.tree, p.catalog)
	if err != nil {
		p.state = Failed
		return errors.Wrap(err, "assign buffers")
	}

	p.bufStats = stats
	p.state = BuffersAssigned
	return nil
}

// MaterializeTwiddles builds every table a node's TwiddleRequirement names
// and allocates it through alloc, advancing BUFFERS_ASSIGNED ->
// TWIDDLES_MATERIALIZED -> READY (spec §3 invariant: "twiddle tables are
// materialized before any leaf referencing them is dispatched").
func (p *Plan) MaterializeTwiddles(alloc device.Allocator) error {
	if p.state != BuffersAssigned {
		return errors.Wrapf(errs.ErrInvalidArgument, "MaterializeTwiddles: plan in state %s, want %s", p.state, BuffersAssigned)
	}

	factory := twiddle.New()
	var outerErr error
	p.tree.Walk(func(idx plantree.NodeIndex, n *plantree.Node) {
		if outerErr != nil || n.Twiddle.IsZero() {
			return
		}
		var table *twiddle.Table
		switch {
		case n.Twiddle.LargeN1 != 0 && n.Twiddle.LargeN2 != 0:
			table = factory.Large(n.Twiddle.LargeN1, n.Twiddle.LargeN2, p.desc.Precision)
		case n.Twiddle.Small != 0:
			table = factory.Small(n.Twiddle.Small, p.desc.Precision)
		default:
			return
		}
		buf, err := alloc.AllocateComplex(table.Values)
		if err != nil {
			outerErr = errors.Wrapf(errs.ErrAllocationFailed, "materialize twiddle for node %d: %v", idx, err)
			return
		}
		p.twiddles[idx] = buf
	})
	if outerErr != nil {
		p.state = Failed
		return outerErr
	}
	p.state = TwiddlesMaterialized

	if err := p.allocateTemps(alloc); err != nil {
		p.state = Failed
		return err
	}

	p.state = Ready
	return nil
}

func (p *Plan) allocateTemps(alloc device.Allocator) error {
	p.temps = make(map[plantree.BufferIdentity]device.Buffer)
	used := map[plantree.BufferIdentity]bool{}
	p.tree.Walk(func(_ plantree.NodeIndex, n *plantree.Node) {
		used[n.InputID] = true
		used[n.OutputID] = true
	})
	for _, id := range []plantree.BufferIdentity{plantree.TempA, plantree.TempB, plantree.TempC} {
		if !used[id] {
			continue
		}
		buf, err := alloc.Allocate(p.totalElems)
		if err != nil {
			return errors.Wrapf(errs.ErrAllocationFailed, "allocate %s: %v", id, err)
		}
		p.temps[id] = buf
	}
	return nil
}

// WorkBufferSize returns the minimum caller-owned work buffer size, in
// elements, this plan would need if it managed its own temporaries as
// caller-visible memory instead of library-internal allocations (spec
// §6: PlanCreate/WorkBufferSize). This build always allocates its own
// temporaries via the Allocator passed to MaterializeTwiddles, so the
// value is informational only.
func (p *Plan) WorkBufferSize() int64 {
	return int64(p.bufStats.PeakTempBuffers) * int64(p.totalElems)
}

// Execute dispatches every leaf in the tree's post-order sequence,
// advancing READY -> EXECUTING -> READY, or -> FAILED on the first launch
// error.
func (p *Plan) Execute(ctx context.Context, q device.Queue, launcher device.Launcher, buffers ExecutionBuffers) error {
	if p.state != Ready {
		return errors.Wrapf(errs.ErrInvalidArgument, "Execute: plan in state %s, want %s", p.state, Ready)
	}

	p.state = Executing
	bufs := bufferSet{user: buffers, temps: p.temps}

	var execErr error
	p.tree.Walk(func(idx plantree.NodeIndex, n *plantree.Node) {
		if execErr != nil || !n.Scheme.IsLeaf() {
			return
		}
		launch := p.buildLaunch(idx, n, bufs, buffers)
		ev, err := launcher.Launch(ctx, q, launch)
		if err != nil {
			execErr = errors.Wrapf(errs.ErrDeviceFailure, "launch node %d (%s): %v", idx, n.Scheme, err)
			return
		}
		if ev != nil {
			if err := ev.Wait(ctx); err != nil {
				execErr = errors.Wrapf(errs.ErrDeviceFailure, "wait node %d (%s): %v", idx, n.Scheme, err)
			}
		}
	})

	if execErr != nil {
		p.state = Failed
		return execErr
	}
	if err := q.Synchronize(ctx); err != nil {
		p.state = Failed
		return errors.Wrap(errs.ErrDeviceFailure, err.Error())
	}

	p.state = Ready
	return nil
}
