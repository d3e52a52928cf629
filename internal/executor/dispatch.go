package executor

import (
	"github.com/rocgofft/rocgofft/internal/device"
	"github.com/rocgofft/rocgofft/internal/plantree"
)

// buildLaunch resolves node n's buffers and shape into a device.LeafLaunch.
// Only the innermost dimension is threaded through (Length[0],
// InStride[0], OutStride[0]): every leaf this plan dispatches against
// mockdevice is a 1D strided-batched transform, matching the scope
// decision recorded for internal/device/mockdevice in DESIGN.md.
func (p *Plan) buildLaunch(idx plantree.NodeIndex, n *plantree.Node, bufs bufferSet, buffers ExecutionBuffers) device.LeafLaunch {
	launch := device.LeafLaunch{
		Scheme:     n.Scheme,
		Length:     n.Length[0],
		InStride:   n.InStride[0],
		OutStride:  n.OutStride[0],
		TotalElems: p.totalElems,
		Direction:  n.Direction,
		Precision:  p.desc.Precision,
		Input:      bufs.resolve(n.InputID),
		Output:     bufs.resolve(n.OutputID),
		Load:       buffers.Load,
		Store:      buffers.Store,
	}

	if twiddleBuf, ok := p.twiddles[idx]; ok {
		launch.Twiddle = twiddleBuf
	}

	if entry, ok := p.catalog.Lookup(n.CatalogKey); ok {
		launch.LDSBytes = entry.LDSBytes
	}

	return launch
}
