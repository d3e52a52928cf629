package mockdevice

import "math"

// stridedBatchedDFT performs an unnormalized length-n DFT (forward sign
// -2πi, inverse sign +2πi, matching internal/twiddle's forward
// convention) over every instance that tiles a buffer of totalElems
// elements at the given stride. The instance at offset o of super-block b
// (see below) reads in[b*n*strideIn+o+j*strideIn] for j in [0,n) and
// writes out[b*n*strideOut+o+k*strideOut] for k in [0,n).
//
// The number of instances and their base offsets fall out of n, stride,
// and totalElems alone: blockSize = n*stride elements form one
// contiguous "super-block" containing stride interleaved instances (an
// instance per residue mod stride); totalElems/blockSize such
// super-blocks tile the buffer. This is exactly the access pattern the
// Node Tree Builder's Cooley-Tukey column/row passes use (spec §4.4), so
// no separate per-node batch count needs to be tracked.
// twiddle, when non-nil, holds a per-block table of length numBlocks*n
// (the shape twiddle.Factory.Large(n1,n2,...) produces when this pass's
// block index plays the role of the large table's first factor): element
// j of block b is scaled by twiddle[b*n+j] (conjugated for an inverse
// transform, since tables use the forward sign) before the DFT sum, matching
// the standard Cooley-Tukey inter-pass twiddle multiply (applied to the
// first pass's output before the second pass consumes it, indexed by
// (batch, position) rather than by either pass's own DFT output index).
func stridedBatchedDFT(in, out []complex128, n, strideIn, strideOut, totalElems int, inverse bool, twiddle []complex128) {
	blockSize := n * strideIn
	numBlocks := totalElems / blockSize

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	buf := make([]complex128, n)
	for block := 0; block < numBlocks; block++ {
		for offset := 0; offset < strideIn; offset++ {
			base := block*blockSize + offset
			for j := 0; j < n; j++ {
				buf[j] = in[base+j*strideIn]
				if twiddle != nil {
					tw := twiddle[block*n+j]
					if inverse {
						tw = complexConj(tw)
					}
					buf[j] *= tw
				}
			}

			outBase := block*n*strideOut + offset
			for k := 0; k < n; k++ {
				var sum complex128
				for j := 0; j < n; j++ {
					theta := sign * 2 * math.Pi * float64(j*k) / float64(n)
					sum += buf[j] * complex(math.Cos(theta), math.Sin(theta))
				}
				out[outBase+k*strideOut] = sum
			}
		}
	}
}

// realToHermitian packs an N-point real signal's N/2-point complex DFT
// (already computed into half) into the Hermitian half-spectrum of
// length N/2+1 (spec §4.4 "REAL_TRANSFORM_EVEN"): the classic
// even/odd-interleave packing formula.
func realToHermitian(half []complex128, out []complex128, n int) {
	m := n / 2
	for k := 0; k <= m; k++ {
		var zk, zmk complex128
		zk = half[k%m]
		if k == 0 {
			zmk = half[0]
		} else {
			zmk = half[m-k]
		}
		xe := (zk + complexConj(zmk)) / 2
		xo := (zk - complexConj(zmk)) / complex(0, 2)

		theta := -2 * math.Pi * float64(k) / float64(n)
		tw := complex(math.Cos(theta), math.Sin(theta))
		out[k] = xe + tw*xo
	}
}

func complexConj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}
