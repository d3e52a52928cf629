package catalog

import "github.com/rocgofft/rocgofft/internal/plantree"

// defaultSingleKernelLengths and defaultSBCCLengths are the lengths the built-in catalog
// covers directly, chosen to exercise every scenario in spec §8 (S1-S4)
// without needing a generated JSON payload at test time.
var defaultSingleKernelLengths = []int{4, 8, 64, 100, 128, 200, 256, 512, 1024}
var defaultSBCCLengths = []int{100, 128, 200, 256}

// DefaultCatalog returns a built-in catalog covering common power-of-two
// and highly-composite lengths for both precisions (spec §4.1: "a
// compiled-in table of precompiled entries"). Real applications load a
// larger catalog via LoadCatalogJSON; this is the fallback used when no
// external catalog is configured.
func DefaultCatalog() *Catalog {
	c := New()

	for _, n := range defaultSingleKernelLengths {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			for _, placement := range []plantree.Placement{plantree.InPlace, plantree.OutOfPlace} {
				c.Register(Entry{
					Key: plantree.CatalogKey{
						Scheme: plantree.KernelStockham, Length: []int{n}, Precision: p,
						Placement: placement, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
					},
					ThreadsPerBlock:    threadsFor(n),
					TransformsPerBlock: transformsPerBlockFor(n),
					FactorList:         []int{n},
					LDSBytes:           ldsFor(n, p),
					RequiresUnitStride: false,
					SupportsNonUnitStride: true,
					EntryPoint:         "rocfft_stockham",
				})
			}
		}
	}

	for _, n := range defaultSBCCLengths {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			for _, placement := range []plantree.Placement{plantree.InPlace, plantree.OutOfPlace} {
				c.Register(Entry{
					Key: plantree.CatalogKey{
						Scheme: plantree.KernelStockhamBlockCC, Length: []int{n}, Precision: p,
						Placement: placement, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
					},
					ThreadsPerBlock:       threadsFor(n),
					TransformsPerBlock:    1,
					FactorList:            []int{n},
					LDSBytes:              ldsFor(n, p),
					SupportsNonUnitStride: true,
					EntryPoint:            "rocfft_sbcc",
				})
			}
		}
	}

	for _, n := range defaultSBCCLengths {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			c.Register(Entry{
				Key: plantree.CatalogKey{
					Scheme: plantree.KernelStockhamBlockRC, Length: []int{n}, Precision: p,
					Placement: plantree.OutOfPlace, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
				},
				ThreadsPerBlock:       threadsFor(n),
				TransformsPerBlock:    1,
				FactorList:            []int{n},
				LDSBytes:              ldsFor(n, p),
				SupportsNonUnitStride: true,
				EntryPoint:            "rocfft_sbrc",
			})
		}
	}

	// Plain transpose kernels tile over memory blocks and run at any
	// shape (spec §4.1), so one entry per scheme/precision/placement
	// covers every length the Node Tree Builder emits it for.
	for _, scheme := range []plantree.SchemeTag{
		plantree.KernelTransposeZXY, plantree.KernelTransposeXYZ, plantree.KernelTransposeDiagonal,
	} {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			for _, placement := range []plantree.Placement{plantree.InPlace, plantree.OutOfPlace} {
				c.Register(Entry{
					Key: plantree.CatalogKey{
						Scheme: scheme, Length: nil, Precision: p,
						Placement: placement, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
					},
					ThreadsPerBlock: 256,
					EntryPoint:      "rocfft_transpose",
				})
			}
		}
	}

	// A single fused 2D entry small enough to fit LDS in one launch,
	// exercising the 2D_SINGLE decomposition path.
	c.Register(Entry{
		Key: plantree.CatalogKey{
			Scheme: plantree.TwoDSingle, Length: []int{8, 8}, Precision: plantree.Single,
			Placement: plantree.OutOfPlace, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
		},
		ThreadsPerBlock: 64,
		LDSBytes:        8 * 8 * 8,
		EntryPoint:      "rocfft_2d_single",
	})

	// Plain R2C-post / C2R-pre leaves at the built-in single-kernel
	// lengths, used whenever the Fuse-Shim Pass finds no adjacent
	// transpose to fold them into (spec S3/S4: REAL_TRANSFORM_EVEN
	// wrapping a 3D_RC whose post/pre leaf has no transpose sibling).
	for _, n := range defaultSingleKernelLengths {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			for _, placement := range []plantree.Placement{plantree.InPlace, plantree.OutOfPlace} {
				c.Register(Entry{
					Key: plantree.CatalogKey{
						Scheme: plantree.KernelR2CPost, Length: []int{n}, Precision: p,
						Placement: placement, InArrayType: plantree.Real, OutArrayType: plantree.HermitianInterleaved,
					},
					EntryPoint: "rocfft_r2c_post",
					LDSBytes:   ldsFor(n, p),
				})
				c.Register(Entry{
					Key: plantree.CatalogKey{
						Scheme: plantree.KernelC2RPre, Length: []int{n}, Precision: p,
						Placement: placement, InArrayType: plantree.HermitianInterleaved, OutArrayType: plantree.Real,
					},
					EntryPoint: "rocfft_c2r_pre",
					LDSBytes:   ldsFor(n, p),
				})
			}
		}
	}

	// Fused shim entries covering the four patterns internal/fuseshim can
	// produce, at the S3/S4 real-transform half-length shapes.
	for _, hermLen := range []int{51, 65, 101, 129} {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			c.Register(Entry{
				Key: plantree.CatalogKey{
					Scheme: plantree.KernelR2CPostTranspose, Length: []int{hermLen}, Precision: p,
					Placement: plantree.OutOfPlace, InArrayType: plantree.HermitianInterleaved, OutArrayType: plantree.HermitianInterleaved,
				},
				EntryPoint: "rocfft_r2c_post_transpose",
				LDSBytes:   ldsFor(hermLen, p),
			})
			c.Register(Entry{
				Key: plantree.CatalogKey{
					Scheme: plantree.KernelTransposeC2RPre, Length: []int{hermLen}, Precision: p,
					Placement: plantree.OutOfPlace, InArrayType: plantree.HermitianInterleaved, OutArrayType: plantree.HermitianInterleaved,
				},
				EntryPoint: "rocfft_transpose_c2r_pre",
				LDSBytes:   ldsFor(hermLen, p),
			})
		}
	}
	for _, n := range []int{100, 128, 200, 256} {
		for _, p := range []plantree.Precision{plantree.Single, plantree.Double} {
			c.Register(Entry{
				Key: plantree.CatalogKey{
					Scheme: plantree.KernelSBCCWithOutputTranspose, Length: []int{n}, Precision: p,
					Placement: plantree.OutOfPlace, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
				},
				EntryPoint: "rocfft_sbcc_with_transpose",
				LDSBytes:   ldsFor(n, p),
			})
			c.Register(Entry{
				Key: plantree.CatalogKey{
					Scheme: plantree.KernelStockhamDiagonalTranspose, Length: []int{n}, Precision: p,
					Placement: plantree.OutOfPlace, InArrayType: plantree.ComplexInterleaved, OutArrayType: plantree.ComplexInterleaved,
				},
				EntryPoint: "rocfft_stockham_diagonal_transpose",
				LDSBytes:   ldsFor(n, p),
			})
		}
	}

	return c
}

func threadsFor(n int) int {
	switch {
	case n <= 64:
		return 64
	case n <= 256:
		return 128
	default:
		return 256
	}
}

func transformsPerBlockFor(n int) int {
	if n <= 64 {
		return 4
	}
	return 1
}

func elemSize(p plantree.Precision) int {
	if p == plantree.Double {
		return 16
	}
	return 8
}

func ldsFor(n int, p plantree.Precision) int {
	return n * elemSize(p) * 2
}
