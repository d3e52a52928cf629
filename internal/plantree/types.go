// Package plantree owns the plan tree's data model (spec §3) and the Node
// Tree Builder (spec §4.4): it turns one validated Transform Description
// into an initial tree of scheme nodes whose leaves name a kernel-catalog
// lookup key. The tree lives in an arena keyed by node index (spec §9) so
// the Fuse-Shim Pass can rewrite it with local, index-stable edits.
package plantree

import "fmt"

// Precision selects the floating-point width of the transform.
type Precision uint8

const (
	Single Precision = iota
	Double
)

func (p Precision) String() string {
	if p == Double {
		return "double"
	}
	return "single"
}

// Direction selects forward or inverse transform.
type Direction uint8

const (
	Forward Direction = iota
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// Flavor selects complex-to-complex vs. real/Hermitian transforms.
type Flavor uint8

const (
	ComplexFlavor Flavor = iota
	RealFlavor
)

// Placement selects in-place vs. out-of-place execution.
type Placement uint8

const (
	OutOfPlace Placement = iota
	InPlace
)

// ArrayType enumerates the supported input/output data layouts.
type ArrayType uint8

const (
	ComplexInterleaved ArrayType = iota
	ComplexPlanar
	Real
	HermitianInterleaved
	HermitianPlanar
)

func (a ArrayType) IsComplex() bool {
	return a == ComplexInterleaved || a == ComplexPlanar
}

func (a ArrayType) IsHermitian() bool {
	return a == HermitianInterleaved || a == HermitianPlanar
}

func (a ArrayType) IsReal() bool {
	return a == Real
}

func (a ArrayType) IsPlanar() bool {
	return a == ComplexPlanar || a == HermitianPlanar
}

// SchemeTag is the primary discriminator on a plan-tree Node (spec §3).
// Leaf tags are the KERNEL_* members; the rest are internal composites.
// Schemes form a closed enumerated set: dispatch throughout the pipeline
// switches on this tag rather than using interface polymorphism (spec §9).
type SchemeTag uint16

const (
	// Leaf schemes: every node carrying one of these dispatches exactly
	// one device kernel launch.
	KernelStockham SchemeTag = iota
	KernelStockhamBlockCC
	KernelStockhamBlockRC
	KernelTransposeZXY
	KernelTransposeXYZ
	KernelTransposeDiagonal
	KernelR2CPost
	KernelC2RPre
	KernelR2CPostTranspose // fused leaf, produced by the Fuse-Shim Pass
	KernelTransposeC2RPre  // fused leaf, produced by the Fuse-Shim Pass
	KernelStockhamDiagonalTranspose
	KernelSBCCWithOutputTranspose

	// Internal composite schemes.
	L1DTRTRT
	L1DCC
	L1DCRT
	TwoDRTRT
	TwoDRC
	TwoDSingle
	ThreeDRTRTRT
	ThreeDTRTRTR
	ThreeDBlockRC
	ThreeDRC
	RealTransformEven
	Real3DEven
	RealTransformUsingCmplx
	Bluestein
)

// IsLeaf reports whether the tag dispatches a device kernel directly.
func (s SchemeTag) IsLeaf() bool {
	switch s {
	case KernelStockham, KernelStockhamBlockCC, KernelStockhamBlockRC,
		KernelTransposeZXY, KernelTransposeXYZ, KernelTransposeDiagonal,
		KernelR2CPost, KernelC2RPre, KernelR2CPostTranspose, KernelTransposeC2RPre,
		KernelStockhamDiagonalTranspose, KernelSBCCWithOutputTranspose:
		return true
	default:
		return false
	}
}

// IsTranspose reports whether s is a shape-agnostic transpose kernel.
// Unlike Stockham/SBCC kernels, which are precompiled per exact length,
// a transpose kernel tiles over blocks and runs at any shape, so its
// catalog entries are keyed without a Length (spec §4.1).
func (s SchemeTag) IsTranspose() bool {
	switch s {
	case KernelTransposeZXY, KernelTransposeXYZ, KernelTransposeDiagonal:
		return true
	default:
		return false
	}
}

var schemeNames = map[SchemeTag]string{
	KernelStockham:                   "KERNEL_STOCKHAM",
	KernelStockhamBlockCC:            "KERNEL_STOCKHAM_BLOCK_CC",
	KernelStockhamBlockRC:            "KERNEL_STOCKHAM_BLOCK_RC",
	KernelTransposeZXY:               "KERNEL_TRANSPOSE_Z_XY",
	KernelTransposeXYZ:               "KERNEL_TRANSPOSE_XY_Z",
	KernelTransposeDiagonal:          "KERNEL_TRANSPOSE_DIAGONAL",
	KernelR2CPost:                    "KERNEL_R2C_POST",
	KernelC2RPre:                     "KERNEL_C2R_PRE",
	KernelR2CPostTranspose:           "R2C_POST_TRANSPOSE",
	KernelTransposeC2RPre:            "TRANSPOSE_C2R_PRE",
	KernelStockhamDiagonalTranspose:  "KERNEL_STOCKHAM_DIAGONAL_TRANSPOSE",
	KernelSBCCWithOutputTranspose:    "KERNEL_SBCC_WITH_OUTPUT_TRANSPOSE",
	L1DTRTRT:                         "L1D_TRTRT",
	L1DCC:                            "L1D_CC",
	L1DCRT:                           "L1D_CRT",
	TwoDRTRT:                         "2D_RTRT",
	TwoDRC:                           "2D_RC",
	TwoDSingle:                       "2D_SINGLE",
	ThreeDRTRTRT:                     "3D_RTRTRT",
	ThreeDTRTRTR:                     "3D_TRTRTR",
	ThreeDBlockRC:                    "3D_BLOCK_RC",
	ThreeDRC:                         "3D_RC",
	RealTransformEven:                "REAL_TRANSFORM_EVEN",
	Real3DEven:                       "REAL_3D_EVEN",
	RealTransformUsingCmplx:          "REAL_TRANSFORM_USING_CMPLX",
	Bluestein:                        "BLUESTEIN",
}

func (s SchemeTag) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SchemeTag(%d)", uint16(s))
}

// BufferIdentity names the array a node's input or output resolves to
// (spec §3). TempA/TempB/TempC are library-managed scratch; TempC is only
// introduced when the other two are both live (spec §4.6).
type BufferIdentity uint8

const (
	UserIn BufferIdentity = iota
	UserOut
	TempA
	TempB
	TempC
	unassigned // internal-only sentinel; no code path assigns it
)

func (b BufferIdentity) String() string {
	switch b {
	case UserIn:
		return "USER_IN"
	case UserOut:
		return "USER_OUT"
	case TempA:
		return "TEMP_A"
	case TempB:
		return "TEMP_B"
	case TempC:
		return "TEMP_C"
	default:
		return "UNASSIGNED"
	}
}

// IsTemp reports whether b names one of the library-managed scratch
// buffers.
func (b BufferIdentity) IsTemp() bool {
	return b == TempA || b == TempB || b == TempC
}
