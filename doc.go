// Package rocgofft is a Go-native plan-construction library for batched,
// strided, multidimensional FFTs on an AMD-GPU-style device backend
// (spec §1): it turns a validated Transform Description into a tree of
// catalog-backed kernel launches, fuses adjacent leaves where the catalog
// and LDS budget allow, assigns a bounded pool of temporary buffers, and
// dispatches the result through a pluggable device.Launcher.
//
// The package itself is a thin facade over internal/plantree (Node Tree
// Builder), internal/fuseshim (Fuse-Shim Pass), internal/bufassign (Buffer
// Assigner), internal/catalog and internal/twiddle (kernel catalog and
// twiddle factory), internal/rtccache (runtime-compilation cache), and
// internal/executor (plan lifecycle and dispatch). See DESIGN.md for how
// each piece is grounded.
package rocgofft
