// Package twiddle implements the Twiddle Factory (spec §4.3): it produces
// the roots-of-unity tables a plan's leaves need before they can be
// dispatched, deduplicated per (length, precision, kind) within a plan.
// Tables always use the forward-transform sign convention
// (e^{-2πi k/N}); an inverse leaf's kernel conjugates on use rather than
// requesting a second table, so dedup does not key on direction.
package twiddle

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Kind distinguishes the three table shapes spec §4.3 names.
type Kind uint8

const (
	KindSmall Kind = iota
	KindLarge
	KindRadixPass
)

// Key identifies one cached table within a plan's Factory.
type Key struct {
	Kind      Kind
	N         int
	N1, N2    int
	Precision plantree.Precision
}

// Table is a materialized twiddle table, ready to be uploaded to a device
// buffer by the Executor before the leaf referencing it dispatches.
type Table struct {
	Key    Key
	Values []complex128
}

// Factory owns a plan's twiddle tables and deduplicates by Key (spec §4.3:
// "keyed and deduplicated per (N, precision, kind) within a plan"),
// mirroring the teacher's per-plan cache-field ownership rather than a
// process-wide cache — twiddle tables have plan lifetime, unlike the RTC
// Cache's process lifetime (spec §3 "Lifecycles").
type Factory struct {
	mu    sync.Mutex
	cache map[Key]*Table
}

// New returns an empty per-plan Factory.
func New() *Factory {
	return &Factory{cache: make(map[Key]*Table)}
}

// Small returns the length-n small-twiddle table for a Stockham-family
// leaf, computing it on first request and reusing it thereafter.
func (f *Factory) Small(n int, p plantree.Precision) *Table {
	key := Key{Kind: KindSmall, N: n, Precision: p}

	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.cache[key]; ok {
		return t
	}

	values := make([]complex128, n)
	for k := 0; k < n; k++ {
		values[k] = rootOfUnity(k, n)
	}
	t := &Table{Key: key, Values: values}
	f.cache[key] = t
	return t
}

// Large returns the two-factor 3-step twiddle table for a block-CC leaf
// decomposing a 1D transform of length n1*n2 (spec §4.3: "for 3-step
// large twiddles, produces the two-factor table"). Entry [j*n2+k] holds
// W_{n1*n2}^{j*k} for j in [0, n1), k in [0, n2).
func (f *Factory) Large(n1, n2 int, p plantree.Precision) *Table {
	key := Key{Kind: KindLarge, N1: n1, N2: n2, Precision: p}

	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.cache[key]; ok {
		return t
	}

	n := n1 * n2
	values := make([]complex128, n1*n2)
	for j := 0; j < n1; j++ {
		for k := 0; k < n2; k++ {
			values[j*n2+k] = rootOfUnity(j*k, n)
		}
	}
	t := &Table{Key: key, Values: values}
	f.cache[key] = t
	return t
}

// RadixPasses returns one per-pass subtable for a mixed-radix Stockham
// decomposition n = radices[0]*radices[1]*...*radices[len-1] (spec §4.3:
// "for radix-specific Stockham butterflies, produces per-pass
// subtables"). Pass i's table has (Lprev * radices[i]) entries, where
// Lprev is the product of the radices already applied.
func (f *Factory) RadixPasses(n int, radices []int, p plantree.Precision) []*Table {
	tables := make([]*Table, len(radices))
	lprev := 1

	for i, r := range radices {
		key := Key{Kind: KindRadixPass, N: n, N1: lprev, N2: r, Precision: p}

		f.mu.Lock()
		t, ok := f.cache[key]
		if !ok {
			values := make([]complex128, lprev*r)
			pass := lprev * r
			for j := 0; j < lprev; j++ {
				for k := 0; k < r; k++ {
					values[j*r+k] = rootOfUnity(j*k, pass)
				}
			}
			t = &Table{Key: key, Values: values}
			f.cache[key] = t
		}
		f.mu.Unlock()

		tables[i] = t
		lprev *= r
	}

	return tables
}

// Len returns the number of distinct tables currently cached, for tests
// verifying dedup behavior.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

func rootOfUnity(k, n int) complex128 {
	theta := -2 * math.Pi * float64(k) / float64(n)
	return cmplx.Exp(complex(0, theta))
}
