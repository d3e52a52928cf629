// Package mathutil holds small, dependency-free numeric helpers shared by
// the Kernel Catalog and Node Tree Builder: integer factorization over a
// scheme-specific allowed-radix set, a power-of-two predicate used to
// decide between decomposition strategies, and GCD.
package mathutil

import "sort"

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Factorize returns the lexicographically-largest-first sequence of radices
// from allowed whose product equals n, per the Kernel Catalog's
// factorization algorithm (spec §4.1): among all factorizations into the
// allowed radix set, prefer fewer passes, and within equal pass count
// prefer the smallest maximum radix. Returns ok=false if n cannot be
// factored into the allowed set (the caller should fall back to
// Bluestein).
func Factorize(n int, allowed []int) (radices []int, ok bool) {
	if n <= 0 || len(allowed) == 0 {
		return nil, false
	}

	sorted := append([]int(nil), allowed...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	best := bestFactorization(n, sorted)
	if best == nil {
		return nil, false
	}

	return best, true
}

// bestFactorization performs a small branch-and-bound search: it explores
// every way to peel a radix from n (largest radix first, so that ties
// naturally produce a lexicographically-largest-first sequence), and keeps
// the candidate with fewest passes, then smallest maximum radix.
func bestFactorization(n int, radicesDesc []int) []int {
	memo := make(map[int][]int)

	var search func(m int) []int
	search = func(m int) []int {
		if m == 1 {
			return []int{}
		}
		if cached, ok := memo[m]; ok {
			return cached
		}

		var best []int
		for _, r := range radicesDesc {
			if r <= 1 || m%r != 0 {
				continue
			}
			rest := search(m / r)
			if rest == nil {
				continue
			}
			candidate := append([]int{r}, rest...)
			if best == nil || betterFactorization(candidate, best) {
				best = candidate
			}
		}

		memo[m] = best
		return best
	}

	return search(n)
}

// betterFactorization implements the tie-break policy from spec §4.1:
// fewer passes wins; equal pass count prefers the smaller maximum radix.
func betterFactorization(a, b []int) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return maxOf(a) < maxOf(b)
}

func maxOf(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
