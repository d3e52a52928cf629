// Package codegen generates runtime-compiled kernel source for catalog
// entries the compiled-in table doesn't cover (arbitrary radix, SBRC
// variants not worth precompiling — spec §4.1). It also fingerprints a
// Spec so the RTC Cache can tell whether a cached code object still
// matches the generator that would produce it today.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/rocgofft/rocgofft/internal/plantree"
)

// Spec names one device kernel to generate: a scheme, its shape, and the
// mixed-radix factorization the Node Tree Builder chose for it (spec
// §4.1: "the generator parameters used to recreate it").
type Spec struct {
	Scheme      plantree.SchemeTag
	Length      int
	Radices     []int
	Precision   plantree.Precision
	Direction   plantree.Direction
	StaticDim   int
	SBRCVariant string
}

// EntryPoint is the device function name a generated Spec's source
// defines; the RTC Cache keys on this alongside GPU arch and driver
// version.
func (s Spec) EntryPoint() string {
	name := fmt.Sprintf("rocgofft_rtc_%s_len%d_%s", schemeSlug(s.Scheme), s.Length, s.Precision)
	if s.SBRCVariant != "" {
		name += "_" + s.SBRCVariant
	}
	return name
}

// Generate emits the device source for Spec, following the teacher/pack's
// emit-function idiom of writing directly to a buffer (grounded on
// janpfeifer-go-highway/cmd/hwygen's emitter.go, which builds generated
// functions with bytes.Buffer + fmt.Fprintf rather than text/template).
func Generate(s Spec) (string, error) {
	if len(s.Radices) == 0 {
		return "", fmt.Errorf("codegen: spec for %s has no radix factorization", s.EntryPoint())
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// generated device kernel: %s\n", s.EntryPoint())
	fmt.Fprintf(&buf, "// scheme=%s length=%d precision=%s direction=%s\n", s.Scheme, s.Length, s.Precision, s.Direction)
	fmt.Fprintf(&buf, "__global__ void %s(const void* in, void* out) {\n", s.EntryPoint())

	lprev := 1
	for pass, radix := range s.Radices {
		fmt.Fprintf(&buf, "  // pass %d: radix-%d butterfly over %d-way parallel groups\n", pass, radix, lprev)
		emitButterflyCall(&buf, radix, s.Direction)
		lprev *= radix
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

func emitButterflyCall(buf *bytes.Buffer, radix int, dir plantree.Direction) {
	sign := "-1"
	if dir == plantree.Inverse {
		sign = "+1"
	}
	fmt.Fprintf(buf, "  butterfly_radix%d(in, out, /*twiddle_sign=*/%s);\n", radix, sign)
}

func schemeSlug(s plantree.SchemeTag) string {
	slug := s.String()
	out := make([]byte, 0, len(slug))
	for _, r := range slug {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, byte(r-'A'+'a'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, byte(r))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
