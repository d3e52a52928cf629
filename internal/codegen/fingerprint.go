package codegen

import (
	_ "embed"
	"encoding/json"

	"crypto/sha256"

	"github.com/pkg/errors"
)

// generatorVersion is the generator's version marker, embedded from
// generator_version.txt. Changing that file changes every fingerprint, so
// cached code objects from an earlier generator no longer match even when
// the Spec that produced them is unchanged (spec §4.2's cache key is
// "generator-fingerprint", not just the problem shape). The marker is kept
// by hand: an edit to Generate that leaves generator_version.txt as it is
// leaves every fingerprint unchanged.
//
//go:embed generator_version.txt
var generatorVersion []byte

// Fingerprint hashes a Spec together with the generator's own version
// marker, producing the generator-fingerprint the RTC Cache keys on.
func Fingerprint(s Spec) ([32]byte, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "marshaling codegen spec for fingerprinting")
	}

	h := sha256.New()
	h.Write(generatorVersion)
	h.Write(encoded)

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
