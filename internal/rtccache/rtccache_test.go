package rtccache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func testKey() Key {
	return Key{KernelName: "rocfft_stockham_len1024", GPUArch: "gfx942", DriverVersion: 60200, GeneratorFP: []byte{1, 2, 3, 4}}
}

// TestS5CacheRoundTrip covers spec scenario S5: serialize a populated
// cache, wipe in-memory state, deserialize, and confirm get(K) returns the
// original bytes.
func TestS5CacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := Open("", zerolog.Nop())
	key := testKey()
	want := []byte{0xde, 0xad, 0xbe, 0xef}

	if _, ok := c.Get(key); ok {
		t.Fatal("Get() on an empty cache should miss")
	}

	c.Put(key, want)
	snapshot, err := c.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	// Wipe in-memory state by opening a fresh cache and deserializing into
	// it, simulating a new process.
	fresh := Open("", zerolog.Nop())
	if err := fresh.Deserialize(snapshot); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	got, ok := fresh.Get(key)
	if !ok {
		t.Fatal("Get() after Deserialize() should find the restored entry")
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Get() after round-trip = %v, want %v", got, want)
	}
}

func TestPutIsIdempotent(t *testing.T) {
	t.Parallel()

	c := Open("", zerolog.Nop())
	key := testKey()

	c.Put(key, []byte{1})
	c.Put(key, []byte{2}) // duplicate insert must be a no-op

	got, ok := c.Get(key)
	if !ok || got[0] != 1 {
		t.Fatalf("Get() after duplicate Put() = (%v, %v), want first write to win", got, ok)
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	t.Parallel()

	c := Open("", zerolog.Nop())
	if err := c.Deserialize([]byte("not a valid rtc cache payload at all")); err == nil {
		t.Fatal("Deserialize() with a bad magic header = nil error, want error")
	}
}

func TestOpenDegradesToMemoryOnUnwritablePath(t *testing.T) {
	t.Parallel()

	// A path inside a nonexistent directory can never be opened.
	c := Open(filepath.Join("/nonexistent-rocgofft-dir", "cache.sqlite"), zerolog.Nop())

	key := testKey()
	c.Put(key, []byte{9, 9})
	got, ok := c.Get(key)
	if !ok || !bytes.Equal(got, []byte{9, 9}) {
		t.Fatal("degraded cache should still serve get/put from its in-memory fallback")
	}
}
