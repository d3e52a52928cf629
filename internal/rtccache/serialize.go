package rtccache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"

	"github.com/rocgofft/rocgofft/internal/errs"
)

// magic and version form the 16-byte-magic + 4-byte-version envelope
// prefix spec §6 requires for the serialized cache.
var magic = [16]byte{'R', 'O', 'C', 'G', 'O', 'F', 'F', 'T', '_', 'R', 'T', 'C', 'C', 'A', 'C', 'H'}

const envelopeVersion uint32 = 1

// Serialize produces a self-describing snapshot of the cache (spec §4.2
// "serialize() / deserialize(bytes) — move the cache across processes or
// preload at startup"; spec §6: "the store's native backup format
// prefixed by a 16-byte magic header and 4-byte version").
func (c *Cache) Serialize() ([]byte, error) {
	var payload []byte
	var err error

	if c.isMemOnly() {
		payload, err = c.serializeMemory()
	} else {
		payload, err = c.serializeDB()
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 16+4+len(payload))
	out = append(out, magic[:]...)
	out = binary.BigEndian.AppendUint32(out, envelopeVersion)
	out = append(out, payload...)
	return out, nil
}

// Deserialize merges a snapshot previously produced by Serialize into the
// cache; a key already present keeps its code object, as with Put. It
// holds deserializeMu, getMu and putMu for the duration, so no Get or Put
// runs alongside it, matching rtccache.h's rationale ("attaches a
// fixed-name schema to the db and we don't want a collision").
func (c *Cache) Deserialize(data []byte) error {
	c.deserializeMu.Lock()
	defer c.deserializeMu.Unlock()
	c.getMu.Lock()
	defer c.getMu.Unlock()
	c.putMu.Lock()
	defer c.putMu.Unlock()

	if len(data) < 20 {
		return errors.Wrap(errs.ErrInvalidArgument, "rtc cache payload shorter than envelope header")
	}
	if !bytes.Equal(data[:16], magic[:]) {
		return errors.Wrap(errs.ErrInvalidArgument, "rtc cache payload has wrong magic header")
	}
	version := binary.BigEndian.Uint32(data[16:20])
	if version != envelopeVersion {
		return errors.Wrapf(errs.ErrInvalidArgument, "rtc cache payload version %d unsupported", version)
	}
	payload := data[20:]

	if c.isMemOnly() {
		return c.deserializeMemory(payload)
	}
	return c.deserializeDB(payload)
}

// --- in-memory-only path ----------------------------------------------

type memoryDump struct {
	Entries []memoryEntry
}

type memoryEntry struct {
	Name, Arch string
	DriverVer  int
	GenFP      string
	Code       []byte
}

func (c *Cache) serializeMemory() ([]byte, error) {
	c.memoryMu.RLock()
	defer c.memoryMu.RUnlock()

	dump := memoryDump{Entries: make([]memoryEntry, 0, len(c.memory))}
	for k, code := range c.memory {
		dump.Entries = append(dump.Entries, memoryEntry{Name: k.name, Arch: k.arch, DriverVer: k.driverVer, GenFP: k.genFP, Code: code})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dump); err != nil {
		return nil, errors.Wrap(err, "encoding in-memory rtc cache snapshot")
	}
	return buf.Bytes(), nil
}

func (c *Cache) deserializeMemory(payload []byte) error {
	var dump memoryDump
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&dump); err != nil {
		return errors.Wrap(errs.ErrInvalidArgument, "decoding in-memory rtc cache snapshot: "+err.Error())
	}

	c.memoryMu.Lock()
	defer c.memoryMu.Unlock()
	for _, e := range dump.Entries {
		mk := memKey{name: e.Name, arch: e.Arch, driverVer: e.DriverVer, genFP: e.GenFP}
		if _, exists := c.memory[mk]; !exists {
			c.memory[mk] = e.Code
		}
	}
	return nil
}

// --- sqlite-backed path -------------------------------------------------

// serializeDB uses sqlite's VACUUM INTO to produce a standalone copy of
// the database file's bytes — this is the "native backup format" spec §6
// names, regardless of whether the live connection is itself file- or
// memory-backed.
func (c *Cache) serializeDB() ([]byte, error) {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	tmp, err := os.CreateTemp("", "rocgofft-rtccache-*.sqlite")
	if err != nil {
		return nil, errors.Wrap(err, "creating rtc cache vacuum temp file")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	if _, err := db.Exec(`VACUUM INTO ?`, tmpPath); err != nil {
		return nil, errors.Wrap(err, "vacuuming rtc cache to temp file")
	}

	return os.ReadFile(tmpPath)
}

// deserializeDB attaches the incoming snapshot as a second schema and
// merges its rows in, rather than replacing the live connection outright,
// so a failure partway through cannot leave the cache without a usable
// database handle.
func (c *Cache) deserializeDB(payload []byte) error {
	tmp, err := os.CreateTemp("", "rocgofft-rtccache-incoming-*.sqlite")
	if err != nil {
		return errors.Wrap(err, "creating rtc cache incoming temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return errors.Wrap(errs.ErrInvalidArgument, "writing rtc cache incoming snapshot: "+err.Error())
	}
	tmp.Close()

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	if _, err := db.Exec(`ATTACH DATABASE ? AS incoming`, tmpPath); err != nil {
		return errors.Wrap(errs.ErrInvalidArgument, "attaching rtc cache incoming snapshot: "+err.Error())
	}
	defer db.Exec(`DETACH DATABASE incoming`)

	_, err = db.Exec(`INSERT OR IGNORE INTO kernels SELECT name, arch, driver_ver, gen_fp, code FROM incoming.kernels`)
	if err != nil {
		return errors.Wrap(errs.ErrInvalidArgument, "merging rtc cache incoming snapshot: "+err.Error())
	}

	return nil
}
