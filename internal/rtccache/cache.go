// Package rtccache implements the RTC Cache (spec §4.2): a persistent
// key→bytes store mapping (kernel-name, GPU-arch, driver-version,
// generator-fingerprint) to a compiled device code object, backed by an
// embedded relational store so it survives process restarts, with a
// serialization envelope for moving the cache across processes (spec §6).
package rtccache

import (
	"database/sql"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	// Registers the "sqlite" database/sql driver; this is the only
	// sql.Open call site for it in the module.
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kernels (
	name       TEXT NOT NULL,
	arch       TEXT NOT NULL,
	driver_ver INTEGER NOT NULL,
	gen_fp     BLOB NOT NULL,
	code       BLOB NOT NULL,
	PRIMARY KEY (name, arch, driver_ver, gen_fp)
)`

// Cache is the process-wide RTC code-object store (spec §5: "the RTC
// Cache process-wide with internally serialized access"). Get and Put
// each hold their own mutex, mirroring the teacher's `rtccache.h` design
// of one mutex per prepared-statement handle so concurrent callers never
// stomp on each other's bound parameters; Deserialize takes an exclusive
// lock against both because it attaches a second schema to the
// connection.
type Cache struct {
	log zerolog.Logger

	path      string
	lockFile  *os.File
	memOnly   bool

	mu sync.RWMutex // guards db and degrade transitions
	db *sql.DB

	getMu         sync.Mutex
	putMu         sync.Mutex
	deserializeMu sync.Mutex

	// memory is the fallback store used once the backing file degrades to
	// in-memory-only mode (spec §4.2: "I/O errors on the backing file
	// degrade silently to in-memory-only mode").
	memory   map[memKey][]byte
	memoryMu sync.RWMutex
}

type memKey struct {
	name, arch string
	driverVer  int
	genFP      string
}

func (k Key) memKey() memKey {
	return memKey{name: k.KernelName, arch: k.GPUArch, driverVer: k.DriverVersion, genFP: string(k.GeneratorFP)}
}

// Open connects to (or creates) the sqlite-backed cache at path, taking an
// advisory cross-process file lock for its lifetime. An empty path opens
// an in-memory-only cache directly (no file, no lock) — used by tests and
// by callers who never configured CACHE_PATH.
func Open(path string, log zerolog.Logger) *Cache {
	c := &Cache{log: log, path: path, memory: make(map[memKey][]byte)}

	if path == "" {
		c.memOnly = true
		return c
	}

	if err := c.openBacking(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("rtccache: degrading to in-memory-only mode")
		c.memOnly = true
	}

	return c
}

func (c *Cache) openBacking() error {
	lockFile, err := os.OpenFile(c.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return errors.Wrap(err, "opening rtc cache lock file")
	}
	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		lockFile.Close()
		return errors.Wrap(err, "acquiring exclusive lock on rtc cache")
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		lockFile.Close()
		return errors.Wrap(err, "opening rtc cache database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		lockFile.Close()
		return errors.Wrap(err, "creating rtc cache schema")
	}

	c.lockFile = lockFile
	c.db = db
	return nil
}

// Close releases the database handle and the cross-process file lock.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.db != nil {
		err = c.db.Close()
		c.db = nil
	}
	if c.lockFile != nil {
		unix.Flock(int(c.lockFile.Fd()), unix.LOCK_UN)
		c.lockFile.Close()
		c.lockFile = nil
	}
	return err
}

// Get returns the code object for key, or (nil, false) if no entry
// matches (spec §4.2: "a missing key is an ordinary result, not an
// error").
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.getMu.Lock()
	defer c.getMu.Unlock()

	if c.isMemOnly() {
		c.memoryMu.RLock()
		defer c.memoryMu.RUnlock()
		code, ok := c.memory[key.memKey()]
		return code, ok
	}

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	row := db.QueryRow(
		`SELECT code FROM kernels WHERE name = ? AND arch = ? AND driver_ver = ? AND gen_fp = ?`,
		key.KernelName, key.GPUArch, key.DriverVersion, key.GeneratorFP,
	)

	var code []byte
	if err := row.Scan(&code); err != nil {
		if err != sql.ErrNoRows {
			c.log.Warn().Err(err).Msg("rtccache: get failed, treating as cache miss")
		}
		return nil, false
	}
	return code, true
}

// Put stores code under key. Idempotent: a duplicate insert is a no-op
// (spec §4.2).
func (c *Cache) Put(key Key, code []byte) {
	c.putMu.Lock()
	defer c.putMu.Unlock()

	if c.isMemOnly() {
		c.memoryMu.Lock()
		defer c.memoryMu.Unlock()
		mk := key.memKey()
		if _, exists := c.memory[mk]; !exists {
			c.memory[mk] = code
		}
		return
	}

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()

	_, err := db.Exec(
		`INSERT OR IGNORE INTO kernels (name, arch, driver_ver, gen_fp, code) VALUES (?, ?, ?, ?, ?)`,
		key.KernelName, key.GPUArch, key.DriverVersion, key.GeneratorFP, code,
	)
	if err != nil {
		c.log.Warn().Err(err).Msg("rtccache: put failed, entry not persisted")
	}
}

func (c *Cache) isMemOnly() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.memOnly
}
