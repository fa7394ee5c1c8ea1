package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Digest is a sha256 content hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// HashBytes returns the digest of a byte slice.
func HashBytes(data []byte) Digest { return sha256.Sum256(data) }

// Cache хранит результаты анализа по хешу (образ + конфиг) на диске.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// cachePayload stores resolved function boundaries for fast re-runs.
type cachePayload struct {
	Schema     uint16
	ImageHash  Digest
	ConfigHash Digest
	Functions  []Function
}

// NewCache creates (or reuses) a cache directory.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(imageHash, configHash Digest) string {
	key := sha256.Sum256(append(imageHash[:], configHash[:]...))
	return filepath.Join(c.dir, hex.EncodeToString(key[:16])+".bin")
}

// Load returns cached analysis results, or ok=false when absent or stale.
func (c *Cache) Load(imageHash, configHash Digest) ([]*Function, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(imageHash, configHash)) // #nosec G304 -- path is cache-owned
	if err != nil {
		return nil, false
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	// Stale on any mismatch: schema bumps and hash drift both invalidate.
	if payload.Schema != cacheSchemaVersion ||
		payload.ImageHash != imageHash || payload.ConfigHash != configHash {
		return nil, false
	}
	out := make([]*Function, len(payload.Functions))
	for i := range payload.Functions {
		fn := payload.Functions[i]
		out[i] = &fn
	}
	return out, true
}

// Store persists analysis results; failure to cache is not fatal to a run.
func (c *Cache) Store(imageHash, configHash Digest, funcs []*Function) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{
		Schema:     cacheSchemaVersion,
		ImageHash:  imageHash,
		ConfigHash: configHash,
		Functions:  make([]Function, len(funcs)),
	}
	for i, fn := range funcs {
		if fn == nil {
			return errors.New("nil function in analysis results")
		}
		payload.Functions[i] = *fn
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("encode analysis cache: %w", err)
	}
	if err := os.WriteFile(c.path(imageHash, configHash), data, 0o600); err != nil {
		return fmt.Errorf("write analysis cache: %w", err)
	}
	return nil
}
