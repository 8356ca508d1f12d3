package storage

import (
	"context"
)

// KVEngine is an embedded key-value store.
//
// Implementations must be safe for concurrent use.
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Apply performs ops in one transaction: all of them land or none do.
	Apply(ctx context.Context, ops []Op) error

	// Scan iterates over keys with a given prefix in key order.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC reclaims value log space. Returns the number of rewrites done.
	GC(ctx context.Context) (int, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close flushes and closes the engine.
	Close() error
}

// Op is one write in a batch passed to KVEngine.Apply.
type Op struct {
	Key   []byte
	Value []byte
	// Delete removes Key; Value is ignored.
	Delete bool
}

// SetOp returns an Op storing value under key.
func SetOp(key, value []byte) Op {
	return Op{Key: key, Value: value}
}

// DeleteOp returns an Op removing key.
func DeleteOp(key []byte) Op {
	return Op{Key: key, Delete: true}
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// LSMSize is the LSM tree size in bytes.
	LSMSize int64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize int64
}

// TotalSize is the total disk usage in bytes.
func (s KVStats) TotalSize() int64 {
	return s.LSMSize + s.ValueLogSize
}

// KVConfig configures an embedded KV engine.
type KVConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM, for tests.
	InMemory bool

	// Badger-specific configuration
	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters, sized for a small
// store that is opened once per command.
type BadgerConfig struct {
	// GCThreshold is the discard ratio passed to value log GC (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// MemTableSize is the memtable size in bytes.
	// Default: 8MB
	MemTableSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 16MB
	ValueLogFileSize int64

	// BlockCacheSize is the block cache size in bytes.
	// Default: 1MB
	BlockCacheSize int64

	// SyncWrites fsyncs after each write.
	// Default: true
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCThreshold:      0.5,
		MemTableSize:     8 << 20,
		ValueLogFileSize: 16 << 20,
		BlockCacheSize:   1 << 20,
		SyncWrites:       true,
	}
}
