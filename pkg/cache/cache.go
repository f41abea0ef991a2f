// Package cache stores contraction results and rendered artifacts.
//
// Contractions are deterministic: the same graph and options always produce
// the same mapping. Results are therefore cached under a key derived from the
// graph's content hash and the options, so repeated runs over a large graph
// skip the work entirely.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: persistent cache with TTL indexes
//   - [BadgerCache]: embedded persistent store for a single server
//   - [NullCache]: caching disabled
//
// [Open] picks a backend by name.
//
// # Keys
//
// A [Keyer] builds cache keys. [DefaultKeyer] hashes the options with
// SHA-256; [ScopedKeyer] prefixes every key for namespace isolation.
package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLContraction = 7 * 24 * time.Hour
	TTLRender      = 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend       string
	Dir           string // file and badger backends
	RedisAddr     string // redis backend
	MongoURI      string // mongo backend
	MongoDatabase string // mongo backend
}

// Open creates the cache backend named by opts.Backend.
// An empty backend name selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr)
	case BackendMongo:
		return NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendBadger:
		return NewBadgerCache(opts.Dir)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
}
