// Package cache provides byte-oriented caching with pluggable backends.
//
// wsman uses the cache to remember expensive per-package results between
// runs, most notably directory size accounting, which walks every file in
// a package. Entries are keyed by content hashes so a package that has not
// changed is never re-measured.
//
// Three backends implement the same interface:
//   - FileCache: on-disk entries under the XDG cache directory (CLI default)
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL-based expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SizeKey builds the cache key for a package's directory size accounting.
// The key incorporates the manifest hash, so editing a package.xml (the
// cheapest proxy for "the package changed") invalidates the entry.
func SizeKey(pkgName, manifestHash string) string {
	return hashKey("size", pkgName, manifestHash)
}

// ScanKey builds the cache key for a full workspace scan snapshot.
func ScanKey(workspaceRoot string) string {
	return hashKey("scan", workspaceRoot)
}
