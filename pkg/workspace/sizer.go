package workspace

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/colcontools/wsman/pkg/cache"
)

// DefaultSizeTTL bounds how stale a cached package size may be.
const DefaultSizeTTL = 15 * time.Minute

// Sizer computes package sizes with a cache in front of the tree walk.
type Sizer struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSizer creates a sizer backed by c. A nil cache disables caching.
func NewSizer(c cache.Cache, ttl time.Duration) *Sizer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultSizeTTL
	}
	return &Sizer{cache: c, ttl: ttl}
}

// PackageSize returns the disk usage of pkg, consulting the cache first.
// Cache entries are keyed by the manifest contents so editing a
// package.xml invalidates the entry immediately; other tree changes age
// out with the TTL.
func (s *Sizer) PackageSize(ctx context.Context, pkg Package) int64 {
	key := s.key(pkg)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		if size, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return size
		}
	}

	size := DirSize(pkg.Path)
	_ = s.cache.Set(ctx, key, []byte(strconv.FormatInt(size, 10)), s.ttl)
	return size
}

// Sizes computes sizes for every package in the workspace.
func (s *Sizer) Sizes(ctx context.Context, ws *Workspace) map[string]int64 {
	sizes := make(map[string]int64, len(ws.Packages))
	for name, pkg := range ws.Packages {
		sizes[name] = s.PackageSize(ctx, pkg)
	}
	return sizes
}

func (s *Sizer) key(pkg Package) string {
	hash := ""
	if data, err := os.ReadFile(pkg.ManifestPath); err == nil {
		hash = cache.Hash(data)
	}
	return cache.SizeKey(pkg.Name, hash)
}
