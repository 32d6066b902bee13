// Package cache provides memoization for cell game solutions.
// Environments with repeated local structure, such as zero or uniform
// force fields, produce identical payoff matrices across many cells, so
// caching equilibria keyed by matrix content avoids re-solving them.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"github.com/traverse-xyz/go-traverse/game"
)

// SolutionCache caches game equilibria keyed by payoff matrix hash.
type SolutionCache struct {
	mu        sync.Mutex
	cache     map[string]*game.Equilibrium
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewSolutionCache creates a cache with the specified maximum size.
// When the cache is full an arbitrary entry is evicted. Set maxSize to
// 0 for an unbounded cache.
func NewSolutionCache(maxSize int) *SolutionCache {
	return &SolutionCache{
		cache:   make(map[string]*game.Equilibrium),
		maxSize: maxSize,
	}
}

// hashMatrix creates a deterministic hash of a payoff matrix.
func hashMatrix(m game.Matrix) string {
	h := sha256.New()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(len(m)))
	h.Write(buf)
	for _, row := range m {
		binary.BigEndian.PutUint64(buf, uint64(len(row)))
		h.Write(buf)
		for _, v := range row {
			binary.BigEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		}
	}
	return string(h.Sum(nil))
}

// Get retrieves a cached equilibrium for the given matrix.
// Returns nil if not found.
func (c *SolutionCache) Get(m game.Matrix) *game.Equilibrium {
	key := hashMatrix(m)

	c.mu.Lock()
	defer c.mu.Unlock()

	if eq, ok := c.cache[key]; ok {
		c.hits++
		return eq
	}
	c.misses++
	return nil
}

// Put stores an equilibrium in the cache.
func (c *SolutionCache) Put(m game.Matrix, eq *game.Equilibrium) {
	key := hashMatrix(m)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}

	c.cache[key] = eq
}

// Clear removes all entries from the cache.
func (c *SolutionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*game.Equilibrium)
}

// Size returns the current number of cached entries.
func (c *SolutionCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of the cache statistics.
func (c *SolutionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// CachedSolver wraps a game solver with equilibrium caching. Solutions
// are shared between identical matrices, which the Solver contract
// already requires to be interchangeable.
type CachedSolver struct {
	inner game.Solver
	cache *SolutionCache
}

// NewCachedSolver creates a caching wrapper around inner.
func NewCachedSolver(inner game.Solver, cacheSize int) *CachedSolver {
	return &CachedSolver{
		inner: inner,
		cache: NewSolutionCache(cacheSize),
	}
}

// Solve returns the cached equilibrium for m, solving on a miss.
func (s *CachedSolver) Solve(m game.Matrix) (*game.Equilibrium, error) {
	if eq := s.cache.Get(m); eq != nil {
		return eq, nil
	}
	eq, err := s.inner.Solve(m)
	if err != nil {
		return nil, err
	}
	s.cache.Put(m, eq)
	return eq, nil
}

// Name identifies the wrapped solver.
func (s *CachedSolver) Name() string {
	return s.inner.Name() + "+cache"
}

// Cache returns the underlying cache for inspection.
func (s *CachedSolver) Cache() *SolutionCache {
	return s.cache
}
