package fieldpath

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 1024

// Cache memoizes parsed paths. Paths are immutable, so cached values are
// shared freely. A Cache is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, Path]
}

// NewCache creates a cache holding at most size parsed paths.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	entries, err := lru.New[string, Path](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create path cache: %w", err)
	}

	return &Cache{entries: entries}, nil
}

// Parse returns the cached parse of text, parsing and storing it on a miss.
// Parse errors are not cached. A nil Cache parses without memoizing.
func (c *Cache) Parse(text string) (Path, error) {
	if c == nil {
		return Parse(text)
	}

	if p, ok := c.entries.Get(text); ok {
		return p, nil
	}

	p, err := Parse(text)
	if err != nil {
		return Path{}, err
	}

	c.entries.Add(text, p)

	return p, nil
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	return c.entries.Len()
}
