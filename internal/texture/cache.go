package texture

import (
	"errors"
	"image"
	"sync"

	"github.com/golang/glog"
)

// ErrNotFound is returned by a Loader that has no image for a sprite.
var ErrNotFound = errors.New("texture: sprite image not found")

// Loader produces the reconstructed image of one sprite.
type Loader interface {
	LoadSprite(name string) (*image.NRGBA, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (*image.NRGBA, error)

// LoadSprite implements Loader.
func (f LoaderFunc) LoadSprite(name string) (*image.NRGBA, error) { return f(name) }

// Resolver resolves a sprite name to a decoded RGBA image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a per-bundle sprite image cache. A failed load is remembered as
// missing so it is not retried within the same bundle.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*cacheEntry
	loader Loader
}

type cacheEntry struct {
	img    *image.NRGBA
	loaded bool // true if we've attempted to load (img may still be nil)
}

// NewCache creates a new sprite cache backed by the given loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		items:  make(map[string]*cacheEntry),
		loader: loader,
	}
}

// Resolve loads and caches a sprite image by name. Returns nil if missing.
func (c *Cache) Resolve(name string) *image.NRGBA {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[name]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load
	img, err := c.loader.LoadSprite(name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			glog.Warningf("loading sprite %q: %v", name, err)
		}
		img = nil
	}

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[name]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[name] = &cacheEntry{img: img, loaded: true}
	c.mu.Unlock()

	return img
}

// Missing reports whether name was looked up and found missing.
func (c *Cache) Missing(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.items[name]
	return ok && entry.loaded && entry.img == nil
}

// Len returns the number of cached lookups, including misses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
