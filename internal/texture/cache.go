package texture

import (
	"sync"

	"softengine/internal/logging"
)

// Resolver resolves a texture name to a decoded texture.
type Resolver interface {
	Resolve(texName string) *Texture
}

// Cache is a concurrency-safe texture cache. All textures it produces share
// one target size.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*Texture
	index  *Index
	width  int
	height int
}

// NewCache creates a texture cache backed by the given index.
func NewCache(index *Index, width, height int) *Cache {
	return &Cache{
		items:  make(map[string]*Texture),
		index:  index,
		width:  width,
		height: height,
	}
}

// Resolve loads and caches a texture by name. Returns nil if the name is not
// indexed. A file that fails to decode yields a texture without data, which
// samples white.
func (c *Cache) Resolve(texName string) *Texture {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if tex, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return tex
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	tex, err := Load(path, c.width, c.height)
	if err != nil {
		logging.Logger().Warn("texture fallback to white", "name", texName, "err", err)
		tex = New(c.width, c.height, nil)
	} else {
		logging.Logger().Info("texture loaded", "name", texName, "path", path)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing
	}
	c.items[path] = tex
	return tex
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
