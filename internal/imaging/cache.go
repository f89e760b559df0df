package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
)

type cachedImage struct {
	img    image.Image
	format string
}

// ImageCache keeps decoded images keyed by file path.
//
// It is safe for concurrent use. Paths are used verbatim, so a relative and
// an absolute path to the same file occupy two entries.
//
// A bounded cache drops its oldest entry when full. An unbounded cache
// grows until Evict is called.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cachedImage
	order   []string
	limit   int
}

// NewImageCache returns an unbounded cache.
func NewImageCache() *ImageCache {
	return NewBoundedImageCache(0)
}

// NewBoundedImageCache returns a cache holding at most limit images. A
// limit of 0 or less means no bound.
func NewBoundedImageCache(limit int) *ImageCache {
	return &ImageCache{
		entries: make(map[string]cachedImage),
		limit:   limit,
	}
}

// Load returns the image at path, decoding it on first use. PNG, JPEG and
// GIF are supported.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	e = cachedImage{img: img, format: format}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[path]; ok {
		// Another goroutine decoded it first.
		return existing, nil
	}
	if c.limit > 0 && len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[path] = e
	c.order = append(c.order, path)
	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict drops one image. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; !ok {
		return
	}
	delete(c.entries, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
