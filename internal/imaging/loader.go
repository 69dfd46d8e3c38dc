package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded source images.
//
// Images are keyed by the exact path string passed to Load. The MCP server
// keeps one cache for its lifetime so that inspecting a layout, previewing
// it and slicing the same image decode the file only once.
//
// Every Load stats the file; a changed modification time or size replaces
// the cached image. Entries otherwise stay until Evict is called.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// cachedImage is a decoded image and the file state it was decoded from.
type cachedImage struct {
	img     image.Image
	modTime time.Time
	size    int64
}

func (e cachedImage) matches(fi os.FileInfo) bool {
	return e.modTime.Equal(fi.ModTime()) && e.size == fi.Size()
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the cached image for path, decoding it from disk on first use
// or when the file has changed since it was cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	if e, ok := c.images[path]; ok && e.matches(fi) {
		c.mu.RUnlock()
		return e.img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, modTime: fi.ModTime(), size: fi.Size()}
	c.mu.Unlock()

	return img, nil
}

// Evict removes the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Load opens and decodes an image file without caching it.
//
// PNG, JPEG, GIF, BMP and TIFF are decoded by disintegration/imaging; WebP
// is registered from golang.org/x/image. EXIF orientation is not applied, so
// the pixel grid matches the file exactly.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Decode decodes an encoded image held in memory.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension, lower-cased
	// ("png", "jpeg", ...), or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and reports its size,
// format and file size.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	} else if strings.EqualFold(filepath.Ext(path), ".webp") {
		format = "webp"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
