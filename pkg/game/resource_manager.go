package game

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"sync"

	"github.com/decker502/globe/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
	_ "golang.org/x/image/webp" // Register WebP decoder
	"golang.org/x/sync/errgroup"
)

// DefaultPreloadWorkers is the number of concurrent photo decoders used by PreloadImages.
const DefaultPreloadWorkers = 4

// ResourceManager is responsible for centralized management of scene resources.
// It provides loading and caching of destination photos and the UI font face,
// ensuring that resources are decoded only once and reused every frame.
//
// Features:
// - Image loading and caching (PNG, JPEG and WebP)
// - Concurrent photo preloading with a bounded worker count
// - Missing or corrupted photos are reported, never fatal
//
// Thread Safety Note:
// Decoding runs on worker goroutines, but ebiten images are created and cached on
// the calling goroutine after all workers finish. GetImage is intended for the
// game loop goroutine only.
//
// Usage:
//
//	rm := NewResourceManager()
//	loaded, failed, err := rm.PreloadImages(ctx, []string{"data/photos/paris.png"})
//	img := rm.GetImage("data/photos/paris.png")
type ResourceManager struct {
	imageCache map[string]*ebiten.Image // Cache for loaded images: path -> Image
	failed     map[string]error         // Paths that failed to load: path -> error
	face       text.Face                // Shared UI face (basicfont 7x13)
	workers    int
}

// NewResourceManager creates and initializes a new ResourceManager instance.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache: make(map[string]*ebiten.Image),
		failed:     make(map[string]error),
		face:       text.NewGoXFace(basicfont.Face7x13),
		workers:    DefaultPreloadWorkers,
	}
}

// SetPreloadWorkers overrides the number of concurrent decoders (minimum 1).
func (rm *ResourceManager) SetPreloadWorkers(n int) {
	if n < 1 {
		n = 1
	}
	rm.workers = n
}

// DecodeImage reads and decodes an image file without touching the cache.
// Paths under "data/" are served from the embedded filesystem when available.
//
// Returns:
//   - The decoded image.
//   - An error if the file cannot be read or the format is not supported.
func DecodeImage(path string) (image.Image, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: The file path to the image resource (e.g., "data/photos/paris.png").
//
// Returns:
//   - A pointer to the loaded ebiten.Image.
//   - An error if the file cannot be opened or decoded.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	img, err := DecodeImage(path)
	if err != nil {
		rm.failed[path] = err
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	delete(rm.failed, path)
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache.
// It returns nil for an empty key or an image that was never loaded,
// which callers treat as "draw a plain marker instead".
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	if rm == nil || path == "" {
		return nil
	}
	return rm.imageCache[path]
}

// LoadError returns the last load error recorded for path, or nil.
func (rm *ResourceManager) LoadError(path string) error {
	return rm.failed[path]
}

// Face returns the shared UI text face.
func (rm *ResourceManager) Face() text.Face {
	return rm.face
}

// PreloadImages decodes the given photos concurrently and caches them.
// Empty and duplicate paths are skipped. Individual failures are logged and
// recorded (see LoadError); they do not stop the other decoders.
//
// Returns:
//   - The number of images available in the cache after the call.
//   - The number of paths that failed to load.
//   - ctx.Err() if the context was cancelled before all decoders finished.
func (rm *ResourceManager) PreloadImages(ctx context.Context, paths []string) (loaded, failed int, err error) {
	pending := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if _, ok := rm.imageCache[p]; ok {
			loaded++
			continue
		}
		pending = append(pending, p)
	}

	decoded := make([]image.Image, len(pending))
	errs := make([]error, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rm.workers)

	var mu sync.Mutex
	done := 0
	for i, p := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := DecodeImage(p)
			decoded[i], errs[i] = img, err

			mu.Lock()
			done++
			log.Printf("[ResourceManager] Preload %d/%d: %s", done, len(pending), p)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	for i, p := range pending {
		switch {
		case errs[i] != nil:
			log.Printf("[ResourceManager] Warning: %v (falling back to marker)", errs[i])
			rm.failed[p] = errs[i]
			failed++
		case decoded[i] != nil:
			rm.imageCache[p] = ebiten.NewImageFromImage(decoded[i])
			delete(rm.failed, p)
			loaded++
		}
	}

	return loaded, failed, err
}
