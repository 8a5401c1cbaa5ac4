package texture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type controller struct {
	mu         sync.RWMutex
	searchDirs []string
	defaultExt string
	flipY      bool
	cache      map[string]*common.TextureStagingData
	// resolved absolute path -> cache key, used by Watch
	paths map[string]string

	// set while Watch runs; watched holds the absolute directories added to it
	watcher *fsnotify.Watcher
	watched map[string]bool
}

// Controller decodes texture images from disk and caches the RGBA result by filename.
type Controller interface {
	// LoadTexture decodes a texture from disk without touching the cache.
	// A filename without an extension gets the default extension (png).
	//
	// Parameters:
	//   - filename: a path, absolute or relative to one of the search directories
	//
	// Returns:
	//   - *common.TextureStagingData: RGBA pixels, bottom row first unless flipping is disabled
	//   - error: error if the file cannot be found or decoded
	LoadTexture(filename string) (*common.TextureStagingData, error)

	// Texture returns the cached texture for filename, loading and caching it on first use.
	// Failures are logged and yield nil; nil is never cached so a later call retries.
	//
	// Parameters:
	//   - filename: the texture filename
	//
	// Returns:
	//   - *common.TextureStagingData: the texture, or nil if it could not be loaded
	Texture(filename string) *common.TextureStagingData

	// Evict drops the cached entry for filename, if any.
	Evict(filename string)

	// Cached reports whether filename currently has a cache entry.
	Cached(filename string) bool

	// SearchDirs returns the directories relative filenames are resolved against.
	SearchDirs() []string

	// Watch evicts cached textures whose file is written, replaced or removed, until ctx is done.
	// Besides the search directories it watches the directory of every cached texture, including
	// textures loaded after Watch starts. It returns once the watcher is running; only one Watch
	// may run at a time.
	//
	// Parameters:
	//   - ctx: cancel to stop watching
	//
	// Returns:
	//   - error: error if the file watcher could not be started
	Watch(ctx context.Context) error
}

var _ Controller = &controller{}

// NewController creates a texture controller. Without search directories, names resolve against the working directory.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		defaultExt: ".png",
		flipY:      true,
		cache:      make(map[string]*common.TextureStagingData),
		paths:      make(map[string]string),
	}
	for _, opt := range options {
		opt(c)
	}
	if len(c.searchDirs) == 0 {
		c.searchDirs = []string{"."}
	}
	return c
}

func (c *controller) SearchDirs() []string {
	return c.searchDirs
}

func (c *controller) LoadTexture(filename string) (*common.TextureStagingData, error) {
	path, err := c.resolve(filename)
	if err != nil {
		return nil, err
	}
	return c.decode(path)
}

func (c *controller) Texture(filename string) *common.TextureStagingData {
	c.mu.RLock()
	tex, ok := c.cache[filename]
	c.mu.RUnlock()
	if ok {
		return tex
	}

	path, err := c.resolve(filename)
	if err == nil {
		tex, err = c.decode(path)
	}
	if err != nil {
		log.Printf("[Texture] Failed to load %s: %v", filename, err)
		return nil
	}

	c.mu.Lock()
	c.cache[filename] = tex
	if abs, absErr := filepath.Abs(path); absErr == nil {
		c.paths[abs] = filename
		if c.watcher != nil {
			if err := c.watchDirLocked(filepath.Dir(abs)); err != nil {
				log.Printf("[Texture] cannot watch %s: %v", filename, err)
			}
		}
	}
	c.mu.Unlock()
	log.Printf("[Texture] loaded texture: %s", filename)
	return tex
}

func (c *controller) Evict(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, filename)
	for path, key := range c.paths {
		if key == filename {
			delete(c.paths, path)
		}
	}
}

func (c *controller) Cached(filename string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.cache[filename]
	return ok
}

func (c *controller) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create texture watcher: %w", err)
	}

	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		watcher.Close()
		return fmt.Errorf("texture watcher already running")
	}
	c.watcher = watcher
	c.watched = make(map[string]bool)
	dirs := append([]string(nil), c.searchDirs...)
	// textures named with a subdirectory live outside the search directories
	for path := range c.paths {
		dirs = append(dirs, filepath.Dir(path))
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err == nil {
			err = c.watchDirLocked(abs)
		}
		if err != nil {
			c.watcher, c.watched = nil, nil
			c.mu.Unlock()
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.watcher, c.watched = nil, nil
			c.mu.Unlock()
			watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil {
					continue
				}
				c.mu.RLock()
				key, tracked := c.paths[abs]
				c.mu.RUnlock()
				if tracked {
					c.Evict(key)
					log.Printf("[Texture] %s changed on disk, evicted", key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[Texture] watcher error: %v", err)
			}
		}
	}()
	return nil
}

// watchDirLocked adds an absolute directory to the running watcher once. Caller must hold mu.
func (c *controller) watchDirLocked(dir string) error {
	if c.watched[dir] {
		return nil
	}
	if err := c.watcher.Add(dir); err != nil {
		return err
	}
	c.watched[dir] = true
	return nil
}

// resolve maps a texture filename onto an existing file.
//
// Parameters:
//   - filename: the requested name
//
// Returns:
//   - string: the path of the first match
//   - error: fs.ErrNotExist wrapped with the name when nothing matches
func (c *controller) resolve(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("empty texture filename: %w", fs.ErrNotExist)
	}
	name := filename
	if filepath.Ext(name) == "" {
		name += c.defaultExt
	}

	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("texture %s: %w", filename, err)
		}
		return name, nil
	}
	for _, dir := range c.searchDirs {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("texture %s not found in %v: %w", filename, c.searchDirs, fs.ErrNotExist)
}

// decode reads an image file into tightly packed RGBA rows.
func (c *controller) decode(path string) (*common.TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("texture %s has no pixels", path)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	pixels := rgba.Pix
	if c.flipY {
		pixels = flipRows(rgba.Pix, rgba.Stride, bounds.Dy())
	}
	return &common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// flipRows returns a copy of pix with the row order reversed.
func flipRows(pix []byte, stride, rows int) []byte {
	out := make([]byte, len(pix))
	for y := range rows {
		copy(out[(rows-1-y)*stride:(rows-y)*stride], pix[y*stride:(y+1)*stride])
	}
	return out
}
