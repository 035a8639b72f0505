package imageio

import (
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for extensions no registered format handles
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrLossyFormat is returned when asked to write a format that would destroy the bit-plane
	ErrLossyFormat = errors.New("lossy image format cannot carry hidden data")
)

// DecodeFunc reads a raster from r
type DecodeFunc func(r io.Reader) (image.Image, error)

// EncodeFunc writes a raster to w
type EncodeFunc func(w io.Writer, img image.Image) error

// Format describes one image file format
type Format struct {
	Name       string
	Extensions []string // lower case, with leading dot
	Lossless   bool
	Decode     DecodeFunc
	Encode     EncodeFunc // nil when the format is read only
}

// CanWrite reports whether hidden data survives writing in this format
func (f *Format) CanWrite() bool {
	return f.Encode != nil && f.Lossless
}

// Registry is a container for all known image formats
type Registry struct {
	byExt  map[string]*Format
	byName map[string]*Format
	mu     sync.RWMutex
}

// NewRegistry creates an empty format registry
func NewRegistry() *Registry {
	return &Registry{
		byExt:  make(map[string]*Format),
		byName: make(map[string]*Format),
	}
}

// Register adds a format to the registry, replacing any format of the same name or extension
func (r *Registry) Register(f *Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[f.Name] = f
	for _, ext := range f.Extensions {
		r.byExt[strings.ToLower(ext)] = f
	}
}

// ForExtension returns the format registered for a file extension such as ".png"
func (r *Registry) ForExtension(ext string) (*Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byExt[strings.ToLower(ext)]
	return f, ok
}

// ForName returns the format registered under name
func (r *Registry) ForName(name string) (*Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byName[name]
	return f, ok
}

// SupportedFormats returns the names of all registered formats, sorted
func (r *Registry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the formats used by Load and Save
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Format{
		Name:       "png",
		Extensions: []string{".png"},
		Lossless:   true,
		Decode:     png.Decode,
		Encode:     png.Encode,
	})
	r.Register(&Format{
		Name:       "bmp",
		Extensions: []string{".bmp"},
		Lossless:   true,
		Decode:     bmp.Decode,
		Encode:     bmp.Encode,
	})
	r.Register(&Format{
		Name:       "tiff",
		Extensions: []string{".tif", ".tiff"},
		Lossless:   true,
		Decode:     tiff.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		},
	})
	r.Register(&Format{
		Name:       "jpeg",
		Extensions: []string{".jpg", ".jpeg"},
		Decode:     jpeg.Decode,
	})
	r.Register(&Format{
		Name:       "gif",
		Extensions: []string{".gif"},
		Decode:     gif.Decode,
	})
	r.Register(&Format{
		Name:       "webp",
		Extensions: []string{".webp"},
		Decode:     webp.Decode,
	})
	return r
}
