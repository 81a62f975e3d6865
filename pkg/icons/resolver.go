package icons

import (
	"math"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// HicolorTheme is searched after every requested theme
const HicolorTheme = "hicolor"

// DefaultSize is the nominal icon size looked for when none is configured
const DefaultSize = 48

const defaultCacheSize = 1024

// Extensions are tried in this order inside each theme directory
var Extensions = []string{".png", ".svg", ".xpm"}

// Options configures a Resolver
type Options struct {
	// BaseDirs are the icon theme roots in lookup order
	BaseDirs []string
	// PixmapDirs hold unthemed icons, searched last
	PixmapDirs []string
	Size       int
	CacheSize  int
}

// DefaultOptions returns the XDG icon locations and a 48px target
func DefaultOptions() Options {
	return Options{
		BaseDirs:   paths.IconBaseDirs(),
		PixmapDirs: paths.PixmapDirs(),
		Size:       DefaultSize,
		CacheSize:  defaultCacheSize,
	}
}

type lookupResult struct {
	path  string
	found bool
}

// Resolver looks icons up by name. It only reads the filesystem and is safe
// for concurrent use.
type Resolver struct {
	fs      filesystem.FS
	opts    Options
	themes  *lru.Cache[string, *theme]
	lookups *lru.Cache[string, lookupResult]
}

// NewResolver creates a resolver reading from fsys
func NewResolver(fsys filesystem.FS, opts Options) (*Resolver, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	themes, err := lru.New[string, *theme](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	lookups, err := lru.New[string, lookupResult](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{fs: fsys, opts: opts, themes: themes, lookups: lookups}, nil
}

// Resolve finds the file for icon name. The preferred theme is searched with
// name as given; each fallback theme is then searched with name and with its
// lower-cased form before moving to the next theme. Only after every listed
// theme misses are hicolor and the pixmap directories tried.
func (r *Resolver) Resolve(name, preferred string, fallbacks []string) (string, bool) {
	logger := logging.GetLogger("icons")

	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		if filesystem.Exists(r.fs, name) {
			return name, true
		}
		logger.Debug().Str("icon", name).Msg("Absolute icon path does not exist")
		return "", false
	}
	name = trimExtension(name)

	type step struct{ theme, name string }
	steps := []step{{preferred, name}}
	lower := strings.ToLower(name)
	for _, fb := range fallbacks {
		steps = append(steps, step{fb, name})
		if lower != name {
			steps = append(steps, step{fb, lower})
		}
	}
	steps = append(steps, step{HicolorTheme, name})
	if lower != name {
		steps = append(steps, step{HicolorTheme, lower})
	}

	for _, s := range steps {
		if s.theme == "" {
			continue
		}
		if path, ok := r.Lookup(s.theme, s.name); ok {
			logger.Trace().Str("icon", name).Str("theme", s.theme).Str("path", path).Msg("Icon resolved")
			return path, true
		}
	}

	for _, candidate := range []string{name, lower} {
		if path, ok := r.lookupPixmap(candidate); ok {
			return path, true
		}
	}

	logger.Debug().Str("icon", name).Str("theme", preferred).Msg("Icon not found in any theme")
	return "", false
}

// Lookup searches one theme, then the themes it inherits from
func (r *Resolver) Lookup(themeName, name string) (string, bool) {
	key := themeName + "\x00" + name
	if res, ok := r.lookups.Get(key); ok {
		return res.path, res.found
	}

	path, found := r.lookupChain(themeName, name, make(map[string]bool))
	r.lookups.Add(key, lookupResult{path: path, found: found})
	return path, found
}

func (r *Resolver) lookupChain(themeName, name string, seen map[string]bool) (string, bool) {
	if seen[themeName] {
		return "", false
	}
	seen[themeName] = true

	t := r.theme(themeName)
	if t == nil {
		return "", false
	}
	if path, ok := r.lookupInTheme(t, name); ok {
		return path, true
	}
	for _, parent := range t.inherits {
		if path, ok := r.lookupChain(parent, name, seen); ok {
			return path, true
		}
	}
	return "", false
}

// lookupInTheme returns an exact size match if there is one, otherwise the
// file from the closest directory; larger directories win ties
func (r *Resolver) lookupInTheme(t *theme, name string) (string, bool) {
	size := r.opts.Size
	best := ""
	bestDistance := math.MaxInt
	bestSize := 0

	for _, dir := range t.dirs {
		path, ok := r.findFile(t, dir.path, name)
		if !ok {
			continue
		}
		if dir.matches(size) {
			return path, true
		}
		d := dir.distance(size)
		if d < bestDistance || (d == bestDistance && dir.size > bestSize) {
			best, bestDistance, bestSize = path, d, dir.size
		}
	}
	return best, best != ""
}

func (r *Resolver) findFile(t *theme, dir, name string) (string, bool) {
	for _, root := range t.roots {
		for _, ext := range Extensions {
			candidate := filepath.Join(root, dir, name+ext)
			if filesystem.Exists(r.fs, candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (r *Resolver) lookupPixmap(name string) (string, bool) {
	for _, dir := range r.opts.PixmapDirs {
		for _, ext := range Extensions {
			candidate := filepath.Join(dir, name+ext)
			if filesystem.Exists(r.fs, candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (r *Resolver) theme(name string) *theme {
	if t, ok := r.themes.Get(name); ok {
		return t
	}
	t, err := loadTheme(r.fs, r.opts.BaseDirs, name)
	if err != nil {
		logger := logging.GetLogger("icons")
		logger.Warn().Err(err).Str("theme", name).Msg("Invalid icon theme index")
		t = nil
	}
	r.themes.Add(name, t)
	return t
}

// trimExtension drops an image extension some desktop files put in Icon=
func trimExtension(name string) string {
	ext := filepath.Ext(name)
	for _, known := range Extensions {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
