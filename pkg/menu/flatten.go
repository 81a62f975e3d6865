package menu

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// PathSeparator joins category and entry names in flattened paths
const PathSeparator = "/"

// Collision records an entry that lost its flattened path to an earlier one
type Collision struct {
	Path  string
	Kept  *types.LaunchEntry
	Extra *types.LaunchEntry
}

// Flattened is the ordered mapping of flattened path to entry
type Flattened struct {
	keys    []string
	entries map[string]*types.LaunchEntry
	// claimed maps a folded path to the key that owns it
	claimed    map[string]string
	Collisions []Collision
}

// Keys returns the paths in depth-first discovery order
func (f *Flattened) Keys() []string { return f.keys }

// Get returns the entry stored at path
func (f *Flattened) Get(path string) (*types.LaunchEntry, bool) {
	e, ok := f.entries[path]
	return e, ok
}

// Len returns the number of distinct paths
func (f *Flattened) Len() int { return len(f.keys) }

// Flatten walks the tree depth first and keys each launchable entry by its
// category path. The first entry to claim a path keeps it; every later one
// is recorded as a Collision and reported in the returned error, which
// joins one ErrDuplicateEntry per collision. Paths are compared without
// regard to case because they name files on a Windows drive. The mapping is
// always usable when the root is not nil.
func Flatten(root *types.Category) (*Flattened, error) {
	if root == nil {
		return nil, errors.New(errors.ErrMenuParse, "menu has no root category")
	}

	f := &Flattened{
		entries: make(map[string]*types.LaunchEntry),
		claimed: make(map[string]string),
	}
	var errs []error
	var walk func(prefix string, node types.MenuNode)
	walk = func(prefix string, node types.MenuNode) {
		switch n := node.(type) {
		case *types.Category:
			next := join(prefix, paths.SanitizeName(n.Name))
			for _, child := range n.Children {
				walk(next, child)
			}
		case *types.LaunchEntry:
			if !n.Launchable() {
				return
			}
			key := join(prefix, paths.SanitizeName(n.Name))
			folded := strings.ToLower(key)
			if owner, exists := f.claimed[folded]; exists {
				kept := f.entries[owner]
				f.Collisions = append(f.Collisions, Collision{Path: key, Kept: kept, Extra: n})
				errs = append(errs, errors.Newf(errors.ErrDuplicateEntry, "duplicate menu path %q", key).
					WithDetail("kept", kept.ID).
					WithDetail("kept_path", owner).
					WithDetail("dropped", n.ID))
				return
			}
			f.claimed[folded] = key
			f.entries[key] = n
			f.keys = append(f.keys, key)
		default:
			panic(fmt.Sprintf("menu: unknown node type %T", node))
		}
	}

	for _, child := range root.Children {
		walk("", child)
	}
	return f, stderrors.Join(errs...)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + PathSeparator + name
}
