package menu

import (
	"cmp"
	"slices"
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// Options names the directories behind the Default* menu elements.
// Every list is in priority order, most important first.
type Options struct {
	ApplicationDirs []string
	DirectoryDirs   []string
	MergeDirs       []string
}

// DefaultOptions returns the XDG locations of the running user
func DefaultOptions() Options {
	return Options{
		ApplicationDirs: paths.ApplicationDirs(),
		DirectoryDirs:   paths.DesktopDirectoryDirs(),
		MergeDirs:       paths.MenuMergeDirs(),
	}
}

// Load parses menuFile and returns the root category of the visible menu.
// Any failure to read or parse the root file is fatal (ErrMenuParse).
func Load(fsys filesystem.FS, menuFile string, opts Options) (*types.Category, error) {
	logger := logging.GetLogger("menu")
	defer logging.LogOperationStart(logger, "menu.load")()

	def, err := newParser(fsys, opts).parseFile(menuFile)
	if err != nil {
		return nil, err
	}

	l := &loader{fs: fsys, pools: make(map[string]map[string]*types.LaunchEntry), allocated: make(map[string]bool)}
	tree := l.resolve(def, nil, nil)
	l.allocateRemaining(tree)

	root := tree.category(true)
	logger.Info().
		Str("file", menuFile).
		Int("categories", len(root.Children)).
		Msg("Menu loaded")
	return root, nil
}

// resolvedMenu is a menuDef with its entries selected
type resolvedMenu struct {
	def       *menuDef
	name      string
	noDisplay bool
	pool      map[string]*types.LaunchEntry
	entries   map[string]*types.LaunchEntry
	children  []*resolvedMenu
}

type loader struct {
	fs        filesystem.FS
	pools     map[string]map[string]*types.LaunchEntry
	allocated map[string]bool
}

// resolve selects entries for def and its submenus; app and directory dirs are inherited
func (l *loader) resolve(def *menuDef, parentAppDirs, parentDirDirs []string) *resolvedMenu {
	appDirs := append(slices.Clone(parentAppDirs), def.appDirs...)
	dirDirs := append(slices.Clone(parentDirDirs), def.directoryDirs...)

	r := &resolvedMenu{def: def, name: def.name, pool: l.pool(appDirs)}
	if !def.onlyUnallocated {
		r.entries = applyRules(def.rules, r.pool)
		for id := range r.entries {
			l.allocated[id] = true
		}
	}

	// the last <Directory> that exists wins
	for i := len(def.directories) - 1; i >= 0; i-- {
		if info, ok := lookupDirectory(l.fs, dirDirs, def.directories[i]); ok {
			if info.Name != "" {
				r.name = info.Name
			}
			r.noDisplay = info.NoDisplay
			break
		}
	}

	for _, sub := range def.submenus {
		r.children = append(r.children, l.resolve(sub, appDirs, dirDirs))
	}
	return r
}

// allocateRemaining fills OnlyUnallocated menus once every other menu has chosen
func (l *loader) allocateRemaining(r *resolvedMenu) {
	if r.def.onlyUnallocated {
		free := make(map[string]*types.LaunchEntry, len(r.pool))
		for id, e := range r.pool {
			if !l.allocated[id] {
				free[id] = e
			}
		}
		r.entries = applyRules(r.def.rules, free)
	}
	for _, child := range r.children {
		l.allocateRemaining(child)
	}
}

func (l *loader) pool(appDirs []string) map[string]*types.LaunchEntry {
	key := strings.Join(appDirs, "\x00")
	if p, ok := l.pools[key]; ok {
		return p
	}
	p := scanApplications(l.fs, appDirs)
	l.pools[key] = p
	return p
}

// applyRules evaluates Include and Exclude elements in document order
func applyRules(rules []rule, pool map[string]*types.LaunchEntry) map[string]*types.LaunchEntry {
	selected := make(map[string]*types.LaunchEntry)
	for _, r := range rules {
		for id, e := range pool {
			if !r.match.match(e) {
				continue
			}
			if r.include {
				selected[id] = e
			} else {
				delete(selected, id)
			}
		}
	}
	return selected
}

// category builds the output tree. Deleted, hidden and empty menus are
// dropped, except the root which is always returned.
func (r *resolvedMenu) category(isRoot bool) *types.Category {
	if !isRoot && (r.def.deleted || r.noDisplay) {
		return nil
	}

	cat := &types.Category{Name: r.name}
	for _, child := range r.children {
		if c := child.category(false); c != nil {
			cat.Add(c)
		}
	}

	entries := make([]*types.LaunchEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *types.LaunchEntry) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for _, e := range entries {
		cat.Add(e)
	}

	if !isRoot && len(cat.Children) == 0 {
		return nil
	}
	return cat
}
