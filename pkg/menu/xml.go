package menu

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
)

// menuDef is one <Menu> element after parsing, before entries are allocated
type menuDef struct {
	name            string
	directories     []string
	directoryDirs   []string
	appDirs         []string
	rules           []rule
	onlyUnallocated bool
	deleted         bool
	submenus        []*menuDef
}

// parser reads .menu files, following MergeFile and MergeDir includes
type parser struct {
	fs   filesystem.FS
	opts Options
	// visiting guards against include cycles
	visiting map[string]bool
}

func newParser(fsys filesystem.FS, opts Options) *parser {
	return &parser{fs: fsys, opts: opts, visiting: make(map[string]bool)}
}

// parseFile reads path and returns its root <Menu>
func (p *parser) parseFile(path string) (*menuDef, error) {
	abs := filepath.Clean(path)
	if p.visiting[abs] {
		return nil, errors.Newf(errors.ErrMenuParse, "menu file %s includes itself", abs)
	}
	p.visiting[abs] = true
	defer delete(p.visiting, abs)

	data, err := p.fs.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMenuParse, "cannot read menu file %s", abs)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMenuParse, "invalid menu XML in %s", abs)
	}
	root := doc.Root()
	if root == nil || root.Tag != "Menu" {
		return nil, errors.Newf(errors.ErrMenuParse, "%s has no root <Menu> element", abs)
	}

	return p.parseMenu(root, filepath.Dir(abs))
}

// parseMenu converts a <Menu> element; relative paths resolve against baseDir
func (p *parser) parseMenu(el *etree.Element, baseDir string) (*menuDef, error) {
	logger := logging.GetLogger("menu.parse")
	def := &menuDef{}

	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		switch child.Tag {
		case "Name":
			def.name = text
		case "Directory":
			def.directories = append(def.directories, text)
		case "DirectoryDir":
			def.directoryDirs = append(def.directoryDirs, resolvePath(baseDir, text))
		case "DefaultDirectoryDirs":
			def.directoryDirs = append(def.directoryDirs, reversed(p.opts.DirectoryDirs)...)
		case "AppDir":
			def.appDirs = append(def.appDirs, resolvePath(baseDir, text))
		case "DefaultAppDirs":
			def.appDirs = append(def.appDirs, reversed(p.opts.ApplicationDirs)...)
		case "Include", "Exclude":
			def.rules = append(def.rules, rule{
				include: child.Tag == "Include",
				match:   orMatcher(parseMatchers(child)),
			})
		case "OnlyUnallocated":
			def.onlyUnallocated = true
		case "NotOnlyUnallocated":
			def.onlyUnallocated = false
		case "Deleted":
			def.deleted = true
		case "NotDeleted":
			def.deleted = false
		case "Menu":
			sub, err := p.parseMenu(child, baseDir)
			if err != nil {
				return nil, err
			}
			def.submenus = append(def.submenus, sub)
		case "MergeFile":
			p.mergeFile(def, resolvePath(baseDir, text))
		case "MergeDir":
			p.mergeDir(def, resolvePath(baseDir, text))
		case "DefaultMergeDirs":
			for _, dir := range p.opts.MergeDirs {
				p.mergeDir(def, dir)
			}
		default:
			logger.Trace().Str("element", child.Tag).Msg("Ignoring menu element")
		}
	}

	def.submenus = mergeSiblings(def.submenus)
	return def, nil
}

// mergeFile folds the contents of another menu file into def.
// Unreadable or cyclic includes are skipped.
func (p *parser) mergeFile(def *menuDef, path string) {
	logger := logging.GetLogger("menu.parse")

	included, err := p.parseFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("Skipping merge file")
		return
	}
	def.absorb(included)
}

func (p *parser) mergeDir(def *menuDef, dir string) {
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".menu") {
			p.mergeFile(def, filepath.Join(dir, e.Name()))
		}
	}
}

// absorb appends everything from other except its name
func (d *menuDef) absorb(other *menuDef) {
	d.directories = append(d.directories, other.directories...)
	d.directoryDirs = append(d.directoryDirs, other.directoryDirs...)
	d.appDirs = append(d.appDirs, other.appDirs...)
	d.rules = append(d.rules, other.rules...)
	d.onlyUnallocated = d.onlyUnallocated || other.onlyUnallocated
	d.deleted = other.deleted
	d.submenus = mergeSiblings(append(d.submenus, other.submenus...))
}

// mergeSiblings combines submenus sharing a name, keeping the first position
func mergeSiblings(menus []*menuDef) []*menuDef {
	out := make([]*menuDef, 0, len(menus))
	byName := make(map[string]*menuDef, len(menus))
	for _, m := range menus {
		if first, ok := byName[m.name]; ok {
			first.absorb(m)
			continue
		}
		byName[m.name] = m
		out = append(out, m)
	}
	return out
}

func parseMatchers(el *etree.Element) []matcher {
	var out []matcher
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		switch child.Tag {
		case "Category":
			out = append(out, categoryMatcher(text))
		case "Filename":
			out = append(out, filenameMatcher(text))
		case "All":
			out = append(out, allMatcher{})
		case "And":
			out = append(out, andMatcher(parseMatchers(child)))
		case "Or":
			out = append(out, orMatcher(parseMatchers(child)))
		case "Not":
			out = append(out, notMatcher(parseMatchers(child)))
		}
	}
	return out
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// reversed returns a copy of dirs in reverse order, turning a priority list
// into the "later wins" order used by menu files
func reversed(dirs []string) []string {
	out := slices.Clone(dirs)
	slices.Reverse(out)
	return out
}
