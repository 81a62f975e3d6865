package icons

import (
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
)

const (
	indexFile    = "index.theme"
	themeSection = "Icon Theme"

	dirFixed     = "Fixed"
	dirScalable  = "Scalable"
	dirThreshold = "Threshold"
)

// themeDir is one subdirectory entry of an index.theme
type themeDir struct {
	path      string
	size      int
	kind      string
	minSize   int
	maxSize   int
	threshold int
}

// matches reports whether icons in the directory fit size exactly
func (d themeDir) matches(size int) bool {
	return d.distance(size) == 0
}

// distance is how far size lies outside the range the directory serves
func (d themeDir) distance(size int) int {
	switch d.kind {
	case dirFixed:
		return abs(d.size - size)
	case dirScalable:
		if size < d.minSize {
			return d.minSize - size
		}
		if size > d.maxSize {
			return size - d.maxSize
		}
		return 0
	default:
		if size < d.size-d.threshold {
			return d.size - d.threshold - size
		}
		if size > d.size+d.threshold {
			return size - d.size - d.threshold
		}
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// theme is a parsed index.theme together with the base dirs holding its files
type theme struct {
	name     string
	roots    []string
	inherits []string
	dirs     []themeDir
}

// loadTheme reads name's index.theme from the first base dir that has one.
// It returns nil when no base dir contains the theme.
func loadTheme(fsys filesystem.FS, baseDirs []string, name string) (*theme, error) {
	t := &theme{name: name}
	var index []byte
	for _, base := range baseDirs {
		root := filepath.Join(base, name)
		info, err := fsys.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		t.roots = append(t.roots, root)
		if index != nil {
			continue
		}
		if data, err := fsys.ReadFile(filepath.Join(root, indexFile)); err == nil {
			index = data
		}
	}
	if index == nil {
		return nil, nil
	}

	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true, SkipUnrecognizableLines: true}, index)
	if err != nil {
		return nil, err
	}
	head, err := file.GetSection(themeSection)
	if err != nil {
		return nil, err
	}

	t.inherits = splitComma(head.Key("Inherits").String())
	for _, dir := range splitComma(head.Key("Directories").String()) {
		section, err := file.GetSection(dir)
		if err != nil {
			continue
		}
		if section.Key("Scale").MustInt(1) != 1 {
			continue
		}
		size := section.Key("Size").MustInt(0)
		if size <= 0 {
			continue
		}
		t.dirs = append(t.dirs, themeDir{
			path:      dir,
			size:      size,
			kind:      section.Key("Type").In(dirThreshold, []string{dirFixed, dirScalable, dirThreshold}),
			minSize:   section.Key("MinSize").MustInt(size),
			maxSize:   section.Key("MaxSize").MustInt(size),
			threshold: section.Key("Threshold").MustInt(2),
		})
	}
	return t, nil
}

func splitComma(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
