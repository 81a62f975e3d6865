package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// WriteFile creates path and its parents or fails the test
func (env *TestEnvironment) WriteFile(path string, content []byte) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, content, 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// DesktopEntry renders a [Desktop Entry] group. Type defaults to Application.
func DesktopEntry(fields map[string]string) string {
	if _, ok := fields["Type"]; !ok {
		fields["Type"] = "Application"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, fields[k])
	}
	return b.String()
}

// AddApplication writes id into the user applications directory
func (env *TestEnvironment) AddApplication(id string, fields map[string]string) string {
	env.t.Helper()
	path := filepath.Join(env.ApplicationsDir(), id)
	env.WriteFile(path, []byte(DesktopEntry(fields)))
	return path
}

// AddDirectory writes a .directory file with the given Name and Icon
func (env *TestEnvironment) AddDirectory(id, name, icon string) string {
	env.t.Helper()
	path := filepath.Join(env.DirectoriesDir(), id)
	content := fmt.Sprintf("[Desktop Entry]\nType=Directory\nName=%s\nIcon=%s\n", name, icon)
	env.WriteFile(path, []byte(content))
	return path
}

// WriteMenu writes the configured menu file
func (env *TestEnvironment) WriteMenu(xml string) string {
	env.t.Helper()
	env.WriteFile(env.Config.MenuFile, []byte(xml))
	return env.Config.MenuFile
}

// AddThemeIcon writes a fixed-size theme directory entry and its index.theme
func (env *TestEnvironment) AddThemeIcon(theme string, size int, name string, data []byte) string {
	env.t.Helper()
	dir := fmt.Sprintf("%dx%d/apps", size, size)
	index := fmt.Sprintf("[Icon Theme]\nName=%s\nDirectories=%s\n\n[%s]\nSize=%d\nType=Fixed\n", theme, dir, dir, size)
	env.WriteFile(filepath.Join(env.IconsDir(), theme, "index.theme"), []byte(index))

	path := filepath.Join(env.IconsDir(), theme, filepath.FromSlash(dir), name)
	env.WriteFile(path, data)
	return path
}

// PNG returns an opaque square PNG of the given edge length
func PNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// SVG is a minimal valid square vector icon
const SVG = `<svg xmlns="http://www.w3.org/2000/svg" width="32" height="32" viewBox="0 0 32 32"><rect x="4" y="4" width="24" height="24" fill="#3465a4"/></svg>`
