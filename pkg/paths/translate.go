package paths

import (
	"bufio"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
)

// Mount is one Windows drive mounted inside the distribution
type Mount struct {
	Drive  string // "C"
	Point  string // "/mnt/c"
	FSType string
}

// ParseMounts extracts the Windows drive mounts (drvfs or 9p) from /proc/mounts content
func ParseMounts(r io.Reader) ([]Mount, error) {
	var mounts []Mount
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		source, point, fsType := unescapeMount(fields[0]), unescapeMount(fields[1]), fields[2]
		if fsType != "drvfs" && fsType != "9p" {
			continue
		}
		drive := driveLetter(source, point)
		if drive == "" {
			continue
		}
		mounts = append(mounts, Mount{Drive: drive, Point: point, FSType: fsType})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mounts, nil
}

// unescapeMount decodes the octal escapes /proc/mounts uses for spaces and backslashes
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// driveLetter derives the drive from a mount source like "C:\" or from a /mnt/<letter> mount point
func driveLetter(source, point string) string {
	if len(source) >= 2 && source[1] == ':' && isLetter(source[0]) {
		return strings.ToUpper(source[:1])
	}
	base := path.Base(point)
	if len(base) == 1 && isLetter(base[0]) && source == "drvfs" {
		return strings.ToUpper(base)
	}
	return ""
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Translator converts WSL paths to Windows paths without shelling out to wslpath
type Translator struct {
	Mounts []Mount
	// Distro names the distribution for paths outside any drive mount
	Distro string
}

// NewTranslator sorts mounts so the longest mount point matches first
func NewTranslator(mounts []Mount, distro string) *Translator {
	sorted := append([]Mount(nil), mounts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Point) > len(sorted[j].Point)
	})
	return &Translator{Mounts: sorted, Distro: distro}
}

// ToWindows translates an absolute WSL path.
// /mnt/c/Users/me becomes C:\Users\me; /home/me becomes \\wsl.localhost\<distro>\home\me.
func (t *Translator) ToWindows(p string) (string, error) {
	if !path.IsAbs(p) {
		return "", errors.Newf(errors.ErrPathTranslate, "path must be absolute: %s", p)
	}
	p = path.Clean(p)

	for _, m := range t.Mounts {
		if p == m.Point || strings.HasPrefix(p, m.Point+"/") {
			rest := strings.TrimPrefix(strings.TrimPrefix(p, m.Point), "/")
			return m.Drive + `:\` + strings.ReplaceAll(rest, "/", `\`), nil
		}
	}

	if t.Distro == "" {
		return "", errors.Newf(errors.ErrPathTranslate, "no drive mount contains %s and no distribution is known", p)
	}
	return `\\wsl.localhost\` + t.Distro + strings.ReplaceAll(p, "/", `\`), nil
}

// ToWSL translates a drive-letter Windows path to its mounted WSL path
func (t *Translator) ToWSL(winPath string) (string, error) {
	if len(winPath) < 2 || winPath[1] != ':' || !isLetter(winPath[0]) {
		return "", errors.Newf(errors.ErrPathTranslate, "not a drive path: %s", winPath)
	}
	drive := strings.ToUpper(winPath[:1])
	for _, m := range t.Mounts {
		if m.Drive == drive {
			rest := strings.Trim(strings.ReplaceAll(winPath[2:], `\`, "/"), "/")
			if rest == "" {
				return m.Point, nil
			}
			return path.Join(m.Point, rest), nil
		}
	}
	return "", errors.Newf(errors.ErrPathTranslate, "drive %s: is not mounted", drive)
}
