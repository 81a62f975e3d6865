package launcher

import (
	"bytes"
	"embed"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	shellTemplateName = "launcher.sh.tmpl"
	batchTemplateName = "launcher.bat.tmpl"

	// ShellExtension and BatchExtension are appended to the metadata prefix
	ShellExtension = ".sh"
	BatchExtension = ".bat"

	shellMode = 0775
	batchMode = 0644
)

// Data is what the wrapper templates see
type Data struct {
	Name         string
	Distribution string
	User         string
	// Command is the Exec line with field codes removed
	Command string
	// WSL is the Windows path of wsl.exe
	WSL    string
	RCFile string
	// LaunchScript is the distribution-side path of the .sh wrapper
	LaunchScript string
	ExecDir      string
	Terminal     bool
}

// Options selects templates and the batch file encoding
type Options struct {
	// ShellTemplate and BatchTemplate replace the built-in templates when set
	ShellTemplate string
	BatchTemplate string
	// BatchEncoding is an IANA charset name such as windows-1252; empty keeps UTF-8
	BatchEncoding string
	BatchCRLF     bool
}

// Scripts are the wrapper files written for one entry
type Scripts struct {
	ShellPath string
	BatchPath string
}

// Renderer renders and writes wrapper scripts
type Renderer struct {
	fs      filesystem.FS
	shell   *template.Template
	batch   *template.Template
	encoder *encoding.Encoder
	crlf    bool
}

var funcs = template.FuncMap{"quote": shellQuote}

// NewRenderer loads the templates; override files are read from fsys
func NewRenderer(fsys filesystem.FS, opts Options) (*Renderer, error) {
	shell, err := loadTemplate(fsys, shellTemplateName, opts.ShellTemplate)
	if err != nil {
		return nil, err
	}
	batch, err := loadTemplate(fsys, batchTemplateName, opts.BatchTemplate)
	if err != nil {
		return nil, err
	}

	r := &Renderer{fs: fsys, shell: shell, batch: batch, crlf: opts.BatchCRLF}
	if opts.BatchEncoding != "" {
		enc, err := lookupEncoding(opts.BatchEncoding)
		if err != nil {
			return nil, err
		}
		r.encoder = enc.NewEncoder()
	}
	return r, nil
}

func loadTemplate(fsys filesystem.FS, name, override string) (*template.Template, error) {
	if override == "" {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "built-in template %s", name)
		}
		return t, nil
	}

	data, err := fsys.ReadFile(override)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "cannot read template %s", override)
	}
	t, err := template.New(filepath.Base(override)).Funcs(funcs).Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid template %s", override)
	}
	return t, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, errors.Newf(errors.ErrConfigValid, "unsupported batch encoding %q", name)
	}
	if enc == unicode.UTF8 {
		return encoding.Nop, nil
	}
	return enc, nil
}

// Shell renders the bash wrapper
func (r *Renderer) Shell(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.shell.Execute(&buf, d); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot render shell wrapper for %s", d.Name)
	}
	return buf.Bytes(), nil
}

// Batch renders the batch file, applying line ending and encoding options
func (r *Renderer) Batch(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.batch.Execute(&buf, d); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot render batch wrapper for %s", d.Name)
	}

	out := buf.String()
	if r.crlf {
		out = strings.ReplaceAll(strings.ReplaceAll(out, "\r\n", "\n"), "\n", "\r\n")
	}
	if r.encoder == nil {
		return []byte(out), nil
	}
	encoded, err := r.encoder.Bytes([]byte(out))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot encode batch wrapper for %s", d.Name)
	}
	return encoded, nil
}

// Write renders both wrappers and stores them at prefix.sh and prefix.bat
func (r *Renderer) Write(prefix string, d Data) (Scripts, error) {
	scripts := Scripts{ShellPath: prefix + ShellExtension, BatchPath: prefix + BatchExtension}

	shell, err := r.Shell(d)
	if err != nil {
		return Scripts{}, err
	}
	batch, err := r.Batch(d)
	if err != nil {
		return Scripts{}, err
	}

	if err := filesystem.WriteFileAtomic(r.fs, scripts.ShellPath, shell, shellMode); err != nil {
		return Scripts{}, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot write %s", scripts.ShellPath)
	}
	if err := filesystem.WriteFileAtomic(r.fs, scripts.BatchPath, batch, batchMode); err != nil {
		return Scripts{}, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot write %s", scripts.BatchPath)
	}
	return scripts, nil
}

// shellQuote single-quotes s for bash
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
