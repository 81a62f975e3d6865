// Package hostenv probes the WSL host once per process: drive mounts, the
// Windows user profile, the distribution identity and which helper tools are
// installed. The resulting Environment is passed explicitly to the pipeline
// and never re-queried during a run.
package hostenv

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// Tool names looked up on PATH
const (
	ToolImageMagick = "convert"
	ToolPowerShell  = "powershell.exe"
	ToolAttrib      = "attrib.exe"
	ToolWSLPath     = "wslpath"
	ToolCmd         = "cmd.exe"
)

// DefaultMountPoint is used when /proc/mounts lists no Windows drive
const DefaultMountPoint = "/mnt/c"

// Environment is the immutable result of probing the host
type Environment struct {
	Mounts []paths.Mount
	// HostMountPoint is the mount point of the last Windows drive found
	HostMountPoint string
	// WindowsUserProfile is %USERPROFILE% as Windows sees it (C:\Users\me)
	WindowsUserProfile string
	// UserProfile is the same directory seen from WSL (/mnt/c/Users/me)
	UserProfile string
	Distro      string
	User        string
	Tools       map[string]bool
}

// Has reports whether a tool was found on PATH
func (e *Environment) Has(tool string) bool {
	return e.Tools[tool]
}

// Translator returns a path translator built from the probed mounts
func (e *Environment) Translator() *paths.Translator {
	return paths.NewTranslator(e.Mounts, e.Distro)
}

// Prober gathers the environment. Its function fields default to the real
// system calls and can be replaced in tests.
type Prober struct {
	ReadFile func(name string) ([]byte, error)
	LookPath func(file string) (string, error)
	Output   func(ctx context.Context, name string, args ...string) ([]byte, error)
	Getenv   func(key string) string
	Timeout  time.Duration
}

// NewProber returns a Prober wired to the operating system
func NewProber() *Prober {
	return &Prober{
		ReadFile: os.ReadFile,
		LookPath: exec.LookPath,
		Output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			logging.LogCommand(name, args)
			cmd := exec.CommandContext(ctx, name, args...)
			var stdout bytes.Buffer
			cmd.Stdout = &stdout
			err := cmd.Run()
			return stdout.Bytes(), err
		},
		Getenv:  os.Getenv,
		Timeout: 10 * time.Second,
	}
}

// Probe inspects the host. A missing Windows side is not an error here; callers
// that need a user profile check for an empty UserProfile.
func (p *Prober) Probe(ctx context.Context) (*Environment, error) {
	logger := logging.GetLogger("hostenv")
	env := &Environment{
		HostMountPoint: DefaultMountPoint,
		Distro:         p.Getenv("WSL_DISTRO_NAME"),
		User:           p.Getenv("USER"),
		Tools:          make(map[string]bool),
	}

	if data, err := p.ReadFile("/proc/mounts"); err != nil {
		logger.Warn().Err(err).Msg("Could not read mount table")
	} else {
		mounts, err := paths.ParseMounts(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrHostProbe, "failed to parse mount table")
		}
		env.Mounts = mounts
		if len(mounts) > 0 {
			env.HostMountPoint = mounts[len(mounts)-1].Point
		}
	}

	for _, tool := range []string{ToolImageMagick, ToolPowerShell, ToolAttrib, ToolWSLPath, ToolCmd} {
		if _, err := p.LookPath(tool); err == nil {
			env.Tools[tool] = true
		} else {
			logger.Debug().Str("tool", tool).Msg("Tool not found on PATH")
		}
	}
	if env.Tools[ToolImageMagick] && !p.isImageMagick(ctx) {
		logger.Warn().Msg("convert on PATH is not ImageMagick, some xpm icons may not convert correctly")
		env.Tools[ToolImageMagick] = false
	}

	if env.Tools[ToolCmd] {
		profile, err := p.run(ctx, ToolCmd, "/C", "echo", "%USERPROFILE%")
		if err != nil {
			logger.Warn().Err(err).Msg("Could not read %USERPROFILE%")
		} else {
			env.WindowsUserProfile = profile
		}
	}
	if env.WindowsUserProfile != "" {
		local, err := env.Translator().ToWSL(env.WindowsUserProfile)
		if err != nil {
			logger.Warn().Err(err).Str("profile", env.WindowsUserProfile).Msg("User profile is not on a mounted drive")
		} else {
			env.UserProfile = local
		}
	}

	logger.Info().
		Str("host_mount_point", env.HostMountPoint).
		Str("user_profile", env.UserProfile).
		Str("distribution", env.Distro).
		Bool("has_imagemagick", env.Tools[ToolImageMagick]).
		Bool("has_powershell", env.Tools[ToolPowerShell]).
		Msg("Host environment probed")

	return env, nil
}

func (p *Prober) isImageMagick(ctx context.Context) bool {
	out, err := p.run(ctx, ToolImageMagick, "-version")
	return err == nil && strings.Contains(out, "ImageMagick")
}

func (p *Prober) run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.Output(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
