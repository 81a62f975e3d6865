package pipeline

import (
	"github.com/arthur-debert/wsltoolbar/pkg/config"
	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/hostenv"
	"github.com/arthur-debert/wsltoolbar/pkg/iconconv"
	"github.com/arthur-debert/wsltoolbar/pkg/icons"
	"github.com/arthur-debert/wsltoolbar/pkg/launcher"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/shortcut"
)

// Build wires the production collaborators for cfg on the probed host.
// cfg must already be resolved against env.
func Build(cfg *config.Config, env *hostenv.Environment, fsys filesystem.FS, runID, version string) (*Driver, error) {
	logger := logging.GetLogger("pipeline")
	translator := env.Translator()

	iconOpts := icons.DefaultOptions()
	iconOpts.Size = cfg.Theme.IconSize
	resolver, err := icons.NewResolver(fsys, iconOpts)
	if err != nil {
		return nil, err
	}

	convOpts := iconconv.Options{
		VectorRasterizer: cfg.VectorRasterizer,
		Timeout:          cfg.ConvertTimeout,
	}
	if env.Has(hostenv.ToolImageMagick) {
		convOpts.ImageMagick = hostenv.ToolImageMagick
	}
	converter := iconconv.NewConverter(fsys, convOpts)

	renderer, err := launcher.NewRenderer(fsys, launcher.Options{
		ShellTemplate: cfg.Templates.Shell,
		BatchTemplate: cfg.Templates.Batch,
		BatchEncoding: cfg.BatchEncoding,
		BatchCRLF:     cfg.BatchCRLF,
	})
	if err != nil {
		return nil, err
	}

	var persister shortcut.Persister
	switch cfg.Persister {
	case config.PersisterPowerShell:
		if !env.Has(hostenv.ToolPowerShell) {
			return nil, errors.Newf(errors.ErrConfigValid, "persister %q needs %s on PATH",
				cfg.Persister, hostenv.ToolPowerShell)
		}
		persister = shortcut.NewPowerShellPersister(fsys, hostenv.ToolPowerShell, translator.ToWindows, cfg.PersistTimeout)
	default:
		persister = shortcut.NewLinkWriter(fsys)
	}

	var hider filesystem.Hider = filesystem.NoopHider{}
	if cfg.HideMetadata {
		if env.Has(hostenv.ToolAttrib) {
			hider = filesystem.AttribHider{Executable: hostenv.ToolAttrib, ToWindows: translator.ToWindows}
		} else {
			logger.Debug().Msg("attrib.exe not found; metadata stays visible")
		}
	}

	return New(Options{
		Config:     cfg,
		FS:         fsys,
		Resolver:   resolver,
		Converter:  converter,
		Scripts:    renderer,
		Persister:  persister,
		Translator: translator,
		Hider:      hider,
		RunID:      runID,
		Version:    version,
	})
}
