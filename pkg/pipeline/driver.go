package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/wsltoolbar/pkg/config"
	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/iconconv"
	"github.com/arthur-debert/wsltoolbar/pkg/launcher"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/manifest"
	"github.com/arthur-debert/wsltoolbar/pkg/menu"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
	"github.com/arthur-debert/wsltoolbar/pkg/shortcut"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// IconResolver finds an icon file for a symbolic name
type IconResolver interface {
	Resolve(name, preferred string, fallbacks []string) (string, bool)
}

// IconConverter produces the .png and .ico for a resolved icon
type IconConverter interface {
	Convert(ctx context.Context, source, destPrefix string) types.IconAsset
}

// ScriptWriter writes the per-entry launch wrappers
type ScriptWriter interface {
	Write(prefix string, d launcher.Data) (launcher.Scripts, error)
}

// PathTranslator maps local paths to the paths Windows uses
type PathTranslator interface {
	ToWindows(path string) (string, error)
}

// Options holds the collaborators of a Driver
type Options struct {
	Config     *config.Config
	FS         filesystem.FS
	Resolver   IconResolver
	Converter  IconConverter
	Scripts    ScriptWriter
	Persister  shortcut.Persister
	Translator PathTranslator
	// Hider is optional; nil leaves metadata visible
	Hider filesystem.Hider
	// CheckWritable defaults to paths.CheckWritable
	CheckWritable func(root string) error
	RunID         string
	Version       string
	// Now defaults to time.Now and only stamps the manifest
	Now func() time.Time
}

// Driver runs the pipeline for a configuration
type Driver struct {
	opts   Options
	cfg    *config.Config
	logger zerolog.Logger
}

// New checks that every required collaborator is present
func New(opts Options) (*Driver, error) {
	switch {
	case opts.Config == nil:
		return nil, errors.New(errors.ErrInternal, "pipeline needs a config")
	case opts.FS == nil:
		return nil, errors.New(errors.ErrInternal, "pipeline needs a filesystem")
	case opts.Resolver == nil || opts.Converter == nil:
		return nil, errors.New(errors.ErrInternal, "pipeline needs an icon resolver and converter")
	case opts.Scripts == nil || opts.Persister == nil || opts.Translator == nil:
		return nil, errors.New(errors.ErrInternal, "pipeline needs a script writer, persister and translator")
	}
	if opts.Hider == nil {
		opts.Hider = filesystem.NoopHider{}
	}
	if opts.CheckWritable == nil {
		opts.CheckWritable = paths.CheckWritable
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger := logging.GetLogger("pipeline")
	if opts.RunID != "" {
		logger = logger.With().Str("run_id", opts.RunID).Logger()
	}
	return &Driver{opts: opts, cfg: opts.Config, logger: logger}, nil
}

// run carries the per-run shared state handed to every entry
type run struct {
	stubWin   string
	succeeded atomic.Int64
	failed    atomic.Int64
	iconless  atomic.Int64
}

// Run processes every entry below root. The returned error is set only for
// fatal problems; per-entry failures are counted in the Summary.
func (d *Driver) Run(ctx context.Context, root *types.Category) (Summary, error) {
	d.transition(StateInit)
	summary := Summary{DryRun: d.cfg.DryRun}

	d.transition(StateScanning)
	if root == nil {
		return summary, errors.New(errors.ErrMenuParse, "no menu to install")
	}
	flat, dupErr := menu.Flatten(root)
	if flat == nil {
		return summary, dupErr
	}
	if dupErr != nil {
		if d.cfg.Strict {
			return summary, dupErr
		}
		d.logger.Warn().Int("collisions", len(flat.Collisions)).Msg("Menu contains duplicate paths; later entries are skipped")
	}

	r := &run{}
	stubPath, err := d.prepare(ctx)
	if err != nil {
		return summary, err
	}
	if r.stubWin, err = d.opts.Translator.ToWindows(stubPath); err != nil {
		return summary, err
	}

	d.transition(StatePerEntry)
	keys := flat.Keys()
	results := make([]EntryResult, len(keys), len(keys)+len(flat.Collisions))

	started := len(keys)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)
	for i, key := range keys {
		if ctx.Err() != nil {
			d.logger.Warn().Err(ctx.Err()).Int("remaining", len(keys)-i).Msg("Run interrupted")
			started = i
			break
		}
		entry, _ := flat.Get(key)
		i, key := i, key
		g.Go(func() error {
			results[i] = d.processEntry(gctx, r, key, entry)
			return nil
		})
	}
	_ = g.Wait()
	results = results[:started]

	for _, c := range flat.Collisions {
		results = append(results, EntryResult{
			Path:     c.Path,
			Entry:    c.Extra,
			FailedAt: StageRecorded,
			Err: errors.Newf(errors.ErrDuplicateEntry, "%s is already used by %s", c.Path, c.Kept.ID).
				WithDetail("entry", c.Extra.ID),
		})
		r.failed.Add(1)
	}

	summary.Results = results
	summary.Attempted = len(results)
	summary.Succeeded = int(r.succeeded.Load())
	summary.Failed = int(r.failed.Load())
	summary.Iconless = int(r.iconless.Load())

	if !d.cfg.DryRun {
		d.writeManifest(summary)
	}

	d.transition(StateDone)
	d.logger.Info().
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("iconless", summary.Iconless).
		Msg("Run finished")
	return summary, ctx.Err()
}

// prepare creates the output directories and the shared stub, and returns the stub path.
// In a dry run nothing is created.
func (d *Driver) prepare(ctx context.Context) (string, error) {
	stubPath := paths.MetadataPrefix(d.cfg.MetadataDirectory, paths.SilentLauncherName)
	if d.cfg.DryRun {
		return stubPath, nil
	}

	for _, dir := range []string{d.cfg.InstallDirectory, d.cfg.MetadataDirectory} {
		if err := d.opts.FS.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
		}
	}
	if err := d.opts.CheckWritable(d.cfg.InstallDirectory); err != nil {
		return "", err
	}

	stubPath, created, err := launcher.EnsureStub(d.opts.FS, d.cfg.MetadataDirectory)
	if err != nil {
		return "", err
	}
	if created && d.cfg.HideMetadata {
		d.hide(ctx, d.cfg.MetadataDirectory)
	}
	return stubPath, nil
}

// hide is best effort: failures are logged and never counted
func (d *Driver) hide(ctx context.Context, path string) {
	if err := d.opts.Hider.Hide(ctx, path); err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("Could not mark metadata as hidden")
	}
}

func (d *Driver) processEntry(ctx context.Context, r *run, key string, entry *types.LaunchEntry) EntryResult {
	logger := d.logger.With().Str("entry", key).Logger()
	res := EntryResult{Path: key, Entry: entry, LinkPath: paths.LinkPath(d.cfg.InstallDirectory, key)}
	prefix := paths.MetadataPrefix(d.cfg.MetadataDirectory, key)

	fail := func(stage Stage, err error) EntryResult {
		res.FailedAt = stage
		res.Err = err
		r.failed.Add(1)
		logger.Warn().Err(err).Str("stage", stage.String()).Msg("Entry failed")
		logger.Trace().Str("stage", StageRecorded.String()).Msg("Stage")
		return res
	}
	enter := func(stage Stage) {
		logger.Trace().Str("stage", stage.String()).Msg("Stage")
	}

	enter(StageResolveIcon)
	iconName := entry.Icon
	if iconName == "" {
		iconName = strings.ToLower(entry.Name)
	}
	source, found := d.opts.Resolver.Resolve(iconName, d.cfg.Theme.Preferred, d.cfg.Theme.Fallbacks)

	enter(StageConvertIcon)
	switch {
	case !found:
		res.Icon.Attempts = append(res.Icon.Attempts, types.IconAttempt{
			Strategy: "resolve",
			Err:      errors.Newf(errors.ErrIconNotFound, "icon %q not found", iconName),
		})
		logger.Info().Str("icon", iconName).Msg("No icon found; shortcut will have none")
	case d.cfg.DryRun:
		res.Icon.SourcePath = source
	default:
		res.Icon = d.opts.Converter.Convert(ctx, source, prefix)
	}
	iconLocal := res.Icon.FinalIconPath
	if d.cfg.DryRun && found {
		iconLocal = prefix + iconconv.IconExtension
	}
	iconWin := ""
	if iconLocal != "" {
		var err error
		if iconWin, err = d.opts.Translator.ToWindows(iconLocal); err != nil {
			logger.Warn().Err(err).Msg("Icon path not reachable from Windows; shortcut will have none")
			iconWin = ""
		}
	}

	enter(StageDecompose)
	execDir := entry.WorkingDir
	if execDir == "" {
		execDir = d.cfg.LaunchDirectory
	}
	scripts := launcher.Scripts{ShellPath: prefix + launcher.ShellExtension, BatchPath: prefix + launcher.BatchExtension}
	data := launcher.Data{
		Name:         entry.Name,
		Distribution: d.cfg.Distribution,
		User:         d.cfg.User,
		Command:      shortcut.StripFieldCodes(entry.Exec),
		WSL:          d.cfg.WSLExecutable,
		RCFile:       d.cfg.RCFile,
		LaunchScript: scripts.ShellPath,
		ExecDir:      execDir,
		Terminal:     entry.Terminal,
	}
	if !d.cfg.DryRun {
		var err error
		if scripts, err = d.opts.Scripts.Write(prefix, data); err != nil {
			return fail(StageDecompose, err)
		}
	}
	batWin, err := d.opts.Translator.ToWindows(scripts.BatchPath)
	if err != nil {
		return fail(StageDecompose, err)
	}

	target, args := d.cfg.WScriptExecutable, fmt.Sprintf(`"%s" "%s"`, r.stubWin, batWin)
	if entry.Terminal {
		target, args = batWin, ""
	}
	segments, err := shortcut.Decompose(target)
	if err != nil {
		return fail(StageDecompose, err)
	}

	enter(StageAssemble)
	desc, err := shortcut.Assemble(shortcut.AssembleInput{
		Entry:            entry,
		LinkPath:         res.LinkPath,
		TargetExecutable: target,
		Arguments:        args,
		IconPath:         iconWin,
		PathSegments:     segments,
	})
	if err != nil {
		return fail(StageAssemble, err)
	}
	res.Descriptor = desc

	enter(StagePersist)
	if !d.cfg.DryRun {
		if _, err := d.opts.Persister.Persist(ctx, desc); err != nil {
			return fail(StagePersist, err)
		}
	}

	enter(StageRecorded)
	r.succeeded.Add(1)
	if desc.IconPath == "" {
		r.iconless.Add(1)
	}
	logger.Debug().Str("link", res.LinkPath).Bool("icon", desc.IconPath != "").Msg("Entry installed")
	return res
}

func (d *Driver) writeManifest(s Summary) {
	m := &manifest.Manifest{
		RunID:             d.opts.RunID,
		Version:           d.opts.Version,
		GeneratedAt:       d.opts.Now().UTC(),
		Target:            d.cfg.TargetName,
		MenuFile:          d.cfg.MenuFile,
		InstallDirectory:  d.cfg.InstallDirectory,
		MetadataDirectory: d.cfg.MetadataDirectory,
		Attempted:         s.Attempted,
		Succeeded:         s.Succeeded,
		Failed:            s.Failed,
		Iconless:          s.Iconless,
	}
	m.Entries = s.Entries()
	path := paths.MetadataPrefix(d.cfg.MetadataDirectory, paths.ManifestName)
	if err := manifest.Write(d.opts.FS, path, m); err != nil {
		d.logger.Warn().Err(err).Msg("Could not write manifest")
	}
}

func (d *Driver) transition(s RunState) {
	d.logger.Debug().Str("state", s.String()).Msg("Pipeline state")
}
