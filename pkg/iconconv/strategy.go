package iconconv

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	// decoders for the generic strategy
	_ "image/gif"
	_ "image/jpeg"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
)

// Strategy names as recorded in IconAsset.Attempts
const (
	StrategyCopy        = "copy"
	StrategyRasterize   = "rasterize"
	StrategyDecode      = "decode"
	StrategyImageMagick = "imagemagick"
)

const (
	mimePNG = "image/png"
	mimeSVG = "image/svg+xml"
)

// Source is the icon file handed to every strategy
type Source struct {
	Path string
	Data []byte
	MIME *mimetype.MIME
}

// Strategy writes a PNG rendition of src to dst.
// Implementations must not leave a partial dst behind on failure.
type Strategy interface {
	Name() string
	Convert(ctx context.Context, src Source, dst string) error
}

func notApplicable(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrIconConvert, format, args...)
}

// CopyStrategy keeps PNG sources byte for byte
type CopyStrategy struct {
	FS filesystem.FS
}

func (CopyStrategy) Name() string { return StrategyCopy }

func (s CopyStrategy) Convert(_ context.Context, src Source, dst string) error {
	if !src.MIME.Is(mimePNG) {
		return notApplicable("source is %s, not png", src.MIME.String())
	}
	return filesystem.WriteFileAtomic(s.FS, dst, src.Data, 0644)
}

// RasterizeStrategy renders SVG sources at Size pixels square
type RasterizeStrategy struct {
	FS      filesystem.FS
	Size    int
	Enabled bool
}

func (RasterizeStrategy) Name() string { return StrategyRasterize }

func (s RasterizeStrategy) Convert(_ context.Context, src Source, dst string) error {
	if !src.MIME.Is(mimeSVG) {
		return notApplicable("source is %s, not svg", src.MIME.String())
	}
	if !s.Enabled {
		return notApplicable("vector rasterizer disabled")
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(src.Data), oksvg.WarnErrorMode)
	if err != nil {
		return errors.Wrap(err, errors.ErrIconConvert, "cannot parse svg")
	}

	size := s.Size
	icon.SetTarget(0, 0, float64(size), float64(size))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	return writePNG(s.FS, dst, img)
}

// DecodeStrategy decodes any format the image package knows and re-encodes it as PNG
type DecodeStrategy struct {
	FS filesystem.FS
}

func (DecodeStrategy) Name() string { return StrategyDecode }

func (s DecodeStrategy) Convert(_ context.Context, src Source, dst string) error {
	img, format, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return errors.Wrapf(err, errors.ErrIconConvert, "cannot decode %s", src.MIME.String())
	}
	logger := logging.GetLogger("iconconv")
	logger.Trace().Str("format", format).Str("source", src.Path).Msg("Decoded icon")
	return writePNG(s.FS, dst, img)
}

// CommandRunner runs an external program; tests replace it
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// ImageMagickStrategy shells out to convert. It works on real paths only.
type ImageMagickStrategy struct {
	FS filesystem.FS
	// Executable is empty when the host probe found no ImageMagick
	Executable string
	Timeout    time.Duration
	Run        CommandRunner
}

func (ImageMagickStrategy) Name() string { return StrategyImageMagick }

func (s ImageMagickStrategy) Convert(ctx context.Context, src Source, dst string) error {
	if s.Executable == "" {
		return notApplicable("imagemagick not available")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tmp := filepath.Join(filepath.Dir(dst), "."+strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))+".convert.png")
	if err := s.FS.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	args := []string{"-background", "none", src.Path, "png:" + tmp}
	logging.LogCommand(s.Executable, args)

	run := s.Run
	if run == nil {
		run = execRunner
	}
	if err := run(ctx, s.Executable, args...); err != nil {
		_ = s.FS.Remove(tmp)
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), errors.ErrIconConvert, "%s timed out after %s", s.Executable, timeout)
		}
		return errors.Wrapf(err, errors.ErrIconConvert, "%s failed", s.Executable)
	}
	if err := s.FS.Rename(tmp, dst); err != nil {
		_ = s.FS.Remove(tmp)
		return err
	}
	return nil
}

func writePNG(fsys filesystem.FS, dst string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return errors.Wrap(err, errors.ErrIconConvert, "cannot encode png")
	}
	return filesystem.WriteFileAtomic(fsys, dst, buf.Bytes(), 0644)
}
