package iconconv

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

const (
	// RasterExtension is appended to the destination prefix for the normalized PNG
	RasterExtension = ".png"
	// IconExtension is appended to the destination prefix for the final icon
	IconExtension = ".ico"

	// DefaultRasterSize is the edge length SVG sources are rendered at
	DefaultRasterSize = 256

	attemptRead = "read"
	attemptICO  = "ico"
)

// Options configures a Converter
type Options struct {
	// Size is the edge length SVG sources are rendered at
	Size             int
	VectorRasterizer bool
	// ImageMagick is the convert executable, empty when unavailable
	ImageMagick string
	Timeout     time.Duration
	ICOSizes    []int
}

// Converter runs the strategy chain and writes the final .ico
type Converter struct {
	fs         filesystem.FS
	strategies []Strategy
	icoSizes   []int
}

// NewConverter builds the default chain: copy, rasterize, decode, imagemagick
func NewConverter(fsys filesystem.FS, opts Options) *Converter {
	if opts.Size <= 0 {
		opts.Size = DefaultRasterSize
	}
	sizes := opts.ICOSizes
	if len(sizes) == 0 {
		sizes = DefaultICOSizes
	}
	return NewConverterWithStrategies(fsys, sizes,
		CopyStrategy{FS: fsys},
		RasterizeStrategy{FS: fsys, Size: opts.Size, Enabled: opts.VectorRasterizer},
		DecodeStrategy{FS: fsys},
		ImageMagickStrategy{FS: fsys, Executable: opts.ImageMagick, Timeout: opts.Timeout},
	)
}

// NewConverterWithStrategies builds a converter with a custom chain
func NewConverterWithStrategies(fsys filesystem.FS, icoSizes []int, strategies ...Strategy) *Converter {
	return &Converter{fs: fsys, strategies: strategies, icoSizes: icoSizes}
}

// Convert produces destPrefix.png and destPrefix.ico from source. Every
// strategy is tried until one succeeds; the returned asset has an empty
// FinalIconPath when no icon could be produced.
func (c *Converter) Convert(ctx context.Context, source, destPrefix string) types.IconAsset {
	logger := logging.GetLogger("iconconv").With().Str("source", source).Logger()
	asset := types.IconAsset{SourcePath: source}

	data, err := c.fs.ReadFile(source)
	if err != nil {
		asset.Attempts = append(asset.Attempts, types.IconAttempt{
			Strategy: attemptRead,
			Err:      errors.Wrap(err, errors.ErrIconConvert, "cannot read icon"),
		})
		logger.Debug().Err(err).Msg("Icon source unreadable")
		return asset
	}

	mt := mimetype.Detect(data)
	asset.DetectedFormat = mt.String()
	src := Source{Path: source, Data: data, MIME: mt}
	rasterPath := destPrefix + RasterExtension

	for _, s := range c.strategies {
		err := s.Convert(ctx, src, rasterPath)
		asset.Attempts = append(asset.Attempts, types.IconAttempt{Strategy: s.Name(), Err: err})
		if err == nil {
			asset.NormalizedRasterPath = rasterPath
			logger.Trace().Str("strategy", s.Name()).Msg("Icon normalized")
			break
		}
		logger.Trace().Str("strategy", s.Name()).Err(err).Msg("Conversion strategy failed")
	}
	if asset.NormalizedRasterPath == "" {
		logger.Debug().Str("format", asset.DetectedFormat).Msg("No strategy could convert icon")
		return asset
	}

	icoPath := destPrefix + IconExtension
	if err := c.writeICO(rasterPath, icoPath); err != nil {
		asset.Attempts = append(asset.Attempts, types.IconAttempt{Strategy: attemptICO, Err: err})
		logger.Debug().Err(err).Msg("Icon encoding failed")
		return asset
	}
	asset.Attempts = append(asset.Attempts, types.IconAttempt{Strategy: attemptICO})
	asset.FinalIconPath = icoPath
	return asset
}

func (c *Converter) writeICO(rasterPath, icoPath string) error {
	data, err := c.fs.ReadFile(rasterPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrIconConvert, "cannot read normalized raster")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, errors.ErrIconConvert, "cannot decode normalized raster")
	}

	var buf bytes.Buffer
	if err := EncodeICO(&buf, img, c.icoSizes); err != nil {
		return errors.Wrap(err, errors.ErrIconConvert, "cannot encode ico")
	}
	if err := filesystem.WriteFileAtomic(c.fs, icoPath, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot write ico")
	}
	return nil
}
