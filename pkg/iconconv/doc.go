// Package iconconv turns theme icons into Windows .ico files.
//
// A Converter first normalizes the source into a PNG by running its
// strategies in order (verbatim copy, SVG rasterization, generic decode,
// ImageMagick) until one succeeds, then encodes that PNG as a
// multi-resolution ICO. Content types are detected from file bytes.
// Failure never aborts a run: the returned IconAsset simply has no
// final icon and the shortcut is created without one.
package iconconv
