package iconconv

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"slices"

	"golang.org/x/image/draw"
)

// DefaultICOSizes are the square resolutions embedded in every .ico
var DefaultICOSizes = []int{16, 32, 48, 256}

const maxICOSize = 256

// EncodeICO writes img as an ICO holding one PNG-compressed image per size.
// Sizes larger than the source are skipped; a source smaller than every size
// is stored at its own size.
func EncodeICO(w io.Writer, img image.Image, sizes []int) error {
	b := img.Bounds()
	srcSize := min(max(b.Dx(), b.Dy()), maxICOSize)

	var chosen []int
	for _, s := range sizes {
		if s > 0 && s <= srcSize {
			chosen = append(chosen, s)
		}
	}
	if len(chosen) == 0 {
		chosen = []int{srcSize}
	}
	slices.Sort(chosen)
	chosen = slices.Compact(chosen)

	images := make([][]byte, len(chosen))
	for i, s := range chosen {
		var buf bytes.Buffer
		if err := png.Encode(&buf, fit(img, s)); err != nil {
			return err
		}
		images[i] = buf.Bytes()
	}

	le := binary.LittleEndian
	var out bytes.Buffer
	_ = binary.Write(&out, le, uint16(0)) // reserved
	_ = binary.Write(&out, le, uint16(1)) // type: icon
	_ = binary.Write(&out, le, uint16(len(chosen)))

	offset := 6 + 16*len(chosen)
	for i, s := range chosen {
		dim := byte(s)
		if s >= maxICOSize {
			dim = 0
		}
		out.WriteByte(dim)
		out.WriteByte(dim)
		// no palette, reserved byte, one plane, 32 bits per pixel
		out.Write([]byte{0, 0})
		_ = binary.Write(&out, le, uint16(1))
		_ = binary.Write(&out, le, uint16(32))
		_ = binary.Write(&out, le, uint32(len(images[i])))
		_ = binary.Write(&out, le, uint32(offset))
		offset += len(images[i])
	}
	for _, data := range images {
		out.Write(data)
	}

	_, err := w.Write(out.Bytes())
	return err
}

// fit scales img into a transparent size x size square, keeping its aspect ratio
func fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == size && h == size {
		return img
	}

	tw, th := size, size
	if w > h {
		th = max(1, h*size/w)
	} else if h > w {
		tw = max(1, w*size/h)
	}
	x := (size - tw) / 2
	y := (size - th) / 2

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+tw, y+th), img, b, draw.Over, nil)
	return dst
}
