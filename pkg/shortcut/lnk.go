package shortcut

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// Shell link header constants (MS-SHLLINK 2.1)
const (
	headerSize = 0x4C

	flagHasLinkTargetIDList = 1 << 0
	flagHasName             = 1 << 2
	flagHasWorkingDir       = 1 << 4
	flagHasArguments        = 1 << 5
	flagHasIconLocation     = 1 << 6
	flagIsUnicode           = 1 << 7

	attrDirectory = 0x10
	attrArchive   = 0x20

	showNormal = 1

	itemRoot   = 0x1F
	itemDrive  = 0x2F
	itemFolder = 0x31
	itemFile   = 0x32

	driveFieldSize     = 22
	extensionSignature = 0xBEEF0004
	extensionVersion   = 3
)

var (
	// {00021401-0000-0000-C000-000000000046}
	linkCLSID = [16]byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}
	// {20D04FE0-3AEA-1069-A2D8-08002B30309D}, "My Computer"
	myComputerCLSID = [16]byte{0xE0, 0x4F, 0xD0, 0x20, 0xEA, 0x3A, 0x69, 0x10, 0xA2, 0xD8, 0x08, 0x00, 0x2B, 0x30, 0x30, 0x9D}
)

// LinkWriter persists descriptors as .lnk files on the local filesystem.
// All timestamps are zero so the same descriptor always yields the same bytes.
type LinkWriter struct {
	FS filesystem.FS
}

// NewLinkWriter creates a writer on fsys
func NewLinkWriter(fsys filesystem.FS) *LinkWriter {
	return &LinkWriter{FS: fsys}
}

// Persist encodes d and writes it to d.LinkPath, replacing any previous file
func (w *LinkWriter) Persist(_ context.Context, d types.ShortcutDescriptor) (string, error) {
	logger := logging.GetLogger("shortcut.lnk")

	data, err := EncodeLink(d)
	if err != nil {
		return "", err
	}
	if err := filesystem.WriteFileAtomic(w.FS, d.LinkPath, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrShortcutPersist, "failed to write %s", d.LinkPath)
	}

	logger.Debug().
		Str("link", d.LinkPath).
		Str("target", d.TargetExecutable).
		Int("bytes", len(data)).
		Msg("Shortcut written")
	return d.LinkPath, nil
}

// EncodeLink renders d in the shell link binary format
func EncodeLink(d types.ShortcutDescriptor) ([]byte, error) {
	if len(d.PathSegments) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "descriptor has no path segments")
	}

	idList, err := encodeIDList(d.PathSegments)
	if err != nil {
		return nil, err
	}

	flags := uint32(flagHasLinkTargetIDList | flagIsUnicode)
	var strs bytes.Buffer
	// StringData order is fixed: name, relative path, working dir, arguments, icon location
	if d.Comment != "" {
		flags |= flagHasName
		writeCountedString(&strs, d.Comment)
	}
	if d.WorkingDirectory != "" {
		flags |= flagHasWorkingDir
		writeCountedString(&strs, d.WorkingDirectory)
	}
	if d.Arguments != "" {
		flags |= flagHasArguments
		writeCountedString(&strs, d.Arguments)
	}
	if d.IconPath != "" {
		flags |= flagHasIconLocation
		writeCountedString(&strs, d.IconPath)
	}

	var fileSize uint32
	if last := d.PathSegments[len(d.PathSegments)-1]; last.Kind == types.SegmentFile {
		fileSize = last.SizeHint
	}

	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(headerSize))
	buf.Write(linkCLSID[:])
	_ = binary.Write(&buf, le, flags)
	_ = binary.Write(&buf, le, uint32(attrArchive))
	buf.Write(make([]byte, 24)) // creation, access and write times
	_ = binary.Write(&buf, le, fileSize)
	_ = binary.Write(&buf, le, int32(d.IconIndex))
	_ = binary.Write(&buf, le, uint32(showNormal))
	_ = binary.Write(&buf, le, uint16(0)) // hotkey
	buf.Write(make([]byte, 10))           // reserved

	_ = binary.Write(&buf, le, uint16(len(idList)))
	buf.Write(idList)
	buf.Write(strs.Bytes())
	_ = binary.Write(&buf, le, uint32(0)) // terminal block

	return buf.Bytes(), nil
}

// encodeIDList returns the item id list body, terminator included but size prefix excluded
func encodeIDList(segments []types.PathSegment) ([]byte, error) {
	var list bytes.Buffer

	root := append([]byte{itemRoot, 0x50}, myComputerCLSID[:]...)
	writeItem(&list, root)

	for i, seg := range segments {
		switch seg.Kind {
		case types.SegmentDrive:
			if i != 0 {
				return nil, errors.Newf(errors.ErrMalformedPath, "drive segment %q at position %d", seg.Name, i)
			}
			writeItem(&list, driveItem(seg.Name))
		case types.SegmentFolder:
			writeItem(&list, fileEntryItem(itemFolder, attrDirectory, seg))
		case types.SegmentFile:
			writeItem(&list, fileEntryItem(itemFile, attrArchive, seg))
		default:
			return nil, errors.Newf(errors.ErrMalformedPath, "unknown segment kind %d", seg.Kind)
		}
	}

	list.Write([]byte{0, 0})
	return list.Bytes(), nil
}

func writeItem(buf *bytes.Buffer, body []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(body)+2))
	buf.Write(body)
}

func driveItem(name string) []byte {
	if !strings.HasSuffix(name, Separator) {
		name += Separator
	}
	body := make([]byte, 1+driveFieldSize)
	body[0] = itemDrive
	copy(body[1:], name)
	return body
}

// fileEntryItem builds a file or folder shell item with a 0xBEEF0004
// extension block carrying the unicode long name
func fileEntryItem(kind byte, attrs uint16, seg types.PathSegment) []byte {
	le := binary.LittleEndian
	var b bytes.Buffer
	b.WriteByte(kind)
	b.WriteByte(0)
	_ = binary.Write(&b, le, seg.SizeHint)
	_ = binary.Write(&b, le, uint32(0)) // DOS date and time
	_ = binary.Write(&b, le, attrs)

	short := asciiName(seg.Name)
	b.WriteString(short)
	b.WriteByte(0)
	if (len(short)+1)%2 != 0 {
		b.WriteByte(0)
	}

	// offset is relative to the start of the item, which includes its size field
	extOffset := uint16(b.Len() + 2)
	long := utf16.Encode([]rune(seg.Name))
	extSize := uint16(20 + 2*(len(long)+1))

	_ = binary.Write(&b, le, extSize)
	_ = binary.Write(&b, le, uint16(extensionVersion))
	_ = binary.Write(&b, le, uint32(extensionSignature))
	_ = binary.Write(&b, le, uint32(0)) // creation
	_ = binary.Write(&b, le, uint32(0)) // last access
	_ = binary.Write(&b, le, uint16(0x14))
	_ = binary.Write(&b, le, long)
	_ = binary.Write(&b, le, uint16(0))
	_ = binary.Write(&b, le, extOffset)
	return b.Bytes()
}

// asciiName replaces characters outside printable ASCII so the primary
// name stays a valid single-byte string; the long name keeps the original
func asciiName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r > 0x7E {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func writeCountedString(buf *bytes.Buffer, s string) {
	units := utf16.Encode([]rune(s))
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(units)))
	_ = binary.Write(buf, binary.LittleEndian, units)
}
