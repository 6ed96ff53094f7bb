package types

import (
	"io"

	"github.com/simonhull/mediaprobe/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MPEG audio, usually with an ID3v2 tag.
	FormatMP3
	// FormatM4A represents MP4 audio files.
	FormatM4A
	// FormatM4B represents MP4 audiobook files.
	FormatM4B
	// FormatMatroska represents Matroska (mka/mkv) files.
	FormatMatroska
	// FormatWebM represents WebM files, the Matroska subset used on the web.
	FormatWebM
)

// ebmlMagic is the EBML header element ID every Matroska/WebM file starts with.
const ebmlMagic = 0x1A45DFA3

// String returns the human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatM4A:
		return "M4A"
	case FormatM4B:
		return "M4B"
	case FormatMatroska:
		return "Matroska"
	case FormatWebM:
		return "WebM"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatM4A:
		return []string{".m4a", ".mp4", ".m4p"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatMatroska:
		return []string{".mka", ".mkv", ".mk3d"}
	case FormatWebM:
		return []string{".webm", ".weba"}
	default:
		return nil
	}
}

// DetectFormat determines the container format by examining magic bytes.
//
// Matroska and WebM share a signature; DetectFormat reports FormatMatroska
// and the Matroska parser refines it once it has read the EBML DocType.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if uint32(magic[0])<<24|uint32(magic[1])<<16|uint32(magic[2])<<8|uint32(magic[3]) == ebmlMagic {
		return FormatMatroska, nil
	}

	if string(magic[:3]) == "ID3" {
		return FormatMP3, nil
	}

	// MPEG frame sync without a leading ID3v2 tag
	if magic[0] == 0xFF && (magic[1]&0xE0) == 0xE0 {
		return FormatMP3, nil
	}

	if size >= 12 {
		return detectMP4(sr, path)
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}

// detectMP4 checks for an ftyp atom and classifies its major brand.
func detectMP4(sr *binary.SafeReader, path string) (Format, error) {
	atomSize, err := binary.Read[uint32](sr, 0, "ftyp atom size")
	if err != nil {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read file header"}
	}

	header := make([]byte, 8)
	if err := sr.ReadAt(header, 4, "ftyp atom type and brand"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{Path: path, Reason: "failed to read file header"}
	}

	if string(header[:4]) != "ftyp" {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "unsupported file format",
		}
	}

	// size + type + major brand + minor version
	if atomSize < 16 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "ftyp atom too small",
		}
	}

	switch string(header[4:]) {
	case "M4B ":
		return FormatM4B, nil
	case "M4A ", "mp42", "isom", "mp41", "dash":
		return FormatM4A, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file brand",
	}
}
