package mediaprobe

import (
	"io"

	"github.com/simonhull/mediaprobe/internal/types"
)

// Format is the detected container format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown  = types.FormatUnknown
	FormatMP3      = types.FormatMP3
	FormatM4A      = types.FormatM4A
	FormatM4B      = types.FormatM4B
	FormatMatroska = types.FormatMatroska
	FormatWebM     = types.FormatWebM
)

// DetectFormat determines the container format from its magic bytes.
// Matroska and WebM share a signature and are both reported as
// FormatMatroska; Open refines the result from the EBML DocType.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
