package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Artwork represents an embedded picture (cover art, artist photo, ...).
type Artwork struct {
	// MIME type of the image data
	MIMEType string // "image/jpeg", "image/png", "image/gif"

	// Description of the artwork (optional)
	Description string

	// Name is the attachment file name (Matroska attachments only)
	Name string

	// Image binary data
	Data []byte

	// Type of artwork (front cover, back cover, artist photo, etc.)
	Type ArtworkType

	// Dimensions (if available in metadata, otherwise 0)
	Width  int
	Height int
}

// ArtworkType categorizes the purpose of a picture.
//
// Values follow the ID3v2 APIC picture types.
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
type ArtworkType int

const (
	ArtworkOther ArtworkType = iota
	ArtworkIcon
	ArtworkOtherIcon
	ArtworkFrontCover
	ArtworkBackCover
	ArtworkLeaflet
	ArtworkMedia
	ArtworkLeadArtist
	ArtworkArtist
	ArtworkConductor
	ArtworkBand
	ArtworkComposer
	ArtworkLyricist
	ArtworkRecordingLocation
	ArtworkDuringRecording
	ArtworkDuringPerformance
	ArtworkVideoCapture
	ArtworkBrightFish
	ArtworkIllustration
	ArtworkBandLogotype
	ArtworkPublisherLogotype
)

var artworkTypeNames = [...]string{
	"Other",
	"File icon",
	"Other file icon",
	"Front cover",
	"Back cover",
	"Leaflet page",
	"Media",
	"Lead artist",
	"Artist",
	"Conductor",
	"Band",
	"Composer",
	"Lyricist",
	"Recording location",
	"During recording",
	"During performance",
	"Video capture",
	"A bright colored fish",
	"Illustration",
	"Band logotype",
	"Publisher logotype",
}

// String returns the picture type name used by ID3v2.
func (t ArtworkType) String() string {
	if t >= 0 && int(t) < len(artworkTypeNames) {
		return artworkTypeNames[t]
	}
	return fmt.Sprintf("ArtworkType(%d)", int(t))
}

// String returns a human-readable description of the artwork.
//
// Example output: "Front cover (1200x1200 JPEG, 245KB)"
func (a Artwork) String() string {
	dims := ""
	if a.Width > 0 && a.Height > 0 {
		dims = fmt.Sprintf("%dx%d ", a.Width, a.Height)
	}
	return fmt.Sprintf("%s (%s%s, %s)", a.Type, dims, mimeToFormat(a.MIMEType), formatSize(len(a.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}

// RawTag is one (namespace, key, value) triple exactly as a parser reported it.
//
// Value is one of string, []string, []byte, int, uint64, float64, bool,
// Artwork, or a format-specific struct implementing fmt.Stringer.
type RawTag struct {
	Value     any
	Namespace string // "matroska", "ID3v2.3", "iTunes", ...
	Key       string
}

// String renders the value as text.
func (r RawTag) String() string {
	return TagText(r.Value)
}

// TagText renders a tag value as text. Binary payloads are summarized, not dumped.
func TagText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, "; ")
	case []byte:
		if len(val) <= 16 {
			return hex.EncodeToString(val)
		}
		return fmt.Sprintf("<binary: %d bytes>", len(val))
	case Artwork:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
