package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioInfo represents technical audio properties of the selected audio stream.
type AudioInfo struct {
	Codec        string
	CodecProfile string
	Container    string // e.g. "EBML/matroska", "MPEG", "MP4"
	Tool         string // Encoder that produced the stream, e.g. "LAME3.100"
	Duration     time.Duration
	SampleRate   int
	BitDepth     int
	Channels     int
	Bitrate      int
	Samples      int64
	Lossless     bool
	VBR          bool
}

// String returns a human-readable representation of the audio info.
// Example output: "FLAC 48.0kHz 24-bit stereo lossless".
func (a AudioInfo) String() string {
	parts := []string{a.Codec}

	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if a.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", a.BitDepth))
	}
	if ch := channelDescription(a.Channels); ch != "" {
		parts = append(parts, ch)
	}

	switch {
	case a.Lossless:
		parts = append(parts, "lossless")
	case a.Bitrate > 0:
		quality := fmt.Sprintf("%dkbps", a.Bitrate/1000)
		if a.VBR {
			quality += " VBR"
		}
		parts = append(parts, quality)
	}

	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// IsHighRes reports whether the sample rate exceeds 48kHz or the bit depth
// exceeds 16 bits.
func (a AudioInfo) IsHighRes() bool {
	return a.SampleRate > 48000 || a.BitDepth > 16
}

// TrackType is the Matroska track type code. Other containers report
// TrackTypeAudio for their single audio stream.
type TrackType int

const (
	TrackTypeUnknown  TrackType = 0x00
	TrackTypeVideo    TrackType = 0x01
	TrackTypeAudio    TrackType = 0x02
	TrackTypeComplex  TrackType = 0x03
	TrackTypeLogo     TrackType = 0x10
	TrackTypeSubtitle TrackType = 0x11
	TrackTypeButton   TrackType = 0x12
	TrackTypeControl  TrackType = 0x20
	TrackTypeMetadata TrackType = 0x21
)

// String returns the lower-case track type name.
func (t TrackType) String() string {
	switch t {
	case TrackTypeVideo:
		return "video"
	case TrackTypeAudio:
		return "audio"
	case TrackTypeComplex:
		return "complex"
	case TrackTypeLogo:
		return "logo"
	case TrackTypeSubtitle:
		return "subtitle"
	case TrackTypeButton:
		return "button"
	case TrackTypeControl:
		return "control"
	case TrackTypeMetadata:
		return "metadata"
	default:
		return fmt.Sprintf("type(0x%02x)", int(t))
	}
}

// StreamInfo describes one elementary stream (track) inside a container.
type StreamInfo struct {
	Audio         *AudioTrack
	Video         *VideoTrack
	CodecName     string
	CodecSettings string
	Language      string
	Name          string
	Type          TrackType
	Number        uint64
	FlagDefault   bool
	FlagEnabled   bool
	FlagLacing    bool
}

// AudioTrack holds audio-specific stream parameters.
type AudioTrack struct {
	SamplingFrequency       float64
	OutputSamplingFrequency float64
	Channels                uint64
	BitDepth                uint64
}

// VideoTrack holds the video parameters needed for stream listings.
type VideoTrack struct {
	PixelWidth     uint64
	PixelHeight    uint64
	DisplayWidth   uint64
	DisplayHeight  uint64
	FlagInterlaced bool
}
