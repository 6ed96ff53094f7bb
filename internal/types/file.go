// Package types provides core data structures for audio file metadata.
//
// This package defines the File, Tags, AudioInfo, StreamInfo and Artwork
// types shared by every format parser, the Sink the parsers report into,
// and the error taxonomy.
package types

import "log/slog"

// File is the metadata a format parser collected from one file.
type File struct {
	Path     string
	RawTags  []RawTag
	Streams  []StreamInfo
	Artwork  []Artwork
	Chapters []Chapter
	Warnings []Warning
	Tags     Tags
	Audio    AudioInfo
	Format   Format
	Size     int64

	// Incomplete is set on the partial result attached to a ParseError.
	Incomplete bool
}

// ParseOptions configures a single parse.
type ParseOptions struct {
	// Logger receives debug diagnostics. Nil means discard.
	Logger *slog.Logger

	// SkipArtwork drops embedded pictures instead of collecting them.
	SkipArtwork bool

	// MaxArtworkSize skips pictures larger than this many bytes (0 = no limit).
	MaxArtworkSize int
}

// Log returns the configured logger, or a discarding one.
func (o ParseOptions) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
