package mediaprobe

import (
	"log/slog"

	"github.com/simonhull/mediaprobe/internal/types"
)

// Option configures behavior when opening media files.
//
// Example:
//
//	file, err := mediaprobe.Open("song.mp3",
//	    mediaprobe.WithStrictParsing(),
//	    mediaprobe.WithMaxArtworkSize(10<<20),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger         *slog.Logger
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
	skipArtwork    bool // Drop embedded pictures
	maxArtworkSize int  // Maximum artwork size in bytes (0 = no limit)
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

func newOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// parseOptions converts the options into what format parsers receive.
func (o *openOptions) parseOptions() types.ParseOptions {
	return types.ParseOptions{
		Logger:         o.logger,
		SkipArtwork:    o.skipArtwork,
		MaxArtworkSize: o.maxArtworkSize,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, mediaprobe continues parsing when it encounters issues
// like undecodable ID3v2 frames or an oversized picture, returning warnings
// alongside the parsed data.
//
// With strict parsing enabled, the first warning becomes the error.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// File.Warnings will always be empty.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithMaxArtworkSize sets a maximum size limit for embedded pictures.
//
// Larger pictures are skipped with a warning. Default is 0 (no limit).
//
// Example:
//
//	// Limit artwork to 10MB
//	file, err := mediaprobe.Open("song.mp3",
//	    mediaprobe.WithMaxArtworkSize(10*1024*1024),
//	)
func WithMaxArtworkSize(bytes int) Option {
	return func(o *openOptions) {
		o.maxArtworkSize = bytes
	}
}

// WithoutArtwork drops embedded pictures instead of keeping them in memory.
func WithoutArtwork() Option {
	return func(o *openOptions) {
		o.skipArtwork = true
	}
}

// WithLogger sets the logger parsers write Debug diagnostics to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}
