// Package registry manages the format-specific parsers.
package registry

import (
	"context"
	"io"
	"slices"

	"github.com/simonhull/mediaprobe/internal/types"
)

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse extracts metadata from a media file.
	//
	// On an unrecoverable decode failure it returns a *types.ParseError whose
	// Partial field holds what was collected up to that point.
	Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts types.ParseOptions) (*types.File, error)
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	formats := make([]types.Format, 0, len(parsers))
	for f := range parsers {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
