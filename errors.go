package mediaprobe

import (
	"github.com/simonhull/mediaprobe/internal/types"
)

// Sentinel errors wrapped by ParseError.
var (
	ErrMalformedVint           = types.ErrMalformedVint
	ErrUnexpectedEndOfStream   = types.ErrUnexpectedEndOfStream
	ErrInvalidFloatWidth       = types.ErrInvalidFloatWidth
	ErrUnsupportedMajorVersion = types.ErrUnsupportedMajorVersion
)

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is returned when the file format is not recognized.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError = types.CorruptedFileError

// ParseError is returned when a parser gives up on a file. Its Partial
// field holds what was collected before the failure.
type ParseError = types.ParseError

// Warning is a non-fatal issue found while parsing.
type Warning = types.Warning
