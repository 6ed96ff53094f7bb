package types

import (
	"errors"
	"fmt"

	"github.com/simonhull/mediaprobe/internal/binary"
)

// Unrecoverable decode failures. A parser that hits one of these aborts the
// whole container walk; callers match them with errors.Is.
var (
	// ErrMalformedVint is returned for an EBML variable-length integer whose
	// first byte carries no width marker.
	ErrMalformedVint = errors.New("malformed variable-length integer")

	// ErrUnexpectedEndOfStream is returned when a declared length runs past
	// the physical end of the stream.
	ErrUnexpectedEndOfStream = binary.ErrUnexpectedEndOfStream

	// ErrInvalidFloatWidth is returned for an EBML float whose payload is not
	// 0, 4, 8 or 10 bytes long.
	ErrInvalidFloatWidth = errors.New("invalid IEEE-754 float width")

	// ErrUnsupportedMajorVersion is returned by tag decoders for a major
	// version they do not know how to read.
	ErrUnsupportedMajorVersion = errors.New("unsupported major version")
)

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError = binary.BoundsError

// UnsupportedFormatError is returned when the file format is not recognized.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ParseError is the single error a format parser returns when it had to give
// up on a file.
//
// Partial carries whatever was collected before the failure. It is marked
// Incomplete and must not be presented as the file's full metadata.
type ParseError struct {
	Err     error
	Partial *File
	Path    string
	Format  Format
	Offset  int64
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse %s at offset %d: %v", e.Path, e.Format, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - An undecodable ID3v2 frame
//   - A picture that exceeds the configured size limit
//   - A missing MP4 sample description
//
// Warnings are collected in File.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "technical", "artwork"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
