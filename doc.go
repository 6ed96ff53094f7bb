// Package mediaprobe reads metadata from media files.
//
// It supports Matroska and WebM, MP3 (ID3v2.2, ID3v2.3, ID3v2.4 and ID3v1)
// and MP4 audio (M4A, M4B) behind a single API. Every format parser reports
// what it finds through the same collector, so tags, stream facts, chapters
// and artwork look the same whatever the container.
//
// # Quick Start
//
//	file, err := mediaprobe.Open("movie.mkv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
//	fmt.Printf("Duration: %s\n", file.Audio.Duration)
//
// # Supported Formats
//
//   - Matroska/WebM: EBML header, segment info, tracks, chapters, tags and
//     attached pictures
//   - MP3: ID3v2 frames, the first MPEG frame and its Xing/Info, LAME or
//     VBRI header, and a trailing ID3v1 tag
//   - M4A/M4B: iTunes item list, movie and track headers, Nero and
//     QuickTime chapters
//
// # Raw tags
//
// Well-known keys are mapped into the fields of Tags. Everything a parser
// reports is also kept as a RawTag under its namespace ("matroska",
// "ID3v2.3", "iTunes", ...) and in Tags under "namespace:key":
//
//	for key, values := range file.Tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// # Error Handling
//
// Non-fatal issues are collected in File.Warnings. A structurally broken
// file fails with a *ParseError that wraps one of the sentinel errors
// (ErrUnexpectedEndOfStream, ErrMalformedVint, ...) and carries the partial
// result:
//
//	file, err := mediaprobe.Open(path)
//	var perr *mediaprobe.ParseError
//	if errors.As(err, &perr) {
//		log.Printf("partial title: %s", perr.Partial.Tags.Title)
//	}
//
// # Concurrency
//
// OpenMany parses files in parallel. Every read checks its context, so
// cancelling stops a parse at the next read.
//
// # Logging
//
// Parsers log diagnostics through log/slog at Debug level. Pass a logger
// with WithLogger; the default discards everything.
package mediaprobe
