package mediaprobe

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"go4.org/readerutil"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mediaprobe/internal/registry"
	"github.com/simonhull/mediaprobe/internal/types"
)

// File represents an opened media file with parsed metadata.
//
// Always call Close() when done to release file resources:
//
//	file, err := mediaprobe.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path to the media file
	Path string

	// Detected format, refined by the parser (e.g. Matroska -> WebM)
	Format Format

	// File size in bytes
	Size int64

	// Parsed metadata (format-agnostic)
	Tags Tags

	// Technical properties of the main audio stream
	Audio AudioInfo

	// Every track the container declares
	Streams []StreamInfo

	// Chapters in file order
	Chapters []Chapter

	// Embedded pictures and attached images
	Artwork []Artwork

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning

	reader  io.ReaderAt
	rawTags []RawTag
}

// Open opens a media file and reads its metadata.
//
// Only the metadata is read; audio and video payloads are skipped. If a
// tag or atom is damaged, Open returns the rest of the metadata with a
// warning in File.Warnings. A structurally broken file fails with a
// *ParseError carrying the partial result.
//
// Example:
//
//	file, err := mediaprobe.Open("song.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
func Open(path string, opts ...Option) (*File, error) {
	return OpenContext(context.Background(), path, opts...)
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before every read, so cancelling aborts a parse
// in progress.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	file, err := mediaprobe.OpenContext(ctx, "movie.mkv")
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(ctx, f, stat.Size(), path, newOptions(opts))
	if err != nil {
		f.Close()
		return nil, err
	}

	// Keep the handle so Close releases it.
	file.reader = f
	return file, nil
}

// OpenReader reads metadata from r. name is used in errors and warnings.
//
// The size is taken from r when it implements readerutil.SizeReaderAt, and
// otherwise discovered with readerutil.Size (Size, Len or Stat methods, or
// seeking). Close on the returned File closes r if it is an io.Closer.
func OpenReader(ctx context.Context, r io.ReaderAt, name string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size, ok := readerSize(r)
	if !ok {
		return nil, fmt.Errorf("%s: cannot determine reader size", name)
	}

	file, err := openReader(ctx, r, size, name, newOptions(opts))
	if err != nil {
		return nil, err
	}
	file.reader = r
	return file, nil
}

func readerSize(r io.ReaderAt) (int64, bool) {
	if sra, ok := r.(readerutil.SizeReaderAt); ok {
		return sra.Size(), true
	}
	if rd, ok := r.(io.Reader); ok {
		return readerutil.Size(rd)
	}
	return 0, false
}

// openReader detects the format and runs its parser.
func openReader(ctx context.Context, r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	parsed, err := parser.Parse(ctx, r, size, path, options.parseOptions())
	if err != nil {
		return nil, err
	}

	file := newFile(parsed)
	if options.strictParsing && len(file.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", file.Warnings[0])
	}
	if options.ignoreWarnings {
		file.Warnings = nil
	}
	return file, nil
}

func newFile(f *types.File) *File {
	return &File{
		Path:     f.Path,
		Format:   f.Format,
		Size:     f.Size,
		Tags:     f.Tags,
		Audio:    f.Audio,
		Streams:  f.Streams,
		Chapters: f.Chapters,
		Artwork:  f.Artwork,
		Warnings: f.Warnings,
		rawTags:  f.RawTags,
	}
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// RawTags returns every tag in the order the parser reported it, including
// those not mapped to the standard Tags fields.
//
// The returned slice should not be modified.
func (f *File) RawTags() []RawTag {
	return f.rawTags
}

// OpenMany opens multiple media files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := mediaprobe.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	return OpenManyWith(ctx, paths, nil)
}

// OpenManyWith is OpenMany with options applied to every file.
func OpenManyWith(ctx context.Context, paths []string, opts []Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
