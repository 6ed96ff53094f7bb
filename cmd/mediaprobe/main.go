// Command mediaprobe prints the metadata of MP3, MP4 and Matroska files.
//
// Usage:
//
//	mediaprobe [-v] [-raw] [-strict] [-no-artwork] <file>...
//	mediaprobe -version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/simonhull/mediaprobe"
)

func main() {
	verbose := flag.Bool("v", false, "log parser progress to stderr")
	raw := flag.Bool("raw", false, "print every raw tag")
	strict := flag.Bool("strict", false, "fail on the first parse warning")
	noArtwork := flag.Bool("no-artwork", false, "skip embedded pictures")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: mediaprobe [flags] <file>...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(mediaprobe.GetVersionInfo())
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []mediaprobe.Option{mediaprobe.WithLogger(logger)}
	if *strict {
		opts = append(opts, mediaprobe.WithStrictParsing())
	}
	if *noArtwork {
		opts = append(opts, mediaprobe.WithoutArtwork())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status := 0
	for i, path := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		if err := probe(ctx, os.Stdout, path, *raw, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
		}
	}
	os.Exit(status)
}

func probe(ctx context.Context, w io.Writer, path string, raw bool, opts []mediaprobe.Option) error {
	file, err := mediaprobe.OpenContext(ctx, path, opts...)
	if err != nil {
		// Print what was read before the failure.
		var perr *mediaprobe.ParseError
		if errors.As(err, &perr) && perr.Partial != nil {
			fmt.Fprintf(w, "%s (incomplete)\n", path)
			fmt.Fprintf(w, "  Format: %s\n", perr.Partial.Format)
			fmt.Fprintf(w, "  Title:  %s\n", perr.Partial.Tags.Title)
		}
		return err
	}
	defer file.Close()

	fmt.Fprintf(w, "%s\n", file.Path)
	fmt.Fprintf(w, "  Format:   %s (%d bytes)\n", file.Format, file.Size)
	fmt.Fprintf(w, "  Audio:    %s\n", file.Audio)

	printField(w, "Title", file.Tags.Title)
	printField(w, "Artist", file.Tags.Artist)
	printField(w, "Album", file.Tags.Album)
	printField(w, "Genre", strings.Join(file.Tags.Genres, ", "))
	if file.Tags.TrackNumber > 0 {
		fmt.Fprintf(w, "  Track:    %d/%d\n", file.Tags.TrackNumber, file.Tags.TrackTotal)
	}

	for _, s := range file.Streams {
		fmt.Fprintf(w, "  Stream %d: %s %s", s.Number, s.Type, s.CodecName)
		if s.Language != "" {
			fmt.Fprintf(w, " [%s]", s.Language)
		}
		fmt.Fprintln(w)
	}
	for _, ch := range file.Chapters {
		fmt.Fprintf(w, "  %s\n", ch)
	}
	for _, art := range file.Artwork {
		fmt.Fprintf(w, "  Artwork:  %s\n", art)
	}
	if raw {
		for _, tag := range file.RawTags() {
			fmt.Fprintf(w, "  %s:%s = %s\n", tag.Namespace, tag.Key, tag)
		}
	}
	for _, warn := range file.Warnings {
		fmt.Fprintf(w, "  Warning:  %s\n", warn)
	}
	return nil
}

func printField(w io.Writer, name, value string) {
	if value != "" {
		fmt.Fprintf(w, "  %-9s %s\n", name+":", value)
	}
}
