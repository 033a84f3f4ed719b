// Package fileio opens annotation files for reading and writing, decoding
// and encoding compression based on the file extension.
package fileio

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies the codec applied to a stream.
type Compression int

const (
	// None means plain text.
	None Compression = iota
	// Gzip covers .gz inputs and outputs.
	Gzip
	// Zstd covers .zst and .zstd inputs and outputs.
	Zstd
	// Bzip2 covers .bz2 and .bzip2 inputs (decode only).
	Bzip2
)

// FromExtension detects the compression codec from a file path.
func FromExtension(path string) Compression {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return Gzip
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return Zstd
	case strings.HasSuffix(lower, ".bz2"), strings.HasSuffix(lower, ".bzip2"):
		return Bzip2
	default:
		return None
	}
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a file for reading, stacking a decompressor when the
// extension calls for one.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch FromExtension(path) {
	case Gzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd reader: %w", err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, f}}, nil
	case Bzip2:
		return &readCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create creates a file for writing, stacking a compressor when the
// extension calls for one. Bzip2 output is not supported.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	switch FromExtension(path) {
	case Gzip:
		gz := gzip.NewWriter(f)
		return &writeCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd writer: %w", err)
		}
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case Bzip2:
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("create %s: bzip2 output is not supported", path)
	default:
		return f, nil
	}
}
