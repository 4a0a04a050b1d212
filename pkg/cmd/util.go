package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/consts"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/urfave/cli/v3"
)

const (
	compressionNone   = "none"
	compressionGzip   = "gzip"
	compressionZstd   = "zstd"
	compressionLZ4    = "lz4"
	compressionBrotli = "br"

	stdio = "-"
)

func compressionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "compression",
		Usage: "compression of the binary stream (none, gzip, zstd, lz4, br)",
		Value: compressionNone,
		Validator: func(s string) error {
			switch s {
			case compressionNone, compressionGzip, compressionZstd, compressionLZ4, compressionBrotli:
				return nil
			}
			return errors.Errorf("unsupported compression %q", s)
		},
	}
}

func rowBinaryFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "rowbinary-format",
		Aliases: []string{"f"},
		Usage:   "RowBinary, RowBinaryWithNames or RowBinaryWithNamesAndTypes",
		Value:   rowbinary.FormatWithNamesAndTypes.String(),
		Validator: func(s string) error {
			_, err := rowbinary.ParseFormat(s)
			return err
		},
	}
}

func outputFormatFlag(usage, value string, allowed ...string) cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: usage + " (" + strings.Join(allowed, ", ") + ")",
		Value: value,
		Validator: func(s string) error {
			for _, a := range allowed {
				if s == a {
					return nil
				}
			}
			return errors.Errorf("unsupported format %q", s)
		},
	}
}

// openInput opens path, or r when path is "-", and undoes the given compression.
func openInput(r io.Reader, path, compression string) (io.ReadCloser, error) {
	var src io.ReadCloser = io.NopCloser(r)
	if path != stdio && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open file: %s", path)
		}
		src = f
	}

	switch compression {
	case compressionGzip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			_ = src.Close()
			return nil, errors.Wrap(err, "failed to read gzip header")
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, src}}, nil
	case compressionZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			_ = src.Close()
			return nil, errors.Wrap(err, "failed to create zstd reader")
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), src}}, nil
	case compressionLZ4:
		return &stackedReader{Reader: lz4.NewReader(src), closers: []io.Closer{src}}, nil
	case compressionBrotli:
		return &stackedReader{Reader: brotli.NewReader(src), closers: []io.Closer{src}}, nil
	}

	return src, nil
}

// openOutput creates path, or wraps w when path is "-", compressing what is written.
func openOutput(w io.Writer, path, compression string) (io.WriteCloser, error) {
	var dst io.WriteCloser = nopWriteCloser{w}
	if path != stdio && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, consts.ModeFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create file: %s", path)
		}
		dst = f
	}

	switch compression {
	case compressionGzip:
		zw := gzip.NewWriter(dst)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, dst}}, nil
	case compressionZstd:
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			_ = dst.Close()
			return nil, errors.Wrap(err, "failed to create zstd writer")
		}
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, dst}}, nil
	case compressionLZ4:
		zw := lz4.NewWriter(dst)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, dst}}, nil
	case compressionBrotli:
		zw := brotli.NewWriter(dst)
		return &stackedWriter{Writer: zw, closers: []io.Closer{zw, dst}}, nil
	}

	return dst, nil
}

type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error { return closeAll(s.closers) }

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error { return closeAll(s.closers) }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// closeAll closes innermost first and returns the first error.
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
