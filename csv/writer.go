package csv

import (
	"archive/zip"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/excelstream/go-excelstream/cell"
	"github.com/excelstream/go-excelstream/exceldate"
)

// Writer streams records to a delimiter-separated-values destination.  It
// is not safe for concurrent use.
type Writer struct {
	bw  *bufio.Writer
	enc Encoder
	buf []byte

	zw      *zip.Writer // non-nil in zip mode; closed before the file
	closers []io.Closer
}

// NewWriter returns a Writer over w with the default comma and
// double-quote configuration.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w), enc: NewEncoder()}
}

// Create creates the named file, applying compression based on the
// extension: ".gz" writes through a gzip compressor and ".zip" writes one
// archive entry named after the file without its ".zip" suffix.  The
// caller must call Close on the returned Writer.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create %q: %w", path, err)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz := gzip.NewWriter(f)
		w := NewWriter(gz)
		w.closers = []io.Closer{gz, f}
		return w, nil

	case strings.HasSuffix(path, ".zip"):
		zw := zip.NewWriter(f)
		entryName := strings.TrimSuffix(filepath.Base(path), ".zip")
		if !strings.HasSuffix(entryName, ".csv") {
			entryName += ".csv"
		}
		ew, err := zw.Create(entryName)
		if err != nil {
			_ = zw.Close()
			_ = f.Close()
			return nil, fmt.Errorf("csv: create zip entry in %q: %w", path, err)
		}
		w := NewWriter(ew)
		w.zw = zw
		w.closers = []io.Closer{f}
		return w, nil

	default:
		w := NewWriter(f)
		w.closers = []io.Closer{f}
		return w, nil
	}
}

// SetDelimiter changes the field delimiter.  Call it before the first
// write.
func (w *Writer) SetDelimiter(d byte) { w.enc.Delim = d }

// SetQuote changes the quote character.  Call it before the first write.
func (w *Writer) SetQuote(q byte) { w.enc.Quote = q }

// WriteRow writes one record followed by a line terminator.
func (w *Writer) WriteRow(fields []string) error {
	w.buf = w.enc.EncodeRow(w.buf[:0], fields)
	w.buf = append(w.buf, '\n')
	if _, err := w.bw.Write(w.buf); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	return nil
}

// WriteRowTyped renders typed cell values as text and writes them as one
// record.  Date serials are rendered as calendar dates rather than raw
// numbers; every other kind follows its plain string form.
func (w *Writer) WriteRowTyped(values []cell.Value) error {
	fields := make([]string, len(values))
	for i, v := range values {
		if v.Kind() == cell.KindDateTime {
			serial, _ := v.AsFloat64()
			fields[i] = exceldate.FormatSerial(serial)
			continue
		}
		fields[i] = v.AsString()
	}
	return w.WriteRow(fields)
}

// Flush forces buffered records down to the destination.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the compressor and file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			return fmt.Errorf("csv: close zip: %w", err)
		}
		w.zw = nil
	}
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = fmt.Errorf("csv: close: %w", err)
		}
	}
	w.closers = nil
	return first
}
