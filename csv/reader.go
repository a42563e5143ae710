package csv

import (
	"archive/zip"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader streams records from a delimiter-separated-values source.  It is
// not safe for concurrent use.
type Reader struct {
	br      *bufio.Reader
	parser  Parser
	closers []io.Closer

	hasHeader  bool
	headers    []string
	headerRead bool
	eof        bool
}

// NewReader returns a Reader over r with the default comma and
// double-quote configuration.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r), parser: NewParser()}
}

// Open opens the named file, undoing compression based on the extension:
// ".gz" streams through a gzip decompressor and ".zip" reads the first
// file entry of the archive.  Anything else is read as plain text.  The
// caller must call Close on the returned Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: open gzip %q: %w", path, err)
		}
		r := NewReader(gz)
		r.closers = []io.Closer{gz, f}
		return r, nil

	case strings.HasSuffix(path, ".zip"):
		rc, err := openZipEntry(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: open zip %q: %w", path, err)
		}
		r := NewReader(rc)
		r.closers = []io.Closer{rc, f}
		return r, nil

	default:
		r := NewReader(f)
		r.closers = []io.Closer{f}
		return r, nil
	}
}

// SetDelimiter changes the field delimiter.  Call it before the first
// read.
func (r *Reader) SetDelimiter(d byte) { r.parser.Delim = d }

// SetQuote changes the quote character.  Call it before the first read.
func (r *Reader) SetQuote(q byte) { r.parser.Quote = q }

// SetHasHeader marks the first record as a header row.  Header mode makes
// the first record available through Headers instead of Next.
func (r *Reader) SetHasHeader(has bool) { r.hasHeader = has }

// Headers returns the header record when header mode is on, reading it on
// first use.  It returns nil when header mode is off.
func (r *Reader) Headers() ([]string, error) {
	if !r.hasHeader {
		return nil, nil
	}
	if !r.headerRead {
		rec, err := r.readRecord()
		if err != nil {
			return nil, err
		}
		r.headers = rec
		r.headerRead = true
	}
	return r.headers, nil
}

// Next returns the next data record, or io.EOF after the last one.  In
// header mode the header row is consumed automatically and never returned
// here.
func (r *Reader) Next() ([]string, error) {
	if r.hasHeader && !r.headerRead {
		if _, err := r.Headers(); err != nil {
			return nil, err
		}
	}
	return r.readRecord()
}

// Close releases the underlying file and decompressor.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// readRecord reads one logical record, joining physical lines while a
// quoted field remains open.  Line endings are normalized: both "\r\n" and
// "\n" terminate a physical line.
func (r *Reader) readRecord() ([]string, error) {
	if r.eof {
		return nil, io.EOF
	}
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	for r.parser.Unbalanced(line) {
		next, err := r.readLine()
		if err == io.EOF {
			break // unterminated quote at end of input; parse what we have
		}
		if err != nil {
			return nil, err
		}
		line += "\n" + next
	}
	return r.parser.ParseLine(line), nil
}

// readLine returns the next physical line without its terminator.  A final
// line without a trailing newline is returned normally; the EOF surfaces
// on the following call.
func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err == io.EOF {
		r.eof = true
		if line == "" {
			return "", io.EOF
		}
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("csv: read: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// openZipEntry opens the data entry of a zip archive: the first entry
// whose name ends in ".csv", or failing that the first file entry.
func openZipEntry(f *os.File) (io.ReadCloser, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}
	var pick *zip.File
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name, ".csv") {
			pick = entry
			break
		}
		if pick == nil {
			pick = entry
		}
	}
	if pick == nil {
		return nil, fmt.Errorf("no file entries in archive")
	}
	return pick.Open()
}
