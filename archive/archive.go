// Package archive provides bounded-memory access to the named parts of a
// spreadsheet container (a ZIP archive).
//
// Small manifest-like parts are read fully with ReadAll; large parts such as
// worksheet XML are consumed through Stream, which decompresses on demand so
// resident memory stays proportional to the caller's chunk size rather than
// the entry's uncompressed size.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned when a named entry does not exist in the archive.
// Match it with errors.Is.
var ErrNotFound = errors.New("archive: entry not found")

// Entry describes one named part of the container.
type Entry struct {
	// Name is the full path of the entry within the archive.
	Name string
	// CompressedSize is the stored byte size of the entry.
	CompressedSize uint64
	// UncompressedSize is the declared size after decompression.
	UncompressedSize uint64
}

// Archive is an open container.  It is safe for sequential use by a single
// goroutine; concurrent readers should each open their own Archive.
type Archive struct {
	zr *zip.ReadCloser // non-nil when opened by file name
	zf *zip.Reader     // always non-nil
}

// Open opens the named container file.  The caller must call Close on the
// returned Archive when done.
func Open(name string) (*Archive, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("archive: open %q: %w", name, err)
	}
	return &Archive{zr: rc, zf: &rc.Reader}, nil
}

// OpenReader opens a container from an arbitrary io.ReaderAt.  size must
// equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*Archive, error) {
	zf, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("archive: open reader: %w", err)
	}
	return &Archive{zf: zf}, nil
}

// Entries lists the archive's parts in central-directory order.
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, len(a.zf.File))
	for i, f := range a.zf.File {
		entries[i] = Entry{
			Name:             f.Name,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
		}
	}
	return entries
}

// ReadAll reads the full contents of the named entry.  A missing entry
// returns an error wrapping ErrNotFound; decompression and checksum
// failures are propagated rather than masked.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	rc, err := a.open(name)
	if err != nil {
		return nil, err
	}
	data, readErr := io.ReadAll(rc)
	closeErr := rc.Close()
	if readErr != nil {
		return nil, fmt.Errorf("archive: read %q: %w", name, readErr)
	}
	// Propagate decompressor checksum errors even when the read itself
	// appeared to succeed (e.g. a truncated deflate stream).
	if closeErr != nil {
		return nil, fmt.Errorf("archive: read %q: %w", name, closeErr)
	}
	return data, nil
}

// Stream opens the named entry for incremental reading.  Each Read call
// decompresses at most len(p) bytes, so the caller controls resident
// memory.  The caller must Close the returned reader.
func (a *Archive) Stream(name string) (*EntryReader, error) {
	rc, err := a.open(name)
	if err != nil {
		return nil, err
	}
	return &EntryReader{name: name, rc: rc}, nil
}

// Close releases the underlying file handle.  It is a no-op when the
// archive was opened via OpenReader.
func (a *Archive) Close() error {
	if a.zr != nil {
		return a.zr.Close()
	}
	return nil
}

func (a *Archive) open(name string) (io.ReadCloser, error) {
	for _, f := range a.zf.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				// zip.ErrAlgorithm surfaces here for unsupported
				// compression methods.
				return nil, fmt.Errorf("archive: open entry %q: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("archive: %q: %w", name, ErrNotFound)
}

// EntryReader is a bounded-memory byte source for one archive entry.
type EntryReader struct {
	name string
	rc   io.ReadCloser
}

// Name returns the entry name this reader was opened for.
func (r *EntryReader) Name() string { return r.name }

// Read reads up to len(p) decompressed bytes, returning io.EOF at the end
// of the entry.
func (r *EntryReader) Read(p []byte) (int, error) {
	return r.rc.Read(p)
}

// Close releases the entry's decompressor.
func (r *EntryReader) Close() error {
	return r.rc.Close()
}
