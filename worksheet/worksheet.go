// Package worksheet parses a single worksheet XML part and provides
// streaming row iteration with bounded memory.
//
// The parser never loads the sheet into memory or hands it to a DOM: it
// keeps a sliding byte buffer over the decompressed stream, scans it for
// row elements, and consumes one complete row per step.  Resident memory is
// proportional to the chunk size plus the largest single row, independent
// of sheet size.
package worksheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/excelstream/go-excelstream/cell"
	"github.com/excelstream/go-excelstream/exceldate"
	"github.com/excelstream/go-excelstream/internal/xmlesc"
	"github.com/excelstream/go-excelstream/stringtable"
	"github.com/excelstream/go-excelstream/styles"
)

const (
	defaultChunkSize = 32 * 1024

	// markerWindow is the number of trailing bytes retained when a scan
	// finds no row start, so a marker split across two reads survives.  It
	// only needs to exceed the longest marker ("</row>").
	markerWindow = 16
)

// ErrMalformedRow is wrapped into errors returned for structurally invalid
// row or cell markup.  The iterator stays usable after such an error: it
// returns the cells parsed so far and resynchronizes at the next row start.
// Match it with errors.Is.
var ErrMalformedRow = errors.New("worksheet: malformed row")

// RowIterator streams the rows of one worksheet part.  It is not safe for
// concurrent use.
type RowIterator struct {
	src    io.Reader
	closer io.Closer

	sst    *stringtable.Table // may be nil
	styles styles.Table       // may be nil / empty

	chunkSize int
	buf       []byte
	cur       int // scan cursor; bytes before it are consumed
	eof       bool

	nextIndex int // fallback row index when a row carries no r attribute
}

// NewRowIterator returns an iterator over the rows of the worksheet XML
// read from src.  sst resolves shared-string cells and may be nil when the
// container has no shared-string part; st refines date detection and may be
// nil.  When src also implements io.Closer, Close releases it.
func NewRowIterator(src io.Reader, sst *stringtable.Table, st styles.Table) *RowIterator {
	it := &RowIterator{
		src:       src,
		sst:       sst,
		styles:    st,
		chunkSize: defaultChunkSize,
	}
	if c, ok := src.(io.Closer); ok {
		it.closer = c
	}
	return it
}

// SetChunkSize overrides the read granularity.  Smaller chunks lower
// resident memory at the cost of more read calls; results are identical for
// any positive size.
func (it *RowIterator) SetChunkSize(n int) {
	if n > 0 {
		it.chunkSize = n
	}
}

// Next returns the next row, or io.EOF after the last one.
//
// Rows are dense: gaps between referenced columns are filled with empty
// values, so Cells[i] is always column i.  A malformed cell or an invalid
// shared-string reference returns the partially parsed row together with an
// error wrapping ErrMalformedRow (or stringtable.ErrIndexRange); the next
// call resumes at the following row.
func (it *RowIterator) Next() (cell.Row, error) {
	for {
		start, ok := it.findRowStart()
		if !ok {
			// Nothing usable in the buffer.  Drop the scanned prefix but
			// keep a short trailing window in case a marker straddles the
			// read boundary.
			if keep := len(it.buf) - markerWindow; keep > it.cur {
				it.cur = keep
			}
			if it.eof {
				return cell.Row{}, io.EOF
			}
			if err := it.fill(); err != nil {
				return cell.Row{}, err
			}
			continue
		}

		openEnd := bytes.IndexByte(it.buf[start:], '>')
		if openEnd < 0 {
			if it.eof {
				it.cur = len(it.buf)
				return cell.Row{}, fmt.Errorf("worksheet: truncated row open tag at end of sheet: %w", ErrMalformedRow)
			}
			it.cur = start
			if err := it.fill(); err != nil {
				return cell.Row{}, err
			}
			continue
		}
		openEnd += start

		idx := it.rowIndexFrom(it.buf[start:openEnd])

		if it.buf[openEnd-1] == '/' {
			// Self-closing row element: a row with attributes but no cells.
			it.cur = openEnd + 1
			it.nextIndex = idx + 1
			return cell.Row{Index: idx}, nil
		}

		end := bytes.Index(it.buf[openEnd:], []byte("</row>"))
		if end < 0 {
			if it.eof {
				it.cur = len(it.buf)
				return cell.Row{Index: idx}, fmt.Errorf("worksheet: row %d has no closing tag: %w", idx+1, ErrMalformedRow)
			}
			it.cur = start
			if err := it.fill(); err != nil {
				return cell.Row{}, err
			}
			continue
		}

		content := it.buf[openEnd+1 : openEnd+end]
		it.cur = openEnd + end + len("</row>")
		it.nextIndex = idx + 1

		cells, err := it.parseCells(content)
		return cell.Row{Index: idx, Cells: cells}, err
	}
}

// Rows returns an iterator over (row, error) pairs for use with range.
// Iteration ends at the end of the sheet or on the first unrecoverable
// error; malformed-row errors are yielded and iteration continues.
func (it *RowIterator) Rows() func(yield func(cell.Row, error) bool) {
	return func(yield func(cell.Row, error) bool) {
		for {
			row, err := it.Next()
			if err == io.EOF {
				return
			}
			if !yield(row, err) {
				return
			}
			if err != nil && !errors.Is(err, ErrMalformedRow) && !errors.Is(err, stringtable.ErrIndexRange) {
				return
			}
		}
	}
}

// Close releases the underlying source when it is closable.  Closing is
// only needed when abandoning iteration early; reaching io.EOF does not
// close the source.
func (it *RowIterator) Close() error {
	if it.closer != nil {
		c := it.closer
		it.closer = nil
		return c.Close()
	}
	return nil
}

// findRowStart scans from the cursor for a row open tag.  "<row" must be
// followed by a delimiter so names that merely share the prefix never
// match; a match whose delimiter lies past the buffer end is treated as not
// found and survives via the retention window.
func (it *RowIterator) findRowStart() (int, bool) {
	pos := it.cur
	for {
		i := bytes.Index(it.buf[pos:], []byte("<row"))
		if i < 0 {
			return 0, false
		}
		p := pos + i
		if p+4 >= len(it.buf) {
			return 0, false
		}
		switch it.buf[p+4] {
		case ' ', '>', '/', '\t', '\r', '\n':
			return p, true
		}
		pos = p + 4
	}
}

// fill compacts the consumed prefix out of the buffer and appends one more
// chunk from the source.  It is only called after a scan came up short, so
// the compaction cost is amortized over the bytes read.
func (it *RowIterator) fill() error {
	if it.cur > 0 {
		n := copy(it.buf, it.buf[it.cur:])
		it.buf = it.buf[:n]
		it.cur = 0
	}
	old := len(it.buf)
	if cap(it.buf)-old < it.chunkSize {
		nb := make([]byte, old, old+it.chunkSize)
		copy(nb, it.buf)
		it.buf = nb
	}
	for {
		n, err := it.src.Read(it.buf[old : old+it.chunkSize])
		it.buf = it.buf[:old+n]
		if err == io.EOF {
			it.eof = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("worksheet: read sheet data: %w", err)
		}
		if n > 0 {
			return nil
		}
	}
}

// rowIndexFrom extracts the zero-based row index from a row open tag,
// falling back to sequential numbering when the r attribute is absent or
// unparseable.
func (it *RowIterator) rowIndexFrom(openTag []byte) int {
	if v, ok := attrValue(openTag, "r"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			return n - 1
		}
	}
	return it.nextIndex
}

// parseCells decodes the cell elements between a row's open and close tags
// into a dense value slice.  On a malformed cell it returns the values
// parsed so far together with the error.
func (it *RowIterator) parseCells(content []byte) ([]cell.Value, error) {
	var cells []cell.Value
	pos := 0
	for {
		i := findCellStart(content, pos)
		if i < 0 {
			return cells, nil
		}
		openEnd := bytes.IndexByte(content[i:], '>')
		if openEnd < 0 {
			return cells, fmt.Errorf("worksheet: truncated cell open tag: %w", ErrMalformedRow)
		}
		openEnd += i
		tag := content[i:openEnd]

		var body []byte
		if content[openEnd-1] == '/' {
			pos = openEnd + 1
		} else {
			end := bytes.Index(content[openEnd:], []byte("</c>"))
			if end < 0 {
				return cells, fmt.Errorf("worksheet: cell has no closing tag: %w", ErrMalformedRow)
			}
			body = content[openEnd+1 : openEnd+end]
			pos = openEnd + end + len("</c>")
		}

		col := len(cells)
		if ref, ok := attrValue(tag, "r"); ok {
			if c := cell.ColumnIndex(ref); c >= col {
				col = c
			}
		}
		for len(cells) < col {
			cells = append(cells, cell.Empty())
		}

		v, err := it.cellValue(tag, body)
		if err != nil {
			cells = append(cells, cell.Empty())
			return cells, err
		}
		cells = append(cells, v)
	}
}

// findCellStart locates the next "<c" open tag at or after pos, requiring a
// delimiter after the name so "<cols>" and similar never match.
func findCellStart(content []byte, pos int) int {
	for {
		i := bytes.Index(content[pos:], []byte("<c"))
		if i < 0 {
			return -1
		}
		p := pos + i
		if p+2 >= len(content) {
			return -1
		}
		switch content[p+2] {
		case ' ', '>', '/', '\t', '\r', '\n':
			return p
		}
		pos = p + 2
	}
}

// cellValue decodes one cell from its open-tag attributes and inner markup.
func (it *RowIterator) cellValue(tag, body []byte) (cell.Value, error) {
	typ, _ := attrValue(tag, "t")
	styleStr, hasStyle := attrValue(tag, "s")

	switch typ {
	case "inlineStr":
		return cell.String(xmlesc.Unescape(elementText(body, "t"))), nil

	case "s":
		raw := elementText(body, "v")
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return cell.Value{}, fmt.Errorf("worksheet: shared string reference %q: %w", raw, ErrMalformedRow)
		}
		if it.sst == nil {
			return cell.Value{}, fmt.Errorf("worksheet: shared string %d without string table: %w", idx, stringtable.ErrIndexRange)
		}
		s, err := it.sst.Get(idx)
		if err != nil {
			return cell.Value{}, fmt.Errorf("worksheet: %w", err)
		}
		return cell.String(s), nil

	case "str":
		// Cached formula result.
		return cell.String(xmlesc.Unescape(elementText(body, "v"))), nil

	case "b":
		return cell.Bool(elementText(body, "v") == "1"), nil

	case "e":
		return cell.Error(xmlesc.Unescape(elementText(body, "v"))), nil

	default:
		raw := elementText(body, "v")
		if raw == "" {
			if f := elementText(body, "f"); f != "" {
				return cell.Formula(xmlesc.Unescape(f)), nil
			}
			return cell.Empty(), nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cell.Value{}, fmt.Errorf("worksheet: numeric cell value %q: %w", raw, ErrMalformedRow)
		}
		if it.isDateSerial(f, styleStr, hasStyle) {
			return cell.String(exceldate.FormatSerial(f)), nil
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return cell.Int(int64(f)), nil
		}
		return cell.Float(f), nil
	}
}

// isDateSerial decides whether a numeric cell holds a date serial.  With a
// styles table the cell's format index gives a definitive answer.  Without
// one the heuristic from the styled-serial convention applies: any explicit
// style plus a serial in the valid date domain with no fractional part
// beyond noise.
func (it *RowIterator) isDateSerial(f float64, styleStr string, hasStyle bool) bool {
	if !hasStyle {
		return false
	}
	if len(it.styles) > 0 {
		s, err := strconv.Atoi(styleStr)
		return err == nil && it.styles.IsDate(s)
	}
	frac := f - math.Floor(f)
	return f >= exceldate.MinSerial && f <= exceldate.MaxSerial && frac < 0.0001
}

// attrValue extracts a double-quoted attribute from an element open tag.
func attrValue(tag []byte, name string) (string, bool) {
	marker := []byte(" " + name + `="`)
	i := bytes.Index(tag, marker)
	if i < 0 {
		return "", false
	}
	rest := tag[i+len(marker):]
	end := bytes.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return string(rest[:end]), true
}

// elementText returns the inner text of the first occurrence of the named
// child element, or "" when the element is absent, self-closing, or
// unterminated.  The open tag may carry attributes.
func elementText(body []byte, name string) string {
	open := []byte("<" + name)
	pos := 0
	for {
		i := bytes.Index(body[pos:], open)
		if i < 0 {
			return ""
		}
		p := pos + i + len(open)
		if p >= len(body) {
			return ""
		}
		switch body[p] {
		case ' ', '>', '/', '\t', '\r', '\n':
			gt := bytes.IndexByte(body[p:], '>')
			if gt < 0 {
				return ""
			}
			gt += p
			if body[gt-1] == '/' {
				return ""
			}
			closeTag := []byte("</" + name + ">")
			end := bytes.Index(body[gt+1:], closeTag)
			if end < 0 {
				return ""
			}
			return string(body[gt+1 : gt+1+end])
		}
		pos = p
	}
}
