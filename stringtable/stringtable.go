// Package stringtable implements the shared-string table of a spreadsheet
// container: a deduplicated pool of text values that cells reference by
// integer index.
//
// On the read path the table is built once, fully, from the
// xl/sharedStrings.xml part before any row parsing begins.  On the write
// path it grows monotonically as new unique strings are interned and is
// serialized exactly once, in insertion order, when the container closes.
package stringtable

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/excelstream/go-excelstream/internal/xmlesc"
)

// ErrIndexRange is returned by Get for an index with no entry; a cell
// referencing such an index is data corruption, not a programming error.
// Match it with errors.Is.
var ErrIndexRange = errors.New("stringtable: index out of range")

// Table is an append-only string⇄index store.  Index order is first-seen
// order on both paths.
type Table struct {
	strings []string
	index   map[string]int // non-nil once Intern has been used
}

// New returns an empty table ready for interning on the write path.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Parse builds a table from the raw bytes of a sharedStrings XML part.
// String items are scanned in document order; each inner text span is
// XML-unescaped before being appended.  Rich-text items contribute their
// first text run.
//
// Callers should treat a missing sharedStrings part as an empty table, not
// an error: it simply means every cell carries its text inline.
func Parse(data []byte) (*Table, error) {
	t := &Table{}
	s := string(data)
	pos := 0
	for {
		start := strings.Index(s[pos:], "<si>")
		if start < 0 {
			break
		}
		start += pos
		end := strings.Index(s[start:], "</si>")
		if end < 0 {
			return nil, fmt.Errorf("stringtable: unterminated string item at byte %d", start)
		}
		t.strings = append(t.strings, extractText(s[start:start+end]))
		pos = start + end + len("</si>")
	}
	return t, nil
}

// extractText pulls the first text span out of one string item.  The <t>
// element may carry attributes (xml:space="preserve") or be self-closing.
func extractText(item string) string {
	tStart := strings.Index(item, "<t")
	if tStart < 0 {
		return ""
	}
	rest := item[tStart+2:]
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return ""
	}
	if gt > 0 && rest[gt-1] == '/' {
		// Self-closing <t/>: an explicitly empty string item.
		return ""
	}
	rest = rest[gt+1:]
	tEnd := strings.Index(rest, "</t>")
	if tEnd < 0 {
		return ""
	}
	return xmlesc.Unescape(rest[:tEnd])
}

// Intern returns the index for s, inserting it when seen for the first
// time.  Repeated identical strings always yield the same index, which is
// what bounds the serialized table when values repeat.
func (t *Table) Intern(s string) int {
	if t.index == nil {
		// Table came from Parse; build the reverse map on first use.
		t.index = make(map[string]int, len(t.strings))
		for i, v := range t.strings {
			if _, ok := t.index[v]; !ok {
				t.index[v] = i
			}
		}
	}
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	return i
}

// Get returns the string at idx.  An out-of-range index returns an error
// wrapping ErrIndexRange.
func (t *Table) Get(idx int) (string, error) {
	if idx < 0 || idx >= len(t.strings) {
		return "", fmt.Errorf("stringtable: index %d with %d entries: %w", idx, len(t.strings), ErrIndexRange)
	}
	return t.strings[idx], nil
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.strings) }

// WriteXML serializes the table as a complete sharedStrings part, in
// insertion order, with all text escaped.
func (t *Table) WriteXML(w io.Writer) error {
	count := strconv.Itoa(len(t.strings))
	var buf []byte
	buf = append(buf, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"...)
	buf = append(buf, `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="`...)
	buf = append(buf, count...)
	buf = append(buf, `" uniqueCount="`...)
	buf = append(buf, count...)
	buf = append(buf, `">`...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("stringtable: write header: %w", err)
	}
	for _, s := range t.strings {
		buf = buf[:0]
		buf = append(buf, `<si><t xml:space="preserve">`...)
		buf = xmlesc.Append(buf, s)
		buf = append(buf, "</t></si>"...)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("stringtable: write item: %w", err)
		}
	}
	if _, err := io.WriteString(w, "</sst>"); err != nil {
		return fmt.Errorf("stringtable: write trailer: %w", err)
	}
	return nil
}
