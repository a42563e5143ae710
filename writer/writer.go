// Package writer produces spreadsheet containers in constant memory: rows
// are serialized straight into the compressed output as they are written,
// so a million-row sheet costs no more resident memory than a ten-row one.
//
// A Workbook moves through a strict lifecycle: create, AddSheet, optional
// per-sheet geometry and protection calls, rows, more sheets, Close.  Sheet
// geometry (column widths, protection) must be staged before the first row
// of that sheet because the corresponding XML precedes the row data in the
// part; writing a row locks it.
package writer

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/excelstream/go-excelstream/cell"
	"github.com/excelstream/go-excelstream/exceldate"
	"github.com/excelstream/go-excelstream/internal/xmlesc"
	"github.com/excelstream/go-excelstream/stringtable"
)

// Sentinel errors for lifecycle violations.  Match them with errors.Is.
var (
	// ErrClosed is returned by every mutating call after Close.
	ErrClosed = errors.New("writer: workbook is closed")
	// ErrNoSheet is returned when rows or geometry are written before the
	// first AddSheet, or Close is called on a workbook with no sheets.
	ErrNoSheet = errors.New("writer: no active sheet")
	// ErrGeometryLocked is returned when column widths or protection are
	// set after the first row of the active sheet has been written.
	ErrGeometryLocked = errors.New("writer: sheet geometry locked after first row")
)

const (
	defaultFlushInterval = 1000
	defaultMaxBufferSize = 1 << 20
)

type colWidth struct {
	col   int
	width float64
}

type sheetState struct {
	name          string
	w             io.Writer
	rowNum        int // 1-based number of the next row
	colWidths     []colWidth
	nextRowHeight float64
	protection    *cell.ProtectionOptions
	dataStarted   bool
}

// Workbook is a streaming spreadsheet writer.  It is not safe for
// concurrent use.
type Workbook struct {
	zw        *zip.Writer
	fileClose io.Closer // non-nil when we own the destination file

	sst *stringtable.Table // nil in inline-string mode

	flushInterval int
	maxBufferSize int

	sheets []string
	cur    *sheetState

	xmlBuf         []byte
	rowsSinceFlush int
	closed         bool
}

// New creates a workbook file at path using shared-string interning: each
// unique text value is stored once and referenced by index, which keeps the
// output small when values repeat.  The trade-off is that the string table
// stays in memory until Close.
func New(path string) (*Workbook, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("writer: create %q: %w", path, err)
	}
	wb := NewTo(f)
	wb.fileClose = f
	return wb, nil
}

// NewInline creates a workbook file at path with every text value stored
// inline in its cell.  Memory use is flat regardless of how many distinct
// strings are written, at the cost of larger output when values repeat.
func NewInline(path string) (*Workbook, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("writer: create %q: %w", path, err)
	}
	wb := NewInlineTo(f)
	wb.fileClose = f
	return wb, nil
}

// NewTo returns an interning-mode workbook writing to w.
func NewTo(w io.Writer) *Workbook {
	wb := newWorkbook(w)
	wb.sst = stringtable.New()
	return wb
}

// NewInlineTo returns an inline-string workbook writing to w.
func NewInlineTo(w io.Writer) *Workbook {
	return newWorkbook(w)
}

func newWorkbook(w io.Writer) *Workbook {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return &Workbook{
		zw:            zw,
		flushInterval: defaultFlushInterval,
		maxBufferSize: defaultMaxBufferSize,
	}
}

// SetFlushInterval sets how many rows are written between flushes of the
// compressed stream to the destination.  Smaller values lower the window of
// unflushed data; larger values compress slightly better.
func (wb *Workbook) SetFlushInterval(rows int) {
	if rows > 0 {
		wb.flushInterval = rows
	}
}

// SetMaxBufferSize caps the reusable row-serialization buffer.  A single
// row larger than the cap is still written correctly; the buffer is simply
// released afterwards instead of being retained.
func (wb *Workbook) SetMaxBufferSize(n int) {
	if n > 0 {
		wb.maxBufferSize = n
	}
}

// AddSheet finishes the current sheet, if any, and starts a new one with
// the given name.  Names must be non-empty, at most 31 characters, free of
// the characters []:*?/\ and unique within the workbook (case-insensitive).
func (wb *Workbook) AddSheet(name string) error {
	if wb.closed {
		return ErrClosed
	}
	if err := validateSheetName(name); err != nil {
		return err
	}
	for _, existing := range wb.sheets {
		if strings.EqualFold(existing, name) {
			return fmt.Errorf("writer: duplicate sheet name %q", name)
		}
	}
	if err := wb.finishSheet(); err != nil {
		return err
	}

	w, err := wb.zw.Create(fmt.Sprintf("xl/worksheets/sheet%d.xml", len(wb.sheets)+1))
	if err != nil {
		return fmt.Errorf("writer: create sheet part: %w", err)
	}
	if _, err := io.WriteString(w, xmlHeader+
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`); err != nil {
		return fmt.Errorf("writer: write sheet header: %w", err)
	}

	wb.sheets = append(wb.sheets, name)
	wb.cur = &sheetState{name: name, w: w, rowNum: 1}
	return nil
}

// SetColumnWidth sets the width, in character units, of the zero-based
// column on the active sheet.  Column geometry precedes the row data in the
// output, so this must be called before the sheet's first row.
func (wb *Workbook) SetColumnWidth(col int, width float64) error {
	switch {
	case wb.closed:
		return ErrClosed
	case wb.cur == nil:
		return ErrNoSheet
	case wb.cur.dataStarted:
		return ErrGeometryLocked
	}
	if col < 0 || col > cell.MaxColumnIndex {
		return fmt.Errorf("writer: column index %d out of range [0, %d]", col, cell.MaxColumnIndex)
	}
	wb.cur.colWidths = append(wb.cur.colWidths, colWidth{col: col, width: width})
	return nil
}

// SetNextRowHeight sets the height, in points, of the next row written to
// the active sheet.  The value applies to exactly one row and is cleared
// once consumed.
func (wb *Workbook) SetNextRowHeight(height float64) error {
	switch {
	case wb.closed:
		return ErrClosed
	case wb.cur == nil:
		return ErrNoSheet
	}
	wb.cur.nextRowHeight = height
	return nil
}

// Protect stages worksheet protection for the active sheet.  Like column
// widths it must be staged before the first row; the rendered element is
// emitted when the sheet is finished.
func (wb *Workbook) Protect(opts cell.ProtectionOptions) error {
	switch {
	case wb.closed:
		return ErrClosed
	case wb.cur == nil:
		return ErrNoSheet
	case wb.cur.dataStarted:
		return ErrGeometryLocked
	}
	wb.cur.protection = &opts
	return nil
}

// WriteRow writes one row of plain text cells.  Empty strings produce no
// cell, keeping the row sparse.
func (wb *Workbook) WriteRow(values []string) error {
	if wb.closed {
		return ErrClosed
	}
	if wb.cur == nil {
		return ErrNoSheet
	}
	buf, err := wb.beginRow()
	if err != nil {
		return err
	}
	rowIdx := wb.cur.rowNum - 1
	for col, s := range values {
		if s == "" {
			continue
		}
		buf = wb.appendStringCell(buf, rowIdx, col, s, -1)
	}
	return wb.endRow(buf)
}

// WriteRowTyped writes one row of typed cells.  Empty values produce no
// cell.  Date serials are written with the pre-baked date or timestamp
// style so applications render them as dates rather than raw numbers.
func (wb *Workbook) WriteRowTyped(values []cell.Value) error {
	if wb.closed {
		return ErrClosed
	}
	if wb.cur == nil {
		return ErrNoSheet
	}
	buf, err := wb.beginRow()
	if err != nil {
		return err
	}
	rowIdx := wb.cur.rowNum - 1
	for col, v := range values {
		if v.IsEmpty() {
			continue
		}
		buf, err = wb.appendTypedCell(buf, rowIdx, col, v, -1)
		if err != nil {
			return err
		}
	}
	return wb.endRow(buf)
}

// WriteRowStyled writes one row of typed cells with explicit styles from
// the fixed palette.
func (wb *Workbook) WriteRowStyled(values []cell.Styled) error {
	if wb.closed {
		return ErrClosed
	}
	if wb.cur == nil {
		return ErrNoSheet
	}
	buf, err := wb.beginRow()
	if err != nil {
		return err
	}
	rowIdx := wb.cur.rowNum - 1
	for col, sv := range values {
		if sv.Value.IsEmpty() && sv.Style == cell.StyleDefault {
			continue
		}
		style := -1
		if sv.Style != cell.StyleDefault {
			if sv.Style >= cell.StyleCount {
				return fmt.Errorf("writer: style index %d out of range [0, %d)", sv.Style, cell.StyleCount)
			}
			style = sv.Style.Index()
		}
		if sv.Value.IsEmpty() {
			// A styled empty cell still needs to exist to carry the style.
			buf = wb.appendCellOpen(buf, rowIdx, col, "", style)
			buf = append(buf, "/>"...)
			continue
		}
		buf, err = wb.appendTypedCell(buf, rowIdx, col, sv.Value, style)
		if err != nil {
			return err
		}
	}
	return wb.endRow(buf)
}

// Close finishes the last sheet, writes the workbook-level parts, and
// closes the container.  Closing a workbook with no sheets returns
// ErrNoSheet.  Close is idempotent; only the first call does work.
func (wb *Workbook) Close() error {
	if wb.closed {
		return nil
	}
	if len(wb.sheets) == 0 {
		wb.closed = true
		if wb.fileClose != nil {
			_ = wb.fileClose.Close()
		}
		return ErrNoSheet
	}
	if err := wb.finishSheet(); err != nil {
		return err
	}
	if err := wb.writeWorkbookParts(); err != nil {
		return err
	}
	wb.closed = true
	if err := wb.zw.Close(); err != nil {
		return fmt.Errorf("writer: close container: %w", err)
	}
	if wb.fileClose != nil {
		if err := wb.fileClose.Close(); err != nil {
			return fmt.Errorf("writer: close file: %w", err)
		}
	}
	return nil
}

// beginRow makes sure the sheetData section is open and starts a row
// element in the reusable buffer, consuming any staged row height.
func (wb *Workbook) beginRow() ([]byte, error) {
	if err := wb.ensureSheetData(); err != nil {
		return nil, err
	}
	buf := wb.xmlBuf[:0]
	buf = append(buf, `<row r="`...)
	buf = strconv.AppendInt(buf, int64(wb.cur.rowNum), 10)
	if h := wb.cur.nextRowHeight; h > 0 {
		buf = append(buf, `" ht="`...)
		buf = strconv.AppendFloat(buf, h, 'f', -1, 64)
		buf = append(buf, `" customHeight="1`...)
		wb.cur.nextRowHeight = 0
	}
	buf = append(buf, `">`...)
	return buf, nil
}

// endRow closes the row element, writes the buffer to the sheet part, and
// applies the flush and buffer-retention policies.
func (wb *Workbook) endRow(buf []byte) error {
	buf = append(buf, "</row>"...)
	if _, err := wb.cur.w.Write(buf); err != nil {
		return fmt.Errorf("writer: write row %d: %w", wb.cur.rowNum, err)
	}
	wb.cur.rowNum++

	if cap(buf) <= wb.maxBufferSize {
		wb.xmlBuf = buf[:0]
	} else {
		wb.xmlBuf = nil
	}

	wb.rowsSinceFlush++
	if wb.rowsSinceFlush >= wb.flushInterval {
		wb.rowsSinceFlush = 0
		if err := wb.zw.Flush(); err != nil {
			return fmt.Errorf("writer: flush: %w", err)
		}
	}
	return nil
}

// ensureSheetData emits the column definitions and opens sheetData on the
// first row of a sheet, locking its geometry.
func (wb *Workbook) ensureSheetData() error {
	s := wb.cur
	if s.dataStarted {
		return nil
	}
	var b strings.Builder
	if len(s.colWidths) > 0 {
		b.WriteString("<cols>")
		for _, cw := range s.colWidths {
			n := strconv.Itoa(cw.col + 1)
			b.WriteString(`<col min="` + n + `" max="` + n + `" width="` +
				strconv.FormatFloat(cw.width, 'f', -1, 64) + `" customWidth="1"/>`)
		}
		b.WriteString("</cols>")
	}
	b.WriteString("<sheetData>")
	if _, err := io.WriteString(s.w, b.String()); err != nil {
		return fmt.Errorf("writer: open sheet data: %w", err)
	}
	s.dataStarted = true
	return nil
}

// finishSheet closes the sheetData section and the worksheet element of
// the active sheet, emitting any staged protection.  No-op when no sheet
// is active.
func (wb *Workbook) finishSheet() error {
	s := wb.cur
	if s == nil {
		return nil
	}
	if err := wb.ensureSheetData(); err != nil {
		return err
	}
	tail := "</sheetData>"
	if s.protection != nil {
		tail += renderProtection(*s.protection)
	}
	tail += "</worksheet>"
	if _, err := io.WriteString(s.w, tail); err != nil {
		return fmt.Errorf("writer: finish sheet %q: %w", s.name, err)
	}
	wb.cur = nil
	return nil
}

// appendCellOpen appends a cell open tag up to, but not including, its
// terminator: `<c r="B3"` plus optional type and style attributes.
func (wb *Workbook) appendCellOpen(buf []byte, rowIdx, col int, typ string, style int) []byte {
	buf = append(buf, `<c r="`...)
	buf = append(buf, cell.Ref(rowIdx, col)...)
	buf = append(buf, '"')
	if typ != "" {
		buf = append(buf, ` t="`...)
		buf = append(buf, typ...)
		buf = append(buf, '"')
	}
	if style >= 0 {
		buf = append(buf, ` s="`...)
		buf = strconv.AppendInt(buf, int64(style), 10)
		buf = append(buf, '"')
	}
	return buf
}

// appendStringCell appends one text cell, either as a shared-string
// reference or as an inline string depending on the workbook mode.
func (wb *Workbook) appendStringCell(buf []byte, rowIdx, col int, s string, style int) []byte {
	if wb.sst != nil {
		idx := wb.sst.Intern(s)
		buf = wb.appendCellOpen(buf, rowIdx, col, "s", style)
		buf = append(buf, "><v>"...)
		buf = strconv.AppendInt(buf, int64(idx), 10)
		buf = append(buf, "</v></c>"...)
		return buf
	}
	buf = wb.appendCellOpen(buf, rowIdx, col, "inlineStr", style)
	buf = append(buf, `><is><t xml:space="preserve">`...)
	buf = xmlesc.Append(buf, s)
	buf = append(buf, "</t></is></c>"...)
	return buf
}

// appendTypedCell appends one typed cell.  style is the explicit palette
// index, or -1 to let the value pick its default.
func (wb *Workbook) appendTypedCell(buf []byte, rowIdx, col int, v cell.Value, style int) ([]byte, error) {
	switch v.Kind() {
	case cell.KindString:
		return wb.appendStringCell(buf, rowIdx, col, v.Text(), style), nil

	case cell.KindInt:
		i, _ := v.AsInt64()
		buf = wb.appendCellOpen(buf, rowIdx, col, "", style)
		buf = append(buf, "><v>"...)
		buf = strconv.AppendInt(buf, i, 10)
		buf = append(buf, "</v></c>"...)
		return buf, nil

	case cell.KindFloat:
		f, _ := v.AsFloat64()
		buf = wb.appendCellOpen(buf, rowIdx, col, "", style)
		buf = append(buf, "><v>"...)
		buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
		buf = append(buf, "</v></c>"...)
		return buf, nil

	case cell.KindBool:
		b, _ := v.AsBool()
		buf = wb.appendCellOpen(buf, rowIdx, col, "b", style)
		buf = append(buf, "><v>"...)
		if b {
			buf = append(buf, '1')
		} else {
			buf = append(buf, '0')
		}
		buf = append(buf, "</v></c>"...)
		return buf, nil

	case cell.KindDateTime:
		serial, _ := v.AsFloat64()
		if style < 0 {
			if serial-math.Floor(serial) > 0 {
				style = cell.StyleTimestamp.Index()
			} else {
				style = cell.StyleDate.Index()
			}
		}
		if serial < exceldate.MinSerial || serial > exceldate.MaxSerial {
			return buf, fmt.Errorf("writer: date serial %v outside valid range [%v, %v]",
				serial, exceldate.MinSerial, exceldate.MaxSerial)
		}
		buf = wb.appendCellOpen(buf, rowIdx, col, "", style)
		buf = append(buf, "><v>"...)
		buf = strconv.AppendFloat(buf, serial, 'f', -1, 64)
		buf = append(buf, "</v></c>"...)
		return buf, nil

	case cell.KindError:
		buf = wb.appendCellOpen(buf, rowIdx, col, "e", style)
		buf = append(buf, "><v>"...)
		buf = xmlesc.Append(buf, v.Text())
		buf = append(buf, "</v></c>"...)
		return buf, nil

	case cell.KindFormula:
		expr := strings.TrimPrefix(v.Text(), "=")
		buf = wb.appendCellOpen(buf, rowIdx, col, "", style)
		buf = append(buf, "><f>"...)
		buf = xmlesc.Append(buf, expr)
		buf = append(buf, "</f></c>"...)
		return buf, nil
	}
	return buf, fmt.Errorf("writer: unsupported cell kind %d", v.Kind())
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// writeWorkbookParts emits every part that depends on the complete sheet
// list or the accumulated string table, and therefore cannot be written
// until the workbook closes.
func (wb *Workbook) writeWorkbookParts() error {
	if err := wb.writePart("[Content_Types].xml", wb.contentTypes()); err != nil {
		return err
	}
	if err := wb.writePart("_rels/.rels", rootRels); err != nil {
		return err
	}
	if err := wb.writePart("docProps/core.xml", coreProps(time.Now().UTC())); err != nil {
		return err
	}
	if err := wb.writePart("docProps/app.xml", appProps); err != nil {
		return err
	}
	if err := wb.writePart("xl/workbook.xml", wb.workbookXML()); err != nil {
		return err
	}
	if err := wb.writePart("xl/_rels/workbook.xml.rels", wb.workbookRels()); err != nil {
		return err
	}
	if err := wb.writePart("xl/styles.xml", buildStyleSheet()); err != nil {
		return err
	}
	if wb.sst != nil {
		w, err := wb.zw.Create("xl/sharedStrings.xml")
		if err != nil {
			return fmt.Errorf("writer: create shared strings part: %w", err)
		}
		if err := wb.sst.WriteXML(w); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	return nil
}

func (wb *Workbook) writePart(name, content string) error {
	w, err := wb.zw.Create(name)
	if err != nil {
		return fmt.Errorf("writer: create part %q: %w", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("writer: write part %q: %w", name, err)
	}
	return nil
}

func (wb *Workbook) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>`)
	for i := range wb.sheets {
		b.WriteString(`<Override PartName="/xl/worksheets/sheet` + strconv.Itoa(i+1) +
			`.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`)
	}
	b.WriteString(`<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>`)
	if wb.sst != nil {
		b.WriteString(`<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>`)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

func coreProps(now time.Time) string {
	stamp := now.Format("2006-01-02T15:04:05Z")
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

const appProps = xmlHeader +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>go-excelstream</Application>` +
	`</Properties>`

func (wb *Workbook) workbookXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	b.WriteString(`<sheets>`)
	for i, name := range wb.sheets {
		n := strconv.Itoa(i + 1)
		b.WriteString(`<sheet name="` + xmlesc.Escape(name) + `" sheetId="` + n + `" r:id="rId` + n + `"/>`)
	}
	b.WriteString(`</sheets></workbook>`)
	return b.String()
}

func (wb *Workbook) workbookRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range wb.sheets {
		n := strconv.Itoa(i + 1)
		b.WriteString(`<Relationship Id="rId` + n +
			`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet` + n + `.xml"/>`)
	}
	next := len(wb.sheets) + 1
	b.WriteString(`<Relationship Id="rId` + strconv.Itoa(next) +
		`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if wb.sst != nil {
		b.WriteString(`<Relationship Id="rId` + strconv.Itoa(next+1) +
			`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func validateSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("writer: empty sheet name")
	}
	if len(name) > 31 {
		return fmt.Errorf("writer: sheet name %q longer than 31 characters", name)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("writer: sheet name %q contains a forbidden character", name)
	}
	return nil
}
