package writer

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/excelstream/go-excelstream/cell"
	"github.com/excelstream/go-excelstream/workbook"
)

// readPart extracts one named part from a finished container.
func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %q: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read part %q: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %q not found", name)
	return ""
}

func partNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open container: %v", err)
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("Report"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRow([]string{"name", "count"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.WriteRowTyped([]cell.Value{
		cell.String("widget"),
		cell.Int(42),
		cell.Float(1.5),
		cell.Bool(true),
	}); err != nil {
		t.Fatalf("WriteRowTyped: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd, err := workbook.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()

	if got := rd.Sheets(); len(got) != 1 || got[0] != "Report" {
		t.Fatalf("Sheets() = %v, want [Report]", got)
	}
	it, err := rd.Rows("Report")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.String("name") || row.Cells[1] != cell.String("count") {
		t.Errorf("header row = %v", row.Strings())
	}
	row, err = it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	want := []cell.Value{cell.String("widget"), cell.Int(42), cell.Float(1.5), cell.Bool(true)}
	for i, w := range want {
		if row.Cells[i] != w {
			t.Errorf("cell %d = %#v, want %#v", i, row.Cells[i], w)
		}
	}
	if _, err := it.Next(); err != io.EOF {
		t.Errorf("Next after last row = %v, want io.EOF", err)
	}
}

func TestErrorCellRoundTrip(t *testing.T) {
	// Error tokens are escaped on the way out and must be unescaped on the
	// way back in, including markup characters in the token text.
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("Errs"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	want := []cell.Value{
		cell.Error("#DIV/0!"),
		cell.Error(`#X&Y<"'>`),
	}
	if err := wb.WriteRowTyped(want); err != nil {
		t.Fatalf("WriteRowTyped: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd, err := workbook.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()
	it, err := rd.Rows("Errs")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Len() != len(want) {
		t.Fatalf("row has %d cells, want %d", row.Len(), len(want))
	}
	for i, w := range want {
		if row.Cells[i] != w {
			t.Errorf("cell %d = %#v, want %#v", i, row.Cells[i], w)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("Dates"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRowTyped([]cell.Value{
		cell.DateTime(44562),
		cell.DateTime(44562.5),
	}); err != nil {
		t.Fatalf("WriteRowTyped: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Date cells carry the palette's date and timestamp style indices.
	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if !strings.Contains(sheet, `s="6"`) {
		t.Errorf("whole-day serial missing date style: %s", sheet)
	}
	if !strings.Contains(sheet, `s="7"`) {
		t.Errorf("timestamp serial missing timestamp style: %s", sheet)
	}

	// The reader maps them back to formatted strings via the style sheet.
	rd, err := workbook.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()
	it, err := rd.Rows("Dates")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.String("2022-01-01") {
		t.Errorf("date cell = %#v, want 2022-01-01", row.Cells[0])
	}
	if row.Cells[1] != cell.String("2022-01-01 12:00:00") {
		t.Errorf("timestamp cell = %#v, want 2022-01-01 12:00:00", row.Cells[1])
	}
}

func TestInlineMode(t *testing.T) {
	var buf bytes.Buffer
	wb := NewInlineTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRow([]string{"fish & chips"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range partNames(t, buf.Bytes()) {
		if name == "xl/sharedStrings.xml" {
			t.Error("inline mode must not emit a shared-string part")
		}
	}
	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if !strings.Contains(sheet, `t="inlineStr"`) || !strings.Contains(sheet, "fish &amp; chips") {
		t.Errorf("inline string not found in %s", sheet)
	}
}

func TestInterningDeduplicates(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	for i := 0; i < 50; i++ {
		if err := wb.WriteRow([]string{"repeated"}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	sst := readPart(t, buf.Bytes(), "xl/sharedStrings.xml")
	if !strings.Contains(sst, `uniqueCount="1"`) {
		t.Errorf("expected one unique string, got %s", sst)
	}
	if strings.Count(sst, "repeated") != 1 {
		t.Errorf("string stored more than once: %s", sst)
	}
}

func TestGeometryLock(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.SetColumnWidth(0, 15); err != nil {
		t.Fatalf("SetColumnWidth before rows: %v", err)
	}
	if err := wb.WriteRow([]string{"x"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.SetColumnWidth(1, 20); !errors.Is(err, ErrGeometryLocked) {
		t.Errorf("SetColumnWidth after rows = %v, want ErrGeometryLocked", err)
	}
	if err := wb.Protect(cell.NewProtection()); !errors.Is(err, ErrGeometryLocked) {
		t.Errorf("Protect after rows = %v, want ErrGeometryLocked", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	colsAt := strings.Index(sheet, "<cols>")
	dataAt := strings.Index(sheet, "<sheetData>")
	if colsAt < 0 || dataAt < 0 || colsAt > dataAt {
		t.Errorf("cols must precede sheetData: %s", sheet)
	}
	if !strings.Contains(sheet, `<col min="1" max="1" width="15" customWidth="1"/>`) {
		t.Errorf("column width not written: %s", sheet)
	}
}

func TestNoSheetErrors(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.WriteRow([]string{"x"}); !errors.Is(err, ErrNoSheet) {
		t.Errorf("WriteRow = %v, want ErrNoSheet", err)
	}
	if err := wb.SetColumnWidth(0, 10); !errors.Is(err, ErrNoSheet) {
		t.Errorf("SetColumnWidth = %v, want ErrNoSheet", err)
	}
	if err := wb.Close(); !errors.Is(err, ErrNoSheet) {
		t.Errorf("Close with no sheets = %v, want ErrNoSheet", err)
	}
}

func TestWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := wb.WriteRow([]string{"x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteRow after Close = %v, want ErrClosed", err)
	}
	if err := wb.AddSheet("T"); !errors.Is(err, ErrClosed) {
		t.Errorf("AddSheet after Close = %v, want ErrClosed", err)
	}
	if err := wb.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestSheetNameValidation(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet(""); err == nil {
		t.Error("empty sheet name should fail")
	}
	if err := wb.AddSheet(strings.Repeat("x", 32)); err == nil {
		t.Error("overlong sheet name should fail")
	}
	if err := wb.AddSheet("bad[name]"); err == nil {
		t.Error("forbidden character should fail")
	}
	if err := wb.AddSheet("Data"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.AddSheet("data"); err == nil {
		t.Error("case-insensitive duplicate should fail")
	}
}

func TestRowHeightConsumedOnce(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.SetNextRowHeight(30); err != nil {
		t.Fatalf("SetNextRowHeight: %v", err)
	}
	if err := wb.WriteRow([]string{"tall"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.WriteRow([]string{"normal"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if !strings.Contains(sheet, `<row r="1" ht="30" customHeight="1">`) {
		t.Errorf("first row missing height: %s", sheet)
	}
	if strings.Contains(sheet, `<row r="2" ht=`) {
		t.Errorf("height leaked onto second row: %s", sheet)
	}
}

func TestProtection(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	opts := cell.NewProtection().WithPassword("A").AllowSort(true)
	if err := wb.Protect(opts); err != nil {
		t.Fatalf("Protect: %v", err)
	}
	if err := wb.WriteRow([]string{"locked"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	protAt := strings.Index(sheet, "<sheetProtection")
	dataEnd := strings.Index(sheet, "</sheetData>")
	if protAt < 0 || dataEnd < 0 || protAt < dataEnd {
		t.Fatalf("sheetProtection must follow sheetData: %s", sheet)
	}
	if !strings.Contains(sheet, `password="CEC8"`) {
		t.Errorf("password hash missing: %s", sheet)
	}
	if !strings.Contains(sheet, `sort="0"`) {
		t.Errorf("allowed sort should render as 0: %s", sheet)
	}
	if !strings.Contains(sheet, `formatCells="1"`) {
		t.Errorf("blocked formatCells should render as 1: %s", sheet)
	}
}

func TestStyledRow(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRowStyled([]cell.Styled{
		cell.NewStyled(cell.String("header"), cell.StyleHeaderBold),
		cell.NewStyled(cell.Float(0.25), cell.StyleNumberPercentage),
		cell.NewStyled(cell.Empty(), cell.StyleHighlightRed),
	}); err != nil {
		t.Fatalf("WriteRowStyled: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if !strings.Contains(sheet, `s="1"`) {
		t.Errorf("bold header style missing: %s", sheet)
	}
	if !strings.Contains(sheet, `s="5"`) {
		t.Errorf("percentage style missing: %s", sheet)
	}
	if !strings.Contains(sheet, `<c r="C1" s="12"/>`) {
		t.Errorf("styled empty cell missing: %s", sheet)
	}
}

func TestStyleSheetShape(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	stylesPart := readPart(t, buf.Bytes(), "xl/styles.xml")
	if !strings.Contains(stylesPart, `<cellXfs count="14">`) {
		t.Errorf("cellXfs must carry one entry per palette style: %s", stylesPart)
	}
	if strings.Count(stylesPart, "<xf ") != 15 { // 1 cellStyleXfs + 14 cellXfs
		t.Errorf("unexpected xf count in %s", stylesPart)
	}
}

func TestEmptyCellsSkipped(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRow([]string{"a", "", "c"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if strings.Contains(sheet, `r="B1"`) {
		t.Errorf("empty cell should be skipped: %s", sheet)
	}
	if !strings.Contains(sheet, `r="C1"`) {
		t.Errorf("cell after gap must keep its column: %s", sheet)
	}
}

func TestFormulaStripsEquals(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	if err := wb.WriteRowTyped([]cell.Value{cell.Formula("=SUM(A1:A9)")}); err != nil {
		t.Fatalf("WriteRowTyped: %v", err)
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	sheet := readPart(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	if !strings.Contains(sheet, "<f>SUM(A1:A9)</f>") {
		t.Errorf("formula not written without leading equals: %s", sheet)
	}
}

func TestMultipleSheets(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	for _, name := range []string{"First", "Second", "Third"} {
		if err := wb.AddSheet(name); err != nil {
			t.Fatalf("AddSheet(%s): %v", name, err)
		}
		if err := wb.WriteRow([]string{name}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd, err := workbook.OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()
	got := rd.Sheets()
	if len(got) != 3 || got[0] != "First" || got[2] != "Third" {
		t.Errorf("Sheets() = %v", got)
	}
	for _, name := range got {
		it, err := rd.Rows(name)
		if err != nil {
			t.Fatalf("Rows(%s): %v", name, err)
		}
		row, err := it.Next()
		if err != nil {
			t.Fatalf("Next(%s): %v", name, err)
		}
		if row.Cells[0] != cell.String(name) {
			t.Errorf("sheet %s first cell = %#v", name, row.Cells[0])
		}
	}
}

func TestBufferRetentionBound(t *testing.T) {
	var buf bytes.Buffer
	wb := NewTo(&buf)
	wb.SetMaxBufferSize(256)
	if err := wb.AddSheet("S"); err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	// An oversized row is written correctly but must not be retained.
	big := strings.Repeat("x", 4096)
	if err := wb.WriteRow([]string{big}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if wb.xmlBuf != nil {
		t.Errorf("oversized buffer retained with cap %d", cap(wb.xmlBuf))
	}
	// Small rows keep reusing one allocation.
	for i := 0; i < 100; i++ {
		if err := wb.WriteRow([]string{"small"}); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if cap(wb.xmlBuf) > 256 {
		t.Errorf("retained buffer cap %d exceeds limit", cap(wb.xmlBuf))
	}
	if err := wb.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
