package workbook

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/excelstream/go-excelstream/cell"
)

const workbookPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets>
<sheet name="Data" sheetId="1" r:id="rId1"/>
<sheet name="Hidden" sheetId="2" state="hidden" r:id="rId2"/>
</sheets>
</workbook>`

const workbookRelsPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
</Relationships>`

const sharedStringsPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2"><si><t>name</t></si><si><t>total</t></si></sst>`

const sheet1Part = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2" t="inlineStr"><is><t>widget</t></is></c><c r="B2"><v>12</v></c></row>
</sheetData></worksheet>`

const sheet2Part = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData/></worksheet>`

// buildWorkbook assembles an in-memory container from name → content
// pairs.
func buildWorkbook(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func defaultParts() map[string]string {
	return map[string]string{
		"xl/workbook.xml":            workbookPart,
		"xl/_rels/workbook.xml.rels": workbookRelsPart,
		"xl/sharedStrings.xml":       sharedStringsPart,
		"xl/worksheets/sheet1.xml":   sheet1Part,
		"xl/worksheets/sheet2.xml":   sheet2Part,
	}
}

func openParts(t *testing.T, parts map[string]string) *Workbook {
	t.Helper()
	data := buildWorkbook(t, parts)
	wb, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	return wb
}

func TestSheets(t *testing.T) {
	wb := openParts(t, defaultParts())
	got := wb.Sheets()
	if len(got) != 2 || got[0] != "Data" || got[1] != "Hidden" {
		t.Errorf("Sheets() = %v, want [Data Hidden]", got)
	}
}

func TestRows(t *testing.T) {
	wb := openParts(t, defaultParts())
	it, err := wb.Rows("Data")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.String("name") || row.Cells[1] != cell.String("total") {
		t.Errorf("header row = %v", row.Strings())
	}

	row, err = it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.String("widget") || row.Cells[1] != cell.Int(12) {
		t.Errorf("data row = %v", row.Strings())
	}

	if _, err := it.Next(); err != io.EOF {
		t.Errorf("Next after last row = %v, want io.EOF", err)
	}
}

func TestRowsCaseInsensitive(t *testing.T) {
	wb := openParts(t, defaultParts())
	if _, err := wb.Rows("dAtA"); err != nil {
		t.Errorf("case-insensitive Rows: %v", err)
	}
	if _, err := wb.Rows("Nope"); err == nil {
		t.Error("Rows on unknown sheet should fail")
	}
}

func TestRowsAt(t *testing.T) {
	wb := openParts(t, defaultParts())
	it, err := wb.RowsAt(1)
	if err != nil {
		t.Fatalf("RowsAt(1): %v", err)
	}
	if _, err := it.Next(); err != io.EOF {
		t.Errorf("empty sheet Next = %v, want io.EOF", err)
	}
	if _, err := wb.RowsAt(2); err == nil {
		t.Error("RowsAt(2) should fail with two sheets")
	}
	if _, err := wb.RowsAt(-1); err == nil {
		t.Error("RowsAt(-1) should fail")
	}
}

func TestSheetVisibility(t *testing.T) {
	wb := openParts(t, defaultParts())
	if !wb.SheetVisible("Data") {
		t.Error("Data should be visible")
	}
	if wb.SheetVisible("Hidden") {
		t.Error("Hidden should not be visible")
	}
	if got := wb.SheetVisibility("Hidden"); got != SheetHidden {
		t.Errorf("SheetVisibility(Hidden) = %d, want %d", got, SheetHidden)
	}
	if got := wb.SheetVisibility("Nope"); got != -1 {
		t.Errorf("SheetVisibility(Nope) = %d, want -1", got)
	}
}

func TestMissingSharedStrings(t *testing.T) {
	parts := defaultParts()
	delete(parts, "xl/sharedStrings.xml")
	parts["xl/worksheets/sheet1.xml"] = `<worksheet><sheetData><row r="1"><c r="A1"><v>7</v></c></row></sheetData></worksheet>`

	wb := openParts(t, parts)
	if wb.SharedStrings() != nil {
		t.Error("SharedStrings should be nil when the part is absent")
	}
	it, err := wb.Rows("Data")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.Int(7) {
		t.Errorf("cell = %#v, want Int(7)", row.Cells[0])
	}
}

func TestMissingWorkbookPart(t *testing.T) {
	parts := defaultParts()
	delete(parts, "xl/workbook.xml")
	data := buildWorkbook(t, parts)
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("OpenReader should fail without the workbook part")
	}
}

func TestUnresolvedSheetRelationship(t *testing.T) {
	parts := defaultParts()
	parts["xl/_rels/workbook.xml.rels"] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="t" Target="worksheets/sheet1.xml"/>
</Relationships>`
	data := buildWorkbook(t, parts)
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("OpenReader should fail when a sheet relationship is missing")
	}
}

func TestStylesRefineDates(t *testing.T) {
	parts := defaultParts()
	parts["xl/styles.xml"] = `<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<cellXfs count="2"><xf numFmtId="0"/><xf numFmtId="22"/></cellXfs></styleSheet>`
	parts["xl/worksheets/sheet1.xml"] = `<worksheet><sheetData>
<row r="1"><c r="A1" s="1"><v>44562.5</v></c></row>
</sheetData></worksheet>`

	wb := openParts(t, parts)
	it, err := wb.Rows("Data")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Cells[0] != cell.String("2022-01-01 12:00:00") {
		t.Errorf("datetime cell = %#v, want formatted timestamp", row.Cells[0])
	}
}
