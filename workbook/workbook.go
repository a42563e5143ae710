// Package workbook opens a spreadsheet container and resolves its sheet
// registry, shared strings, and styles, handing out streaming row iterators
// for individual sheets.
package workbook

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/excelstream/go-excelstream/archive"
	"github.com/excelstream/go-excelstream/internal/rels"
	"github.com/excelstream/go-excelstream/stringtable"
	"github.com/excelstream/go-excelstream/styles"
	"github.com/excelstream/go-excelstream/worksheet"
)

// Sheet visibility levels, from the state attribute of a sheet entry.
const (
	// SheetVisible indicates the sheet tab is visible.
	SheetVisible = 0
	// SheetHidden indicates the sheet is hidden but can be unhidden through
	// the application UI.
	SheetHidden = 1
	// SheetVeryHidden indicates the sheet can only be unhidden
	// programmatically.
	SheetVeryHidden = 2
)

// sheetEntry pairs a sheet's display name with its resolved part path.
type sheetEntry struct {
	name       string
	path       string // e.g. "xl/worksheets/sheet1.xml"
	visibility int
}

// Workbook is an open container.  It is safe for sequential use by a single
// goroutine.
type Workbook struct {
	ar     *archive.Archive
	sheets []sheetEntry
	sst    *stringtable.Table // may be nil
	styles styles.Table       // may be nil
}

// Open opens the named workbook file.  The caller must call Close on the
// returned Workbook when done.
func Open(name string) (*Workbook, error) {
	ar, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	wb := &Workbook{ar: ar}
	if err := wb.parse(); err != nil {
		_ = ar.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader opens a workbook from an arbitrary io.ReaderAt.  size must be
// the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	ar, err := archive.OpenReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	wb := &Workbook{ar: ar}
	if err := wb.parse(); err != nil {
		return nil, err
	}
	return wb, nil
}

// Sheets returns the display names of all sheets in workbook order.
func (wb *Workbook) Sheets() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

// SharedStrings returns the workbook's shared-string table, or nil when the
// container has none.
func (wb *Workbook) SharedStrings() *stringtable.Table { return wb.sst }

// Rows opens a streaming iterator over the rows of the named sheet.  The
// name match is case-insensitive.  The iterator reads the sheet part
// incrementally; close it when abandoning iteration before the end.
func (wb *Workbook) Rows(name string) (*worksheet.RowIterator, error) {
	lower := strings.ToLower(name)
	for _, s := range wb.sheets {
		if strings.ToLower(s.name) == lower {
			return wb.openSheet(s)
		}
	}
	return nil, fmt.Errorf("workbook: sheet %q not found", name)
}

// RowsAt opens a streaming iterator over the rows of the sheet at the given
// 0-based index.
func (wb *Workbook) RowsAt(idx int) (*worksheet.RowIterator, error) {
	if idx < 0 || idx >= len(wb.sheets) {
		return nil, fmt.Errorf("workbook: sheet index %d out of range [0, %d)", idx, len(wb.sheets))
	}
	return wb.openSheet(wb.sheets[idx])
}

// SheetVisible reports whether the named sheet is visible
// (case-insensitive).  It returns false for hidden sheets, very-hidden
// sheets, and unknown names.
func (wb *Workbook) SheetVisible(name string) bool {
	return wb.SheetVisibility(name) == SheetVisible
}

// SheetVisibility returns the visibility level of the named sheet
// (case-insensitive), or -1 when no sheet with that name exists.
func (wb *Workbook) SheetVisibility(name string) int {
	lower := strings.ToLower(name)
	for _, s := range wb.sheets {
		if strings.ToLower(s.name) == lower {
			return s.visibility
		}
	}
	return -1
}

// Close releases the underlying file handle.  Iterators obtained from Rows
// must not be used afterwards.
func (wb *Workbook) Close() error {
	return wb.ar.Close()
}

// parse loads the sheet registry plus the optional shared-string and styles
// parts.  The registry is mandatory; the other two degrade gracefully when
// absent.
func (wb *Workbook) parse() error {
	if err := wb.parseWorkbookPart(); err != nil {
		return err
	}
	if err := wb.parseSharedStrings(); err != nil {
		return err
	}
	wb.parseStyles()
	return nil
}

// workbookXML is the subset of xl/workbook.xml we need.
type workbookXML struct {
	Sheets struct {
		Sheet []struct {
			Name  string `xml:"name,attr"`
			State string `xml:"state,attr"`
			RelID string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

// parseWorkbookPart reads xl/workbook.xml and xl/_rels/workbook.xml.rels
// and builds the sheet registry.  A sheet whose relationship cannot be
// resolved makes the whole registry unusable, so it is treated as
// corruption rather than skipped.
func (wb *Workbook) parseWorkbookPart() error {
	data, err := wb.ar.ReadAll("xl/workbook.xml")
	if err != nil {
		return fmt.Errorf("workbook: read workbook part: %w", err)
	}
	var doc workbookXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("workbook: parse workbook part: %w", err)
	}

	relsData, err := wb.ar.ReadAll("xl/_rels/workbook.xml.rels")
	if err != nil {
		return fmt.Errorf("workbook: read workbook rels: %w", err)
	}
	relMap, err := rels.ParseRelsXML(relsData)
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}

	for _, s := range doc.Sheets.Sheet {
		target, ok := relMap[s.RelID]
		if !ok {
			return fmt.Errorf("workbook: sheet %q: no relationship for %q", s.Name, s.RelID)
		}
		wb.sheets = append(wb.sheets, sheetEntry{
			name:       s.Name,
			path:       resolveTarget(target),
			visibility: visibilityFromState(s.State),
		})
	}
	if len(wb.sheets) == 0 {
		return fmt.Errorf("workbook: no sheets in workbook part")
	}
	return nil
}

// parseSharedStrings loads xl/sharedStrings.xml when present.  A missing
// part means every string is stored inline, which is valid.
func (wb *Workbook) parseSharedStrings() error {
	data, err := wb.ar.ReadAll("xl/sharedStrings.xml")
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("workbook: read shared strings: %w", err)
	}
	sst, err := stringtable.Parse(data)
	if err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	wb.sst = sst
	return nil
}

// parseStyles loads xl/styles.xml when present.  Failures degrade
// gracefully: without styles information the row parser falls back to its
// date heuristic.
func (wb *Workbook) parseStyles() {
	data, err := wb.ar.ReadAll("xl/styles.xml")
	if err != nil {
		return
	}
	st, err := styles.Parse(data)
	if err != nil {
		return
	}
	wb.styles = st
}

// openSheet starts a streaming iterator over one sheet part.
func (wb *Workbook) openSheet(entry sheetEntry) (*worksheet.RowIterator, error) {
	src, err := wb.ar.Stream(entry.path)
	if err != nil {
		return nil, fmt.Errorf("workbook: open sheet %q: %w", entry.name, err)
	}
	return worksheet.NewRowIterator(src, wb.sst, wb.styles), nil
}

// resolveTarget maps a relationship target onto a container entry path.
// Absolute targets are used as-is after stripping the leading slash;
// relative targets are resolved against the xl/ directory.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

func visibilityFromState(state string) int {
	switch state {
	case "hidden":
		return SheetHidden
	case "veryHidden":
		return SheetVeryHidden
	default:
		return SheetVisible
	}
}
