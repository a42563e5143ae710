// Package excelstream reads and writes spreadsheet files with bounded
// memory.  Sheets are processed row by row in both directions, so file
// size never dictates resident memory.  No cgo is required.
//
// # Reading
//
//	wb, err := excelstream.Open("Book1.xlsx")
//	if err != nil { ... }
//	defer wb.Close()
//
//	fmt.Println(wb.Sheets()) // ["Sheet1", "Sheet2"]
//
//	rows, err := wb.Rows("Sheet1")
//	if err != nil { ... }
//	for row, err := range rows.Rows() {
//	    if err != nil { ... }
//	    fmt.Println(row.Index, row.Strings())
//	}
//
// # Writing
//
//	out, err := writer.New("out.xlsx")
//	if err != nil { ... }
//	if err := out.AddSheet("Report"); err != nil { ... }
//	if err := out.WriteRow([]string{"name", "total"}); err != nil { ... }
//	if err := out.Close(); err != nil { ... }
//
// The writer serializes each row straight into the compressed container;
// use [writer.NewInline] when the data has too many distinct strings for
// an in-memory interning table.
//
// # Dates
//
// Cell dates travel as floating-point serial numbers counting days since
// the 1900 epoch, complete with the inherited Lotus 1-2-3 leap-year defect.
// [SerialToTime] and [TimeToSerial] convert between serials and
// [time.Time]; the reader applies the conversion automatically for cells
// whose number format is a date.
//
// # CSV
//
// The csv subpackage provides a matching streaming codec for
// delimiter-separated text, including transparent gzip and zip
// compression selected by file extension.
package excelstream

import (
	"io"
	"time"

	"github.com/excelstream/go-excelstream/exceldate"
	"github.com/excelstream/go-excelstream/workbook"
)

// Version is the current version of the go-excelstream library.
const Version = "1.0.0"

// Open opens the named spreadsheet file.  The caller must call Close on
// the returned Workbook when done.
func Open(name string) (*workbook.Workbook, error) {
	return workbook.Open(name)
}

// OpenReader reads a workbook from an arbitrary [io.ReaderAt].  size must
// equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*workbook.Workbook, error) {
	return workbook.OpenReader(r, size)
}

// SerialToTime converts an Excel date serial number to a [time.Time] in
// UTC.  It returns an error for serials outside the representable range
// (1900-01-01 through 9999-12-31).
func SerialToTime(serial float64) (time.Time, error) {
	return exceldate.ToTime(serial)
}

// TimeToSerial converts a calendar time to its Excel date serial number,
// truncating to whole seconds.
func TimeToSerial(t time.Time) (float64, error) {
	return exceldate.FromTime(t)
}

// FormatSerial renders an Excel date serial number as "YYYY-MM-DD", with a
// trailing "HH:MM:SS" when the serial carries a time of day.
func FormatSerial(serial float64) string {
	return exceldate.FormatSerial(serial)
}
