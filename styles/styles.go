// Package styles parses the xl/styles.xml part and answers one question the
// row parser needs: does a given cell-format index denote a date or time
// number format?
//
// It is a deliberately small, import-cycle-free package so that both
// workbook/ and worksheet/ can depend on it.
package styles

import (
	"encoding/xml"
	"fmt"

	"github.com/xuri/nfp"

	"github.com/excelstream/go-excelstream/internal/dateformat"
)

// XFStyle holds the resolved formatting information for one cell-format
// index as read from the cellXfs table.
type XFStyle struct {
	// NumFmtID is the numFmtId attribute of the xf element.  Values 0–163
	// are built-in formats; values ≥ 164 are custom formats defined by a
	// numFmt element in the same part.
	NumFmtID int
	// FormatStr is the format code of the matching numFmt element.  It is
	// empty for built-in IDs with no custom override.
	FormatStr string
}

// Table maps cell-format index → XFStyle.  The slice index is the 0-based
// value of a cell's s= attribute.
type Table []XFStyle

// xml shapes for the two sections of styles.xml we care about.  Everything
// else in the part (fonts, fills, borders) is irrelevant to date detection
// and is skipped by the decoder.
type stylesXML struct {
	NumFmts struct {
		NumFmt []struct {
			ID   int    `xml:"numFmtId,attr"`
			Code string `xml:"formatCode,attr"`
		} `xml:"numFmt"`
	} `xml:"numFmts"`
	CellXfs struct {
		Xf []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

// Parse builds a Table from the raw bytes of a styles XML part.
func Parse(data []byte) (Table, error) {
	var doc stylesXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("styles: parse styles part: %w", err)
	}

	custom := make(map[int]string, len(doc.NumFmts.NumFmt))
	for _, nf := range doc.NumFmts.NumFmt {
		custom[nf.ID] = nf.Code
	}

	table := make(Table, len(doc.CellXfs.Xf))
	for i, xf := range doc.CellXfs.Xf {
		table[i] = XFStyle{
			NumFmtID:  xf.NumFmtID,
			FormatStr: custom[xf.NumFmtID],
		}
	}
	return table, nil
}

// IsDate reports whether the cell format at index s represents a date,
// datetime, or time number format.  It returns false when s is out of range
// or when no styles information is available (nil / empty table); callers
// without a styles part fall back to their own heuristics.
func (t Table) IsDate(s int) bool {
	if s < 0 || s >= len(t) {
		return false
	}
	return isDateFormat(t[s].NumFmtID, t[s].FormatStr)
}

// Len returns the number of cell-format entries.
func (t Table) Len() int { return len(t) }

// isDateFormat decides from the numFmtId and, for custom IDs, the format
// code.  Built-in IDs follow the fixed ECMA-376 table; custom codes are
// tokenized so that quoted literals, color sections, and exponent markers
// never produce false positives.
func isDateFormat(id int, formatStr string) bool {
	if id < 164 {
		return dateformat.IsBuiltInDateID(id)
	}
	if formatStr == "" {
		return false
	}
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(formatStr) {
		for _, token := range section.Items {
			switch token.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}
