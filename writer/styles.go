package writer

import (
	"strconv"
	"strings"

	"github.com/excelstream/go-excelstream/cell"
)

// Custom number-format IDs used by the pre-baked style sheet.  IDs below
// 164 are reserved for built-in formats.
const (
	numFmtInteger    = 164 // #,##0
	numFmtDecimal    = 165 // #,##0.00
	numFmtCurrency   = 166 // $#,##0.00
	numFmtPercentage = 167 // 0.00%
	numFmtTimestamp  = 168 // yyyy-mm-dd hh:mm:ss
	numFmtDate       = 14  // built-in m/d/yy
)

// xfDef is one cellXfs entry: indices into the fonts, fills, and borders
// collections plus a number-format ID.
type xfDef struct {
	numFmt int
	font   int
	fill   int
	border int
}

// xfDefs maps each cell.Style to its format components.  The slice index
// is the cellXfs index written into cells, so the order must follow the
// Style enumeration exactly.
var xfDefs = [cell.StyleCount]xfDef{
	cell.StyleDefault:          {},
	cell.StyleHeaderBold:       {font: 1},
	cell.StyleNumberInteger:    {numFmt: numFmtInteger},
	cell.StyleNumberDecimal:    {numFmt: numFmtDecimal},
	cell.StyleNumberCurrency:   {numFmt: numFmtCurrency},
	cell.StyleNumberPercentage: {numFmt: numFmtPercentage},
	cell.StyleDate:             {numFmt: numFmtDate},
	cell.StyleTimestamp:        {numFmt: numFmtTimestamp},
	cell.StyleTextBold:         {font: 1},
	cell.StyleTextItalic:       {font: 2},
	cell.StyleHighlightYellow:  {fill: 2},
	cell.StyleHighlightGreen:   {fill: 3},
	cell.StyleHighlightRed:     {fill: 4},
	cell.StyleBorderThin:       {border: 1},
}

// buildStyleSheet renders the complete xl/styles.xml part.  The output is a
// pure function of the fixed palette: one cellXfs entry per cell.Style, in
// enumeration order.
func buildStyleSheet() string {
	var b strings.Builder
	b.Grow(4096)
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)

	b.WriteString(`<numFmts count="5">`)
	b.WriteString(`<numFmt numFmtId="164" formatCode="#,##0"/>`)
	b.WriteString(`<numFmt numFmtId="165" formatCode="#,##0.00"/>`)
	b.WriteString(`<numFmt numFmtId="166" formatCode="&quot;$&quot;#,##0.00"/>`)
	b.WriteString(`<numFmt numFmtId="167" formatCode="0.00%"/>`)
	b.WriteString(`<numFmt numFmtId="168" formatCode="yyyy\-mm\-dd\ hh:mm:ss"/>`)
	b.WriteString(`</numFmts>`)

	b.WriteString(`<fonts count="3">`)
	b.WriteString(`<font><sz val="11"/><name val="Calibri"/></font>`)
	b.WriteString(`<font><b/><sz val="11"/><name val="Calibri"/></font>`)
	b.WriteString(`<font><i/><sz val="11"/><name val="Calibri"/></font>`)
	b.WriteString(`</fonts>`)

	b.WriteString(`<fills count="5">`)
	b.WriteString(`<fill><patternFill patternType="none"/></fill>`)
	b.WriteString(`<fill><patternFill patternType="gray125"/></fill>`)
	b.WriteString(`<fill><patternFill patternType="solid"><fgColor rgb="FFFFFF00"/></patternFill></fill>`)
	b.WriteString(`<fill><patternFill patternType="solid"><fgColor rgb="FF92D050"/></patternFill></fill>`)
	b.WriteString(`<fill><patternFill patternType="solid"><fgColor rgb="FFFF0000"/></patternFill></fill>`)
	b.WriteString(`</fills>`)

	b.WriteString(`<borders count="2">`)
	b.WriteString(`<border><left/><right/><top/><bottom/><diagonal/></border>`)
	b.WriteString(`<border>` +
		`<left style="thin"><color auto="1"/></left>` +
		`<right style="thin"><color auto="1"/></right>` +
		`<top style="thin"><color auto="1"/></top>` +
		`<bottom style="thin"><color auto="1"/></bottom>` +
		`<diagonal/></border>`)
	b.WriteString(`</borders>`)

	b.WriteString(`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>`)

	b.WriteString(`<cellXfs count="` + strconv.Itoa(len(xfDefs)) + `">`)
	for _, xf := range xfDefs {
		b.WriteString(`<xf numFmtId="`)
		b.WriteString(strconv.Itoa(xf.numFmt))
		b.WriteString(`" fontId="`)
		b.WriteString(strconv.Itoa(xf.font))
		b.WriteString(`" fillId="`)
		b.WriteString(strconv.Itoa(xf.fill))
		b.WriteString(`" borderId="`)
		b.WriteString(strconv.Itoa(xf.border))
		b.WriteString(`" xfId="0"`)
		if xf.numFmt != 0 {
			b.WriteString(` applyNumberFormat="1"`)
		}
		if xf.font != 0 {
			b.WriteString(` applyFont="1"`)
		}
		if xf.fill != 0 {
			b.WriteString(` applyFill="1"`)
		}
		if xf.border != 0 {
			b.WriteString(` applyBorder="1"`)
		}
		b.WriteString(`/>`)
	}
	b.WriteString(`</cellXfs>`)

	b.WriteString(`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>`)
	b.WriteString(`</styleSheet>`)
	return b.String()
}

// renderProtection renders a sheetProtection element from staged options.
// Attribute polarity follows the schema: "1" blocks an action, "0" permits
// it, so each allow flag is inverted on the way out.
func renderProtection(opts cell.ProtectionOptions) string {
	blocked := func(allow bool) string {
		if allow {
			return "0"
		}
		return "1"
	}

	var b strings.Builder
	b.WriteString(`<sheetProtection sheet="1"`)
	if opts.PasswordHash != "" {
		b.WriteString(` password="`)
		b.WriteString(opts.PasswordHash)
		b.WriteString(`"`)
	}
	b.WriteString(` selectLockedCells="` + blocked(opts.SelectLockedCells) + `"`)
	b.WriteString(` selectUnlockedCells="` + blocked(opts.SelectUnlockedCells) + `"`)
	b.WriteString(` formatCells="` + blocked(opts.FormatCells) + `"`)
	b.WriteString(` formatColumns="` + blocked(opts.FormatColumns) + `"`)
	b.WriteString(` formatRows="` + blocked(opts.FormatRows) + `"`)
	b.WriteString(` insertColumns="` + blocked(opts.InsertColumns) + `"`)
	b.WriteString(` insertRows="` + blocked(opts.InsertRows) + `"`)
	b.WriteString(` deleteColumns="` + blocked(opts.DeleteColumns) + `"`)
	b.WriteString(` deleteRows="` + blocked(opts.DeleteRows) + `"`)
	b.WriteString(` sort="` + blocked(opts.Sort) + `"`)
	b.WriteString(` autoFilter="` + blocked(opts.AutoFilter) + `"`)
	b.WriteString(`/>`)
	return b.String()
}
