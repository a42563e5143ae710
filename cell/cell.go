// Package cell defines the typed value model shared by the reader and the
// writer: cell values, the fixed style palette, rows, worksheet protection
// options, and the A1-style reference codec.
//
// It is a deliberately small, import-cycle-free package so that both the
// read side (workbook/, worksheet/) and the write side (writer/, csv/) can
// depend on it without introducing circular imports.
package cell

import "strconv"

// Kind identifies the variant stored in a Value.  The set is closed: every
// cell a worksheet can hold maps onto exactly one of these.
type Kind uint8

const (
	// KindEmpty is a blank cell.
	KindEmpty Kind = iota
	// KindString is a text cell.
	KindString
	// KindInt is a whole number that fits in a signed 64-bit integer.
	KindInt
	// KindFloat is any other numeric value.
	KindFloat
	// KindBool is a boolean cell.
	KindBool
	// KindDateTime is a date or datetime stored as an Excel serial number
	// (days since the 1900 epoch, fractional part = time of day).
	KindDateTime
	// KindError is an Excel error token such as "#DIV/0!".
	KindError
	// KindFormula is a formula expression, e.g. "=SUM(A1:A10)".
	KindFormula
)

// Value is one typed cell value.  The zero Value is an empty cell.
//
// Value is immutable once constructed and comparable with ==, which makes
// round-trip assertions in tests trivial.
type Value struct {
	kind Kind
	str  string // KindString, KindError, KindFormula
	num  float64
	i    int64
	b    bool
}

// Empty returns a blank cell value.
func Empty() Value { return Value{} }

// String returns a text cell value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns a whole-number cell value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point cell value.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Bool returns a boolean cell value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// DateTime returns a cell value holding an Excel date serial number.
func DateTime(serial float64) Value { return Value{kind: KindDateTime, num: serial} }

// Error returns a cell value holding an Excel error token, e.g. "#N/A".
func Error(text string) Value { return Value{kind: KindError, str: text} }

// Formula returns a cell value holding a formula expression.  A leading "="
// is accepted and stripped when the cell is serialized.
func Formula(expr string) Value { return Value{kind: KindFormula, str: expr} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is a blank cell.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Text returns the raw text payload of a string, error, or formula value,
// and "" for every other kind.
func (v Value) Text() string { return v.str }

// AsString renders v as a plain string: "" for empty cells, the text for
// string cells, decimal renderings for numbers and serials, "true"/"false"
// for booleans, "ERROR: <token>" for error cells, and the expression for
// formula cells.
func (v Value) AsString() string {
	switch v.kind {
	case KindEmpty:
		return ""
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat, KindDateTime:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindError:
		return "ERROR: " + v.str
	case KindFormula:
		return v.str
	}
	return ""
}

// AsInt64 converts v to an int64 where a meaningful conversion exists:
// integers directly, floats and serials by truncation, strings by parsing.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat, KindDateTime:
		return int64(v.num), true
	case KindString:
		i, err := strconv.ParseInt(v.str, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// AsFloat64 converts v to a float64 where a meaningful conversion exists.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindFloat, KindDateTime:
		return v.num, true
	case KindInt:
		return float64(v.i), true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		return f, err == nil
	}
	return 0, false
}

// AsBool converts v to a bool where a meaningful conversion exists.  The
// strings "true", "yes" and "1" convert to true; "false", "no" and "0" to
// false.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	case KindString:
		switch v.str {
		case "true", "yes", "1", "TRUE", "True":
			return true, true
		case "false", "no", "0", "FALSE", "False":
			return false, true
		}
	}
	return false, false
}

// Style is an index into the writer's fixed, pre-baked style sheet.  The
// enumeration is closed and append-only: the numeric value of each constant
// is the cellXfs index written into the file and must never be renumbered.
type Style uint8

const (
	// StyleDefault applies no formatting.
	StyleDefault Style = iota
	// StyleHeaderBold is bold text for header rows.
	StyleHeaderBold
	// StyleNumberInteger formats with a thousands separator (#,##0).
	StyleNumberInteger
	// StyleNumberDecimal formats with two decimal places (#,##0.00).
	StyleNumberDecimal
	// StyleNumberCurrency formats as currency ($#,##0.00).
	StyleNumberCurrency
	// StyleNumberPercentage formats as a percentage (0.00%).
	StyleNumberPercentage
	// StyleDate formats a serial as a date (built-in format 14, m/d/yy).
	StyleDate
	// StyleTimestamp formats a serial as date plus time of day.
	StyleTimestamp
	// StyleTextBold is bold text.
	StyleTextBold
	// StyleTextItalic is italic text.
	StyleTextItalic
	// StyleHighlightYellow fills the cell background yellow.
	StyleHighlightYellow
	// StyleHighlightGreen fills the cell background green.
	StyleHighlightGreen
	// StyleHighlightRed fills the cell background red.
	StyleHighlightRed
	// StyleBorderThin draws a thin border on all four sides.
	StyleBorderThin

	// StyleCount is the number of defined styles.  New styles are appended
	// before this constant.
	StyleCount
)

// Index returns the cellXfs index for s.
func (s Style) Index() int { return int(s) }

// Styled pairs a Value with a Style for the styled write path.
type Styled struct {
	Value Value
	Style Style
}

// NewStyled returns a Styled cell.
func NewStyled(v Value, s Style) Styled { return Styled{Value: v, Style: s} }

// Row is an ordered, dense sequence of cell values tagged with its
// zero-based row index.  Readers produce a fresh Row per iteration step;
// callers that retain one past the step should Clone it.
type Row struct {
	// Index is the zero-based row index.
	Index int
	// Cells holds the values in column order.  Gaps in the source encoding
	// appear as empty values, so Cells[i] is always column i.
	Cells []Value
}

// Len returns the number of cells in the row.
func (r Row) Len() int { return len(r.Cells) }

// Get returns the value at column col, or an empty value when col is past
// the end of the row.
func (r Row) Get(col int) Value {
	if col < 0 || col >= len(r.Cells) {
		return Value{}
	}
	return r.Cells[col]
}

// IsEmpty reports whether the row has no cells or only empty cells.
func (r Row) IsEmpty() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Strings renders every cell with Value.AsString.
func (r Row) Strings() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.AsString()
	}
	return out
}

// Clone returns a copy of the row whose cell slice is independent of the
// original.
func (r Row) Clone() Row {
	cells := make([]Value, len(r.Cells))
	copy(cells, r.Cells)
	return Row{Index: r.Index, Cells: cells}
}
