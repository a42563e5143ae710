// Package dateformat classifies built-in spreadsheet number-format IDs.
//
// It exists so that styles/ and the writer's style sheet share one table;
// it has no public-API contract of its own.
package dateformat

// IsBuiltInDateID reports whether id is a built-in numFmtId that represents
// a date, datetime, or time format.
//
// The recognised IDs follow ECMA-376 §18.8.30:
//
//	14–22   date and time formats (IDs 18–21 are time-only)
//	27–36   locale-specific CJK date formats
//	45–47   elapsed-time / seconds formats
//	50–58   locale-specific CJK date formats (variant set)
func IsBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}
