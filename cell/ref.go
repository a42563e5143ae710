package cell

import "strconv"

// MaxColumnIndex is the conventional sheet width ceiling: column "XFD",
// zero-based index 16383.
const MaxColumnIndex = 16383

// ColumnIndex converts the alphabetic prefix of an A1-style reference to a
// zero-based column index: "A" and "A1" give 0, "Z" gives 25, "AA" gives 26.
// Letters are case-insensitive; scanning stops at the first non-letter.
// A reference with no leading letters returns -1.
//
// The numbering has no true zero digit (after "Z" comes "AA", not "BA"), so
// each letter contributes digit+1 in base 26 and the final total is shifted
// down by one.
func ColumnIndex(ref string) int {
	col := 0
	n := 0
	for _, ch := range ref {
		switch {
		case ch >= 'A' && ch <= 'Z':
			col = col*26 + int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			col = col*26 + int(ch-'a') + 1
		default:
			if n == 0 {
				return -1
			}
			return col - 1
		}
		n++
	}
	if n == 0 {
		return -1
	}
	return col - 1
}

// ColumnLetters converts a zero-based column index to its alphabetic form:
// 0 gives "A", 25 gives "Z", 26 gives "AA".  It is the exact inverse of
// ColumnIndex for every index from 0 through at least MaxColumnIndex.
// Negative indices return "".
func ColumnLetters(col int) string {
	if col < 0 {
		return ""
	}
	// 16384 columns need at most three letters; build backwards.
	var buf [4]byte
	i := len(buf)
	n := col + 1
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// Ref builds an A1-style reference from zero-based row and column indices:
// Ref(0, 0) is "A1", Ref(11, 26) is "AA12".
func Ref(row, col int) string {
	return ColumnLetters(col) + strconv.Itoa(row+1)
}
