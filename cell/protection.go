package cell

import (
	"fmt"
	"math/bits"
)

// ProtectionOptions describes a worksheet protection record.  Build one with
// the fluent Allow* chain before the first row of a sheet is written; the
// writer consumes it exactly once per sheet and it is immutable afterwards.
//
// The password, when set, is stored only as the legacy Excel 16-bit hash —
// never the plaintext.  The hash gates UI affordances in spreadsheet
// applications; it is not a security boundary.
type ProtectionOptions struct {
	// PasswordHash is the 4-hex-digit legacy hash, or "" for no password.
	PasswordHash string
	// SelectLockedCells permits selecting locked cells (default true).
	SelectLockedCells bool
	// SelectUnlockedCells permits selecting unlocked cells (default true).
	SelectUnlockedCells bool
	// FormatCells permits formatting cells (default false).
	FormatCells bool
	// FormatColumns permits formatting columns (default false).
	FormatColumns bool
	// FormatRows permits formatting rows (default false).
	FormatRows bool
	// InsertColumns permits inserting columns (default false).
	InsertColumns bool
	// InsertRows permits inserting rows (default false).
	InsertRows bool
	// DeleteColumns permits deleting columns (default false).
	DeleteColumns bool
	// DeleteRows permits deleting rows (default false).
	DeleteRows bool
	// Sort permits sorting (default false).
	Sort bool
	// AutoFilter permits using auto filters (default false).
	AutoFilter bool
}

// NewProtection returns the most restrictive protection options: only
// selection of locked and unlocked cells is permitted.
func NewProtection() ProtectionOptions {
	return ProtectionOptions{
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
	}
}

// WithPassword sets the protection password, stored as its legacy hash.
func (p ProtectionOptions) WithPassword(password string) ProtectionOptions {
	p.PasswordHash = HashPassword(password)
	return p
}

// AllowSelectLockedCells sets whether locked cells may be selected.
func (p ProtectionOptions) AllowSelectLockedCells(allow bool) ProtectionOptions {
	p.SelectLockedCells = allow
	return p
}

// AllowSelectUnlockedCells sets whether unlocked cells may be selected.
func (p ProtectionOptions) AllowSelectUnlockedCells(allow bool) ProtectionOptions {
	p.SelectUnlockedCells = allow
	return p
}

// AllowFormatCells sets whether cells may be formatted.
func (p ProtectionOptions) AllowFormatCells(allow bool) ProtectionOptions {
	p.FormatCells = allow
	return p
}

// AllowFormatColumns sets whether columns may be formatted.
func (p ProtectionOptions) AllowFormatColumns(allow bool) ProtectionOptions {
	p.FormatColumns = allow
	return p
}

// AllowFormatRows sets whether rows may be formatted.
func (p ProtectionOptions) AllowFormatRows(allow bool) ProtectionOptions {
	p.FormatRows = allow
	return p
}

// AllowInsertColumns sets whether columns may be inserted.
func (p ProtectionOptions) AllowInsertColumns(allow bool) ProtectionOptions {
	p.InsertColumns = allow
	return p
}

// AllowInsertRows sets whether rows may be inserted.
func (p ProtectionOptions) AllowInsertRows(allow bool) ProtectionOptions {
	p.InsertRows = allow
	return p
}

// AllowDeleteColumns sets whether columns may be deleted.
func (p ProtectionOptions) AllowDeleteColumns(allow bool) ProtectionOptions {
	p.DeleteColumns = allow
	return p
}

// AllowDeleteRows sets whether rows may be deleted.
func (p ProtectionOptions) AllowDeleteRows(allow bool) ProtectionOptions {
	p.DeleteRows = allow
	return p
}

// AllowSort sets whether ranges may be sorted.
func (p ProtectionOptions) AllowSort(allow bool) ProtectionOptions {
	p.Sort = allow
	return p
}

// AllowAutoFilter sets whether auto filters may be used.
func (p ProtectionOptions) AllowAutoFilter(allow bool) ProtectionOptions {
	p.AutoFilter = allow
	return p
}

// HashPassword computes the legacy Excel 16-bit worksheet password hash:
// each character, taken from the end of the string, is rotated left one bit
// (within 16 bits) and XOR-ed into the accumulator; the string length and
// the constant 0xCE4B are then XOR-ed in.  The result is formatted as four
// uppercase hex digits.
//
// The empty password hashes to "CE4B".
func HashPassword(password string) string {
	var hash uint16
	runes := []rune(password)
	for i := len(runes) - 1; i >= 0; i-- {
		hash ^= bits.RotateLeft16(uint16(runes[i]), 1)
	}
	hash ^= uint16(len(runes))
	hash ^= 0xCE4B
	return fmt.Sprintf("%04X", hash)
}
