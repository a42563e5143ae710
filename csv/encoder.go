// Package csv implements a delimiter-separated-values codec plus file
// readers and writers with transparent gzip and zip compression.
//
// The core Encoder and Parser work on single records and are exact
// inverses of each other for any delimiter and quote configuration; the
// Reader and Writer wrap them with line handling, multi-line quoted
// fields, headers, and compression detection by file extension.
package csv

// Encoder serializes one record at a time.  The zero value is not valid;
// use NewEncoder.
type Encoder struct {
	// Delim separates fields, ',' by default.
	Delim byte
	// Quote encloses fields that need escaping, '"' by default.
	Quote byte
}

// NewEncoder returns an encoder with the conventional comma and
// double-quote configuration.
func NewEncoder() Encoder {
	return Encoder{Delim: ',', Quote: '"'}
}

// EncodeRow appends the encoded record to dst and returns the extended
// slice.  No line terminator is appended; that is the caller's concern.
// A field is quoted only when it contains the delimiter, the quote
// character, or a line break; quote characters inside a quoted field are
// doubled.
func (e Encoder) EncodeRow(dst []byte, fields []string) []byte {
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, e.Delim)
		}
		dst = e.appendField(dst, f)
	}
	return dst
}

func (e Encoder) appendField(dst []byte, f string) []byte {
	if !e.needsQuoting(f) {
		return append(dst, f...)
	}
	dst = append(dst, e.Quote)
	for i := 0; i < len(f); i++ {
		c := f[i]
		if c == e.Quote {
			dst = append(dst, e.Quote)
		}
		dst = append(dst, c)
	}
	return append(dst, e.Quote)
}

func (e Encoder) needsQuoting(f string) bool {
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case e.Delim, e.Quote, '\n', '\r':
			return true
		}
	}
	return false
}
