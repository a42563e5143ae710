// Package xmlesc implements the XML entity escaping used throughout the
// spreadsheet parts.
//
// Only the five predefined entities (&lt; &gt; &amp; &quot; &apos;) are
// handled; that is the full set the row and shared-string codecs emit and
// consume.  It exists so that the parser, the string table, and the writer
// share one implementation without an import cycle.
package xmlesc

import "strings"

// Append appends s to dst with the five predefined XML entities escaped.
// The output is safe for both element text and attribute values.
func Append(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			dst = append(dst, "&amp;"...)
		case '<':
			dst = append(dst, "&lt;"...)
		case '>':
			dst = append(dst, "&gt;"...)
		case '"':
			dst = append(dst, "&quot;"...)
		case '\'':
			dst = append(dst, "&apos;"...)
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// Escape returns s with the five predefined XML entities escaped.
func Escape(s string) string {
	if strings.IndexAny(s, `&<>"'`) < 0 {
		return s
	}
	return string(Append(make([]byte, 0, len(s)+8), s))
}

// Unescape decodes the five predefined XML entities in s.  Unknown or
// malformed entity references are left intact rather than dropped, so
// corrupt input degrades to visible text instead of silent data loss.
func Unescape(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:amp])
	s = s[amp:]
	for len(s) > 0 {
		if s[0] != '&' {
			next := strings.IndexByte(s, '&')
			if next < 0 {
				b.WriteString(s)
				break
			}
			b.WriteString(s[:next])
			s = s[next:]
			continue
		}
		switch {
		case strings.HasPrefix(s, "&lt;"):
			b.WriteByte('<')
			s = s[4:]
		case strings.HasPrefix(s, "&gt;"):
			b.WriteByte('>')
			s = s[4:]
		case strings.HasPrefix(s, "&amp;"):
			b.WriteByte('&')
			s = s[5:]
		case strings.HasPrefix(s, "&quot;"):
			b.WriteByte('"')
			s = s[6:]
		case strings.HasPrefix(s, "&apos;"):
			b.WriteByte('\'')
			s = s[6:]
		default:
			b.WriteByte('&')
			s = s[1:]
		}
	}
	return b.String()
}
