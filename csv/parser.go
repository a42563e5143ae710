package csv

// Parser decodes one record at a time.  The zero value is not valid; use
// NewParser.
type Parser struct {
	// Delim separates fields, ',' by default.
	Delim byte
	// Quote encloses escaped fields, '"' by default.
	Quote byte
}

// NewParser returns a parser with the conventional comma and double-quote
// configuration.
func NewParser() Parser {
	return Parser{Delim: ',', Quote: '"'}
}

// ParseLine decodes one complete record.  The input must not include the
// line terminator.  A record always has at least one field: the empty line
// decodes to a single empty field.
//
// Inside a quoted field a doubled quote decodes to one quote character and
// the delimiter loses its meaning.  A quote appearing in the middle of an
// unquoted field is kept literally, so slightly malformed input degrades
// to visible text rather than an error.
func (p Parser) ParseLine(line string) []string {
	fields := make([]string, 0, 8)
	var field []byte
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == p.Quote {
				if i+1 < len(line) && line[i+1] == p.Quote {
					field = append(field, p.Quote)
					i++
				} else {
					inQuotes = false
				}
			} else {
				field = append(field, c)
			}
		case c == p.Quote && len(field) == 0:
			inQuotes = true
		case c == p.Delim:
			fields = append(fields, string(field))
			field = field[:0]
		default:
			field = append(field, c)
		}
	}
	return append(fields, string(field))
}

// Unbalanced reports whether line ends inside an open quoted field, which
// means the logical record continues on the next physical line.
func (p Parser) Unbalanced(line string) bool {
	inQuotes := false
	var field int
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == p.Quote {
				if i+1 < len(line) && line[i+1] == p.Quote {
					i++
				} else {
					inQuotes = false
				}
			}
		case c == p.Quote && field == 0:
			inQuotes = true
		case c == p.Delim:
			field = 0
		default:
			field++
		}
	}
	return inQuotes
}
