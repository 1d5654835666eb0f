// Package csvio implements the catalog interchange framing: an always-quote
// CSV writer and a matching single-pass reader.
//
// Every serialized field is quote-wrapped regardless of content, which keeps
// the encode side trivial and symmetric with the reader. The reader handles
// the general quoting grammar because body text and review text routinely
// contain commas, quotes and literal newlines, so logical rows may span
// physical lines.
package csvio

import "strings"

// SerializeRow renders one logical row as a single CSV line. Internal quote
// characters are doubled and every field is quote-wrapped.
func SerializeRow(values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	return b.String()
}

// ParseText scans CSV text into logical rows. Inside a quoted region a
// doubled quote emits one literal quote; an unquoted newline terminates the
// current logical row. Fully empty logical rows are dropped.
func ParseText(text string) [][]string {
	var (
		rows   [][]string
		row    []string
		field  strings.Builder
		quoted bool
	)

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		if !emptyRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if quoted {
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				quoted = false
				continue
			}
			field.WriteRune(c)
			continue
		}
		switch c {
		case '"':
			quoted = true
		case ',':
			flushField()
		case '\r':
			// CRLF terminates the row once; bare CR is treated the same.
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			flushRow()
		case '\n':
			flushRow()
		default:
			field.WriteRune(c)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}
	return rows
}

// emptyRow matches a blank logical line: one field, no content. Rows with
// several empty fields are real records and pass through.
func emptyRow(row []string) bool {
	return len(row) == 1 && row[0] == ""
}
