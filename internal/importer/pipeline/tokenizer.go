package pipeline

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Tokenize splits text into trimmed, non-blank lines.
func Tokenize(text string) ([]string, error) {
	raw := lineBreak.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, &EmptyInputError{}
	}
	return lines, nil
}

// SplitPlain splits a line on every comma and trims each field.
func SplitPlain(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// SplitQuoted splits a line on commas outside double quotes. Inside quotes a
// doubled quote yields one literal quote. Each field is trimmed and then
// loses one pair of wrapping quotes if it starts and ends with one.
func SplitQuoted(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, unquote(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, unquote(current.String()))
}

func unquote(field string) string {
	field = strings.TrimSpace(field)
	if len(field) >= 2 && strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		return field[1 : len(field)-1]
	}
	return field
}
