package export

import "strings"

// EncodeCSV renders a header plus rows. Every value is double-quoted with
// embedded quotes doubled, fields joined by commas, rows by newlines.
func EncodeCSV(header []string, rows [][]string) []byte {
	var b strings.Builder
	writeRow(&b, header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
