package markdown

import (
	"strings"
)

// FormatTable renders rows as a GitHub-style markdown table. The first row is
// the header. Column widths are the longest cell per column, minimum 3.
func FormatTable(rows [][]string) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))

	for col := range widths {
		width := 3

		for _, row := range rows {
			if col < len(row) && len(row[col]) > width {
				width = len(row[col])
			}
		}

		widths[col] = width
	}

	var lines []string

	header := make([]string, len(rows[0]))

	for i, cell := range rows[0] {
		header[i] = pad(cell, widths[i])
	}

	lines = append(lines, "| "+strings.Join(header, " | ")+" |")

	separator := make([]string, len(widths))

	for i, width := range widths {
		separator[i] = strings.Repeat("-", width+2)
	}

	lines = append(lines, "|"+strings.Join(separator, "|")+"|")

	for _, row := range rows[1:] {
		cells := make([]string, len(widths))

		for i := range widths {
			cell := ""

			if i < len(row) {
				cell = row[i]
			}

			cells[i] = pad(cell, widths[i])
		}

		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}

	return strings.Join(lines, "\n")
}

func pad(cell string, width int) string {
	if len(cell) >= width {
		return cell
	}

	return cell + strings.Repeat(" ", width-len(cell))
}
