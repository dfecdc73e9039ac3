package markdown

import (
	"strings"
	"testing"
)

func TestFormatTableRoundTrip(t *testing.T) {
	rows := [][]string{
		{"H1", "H2"},
		{"a", "b"},
	}

	rendered := FormatTable(rows)

	lines := strings.Split(rendered, "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one data row, got %d lines", len(lines))
	}

	parse := func(line string) []string {
		var cells []string

		for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
			cells = append(cells, strings.TrimSpace(cell))
		}

		return cells
	}

	header := parse(lines[0])
	data := parse(lines[2])

	if header[0] != "H1" || header[1] != "H2" {
		t.Errorf("header cells = %v", header)
	}

	if data[0] != "a" || data[1] != "b" {
		t.Errorf("data cells = %v", data)
	}
}

func TestFormatTableMinimumWidth(t *testing.T) {
	rendered := FormatTable([][]string{{"a"}, {"b"}})

	if !strings.Contains(rendered, "|-----|") {
		t.Errorf("separator should pad to minimum width 3: %q", rendered)
	}
}

func TestFormatTableRaggedRows(t *testing.T) {
	rendered := FormatTable([][]string{
		{"one", "two", "three"},
		{"only"},
	})

	lines := strings.Split(rendered, "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}

	if strings.Count(lines[2], "|") != 4 {
		t.Errorf("data row should keep all columns: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if got := FormatTable(nil); got != "" {
		t.Errorf("FormatTable(nil) = %q", got)
	}

	if got := FormatTable([][]string{{}}); got != "" {
		t.Errorf("FormatTable(empty header) = %q", got)
	}
}
