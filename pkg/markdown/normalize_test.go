package markdown

import (
	"strings"
	"testing"
)

func TestCleanCollapsesBlankLines(t *testing.T) {
	input := "line one\n\n\n\n\nline two"
	want := "line one\n\nline two"

	if got := Clean(input); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanCollapsesSpaces(t *testing.T) {
	input := "too    many  spaces"
	want := "too many spaces"

	if got := Clean(input); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanTrimsLines(t *testing.T) {
	input := "  indented\ntrailing\t\n"

	got := Clean(input)

	for i, line := range strings.Split(got, "\n") {
		if line != strings.Trim(line, " \t") {
			t.Errorf("line %d not trimmed: %q", i, line)
		}
	}
}

func TestCleanSeparatesAdjacentHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\ntext"
	want := "# Title\n\n## Subtitle\ntext"

	if got := Clean(input); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestFormatListsUnifiesBullets(t *testing.T) {
	input := "* one\n+ two\n- three"
	want := "- one\n- two\n- three"

	if got := FormatLists(input); got != want {
		t.Errorf("FormatLists() = %q, want %q", got, want)
	}
}

func TestFormatListsQuantizesIndent(t *testing.T) {
	input := "- top\n   - nested\n     - deeper"
	want := "- top\n  - nested\n    - deeper"

	if got := FormatLists(input); got != want {
		t.Errorf("FormatLists() = %q, want %q", got, want)
	}
}

func TestFormatListsKeepsOrderedNumbering(t *testing.T) {
	input := "3. third\n7. seventh"

	if got := FormatLists(input); got != input {
		t.Errorf("FormatLists() = %q, want unchanged", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\n### Deep\n\n\n\ntext   with   spaces\n* item\n   * nested",
		"plain paragraph\n\nanother",
		"",
		"1. one\n2. two\n\n\n\n\n- bullet",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)

		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}
