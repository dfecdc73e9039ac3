package markdown

import (
	"strings"
	"testing"
)

func TestHeadings(t *testing.T) {
	headings := Headings("# One\n\ntext\n\n## Two\n\ntext\n\n### Three")

	if len(headings) != 3 {
		t.Fatalf("Headings() returned %d headings, want 3", len(headings))
	}

	want := []Heading{
		{Level: 1, Title: "One"},
		{Level: 2, Title: "Two"},
		{Level: 3, Title: "Three"},
	}

	for i, h := range headings {
		if h != want[i] {
			t.Errorf("heading %d = %+v, want %+v", i, h, want[i])
		}
	}
}

func TestTableOfContentsGating(t *testing.T) {
	two := "# One\n\ntext\n\n## Two\n\ntext"

	if got := TableOfContents(two); got != two {
		t.Errorf("TOC added with only two headings")
	}

	three := "# One\n\ntext\n\n## Two\n\ntext\n\n### Three\n\ntext"

	got := TableOfContents(three)

	if !strings.HasPrefix(got, "## Table of Contents") {
		t.Errorf("TOC missing with three headings: %q", got)
	}

	if !strings.HasSuffix(got, three) {
		t.Errorf("original content not preserved")
	}
}

func TestTableOfContentsSkipsDeepHeadings(t *testing.T) {
	input := "# One\n\n#### Deep\n\n##### Deeper\n\n###### Deepest\n\ntext"

	if got := TableOfContents(input); got != input {
		t.Errorf("headings below level 3 should not count: %q", got)
	}
}

func TestTableOfContentsEntries(t *testing.T) {
	input := "# Getting Started\n\ntext\n\n## Install & Run\n\ntext\n\n## FAQ\n\ntext"

	got := TableOfContents(input)

	if !strings.Contains(got, "- [Getting Started](#getting-started)") {
		t.Errorf("missing top-level entry: %q", got)
	}

	if !strings.Contains(got, "  - [Install & Run](#install-run)") {
		t.Errorf("anchor should strip punctuation and collapse whitespace: %q", got)
	}
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started", "getting-started"},
		{"Install & Run", "install-run"},
		{"Already-Hyphenated Title", "already-hyphenated-title"},
		{"Symbols!?#", "symbols"},
	}

	for _, tt := range tests {
		if got := Anchor(tt.title); got != tt.want {
			t.Errorf("Anchor(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
