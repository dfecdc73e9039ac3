package markdown

import (
	"regexp"
	"strings"
	"testing"
)

func TestFixHeadingHierarchyClampsJumps(t *testing.T) {
	input := "# One\n#### Jumped\ntext"
	want := "# One\n## Jumped\ntext"

	if got := FixHeadingHierarchy(input); got != want {
		t.Errorf("FixHeadingHierarchy() = %q, want %q", got, want)
	}
}

func TestFixHeadingHierarchyKeepsValidNesting(t *testing.T) {
	input := "# One\n## Two\n### Three\n## Two again\n# One again"

	if got := FixHeadingHierarchy(input); got != input {
		t.Errorf("FixHeadingHierarchy() = %q, want unchanged", got)
	}
}

func TestFixHeadingHierarchyNeverSkipsLevels(t *testing.T) {
	inputs := []string{
		"### Start deep\n# Back up\n###### Way down",
		"# A\n###### B\n## C\n#### D",
		"## X\n## Y\n##### Z",
	}

	pattern := regexp.MustCompile(`^(#+)\s`)

	for _, input := range inputs {
		got := FixHeadingHierarchy(input)

		prev := 0

		for _, line := range strings.Split(got, "\n") {
			m := pattern.FindStringSubmatch(line)

			if m == nil {
				continue
			}

			level := len(m[1])

			if prev > 0 && level > prev+1 {
				t.Errorf("level %d follows %d in %q", level, prev, got)
			}

			prev = level
		}
	}
}
