package markdown

import (
	"regexp"
	"strings"
)

var (
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern = regexp.MustCompile(` {2,}`)

	bulletItemPattern  = regexp.MustCompile(`^([-*+])\s+(.*)$`)
	orderedItemPattern = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
)

// Normalize applies the full cleanup pipeline. The transforms are deterministic
// and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(content string) string {
	content = Clean(content)
	content = FixHeadingHierarchy(content)
	content = FormatLists(content)

	return content
}

// Clean collapses runs of blank lines and spaces, trims per-line whitespace and
// separates adjacent heading lines with a blank line.
func Clean(content string) string {
	content = blankRunPattern.ReplaceAllString(content, "\n\n")
	content = spaceRunPattern.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")

	cleaned := make([]string, 0, len(lines))
	prevHeading := false

	for _, line := range lines {
		line = strings.Trim(line, " \t")

		heading := strings.HasPrefix(line, "#")

		if heading && prevHeading {
			cleaned = append(cleaned, "")
		}

		cleaned = append(cleaned, line)
		prevHeading = heading
	}

	return strings.Join(cleaned, "\n")
}

// FormatLists unifies bullet markers to "-" and quantizes list indentation to
// 2-space units. Ordered-list numbering is preserved as written.
func FormatLists(content string) string {
	lines := strings.Split(content, "\n")

	formatted := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimLeft(line, " ")
		indent := (len(line) - len(stripped)) / 2 * 2

		if m := bulletItemPattern.FindStringSubmatch(stripped); m != nil {
			line = strings.Repeat(" ", indent) + "- " + m[2]
		} else if m := orderedItemPattern.FindStringSubmatch(stripped); m != nil {
			line = strings.Repeat(" ", indent) + m[1] + ". " + m[2]
		}

		formatted = append(formatted, line)
	}

	return strings.Join(formatted, "\n")
}
