package markdown

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#+)\s+(.+)$`)

// FixHeadingHierarchy clamps heading levels so no heading jumps more than one
// level past the previously open heading. A stack of open levels is maintained
// top to bottom; after each heading the stack is popped to levels below it.
func FixHeadingHierarchy(content string) string {
	lines := strings.Split(content, "\n")

	fixed := make([]string, 0, len(lines))

	var stack []int

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			level := len(m[1])

			if len(stack) > 0 && level > stack[len(stack)-1]+1 {
				level = stack[len(stack)-1] + 1
				line = strings.Repeat("#", level) + " " + m[2]
			}

			for len(stack) > 0 && stack[len(stack)-1] >= level {
				stack = stack[:len(stack)-1]
			}

			stack = append(stack, level)
		}

		fixed = append(fixed, line)
	}

	return strings.Join(fixed, "\n")
}
