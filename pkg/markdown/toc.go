package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	anchorStripPattern    = regexp.MustCompile(`[^\w\s-]`)
	anchorCollapsePattern = regexp.MustCompile(`[-\s]+`)
)

type Heading struct {
	Level int
	Title string
}

// Headings walks the markdown AST and returns all ATX headings in order. The
// parser comes from goldmark.New so the CommonMark block parsers are installed;
// a parser.NewParser without options has none and yields an empty tree.
func Headings(content string) []Heading {
	source := []byte(content)
	reader := text.NewReader(source)
	doc := goldmark.New().Parser().Parse(reader)

	var headings []Heading

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}

		heading := n.(*ast.Heading)

		if heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		var title strings.Builder

		for i := 0; i < heading.Lines().Len(); i++ {
			segment := heading.Lines().At(i)
			title.Write(source[segment.Start:segment.Stop])
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Title: strings.TrimSpace(title.String()),
		})

		return ast.WalkContinue, nil
	})

	return headings
}

// TableOfContents prepends a linked TOC built from headings of level 3 or
// less. Content is returned unchanged unless more than two qualify.
func TableOfContents(content string) string {
	var entries []Heading

	for _, h := range Headings(content) {
		if h.Level <= 3 {
			entries = append(entries, h)
		}
	}

	if len(entries) <= 2 {
		return content
	}

	lines := []string{"## Table of Contents", ""}

	for _, h := range entries {
		indent := strings.Repeat("  ", h.Level-1)
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, h.Title, Anchor(h.Title)))
	}

	return strings.Join(lines, "\n") + "\n\n" + content
}

// Anchor derives a GitHub-style link anchor from a heading title.
func Anchor(title string) string {
	anchor := anchorStripPattern.ReplaceAllString(strings.ToLower(title), "")
	anchor = anchorCollapsePattern.ReplaceAllString(anchor, "-")

	return anchor
}
