package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Checks struct {
	HasHeadings     bool `json:"hasHeadings"`
	HasParagraphs   bool `json:"hasParagraphs"`
	HasLists        bool `json:"hasLists"`
	HasTables       bool `json:"hasTables"`
	HasImages       bool `json:"hasImages"`
	HasLinks        bool `json:"hasLinks"`
	ProperHierarchy bool `json:"properHierarchy"`
}

// Expectations are caller-supplied element counts the accuracy score is
// measured against. Zero means the dimension was not supplied.
type Expectations struct {
	Headings int
	Tables   int
	Lists    int
	MinWords int
}

type Report struct {
	OverallScore           float64  `json:"overallScore"`
	CompletenessScore      float64  `json:"completenessScore"`
	CompletenessAssessment string   `json:"completenessAssessment"`
	AccuracyScore          float64  `json:"accuracyScore"`
	Structure              Checks   `json:"structureChecks"`
	Issues                 []string `json:"issues"`
	WordCount              int      `json:"wordCount"`
	CharacterCount         int      `json:"characterCount"`
	LineCount              int      `json:"lineCount"`
	ProcessingTime         float64  `json:"processingTime"`
}

var (
	headingPattern  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	headingsPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+`)

	bulletPattern  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	orderedPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)

	tablePattern     = regexp.MustCompile(`\|.*\|.*\n\|[-:\s|]+\|`)
	imagePattern     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkPattern      = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	paragraphPattern = regexp.MustCompile(`\n\n+`)

	garbledPattern  = regexp.MustCompile(`\x{FFFD}+`)
	dotRunPattern   = regexp.MustCompile(`\.{10,}`)
	underRunPattern = regexp.MustCompile(`_{10,}`)
	blankRunPattern = regexp.MustCompile(`\n{5,}`)
)

// Completeness buckets the output/source size ratio into coarse bands. The
// heuristic is deliberately monotonic, not a precise metric.
func Completeness(markdown string, sourceSize int64) (float64, string) {
	if sourceSize == 0 {
		return 0, "Source file is empty"
	}

	if markdown == "" {
		return 0, "No content extracted"
	}

	ratio := float64(len(markdown)) / float64(sourceSize)

	switch {
	case ratio < 0.01:
		return 10, "Very poor extraction"
	case ratio < 0.05:
		return 30, "Poor extraction"
	case ratio < 0.1:
		return 50, "Partial extraction"
	case ratio < 0.3:
		return 70, "Good extraction"
	case ratio < 1.0:
		return 85, "Very good extraction"
	default:
		return 95, "Excellent extraction"
	}
}

// Accuracy compares observed element counts against expectations. Each
// supplied dimension contributes min(100, observed/expected*100), averaged.
// Without expectations a word-count heuristic applies.
func Accuracy(markdown string, expected Expectations) float64 {
	if markdown == "" {
		return 0
	}

	var scores []float64

	if expected.Headings > 0 {
		observed := len(headingPattern.FindAllString(markdown, -1))
		scores = append(scores, ratioScore(observed, expected.Headings))
	}

	if expected.Tables > 0 {
		observed := len(tablePattern.FindAllString(markdown, -1))
		scores = append(scores, ratioScore(observed, expected.Tables))
	}

	if expected.Lists > 0 {
		observed := len(bulletPattern.FindAllString(markdown, -1)) + len(orderedPattern.FindAllString(markdown, -1))
		scores = append(scores, ratioScore(observed, expected.Lists))
	}

	if expected.MinWords > 0 {
		observed := len(strings.Fields(markdown))
		scores = append(scores, ratioScore(observed, expected.MinWords))
	}

	if len(scores) == 0 {
		words := len(strings.Fields(markdown))

		switch {
		case words < 10:
			return 0
		case words < 100:
			return 50
		default:
			return 75
		}
	}

	sum := 0.0

	for _, score := range scores {
		sum += score
	}

	return sum / float64(len(scores))
}

func ratioScore(observed, expected int) float64 {
	score := float64(observed) / float64(expected) * 100

	if score > 100 {
		score = 100
	}

	return score
}

// Structure runs the independent structural-preservation detections.
func Structure(markdown string) Checks {
	return Checks{
		HasHeadings:     headingPattern.MatchString(markdown),
		HasParagraphs:   len(paragraphPattern.Split(markdown, -1)) > 1,
		HasLists:        bulletPattern.MatchString(markdown) || orderedPattern.MatchString(markdown),
		HasTables:       tablePattern.MatchString(markdown),
		HasImages:       imagePattern.MatchString(markdown),
		HasLinks:        linkPattern.MatchString(markdown),
		ProperHierarchy: properHierarchy(markdown),
	}
}

func properHierarchy(markdown string) bool {
	matches := headingsPattern.FindAllStringSubmatch(markdown, -1)

	prev := 0

	for _, m := range matches {
		level := len(m[1])

		if prev > 0 && level > prev+1 {
			return false
		}

		prev = level
	}

	return true
}

// Issues lists detected conversion problems, each heuristic triggered
// independently.
func Issues(markdown string) []string {
	var issues []string

	if garbled := len(garbledPattern.FindAllString(markdown, -1)); garbled > 10 {
		issues = append(issues, fmt.Sprintf("Encoding issues detected (%d garbled characters)", garbled))
	}

	if dotRunPattern.MatchString(markdown) || underRunPattern.MatchString(markdown) {
		issues = append(issues, "Excessive repeated characters (possible OCR error)")
	}

	if broken := brokenTables(markdown); broken > 0 {
		issues = append(issues, fmt.Sprintf("Potentially broken tables detected (%d)", broken))
	}

	if len(strings.Fields(markdown)) < 10 {
		issues = append(issues, "Very low word count - possible extraction failure")
	}

	longLines := 0

	for _, line := range strings.Split(markdown, "\n") {
		if len(line) > 500 {
			longLines++
		}
	}

	if longLines > 5 {
		issues = append(issues, "Many excessively long lines - possible formatting issues")
	}

	if blankRunPattern.MatchString(markdown) || strings.Count(markdown, "\n\n\n") > 10 {
		issues = append(issues, "Excessive blank lines")
	}

	return issues
}

// brokenTables counts rows holding exactly one pipe-delimited cell that are
// not followed by another table row.
func brokenTables(markdown string) int {
	lines := strings.Split(markdown, "\n")

	count := 0

	for i, line := range lines {
		if !strings.HasPrefix(line, "|") || strings.Count(line, "|") != 2 {
			continue
		}

		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "|") {
			count++
		}
	}

	return count
}

// CountTables counts markdown tables by their separator rows.
func CountTables(markdown string) int {
	count := 0

	for _, line := range strings.Split(markdown, "\n") {
		if !strings.Contains(line, "|") || !strings.Contains(line, "-") {
			continue
		}

		if strings.Trim(line, "|-: ") == "" {
			count++
		}
	}

	return count
}

// NewReport computes the full quality report for a completed conversion.
func NewReport(markdown string, sourceSize int64, processingTime float64) Report {
	completeness, assessment := Completeness(markdown, sourceSize)
	accuracy := Accuracy(markdown, Expectations{MinWords: 100})

	return Report{
		OverallScore:           (completeness + accuracy) / 2,
		CompletenessScore:      completeness,
		CompletenessAssessment: assessment,
		AccuracyScore:          accuracy,
		Structure:              Structure(markdown),
		Issues:                 Issues(markdown),
		WordCount:              len(strings.Fields(markdown)),
		CharacterCount:         utf8.RuneCountInString(markdown),
		LineCount:              len(strings.Split(markdown, "\n")),
		ProcessingTime:         processingTime,
	}
}
