package extract

import "strings"

const (
	// DefaultParentMaxChars caps a coarse chunk built from whole pages.
	DefaultParentMaxChars = 2000
	// DefaultChildSize is the target length of a fine-grained snippet.
	DefaultChildSize = 400
	// DefaultChildOverlap is unused by the boundary splitter but kept as
	// the documented contract for alternative splitters.
	DefaultChildOverlap = 50
)

// ParentSpan is a coarse chunk covering a contiguous page range.
type ParentSpan struct {
	StartPage int
	EndPage   int
	Text      string
}

// BuildParents groups consecutive pages into coarse chunks of roughly
// maxChars characters. A page never splits across parents.
func BuildParents(pages []Page, maxChars int) []ParentSpan {
	if maxChars <= 0 {
		maxChars = DefaultParentMaxChars
	}

	var parents []ParentSpan
	var parts []string
	start, length := 0, 0

	flush := func(endPage int) {
		if len(parts) == 0 {
			return
		}
		parents = append(parents, ParentSpan{
			StartPage: start,
			EndPage:   endPage,
			Text:      strings.TrimSpace(strings.Join(parts, "\n")),
		})
		parts = nil
		length = 0
	}

	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		if length+len(page.Text) > maxChars && len(parts) > 0 {
			flush(page.Number - 1)
		}
		if len(parts) == 0 {
			start = page.Number
		}
		parts = append(parts, page.Text)
		length += len(page.Text)
	}
	if len(pages) > 0 {
		flush(pages[len(pages)-1].Number)
	}
	return parents
}

// SplitChildren breaks a parent text into snippets of at most childSize
// characters, preferring paragraph, then line, then word boundaries in
// the second half of the window before cutting mid-word.
func SplitChildren(text string, childSize int) []string {
	if childSize <= 0 {
		childSize = DefaultChildSize
	}

	var parts []string
	rest := text
	for len(rest) > childSize {
		cut := boundary(rest, childSize)
		parts = append(parts, strings.TrimSpace(rest[:cut]))
		rest = rest[cut:]
	}
	if trimmed := strings.TrimSpace(rest); trimmed != "" || len(parts) == 0 {
		parts = append(parts, trimmed)
	}
	return parts
}

func boundary(s string, size int) int {
	floor := size / 2
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(s[:size], sep); idx > floor {
			return idx
		}
	}
	return size
}
