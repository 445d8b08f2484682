// Package render turns a raw model payload into minimal HTML for the
// degraded path where no structure could be recovered.
package render

import (
	"fmt"
	"html"
	"strings"
)

type lineKind int

const (
	kindBlank lineKind = iota
	kindHeading
	kindList
	kindText
)

// Markdown renders raw markdown-ish text as minimal HTML. It walks the
// input line by line, classifying each line and flushing the open block
// whenever the classification changes.
func Markdown(raw string) string {
	var b strings.Builder
	var block []string
	open := kindBlank

	flush := func() {
		if len(block) == 0 {
			return
		}
		switch open {
		case kindList:
			b.WriteString("<ul>")
			for _, item := range block {
				b.WriteString("<li>")
				b.WriteString(html.EscapeString(item))
				b.WriteString("</li>")
			}
			b.WriteString("</ul>\n")
		case kindText:
			b.WriteString("<p>")
			b.WriteString(html.EscapeString(strings.Join(block, " ")))
			b.WriteString("</p>\n")
		}
		block = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		kind, content := classify(line)
		switch kind {
		case kindBlank:
			flush()
		case kindHeading:
			flush()
			level := headingLevel(line)
			b.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", level, html.EscapeString(content), level))
		default:
			if kind != open {
				flush()
			}
			open = kind
			block = append(block, content)
		}
	}
	flush()

	return strings.TrimSpace(b.String())
}

func classify(line string) (lineKind, string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return kindBlank, ""
	case strings.HasPrefix(trimmed, "#"):
		return kindHeading, strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return kindList, strings.TrimSpace(trimmed[2:])
	default:
		if rest, ok := numberedItem(trimmed); ok {
			return kindList, rest
		}
		return kindText, trimmed
	}
}

// numberedItem strips a "1." or "2)" style marker.
func numberedItem(s string) (string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return "", false
	}
	return strings.TrimSpace(s[i+1:]), true
}

func headingLevel(line string) int {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' && level < 6 {
		level++
	}
	if level == 0 {
		level = 1
	}
	return level
}
