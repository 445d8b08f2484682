// Package extract turns uploaded manuscript bytes into page-addressed
// plain text so downstream chunking can keep page ranges.
package extract

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is the text of a single manuscript page.
type Page struct {
	Number int
	Text   string
}

// Text extracts page texts from an uploaded file. PDF pages map one to
// one; plain text and LaTeX come back as a single page.
func Text(data []byte, contentType string) ([]Page, error) {
	switch contentType {
	case "application/pdf":
		return pdfPages(data)
	case "text/x-tex":
		return []Page{{Number: 1, Text: stripTeXComments(string(data))}}, nil
	default:
		return []Page{{Number: 1, Text: string(data)}}, nil
	}
}

// Join concatenates page texts with newlines, the form the analyzer
// and scorer consume.
func Join(pages []Page) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func pdfPages(data []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			log.Printf("extract.pdfPages: page %d unreadable: %v", i, err)
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}

// stripTeXComments drops unescaped %-comments line by line.
func stripTeXComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '%' && (j == 0 || line[j-1] != '\\') {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
