package salvage

import "encoding/json"

// Scanner walks a raw payload left to right and yields every balanced
// {...} span that parses as JSON. It is single-pass: once Next returns
// false the scanner is exhausted.
type Scanner struct {
	src string
	pos int
}

// NewScanner creates a Scanner over raw text.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next candidate value in order of discovery.
// On a successful parse the scan resumes after the consumed span; on a
// failed parse it resumes one byte after the opening brace, so a broken
// outer span can still surface a valid inner one.
func (s *Scanner) Next() (any, bool) {
	for s.pos < len(s.src) {
		if s.src[s.pos] != '{' {
			s.pos++
			continue
		}

		open := s.pos
		end, ok := matchBrace(s.src, open)
		if !ok {
			// Unbalanced span: nothing to emit for this opening brace.
			s.pos = open + 1
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(s.src[open:end+1]), &v); err != nil {
			s.pos = open + 1
			continue
		}

		s.pos = end + 1
		return v, true
	}
	return nil, false
}

// matchBrace finds the closing brace matching the opener at start,
// using a signed depth counter. Returns false if the input ends first.
func matchBrace(src string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
