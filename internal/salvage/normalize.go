package salvage

import (
	"encoding/json"
	"strconv"
)

// Priority order for the primary text of a structured finding.
var findingTextKeys = []string{"flaw", "issue", "point", "text", "message"}

// Keys whose presence makes a record finding-shaped even without any of
// the four canonical section keys.
var findingShapeKeys = []string{"issue", "focus", "text", "flaw", "message"}

var canonicalKeys = []string{"mentor_note", "brutal_truth", "roadmap", "assumptions"}

// normalizeFinding maps a raw candidate element destined for the brutal
// truth section onto the closed Finding variant set.
func normalizeFinding(v any) Finding {
	switch el := v.(type) {
	case string:
		return Finding{Kind: FindingPlain, Text: el}
	case map[string]any:
		f := Finding{Kind: FindingStructured}
		for _, key := range findingTextKeys {
			if s := stringValue(el[key]); s != "" {
				f.Text = s
				break
			}
		}
		if f.Text == "" {
			raw, _ := json.Marshal(el)
			f.Text = string(raw)
		}
		f.Focus = stringValue(el["focus"])
		if ev, ok := el["evidence"].([]any); ok && len(ev) > 0 {
			f.Evidence = normalizeEvidence(ev)
		}
		return f
	default:
		return Finding{Kind: FindingPlain, Text: coerceString(v)}
	}
}

func normalizeEvidence(items []any) []Evidence {
	var out []Evidence
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var ev Evidence
		for _, key := range []string{"page", "pages", "page_text"} {
			if raw, present := rec[key]; present {
				if s := coerceString(raw); s != "" {
					ev.Page = s
					break
				}
			}
		}
		for _, key := range []string{"snippet", "snip"} {
			if s := stringValue(rec[key]); s != "" {
				ev.Snippet = s
				break
			}
		}
		if ev.Page != "" || ev.Snippet != "" {
			out = append(out, ev)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeFindings converts a raw sequence into findings, keeping order.
func normalizeFindings(items []any) []Finding {
	out := make([]Finding, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeFinding(item))
	}
	return out
}

// normalizeRecord maps an arbitrary parsed record onto a Result. The
// four canonical keys are taken verbatim; everything else is preserved
// under Extra.
func normalizeRecord(m map[string]any) *Result {
	res := &Result{}
	for key, val := range m {
		switch key {
		case "mentor_note":
			res.MentorNote = stringValue(val)
		case "brutal_truth":
			if seq, ok := val.([]any); ok {
				res.BrutalTruth = normalizeFindings(seq)
			}
		case "roadmap":
			res.Roadmap = stringSlice(val)
		case "assumptions":
			res.Assumptions = stringSlice(val)
		default:
			if res.Extra == nil {
				res.Extra = map[string]any{}
			}
			res.Extra[key] = val
		}
	}
	return res
}

// wrapArray treats a bare top-level array as the brutal truth section.
func wrapArray(items []any) *Result {
	return &Result{
		BrutalTruth: normalizeFindings(items),
		Roadmap:     []string{},
		Assumptions: []string{},
	}
}

func hasAnyKey(m map[string]any, keys []string) bool {
	for _, key := range keys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func stringSlice(v any) []string {
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, item := range seq {
		out = append(out, coerceString(item))
	}
	return out
}

// coerceString renders a scalar as text. Numbers keep their shortest
// decimal form; anything composite falls back to its JSON encoding.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
