// Package salvage recovers a structured analysis result from the raw,
// untrusted text a language model emits. The payload may be clean JSON,
// JSON wrapped in code fences, several concatenated fragments, or not
// JSON at all; every failure mode downgrades to the next strategy and
// the final outcome of total failure is a nil result, never an error.
package salvage

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

const fence = "```"

type options struct {
	repair bool
}

// Option configures Parse.
type Option func(*options)

// WithRepair enables a last-resort pass that repairs common JSON
// mistakes (unquoted keys, single quotes, trailing commas) before one
// more parse attempt. The repaired text is only accepted when it yields
// an object or array, so plain prose still falls through to nil.
func WithRepair() Option {
	return func(o *options) { o.repair = true }
}

// Parse turns one raw payload into a best-effort Result. It returns nil
// on total recovery failure; callers treat that as the degraded mode
// that triggers markdown rendering of the raw text. Parse is pure:
// the same input always yields the same result.
func Parse(raw string, opts ...Option) *Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	// Strategy 1: the whole payload is valid JSON.
	if res := tryParse(trimmed); res != nil {
		return res
	}

	// Strategy 2: JSON hiding inside a code fence.
	if strings.Contains(raw, fence) {
		for _, segment := range strings.Split(raw, fence) {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			if segment[0] != '{' && segment[0] != '[' {
				continue
			}
			if res := tryParse(segment); res != nil {
				return res
			}
		}
	}

	// Strategy 3: scan for balanced brace spans and merge what parses.
	var candidates []any
	sc := NewScanner(trimmed)
	for {
		cand, ok := sc.Next()
		if !ok {
			break
		}
		candidates = append(candidates, cand)
	}
	switch len(candidates) {
	case 0:
		// fall through
	case 1:
		if res := fromValue(candidates[0]); res != nil {
			return res
		}
	default:
		return mergeCandidates(candidates)
	}

	// Strategy 4 (opt-in): repair and retry once.
	if o.repair {
		if repaired, err := jsonrepair.JSONRepair(raw); err == nil {
			if res := tryParse(strings.TrimSpace(repaired)); res != nil {
				return res
			}
		}
	}

	return nil
}

// tryParse attempts a full JSON parse and shapes the value. Scalars are
// not meaningful to the pipeline and report failure.
func tryParse(s string) *Result {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	return fromValue(v)
}

// fromValue applies the array/record handling shared by all strategies.
func fromValue(v any) *Result {
	switch val := v.(type) {
	case map[string]any:
		return normalizeRecord(val)
	case []any:
		return wrapArray(val)
	default:
		return nil
	}
}

// mergeCandidates folds multiple parsed fragments into one Result.
// The mentor note keeps the first non-empty value; the three list
// sections concatenate across candidates in discovery order. A record
// with none of the canonical keys but a finding-like shape becomes a
// single finding in the brutal truth section. Records carrying only
// alien keys contribute nothing.
func mergeCandidates(candidates []any) *Result {
	merged := &Result{}
	for _, cand := range candidates {
		m, ok := cand.(map[string]any)
		if !ok {
			continue
		}

		if !hasAnyKey(m, canonicalKeys) {
			if hasAnyKey(m, findingShapeKeys) {
				merged.BrutalTruth = append(merged.BrutalTruth, normalizeFinding(m))
			}
			continue
		}

		if merged.MentorNote == "" {
			merged.MentorNote = stringValue(m["mentor_note"])
		}
		if seq, ok := m["brutal_truth"].([]any); ok {
			merged.BrutalTruth = append(merged.BrutalTruth, normalizeFindings(seq)...)
		}
		merged.Roadmap = append(merged.Roadmap, stringSlice(m["roadmap"])...)
		merged.Assumptions = append(merged.Assumptions, stringSlice(m["assumptions"])...)
	}
	return merged
}
