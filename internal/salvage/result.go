package salvage

import "encoding/json"

// FindingKind discriminates the two finding variants.
type FindingKind string

const (
	FindingPlain      FindingKind = "plain"
	FindingStructured FindingKind = "structured"
)

// Finding is one discrete critique item, optionally backed by evidence.
// A plain finding carries only text; a structured finding may add a
// focus label and evidence records.
type Finding struct {
	Kind     FindingKind
	Text     string
	Focus    string
	Evidence []Evidence
}

// Evidence substantiates a finding with a page reference and a snippet.
type Evidence struct {
	Page    string `json:"page,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// MarshalJSON renders a plain finding as a bare string and a structured
// finding as an object, matching what the model emits.
func (f Finding) MarshalJSON() ([]byte, error) {
	if f.Kind == FindingPlain {
		return json.Marshal(f.Text)
	}
	obj := struct {
		Text     string     `json:"text"`
		Focus    string     `json:"focus,omitempty"`
		Evidence []Evidence `json:"evidence,omitempty"`
	}{f.Text, f.Focus, f.Evidence}
	return json.Marshal(obj)
}

// Result is the canonical shape recovered from a raw model payload.
// Each field is independently optional; a nil slice means the section
// was absent. Extra holds unrecognized keys from a directly parsed
// record; they are kept but never rendered.
type Result struct {
	MentorNote  string         `json:"mentor_note,omitempty"`
	BrutalTruth []Finding      `json:"brutal_truth,omitempty"`
	Roadmap     []string       `json:"roadmap,omitempty"`
	Assumptions []string       `json:"assumptions,omitempty"`
	Extra       map[string]any `json:"-"`
}

// Empty reports whether no section was recovered.
func (r *Result) Empty() bool {
	return r == nil ||
		(r.MentorNote == "" && len(r.BrutalTruth) == 0 &&
			len(r.Roadmap) == 0 && len(r.Assumptions) == 0)
}
