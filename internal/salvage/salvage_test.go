package salvage_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argusai/internal/salvage"
)

func collect(t *testing.T, raw string) []any {
	t.Helper()
	var out []any
	sc := salvage.NewScanner(raw)
	for {
		v, ok := sc.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestScanner_TwoAdjacentObjects(t *testing.T) {
	got := collect(t, `{"a":1}{"b":2}`)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"a": float64(1)}, got[0])
	assert.Equal(t, map[string]any{"b": float64(2)}, got[1])
}

func TestScanner_NestedObjectConsumedAsOne(t *testing.T) {
	got := collect(t, `{"outer":{"inner":1}}`)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"outer": map[string]any{"inner": float64(1)}}, got[0])
}

func TestScanner_UnbalancedYieldsNothing(t *testing.T) {
	assert.Empty(t, collect(t, "{valid {invalid} outer"))
}

func TestScanner_InnerSpanSurvivesBrokenOuter(t *testing.T) {
	got := collect(t, `{broken {"issue":"x"} never closes`)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"issue": "x"}, got[0])
}

func TestScanner_SurroundingProse(t *testing.T) {
	got := collect(t, `Here you go: {"roadmap":["a"]} hope that helps`)
	require.Len(t, got, 1)
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Nil(t, salvage.Parse(""))
	assert.Nil(t, salvage.Parse("   \n\t  "))
}

func TestParse_DirectObject(t *testing.T) {
	raw := `{"mentor_note":"keep going","brutal_truth":["weak intro"],"roadmap":["fix s2"],"assumptions":["iid errors"],"score":42}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	assert.Equal(t, "keep going", res.MentorNote)
	require.Len(t, res.BrutalTruth, 1)
	assert.Equal(t, salvage.FindingPlain, res.BrutalTruth[0].Kind)
	assert.Equal(t, "weak intro", res.BrutalTruth[0].Text)
	assert.Equal(t, []string{"fix s2"}, res.Roadmap)
	assert.Equal(t, []string{"iid errors"}, res.Assumptions)
	// Unknown keys survive but are never rendered.
	assert.Equal(t, float64(42), res.Extra["score"])
}

func TestParse_DirectArrayWrapsIntoBrutalTruth(t *testing.T) {
	res := salvage.Parse(`["first flaw","second flaw"]`)
	require.NotNil(t, res)
	assert.Empty(t, res.MentorNote)
	require.Len(t, res.BrutalTruth, 2)
	assert.Equal(t, "first flaw", res.BrutalTruth[0].Text)
	assert.Equal(t, "second flaw", res.BrutalTruth[1].Text)
	assert.NotNil(t, res.Roadmap)
	assert.Empty(t, res.Roadmap)
	assert.NotNil(t, res.Assumptions)
	assert.Empty(t, res.Assumptions)
}

func TestParse_Idempotent(t *testing.T) {
	raw := "noise {\"mentor_note\":\"A\"}{\"roadmap\":[\"s1\"]} tail"
	first := salvage.Parse(raw)
	second := salvage.Parse(raw)
	assert.Equal(t, first, second)
}

func TestParse_FencedBlockWinsBeforeBraceScan(t *testing.T) {
	raw := "noise ```{\"roadmap\":[\"a\",\"b\"]}``` trailing"
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a", "b"}, res.Roadmap)
	assert.Empty(t, res.MentorNote)
	assert.Empty(t, res.BrutalTruth)
}

func TestParse_FencedBlockWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"mentor_note\":\"hi\"}\n```"
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	// The json language tag makes the fenced segment unparseable, so the
	// brace scan must still recover the object.
	assert.Equal(t, "hi", res.MentorNote)
}

func TestParse_SingleCandidateInNoise(t *testing.T) {
	res := salvage.Parse(`The model says: {"mentor_note":"solid draft"} end`)
	require.NotNil(t, res)
	assert.Equal(t, "solid draft", res.MentorNote)
}

func TestParse_MergeMentorNoteFirstWins(t *testing.T) {
	raw := `{"mentor_note":"A"}{"mentor_note":"B","brutal_truth":["x"]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	assert.Equal(t, "A", res.MentorNote)
	require.Len(t, res.BrutalTruth, 1)
	assert.Equal(t, "x", res.BrutalTruth[0].Text)
}

func TestParse_MergeReinterpretsIssueShapedObject(t *testing.T) {
	raw := `{"issue":"foo"}{"roadmap":["step1"]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)
	assert.Equal(t, salvage.FindingStructured, res.BrutalTruth[0].Kind)
	assert.Equal(t, "foo", res.BrutalTruth[0].Text)
	assert.Equal(t, []string{"step1"}, res.Roadmap)
}

func TestParse_MergeConcatenatesInDiscoveryOrder(t *testing.T) {
	raw := `{"brutal_truth":["a"],"assumptions":["p"]}{"brutal_truth":["b","c"],"assumptions":["q"]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 3)
	assert.Equal(t, "a", res.BrutalTruth[0].Text)
	assert.Equal(t, "b", res.BrutalTruth[1].Text)
	assert.Equal(t, "c", res.BrutalTruth[2].Text)
	assert.Equal(t, []string{"p", "q"}, res.Assumptions)
}

func TestParse_MergeDropsAlienRecords(t *testing.T) {
	raw := `{"scores":{"methodology":90}}{"roadmap":["s1"]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	assert.Empty(t, res.BrutalTruth)
	assert.Equal(t, []string{"s1"}, res.Roadmap)
}

func TestParse_TotalFailureReturnsNil(t *testing.T) {
	assert.Nil(t, salvage.Parse("## Mentor's Note\n\nJust some markdown, no JSON here."))
	assert.Nil(t, salvage.Parse("{not json at all"))
}

func TestParse_RepairDisabledByDefault(t *testing.T) {
	assert.Nil(t, salvage.Parse(`{mentor_note: 'unquoted'}`))
}

func TestParse_RepairRecoversSloppyObject(t *testing.T) {
	res := salvage.Parse(`{mentor_note: 'nearly there', roadmap: ['tighten s3'],}`, salvage.WithRepair())
	require.NotNil(t, res)
	assert.Equal(t, "nearly there", res.MentorNote)
	assert.Equal(t, []string{"tighten s3"}, res.Roadmap)
}

func TestNormalize_StructuredFinding(t *testing.T) {
	raw := `{"flaw":"X","focus":"Y","evidence":[{"page":2,"snippet":"q"}]}{"roadmap":[]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)

	f := res.BrutalTruth[0]
	assert.Equal(t, salvage.FindingStructured, f.Kind)
	assert.Equal(t, "X", f.Text)
	assert.Equal(t, "Y", f.Focus)
	require.Len(t, f.Evidence, 1)
	assert.Equal(t, "2", f.Evidence[0].Page)
	assert.Equal(t, "q", f.Evidence[0].Snippet)
}

func TestNormalize_TextKeyPriority(t *testing.T) {
	raw := `{"brutal_truth":[{"message":"low","issue":"mid","flaw":"top"}]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)
	assert.Equal(t, "top", res.BrutalTruth[0].Text)
}

func TestNormalize_EmptyTextFallsBackToPriority(t *testing.T) {
	raw := `{"brutal_truth":[{"flaw":"","issue":"use me"}]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)
	assert.Equal(t, "use me", res.BrutalTruth[0].Text)
}

func TestNormalize_NoTextKeysSerializesRecord(t *testing.T) {
	raw := `{"brutal_truth":[{"focus":"method"}]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)

	f := res.BrutalTruth[0]
	assert.Equal(t, "method", f.Focus)
	var echoed map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.Text), &echoed))
	assert.Equal(t, map[string]any{"focus": "method"}, echoed)
}

func TestNormalize_EvidenceKeyAliases(t *testing.T) {
	raw := `{"brutal_truth":[{"issue":"x","evidence":[{"pages":"3-4","snip":"quoted"}]}]}`
	res := salvage.Parse(raw)
	require.NotNil(t, res)
	require.Len(t, res.BrutalTruth, 1)
	require.Len(t, res.BrutalTruth[0].Evidence, 1)
	assert.Equal(t, "3-4", res.BrutalTruth[0].Evidence[0].Page)
	assert.Equal(t, "quoted", res.BrutalTruth[0].Evidence[0].Snippet)
}

func TestFinding_MarshalPolymorphic(t *testing.T) {
	plain := salvage.Finding{Kind: salvage.FindingPlain, Text: "just text"}
	raw, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.Equal(t, `"just text"`, string(raw))

	structured := salvage.Finding{
		Kind:     salvage.FindingStructured,
		Text:     "X",
		Focus:    "Y",
		Evidence: []salvage.Evidence{{Page: "2", Snippet: "q"}},
	}
	raw, err = json.Marshal(structured)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"X","focus":"Y","evidence":[{"page":"2","snippet":"q"}]}`, string(raw))
}
