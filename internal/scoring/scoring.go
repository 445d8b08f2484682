// Package scoring derives interpretable 0-100 readiness scores from a
// manuscript's extracted text using keyword and pattern heuristics.
package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"argusai/internal/domain"
)

var (
	bracketCiteRe = regexp.MustCompile(`\[[0-9]{1,3}\]`)
	parenCiteRe   = regexp.MustCompile(`\([A-Z][a-z]+,\s?\d{4}\)`)
	parenAuthorRe = regexp.MustCompile(`\([A-Z][A-Za-z\-\.\s]+,\s?\d{4}\)`)
	referencesRe  = regexp.MustCompile(`(?i)\n\s*references\s*\n`)
	outOfSampleRe = regexp.MustCompile(`(?i)out[- ]of[- ]sample|holdout|validation sample`)
	backtestRe    = regexp.MustCompile(`(?i)backtest|back-tested|back testing|back-testing`)
	txnCostRe     = regexp.MustCompile(`(?i)transaction cost|slippage|fee|commission`)
	statTestRe    = regexp.MustCompile(`(?i)\bp-?value\b|p <|t[- ]test|confidence interval|standard error|std err`)
	robustnessRe  = regexp.MustCompile(`(?i)robustness|sensitivity|alternative specification|placebo|jackknife|bootstrap`)
	dataDescRe    = regexp.MustCompile(`(?i)sample size|n =|sample period|from .* to .*|data source|dataset|panel data|cross[- ]section`)
	replicationRe = regexp.MustCompile(`(?i)github.com|code available|replication package|supplementary materials|appendix`)
)

var identificationKeywords = []string{
	"control", "controls", "instrumental variable", "instrument",
	"difference-in-differences", "did", "regress", "regression",
	"fixed effects", "random effects", "endogeneity", "causal",
}

var noveltyKeywords = []string{
	"novel", "first", "new dataset", "unique dataset", "previously unreported",
	"contribution", "we show for the first time", "novel approach", "new approach",
}

var engagementKeywords = []string{
	"related work", "literature", "we build on", "extends",
	"contradict", "contrast", "consistent with",
}

var capacityKeywords = []string{
	"capacity", "scalability", "slippage", "market impact", "liquidity",
}

// maxCitations caps the citation list returned to the viewer.
const maxCitations = 10

// Compute scores a manuscript. It is a pure function over the text.
func Compute(text string) *domain.Scores {
	t := strings.ToLower(text)

	dataDesc := dataDescRe.MatchString(text)
	statTests := statTestRe.MatchString(text)
	backtest := backtestRe.MatchString(text)
	outOfSample := outOfSampleRe.MatchString(text)
	idStrength := keywordDensity(t, identificationKeywords)

	methodRaw := 0.20*boolWeight(dataDesc) +
		0.20*boolWeight(statTests) +
		0.20*boolWeight(backtest) +
		0.20*boolWeight(outOfSample) +
		0.20*idStrength

	noveltyDensity := keywordDensity(t, noveltyKeywords)
	originalityRaw := 0.6*noveltyDensity + 0.4*methodRaw

	refCount := approxReferenceCount(text)
	var literatureRaw float64
	switch {
	case refCount == 0:
		literatureRaw = 0.1
	case refCount < 5:
		literatureRaw = 0.35
	case refCount < 15:
		literatureRaw = 0.65
	default:
		literatureRaw = 0.9
	}
	engagement := keywordDensity(t, engagementKeywords)
	literatureRaw = min(1.0, literatureRaw+0.15*engagement)

	robustnessChecks := robustnessRe.MatchString(text)
	txnCosts := txnCostRe.MatchString(text)
	codeAvailable := replicationRe.MatchString(text)
	capacityMention := keywordDensity(t, capacityKeywords)

	robustnessRaw := 0.35*boolWeight(robustnessChecks) +
		0.25*boolWeight(txnCosts) +
		0.20*boolWeight(codeAvailable) +
		0.20*capacityMention

	return &domain.Scores{
		Methodology: scale(methodRaw),
		Originality: scale(originalityRaw),
		Literature:  scale(literatureRaw),
		Robustness:  scale(robustnessRaw),
		Breakdown: domain.ScoreBreakdown{
			Methodology: methodFindings(dataDesc, statTests, backtest, outOfSample, idStrength),
			Originality: originalityFindings(noveltyDensity),
			Literature:  literatureFindings(refCount, engagement),
			Robustness:  robustnessFindings(robustnessChecks, txnCosts, codeAvailable),
		},
		Citations: ExtractCitations(text),
	}
}

// ExtractCitations returns a short list of detected citation strings:
// parenthetical author-year cites first, then leading reference-section
// lines, then bracketed numeric cites as a last resort.
func ExtractCitations(text string) []string {
	var citations []string
	seen := map[string]bool{}

	for _, m := range parenAuthorRe.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			citations = append(citations, m)
		}
	}

	if parts := referencesRe.Split(text, 2); len(parts) > 1 {
		count := 0
		for _, line := range strings.Split(parts[1], "\n") {
			if len(citations) >= maxCitations || count >= maxCitations {
				break
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			count++
			if !seen[line] {
				seen[line] = true
				citations = append(citations, line)
			}
		}
	}

	if len(citations) == 0 {
		for _, m := range bracketCiteRe.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
				citations = append(citations, m)
			}
		}
	}

	return citations
}

func methodFindings(dataDesc, statTests, backtest, outOfSample bool, idStrength float64) []string {
	var out []string
	if dataDesc {
		out = append(out, "Data description present (sample, period, or source).")
	} else {
		out = append(out, "Missing clear data/sample description.")
	}
	if statTests {
		out = append(out, "Statistical tests or p-values reported.")
	} else {
		out = append(out, "No explicit statistical test reporting found.")
	}
	if backtest || outOfSample {
		out = append(out, "Backtesting / out-of-sample evaluation included.")
	} else {
		out = append(out, "No backtest or out-of-sample validation detected.")
	}
	if idStrength > 0 {
		out = append(out, "Identification/controls language present.")
	} else {
		out = append(out, "Weak or no identification strategy language detected.")
	}
	return out
}

func originalityFindings(noveltyDensity float64) []string {
	var out []string
	if noveltyDensity > 0 {
		out = append(out, "Claims of novelty or unique data/method present.")
	} else {
		out = append(out, "No clear claims of novelty or unique data/method found.")
	}
	out = append(out, "Originality score blended with methodology strength to reduce false positives.")
	return out
}

func literatureFindings(refCount int, engagement float64) []string {
	out := []string{fmt.Sprintf("Estimated reference citations: %d.", refCount)}
	if engagement > 0 {
		out = append(out, "Engages with related work / contrasts conclusions.")
	} else {
		out = append(out, "Limited explicit engagement with prior literature detected.")
	}
	return out
}

func robustnessFindings(checks, txnCosts, codeAvailable bool) []string {
	var out []string
	if checks {
		out = append(out, "Robustness / sensitivity checks mentioned.")
	} else {
		out = append(out, "No robustness/sensitivity checks detected.")
	}
	if txnCosts {
		out = append(out, "Transaction costs / market frictions discussed.")
	} else {
		out = append(out, "No transaction cost or market impact discussion found.")
	}
	if codeAvailable {
		out = append(out, "Code or replication material appears available.")
	} else {
		out = append(out, "No explicit replication package or code link detected.")
	}
	return out
}

func approxReferenceCount(text string) int {
	refs := len(bracketCiteRe.FindAllString(text, -1))
	refs += len(parenCiteRe.FindAllString(text, -1))
	if parts := referencesRe.Split(text, 2); len(parts) > 1 {
		for _, line := range strings.Split(parts[1], "\n") {
			if strings.TrimSpace(line) != "" {
				refs++
			}
		}
	}
	return refs
}

func keywordDensity(lowered string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func boolWeight(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func scale(score float64) int {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return int(score*100 + 0.5)
}
