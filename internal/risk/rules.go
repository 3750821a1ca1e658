package risk

import (
	"regexp"
	"strings"
)

// detectionRule defines the regex patterns and default severity for one category
type detectionRule struct {
	category Category
	severity int
	patterns []*regexp.Regexp
}

// detectionRules is the ordered rule table used by the offline detector;
// the first matching pattern per category supplies the evidence excerpt.
var detectionRules []detectionRule

func init() {
	detectionRules = []detectionRule{
		{
			category: CategoryDataSharing,
			severity: 6,
			patterns: compileAll(
				`(?i)shar(e|ed|ing)\s+(your\s+)?(personal\s+)?(data|information)`,
				`(?i)third[\s-]part(y|ies)`,
				`(?i)(partners?|affiliates?|vendors?|service\s+providers?)\b.{0,60}(data|information)`,
			),
		},
		{
			category: CategoryMandatoryArbitration,
			severity: 7,
			patterns: compileAll(
				`(?i)binding\s+arbitration`,
				`(?i)\barbitration\b`,
				`(?i)waive.{0,60}(class\s+action|jury\s+trial)`,
				`(?i)dispute\s+resolution`,
			),
		},
		{
			category: CategoryAutoRenewal,
			severity: 5,
			patterns: compileAll(
				`(?i)auto(matic(ally)?)?[\s-]renew`,
				`(?i)recurring\s+(charge|payment|billing|subscription)`,
				`(?i)billing\s+cycle`,
			),
		},
		{
			category: CategoryLimitedLiability,
			severity: 6,
			patterns: compileAll(
				`(?i)(shall\s+)?not\s+(be\s+)?(held\s+)?liable`,
				`(?i)(no|exclude[sd]?|limitation\s+of)\s+liability`,
				`(?i)disclaim(s|ed|er)?\b`,
				`(?i)limitation\s+of\s+damages`,
				`(?i)as[\s-]is.{0,40}without\s+warrant`,
			),
		},
		{
			category: CategoryTrackingAdvertising,
			severity: 4,
			patterns: compileAll(
				`(?i)\bcookies\b`,
				`(?i)track(ing|ers)\b`,
				`(?i)(behavioral|personali[sz]ed|targeted)\s+(ads|advertising)`,
				`(?i)analytics\s+(partners?|providers?|purposes?)`,
			),
		},
		{
			category: CategoryContentRights,
			severity: 5,
			patterns: compileAll(
				`(?i)grant\s+(us|.{0,30}company).{0,60}licen[sc]e`,
				`(?i)(worldwide|perpetual|irrevocable|royalty[\s-]free).{0,40}licen[sc]e`,
				`(?i)(user|your)\s+content\b.{0,80}(rights?|licen[sc]e|ownership)`,
				`(?i)intellectual\s+property\s+rights?\s+(in|to)\s+(your|user)`,
			),
		},
		{
			category: CategoryAccountTermination,
			severity: 4,
			patterns: compileAll(
				`(?i)(terminate|suspend|disable)\s+(your\s+)?(account|access)`,
				`(?i)at\s+(our|its)\s+(sole\s+)?discretion`,
				`(?i)without\s+(prior\s+)?notice`,
			),
		},
	}
}

// DetectRules scans chunk text against the rule table and returns at most
// one finding per category. Excerpts are the sentence containing the first
// pattern match, so they are always verbatim substrings of the chunk.
func DetectRules(text string, chunkIndex int) []Finding {
	var findings []Finding

	for _, rule := range detectionRules {
		loc := firstMatch(rule.patterns, text)
		if loc == nil {
			continue
		}

		def := rule.category.Definition()

		findings = append(findings, Finding{
			Category:    rule.category,
			Title:       def.Name,
			Description: def.Description,
			Severity:    rule.severity,
			Excerpt:     sentenceAround(text, loc[0], loc[1]),
			SourceChunk: chunkIndex,
		})
	}

	return findings
}

// compileAll compiles multiple regex patterns, panicking on invalid patterns
func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}

	return compiled
}

// firstMatch returns the earliest match location across all patterns, or nil
func firstMatch(patterns []*regexp.Regexp, input string) []int {
	var best []int

	for _, p := range patterns {
		loc := p.FindStringIndex(input)
		if loc == nil {
			continue
		}

		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}

	return best
}

// maxExcerptChars bounds rule-derived excerpts to keep findings readable
const maxExcerptChars = 300

// sentenceAround expands a match span to the enclosing sentence, bounded to
// maxExcerptChars. The returned slice indices never leave the input, so the
// excerpt stays a verbatim substring.
func sentenceAround(text string, start, end int) string {
	from := start

	for from > 0 && from > start-maxExcerptChars/2 {
		if isSentenceBreak(text, from-1) {
			break
		}
		from--
	}

	to := end

	for to < len(text) && to < end+maxExcerptChars/2 {
		if isSentenceBreak(text, to) {
			to++
			break
		}
		to++
	}

	return strings.TrimSpace(text[from:to])
}

// isSentenceBreak reports whether the byte at i terminates a sentence
func isSentenceBreak(text string, i int) bool {
	switch text[i] {
	case '.', '!', '?', '\n':
		return true
	}

	return false
}
