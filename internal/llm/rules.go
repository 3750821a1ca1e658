package llm

import (
	"context"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
)

// RuleClassifier is the offline fallback behind the same interface as the
// API client. It detects risks with the fixed regex rule table and returns a
// generic summary, so the service stays functional when no API key is
// configured or the remote service is unavailable.
type RuleClassifier struct{}

// fallbackSummary is returned by the rule-based summarizer
var fallbackSummary = []string{
	"This is a legal document that governs your use of the service.",
	"Terms include various rights and obligations for users.",
	"Pattern-based analysis has identified the risk areas listed below.",
	"For detailed legal advice, please consult with a qualified attorney.",
}

// NewRuleClassifier creates the rule-based fallback classifier
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// ClassifyChunk detects risks in the chunk using the regex rule table
func (r *RuleClassifier) ClassifyChunk(_ context.Context, chunkIndex int, text string) ([]risk.Finding, error) {
	return risk.DetectRules(text, chunkIndex), nil
}

// Summarize returns the fixed pattern-analysis summary
func (r *RuleClassifier) Summarize(_ context.Context, _ string) ([]string, error) {
	bullets := make([]string, len(fallbackSummary))
	copy(bullets, fallbackSummary)

	return bullets, nil
}
