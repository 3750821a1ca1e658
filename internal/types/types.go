// Package types defines the wire-level result types shared by the analyzer,
// API handlers, persistence, and notifications.
package types

import (
	"time"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
)

// AnalysisResult is the complete outcome of analyzing one legal document.
// It is assembled once per request and immutable afterwards.
type AnalysisResult struct {
	// ID uniquely identifies this analysis record
	ID string `json:"id"`
	// URL is the document location that was analyzed
	URL string `json:"url"`
	// Title is the document title, falling back to the URL host
	Title string `json:"title"`
	// RiskScore is the overall weighted risk score in [0,100]
	RiskScore int `json:"risk_score"`
	// Summary is an ordered list of plain-language bullets describing the
	// document's substantive terms, independent of the risk findings
	Summary []string `json:"summary"`
	// Risks holds at most one finding per risk category
	Risks []risk.Finding `json:"risks"`
	// AnalysisTime is the wall-clock analysis duration in seconds
	AnalysisTime float64 `json:"analysis_time"`
	// CreatedAt is when the analysis completed
	CreatedAt time.Time `json:"created_at"`
}
