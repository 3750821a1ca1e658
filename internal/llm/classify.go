package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
)

const (
	// classificationSchemaName identifies the risk classification JSON schema
	classificationSchemaName = "risk_classification"
	// classifySystemPrompt frames the model as a legal analysis assistant
	classifySystemPrompt = "You are a legal expert specialized in analyzing Terms of Service, " +
		"Privacy Policies, and EULAs. Identify risky clauses accurately and only report " +
		"categories with clear supporting evidence in the text. Respond in the requested JSON format."
)

// classificationPayload is the schema-constrained classification response
type classificationPayload struct {
	Findings []findingPayload `json:"findings"`
}

// findingPayload is one candidate finding as returned by the model,
// before validation
type findingPayload struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
	Excerpt     string `json:"excerpt"`
}

// ClassifyChunk scans one chunk against all seven risk categories in a
// single batched call and returns the validated findings. A category absent
// from a well-formed response means "not present". Malformed responses yield
// ErrClassification; the caller treats that chunk as contributing nothing.
func (c *Client) ClassifyChunk(ctx context.Context, chunkIndex int, text string) ([]risk.Finding, error) {
	content, err := c.complete(ctx, classifySystemPrompt, buildClassifyPrompt(text), buildClassificationSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	var payload classificationPayload
	if err := decodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	return validateFindings(payload.Findings, chunkIndex, text), nil
}

// buildClassifyPrompt lists every category definition followed by the chunk text
func buildClassifyPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Analyze the following excerpt of a legal document for risky clauses.\n")
	b.WriteString("Check each of these risk categories:\n")

	for _, d := range risk.Definitions() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", d.Category, d.Name, d.Description)
	}

	b.WriteString("\nFor each category actually present, report the category identifier, a short title, ")
	b.WriteString("a plain-language description of what it means for users, a severity from 1 to 10, ")
	b.WriteString("and the exact verbatim excerpt from the text that supports it. ")
	b.WriteString("Omit categories with no supporting evidence.\n\nDocument text:\n")
	b.WriteString(text)

	return b.String()
}

// buildClassificationSchema constrains the response to a findings array
// covering the fixed category identifiers
func buildClassificationSchema() *responseFormat {
	categories := make([]string, 0, len(risk.Definitions()))
	for _, d := range risk.Definitions() {
		categories = append(categories, string(d.Category))
	}

	return &responseFormat{
		Type: "json_schema",
		JSONSchema: &jsonSchemaDefinition{
			Name: classificationSchemaName,
			Schema: jsonSchema{
				Type: "object",
				Properties: map[string]jsonSchemaProperty{
					"findings": {
						Type:        "array",
						Description: "One entry per risk category present in the text. Omit absent categories.",
						Items: &jsonSchemaProperty{
							Type: "object",
							Properties: map[string]jsonSchemaProperty{
								"category": {
									Type:        "string",
									Description: "The risk category identifier",
									Enum:        categories,
								},
								"title": {
									Type:        "string",
									Description: "A short label for the risk",
								},
								"description": {
									Type:        "string",
									Description: "What this clause means for users, in plain language",
								},
								"severity": {
									Type:        "integer",
									Description: "Risk severity from 1 (minor) to 10 (severe)",
								},
								"excerpt": {
									Type:        "string",
									Description: "The exact verbatim quote from the document text supporting this finding",
								},
							},
							Required: []string{"category", "title", "description", "severity"},
						},
					},
				},
				Required: []string{"findings"},
			},
		},
	}
}

// validateFindings enforces the finding contract on raw model output:
// unknown categories are dropped, duplicate categories keep their first
// occurrence, severity is clamped into [1,10], and an excerpt that is not a
// verbatim substring of the chunk is demoted to empty rather than replaced,
// so excerpts are never fabricated.
func validateFindings(raw []findingPayload, chunkIndex int, text string) []risk.Finding {
	var findings []risk.Finding

	seen := make(map[risk.Category]struct{}, len(raw))

	for _, f := range raw {
		category, ok := risk.Parse(f.Category)
		if !ok {
			continue
		}

		if _, dup := seen[category]; dup {
			continue
		}

		seen[category] = struct{}{}

		excerpt := strings.TrimSpace(f.Excerpt)
		if excerpt != "" && !strings.Contains(text, excerpt) {
			excerpt = ""
		}

		def := category.Definition()

		title := strings.TrimSpace(f.Title)
		if title == "" {
			title = def.Name
		}

		description := strings.TrimSpace(f.Description)
		if description == "" {
			description = def.Description
		}

		findings = append(findings, risk.Finding{
			Category:    category,
			Title:       title,
			Description: description,
			Severity:    risk.ClampSeverity(f.Severity),
			Excerpt:     excerpt,
			SourceChunk: chunkIndex,
		})
	}

	return findings
}
