package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	// summarySchemaName identifies the summarization JSON schema
	summarySchemaName = "document_summary"
	// summarizeSystemPrompt frames the summarizer. The summary describes what
	// the document says, not what is risky about it.
	summarizeSystemPrompt = "You are a legal expert who explains Terms of Service, Privacy " +
		"Policies, and EULAs to ordinary readers. Summarize what the document actually says " +
		"in neutral plain language. Do not editorialize about risk. Respond in the requested JSON format."
)

// summaryPayload is the schema-constrained summarization response
type summaryPayload struct {
	Summary []string `json:"summary"`
}

// Summarize returns 3-8 plain-language bullets describing the document's
// substantive terms. Documents longer than the configured budget are
// truncated to a representative prefix. Failures yield ErrSummarization;
// they are non-fatal to the overall analysis.
func (c *Client) Summarize(ctx context.Context, text string) ([]string, error) {
	if len(text) > c.summaryMaxChars {
		text = text[:c.summaryMaxChars]
	}

	prompt := fmt.Sprintf(
		"Summarize the key points of the following legal document in %d to %d short plain-language "+
			"bullet points, covering its substantive terms.\n\nDocument text:\n%s",
		minSummaryBullets, maxSummaryBullets, text,
	)

	content, err := c.complete(ctx, summarizeSystemPrompt, prompt, buildSummarySchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	var payload summaryPayload
	if err := decodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummarization, err)
	}

	bullets := make([]string, 0, len(payload.Summary))

	for _, b := range payload.Summary {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			bullets = append(bullets, trimmed)
		}
	}

	if len(bullets) == 0 {
		return nil, fmt.Errorf("%w: empty summary", ErrSummarization)
	}

	if len(bullets) > maxSummaryBullets {
		bullets = bullets[:maxSummaryBullets]
	}

	return bullets, nil
}

// buildSummarySchema constrains the response to an ordered list of bullet strings
func buildSummarySchema() *responseFormat {
	return &responseFormat{
		Type: "json_schema",
		JSONSchema: &jsonSchemaDefinition{
			Name: summarySchemaName,
			Schema: jsonSchema{
				Type: "object",
				Properties: map[string]jsonSchemaProperty{
					"summary": {
						Type:        "array",
						Description: "Ordered plain-language bullet points describing the document's key terms",
						Items: &jsonSchemaProperty{
							Type:        "string",
							Description: "One summary bullet",
						},
					},
				},
				Required: []string{"summary"},
			},
		},
	}
}
