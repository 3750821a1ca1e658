package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/theopenlane/httpsling"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
	"github.com/faris-sait/ClauseGuard24/internal/types"
)

// Message represents a Slack webhook message payload
type Message struct {
	// Text is the fallback text for the notification
	Text string `json:"text"`
	// Blocks holds the rich layout blocks for the message
	Blocks []Block `json:"blocks,omitempty"`
}

// Block represents a Slack Block Kit block
type Block struct {
	// Type is the block type (section, divider, header, etc.)
	Type string `json:"type"`
	// Text is the text object for this block
	Text *TextObject `json:"text,omitempty"`
	// Fields holds multiple text objects for section blocks
	Fields []TextObject `json:"fields,omitempty"`
}

// TextObject represents a Slack text object
type TextObject struct {
	// Type is the text type (plain_text or mrkdwn)
	Type string `json:"type"`
	// Text is the actual text content
	Text string `json:"text"`
}

// Send posts a message to the configured webhook
func (c *Client) Send(ctx context.Context, msg Message) error {
	requester := httpsling.MustNew(
		httpsling.URL(c.webhookURL),
		httpsling.Post(),
		httpsling.JSONBody(msg),
		httpsling.WithHTTPClient(c.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// NotifyAnalysis sends a summary of a completed analysis
func (c *Client) NotifyAnalysis(ctx context.Context, result *types.AnalysisResult) error {
	return c.Send(ctx, buildAnalysisMessage(result))
}

// buildAnalysisMessage formats a completed analysis as a Block Kit message
func buildAnalysisMessage(result *types.AnalysisResult) Message {
	fields := []TextObject{
		{Type: "mrkdwn", Text: fmt.Sprintf("*URL:*\n%s", result.URL)},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Risk Score:*\n%d / 100", result.RiskScore)},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Risks Found:*\n%d", len(result.Risks))},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Analysis Time:*\n%.1fs", result.AnalysisTime)},
	}

	blocks := []Block{
		{
			Type: "header",
			Text: &TextObject{Type: "plain_text", Text: "Document Risk Analysis Complete"},
		},
		{Type: "section", Fields: fields},
	}

	if len(result.Risks) > 0 {
		lines := lo.Map(result.Risks, func(f risk.Finding, _ int) string {
			return fmt.Sprintf("• *%s* (severity %d): %s", f.Title, f.Severity, f.Description)
		})

		text := lines[0]
		for _, line := range lines[1:] {
			text += "\n" + line
		}

		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{Type: "mrkdwn", Text: text},
		})
	}

	return Message{
		Text:   fmt.Sprintf("Analyzed %s: risk score %d/100", result.URL, result.RiskScore),
		Blocks: blocks,
	}
}
