package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
)

// newCompletionServer returns a test server that answers every chat
// completions call with the given message content.
func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}

		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Error("expected a json_schema response format")
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := New("test-key", WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return c
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClassifyChunk_ValidResponse(t *testing.T) {
	text := "Disputes are resolved through binding arbitration. We share data with partners."

	content := `{"findings":[
		{"category":"mandatory_arbitration","title":"Forced Arbitration","description":"You cannot go to court","severity":8,"excerpt":"binding arbitration"},
		{"category":"data_sharing","title":"Data Sharing","description":"Data goes to partners","severity":6,"excerpt":"We share data with partners."}
	]}`

	srv := newCompletionServer(t, content)
	defer srv.Close()

	findings, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 2, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	if findings[0].Category != risk.CategoryMandatoryArbitration || findings[0].Severity != 8 {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}

	for _, f := range findings {
		if f.SourceChunk != 2 {
			t.Errorf("expected source chunk 2, got %d", f.SourceChunk)
		}

		if f.Excerpt != "" && !strings.Contains(text, f.Excerpt) {
			t.Errorf("excerpt %q not a substring of chunk text", f.Excerpt)
		}
	}
}

func TestClassifyChunk_CodeFencedJSON(t *testing.T) {
	content := "```json\n{\"findings\":[{\"category\":\"auto_renewal\",\"title\":\"Auto Renewal\",\"description\":\"Renews monthly\",\"severity\":5,\"excerpt\":\"\"}]}\n```"

	srv := newCompletionServer(t, content)
	defer srv.Close()

	findings, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 0, "The plan renews monthly.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 1 || findings[0].Category != risk.CategoryAutoRenewal {
		t.Errorf("unexpected findings: %+v", findings)
	}
}

func TestClassifyChunk_MalformedResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no json at all", "I could not analyze this document."},
		{"broken json", `{"findings": [`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newCompletionServer(t, tc.content)
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 0, "text")
			if !errors.Is(err, ErrClassification) {
				t.Errorf("expected ErrClassification, got %v", err)
			}
		})
	}
}

func TestClassifyChunk_ServerErrorIsClassificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 0, "text")
	if !errors.Is(err, ErrClassification) {
		t.Errorf("expected ErrClassification, got %v", err)
	}
}

func TestClassifyChunk_ValidationRules(t *testing.T) {
	text := "We may suspend your account at any time."

	content := `{"findings":[
		{"category":"account_termination","title":"Suspension","description":"Account can be suspended","severity":99,"excerpt":"suspend your account"},
		{"category":"account_termination","title":"Duplicate","description":"dup","severity":3,"excerpt":""},
		{"category":"surprise_category","title":"Unknown","description":"not real","severity":5,"excerpt":""},
		{"category":"data_sharing","title":"Fabricated","description":"excerpt not in text","severity":4,"excerpt":"we sell your data to brokers"}
	]}`

	srv := newCompletionServer(t, content)
	defer srv.Close()

	findings, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 1, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 2 {
		t.Fatalf("expected 2 findings after validation, got %d: %+v", len(findings), findings)
	}

	termination := findings[0]
	if termination.Category != risk.CategoryAccountTermination {
		t.Fatalf("unexpected finding order: %+v", findings)
	}

	if termination.Severity != risk.MaxSeverity {
		t.Errorf("severity should be clamped to %d, got %d", risk.MaxSeverity, termination.Severity)
	}

	if termination.Title != "Suspension" {
		t.Errorf("duplicate category should keep first occurrence, got %q", termination.Title)
	}

	sharing := findings[1]
	if sharing.Category != risk.CategoryDataSharing {
		t.Fatalf("expected data_sharing, got %s", sharing.Category)
	}

	if sharing.Excerpt != "" {
		t.Errorf("non-verbatim excerpt should be demoted to empty, got %q", sharing.Excerpt)
	}
}

func TestClassifyChunk_EmptyFindings(t *testing.T) {
	srv := newCompletionServer(t, `{"findings":[]}`)
	defer srv.Close()

	findings, err := newTestClient(t, srv.URL).ClassifyChunk(context.Background(), 0, "Nothing risky here.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 0 {
		t.Errorf("expected no findings, got %+v", findings)
	}
}

func TestSummarize_ValidResponse(t *testing.T) {
	content := `{"summary":["The service collects usage data.","Subscriptions renew monthly.","Disputes go to arbitration."]}`

	srv := newCompletionServer(t, content)
	defer srv.Close()

	bullets, err := newTestClient(t, srv.URL).Summarize(context.Background(), "document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bullets) != 3 {
		t.Fatalf("expected 3 bullets, got %d", len(bullets))
	}

	if bullets[0] != "The service collects usage data." {
		t.Errorf("bullet order not preserved: %q", bullets[0])
	}
}

func TestSummarize_EmptySummaryIsError(t *testing.T) {
	srv := newCompletionServer(t, `{"summary":[]}`)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Summarize(context.Background(), "document text")
	if !errors.Is(err, ErrSummarization) {
		t.Errorf("expected ErrSummarization, got %v", err)
	}
}

func TestSummarize_CapsBulletCount(t *testing.T) {
	bullets := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		bullets = append(bullets, fmt.Sprintf("Point %d", i))
	}

	payload, _ := json.Marshal(map[string][]string{"summary": bullets})

	srv := newCompletionServer(t, string(payload))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Summarize(context.Background(), "document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != maxSummaryBullets {
		t.Errorf("expected summary capped at %d bullets, got %d", maxSummaryBullets, len(got))
	}
}

func TestSummarize_TruncatesLongInput(t *testing.T) {
	var seenLen int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		seenLen = len(req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"summary":["a","b","c"]}`}},
			},
		})
	}))
	defer srv.Close()

	c, err := New("test-key", WithBaseURL(srv.URL), WithSummaryMaxChars(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Summarize(context.Background(), strings.Repeat("x", 100000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seenLen > 1000 {
		t.Errorf("expected document prefix to be truncated, prompt was %d chars", seenLen)
	}
}

func TestRuleClassifier_ImplementsSameContract(t *testing.T) {
	rc := NewRuleClassifier()

	findings, err := rc.ClassifyChunk(context.Background(), 4, "All disputes are settled by binding arbitration.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(findings) != 1 || findings[0].Category != risk.CategoryMandatoryArbitration {
		t.Fatalf("unexpected findings: %+v", findings)
	}

	if findings[0].SourceChunk != 4 {
		t.Errorf("expected source chunk 4, got %d", findings[0].SourceChunk)
	}

	bullets, err := rc.Summarize(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bullets) < minSummaryBullets {
		t.Errorf("expected at least %d fallback bullets, got %d", minSummaryBullets, len(bullets))
	}
}
