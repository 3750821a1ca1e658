package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/faris-sait/ClauseGuard24/internal/risk"
	"github.com/faris-sait/ClauseGuard24/internal/types"
)

func TestNew_RequiresWebhookURL(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingWebhookURL) {
		t.Errorf("expected ErrMissingWebhookURL, got %v", err)
	}
}

func TestNotifyAnalysis_Success(t *testing.T) {
	var received Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode message: %v", err)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := &types.AnalysisResult{
		ID:        "abc",
		URL:       "https://example.com/terms",
		Title:     "Terms",
		RiskScore: 55,
		Risks: []risk.Finding{
			{
				Category:    risk.CategoryDataSharing,
				Title:       "Data Sharing",
				Description: "Shares data with third parties.",
				Severity:    6,
			},
		},
		AnalysisTime: 2.3,
	}

	if err := client.NotifyAnalysis(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(received.Text, "55") {
		t.Errorf("fallback text should mention the score, got %q", received.Text)
	}

	if len(received.Blocks) != 3 {
		t.Fatalf("expected header, fields, and risks blocks, got %d", len(received.Blocks))
	}

	if received.Blocks[0].Type != "header" {
		t.Errorf("expected first block to be a header, got %s", received.Blocks[0].Type)
	}

	if !strings.Contains(received.Blocks[2].Text.Text, "Data Sharing") {
		t.Errorf("risk block should name the finding, got %q", received.Blocks[2].Text.Text)
	}
}

func TestNotifyAnalysis_NoRisksOmitsRiskBlock(t *testing.T) {
	var received Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := &types.AnalysisResult{URL: "https://example.com", RiskScore: 0}

	if err := client.NotifyAnalysis(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received.Blocks) != 2 {
		t.Errorf("expected only header and fields blocks, got %d", len(received.Blocks))
	}
}

func TestSend_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.Send(context.Background(), Message{Text: "hello"})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}
