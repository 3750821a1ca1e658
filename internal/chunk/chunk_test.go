package chunk

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSplitter_InvalidOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected error
	}{
		{"zero max", Options{MaxChars: 0, OverlapChars: 0}, ErrInvalidChunkSize},
		{"negative max", Options{MaxChars: -1, OverlapChars: 0}, ErrInvalidChunkSize},
		{"negative overlap", Options{MaxChars: 100, OverlapChars: -1}, ErrInvalidChunkSize},
		{"overlap equals max", Options{MaxChars: 100, OverlapChars: 100}, ErrOverlapExceedsSize},
		{"overlap exceeds max", Options{MaxChars: 100, OverlapChars: 150}, ErrOverlapExceedsSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSplitter("text", tc.opts)
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestSplitter_ShortTextSingleChunk(t *testing.T) {
	text := "A short document."

	s, err := NewSplitter(text, Options{MaxChars: 1000, OverlapChars: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := s.Next()
	if !ok {
		t.Fatal("expected one chunk")
	}

	if c.Text != text || c.Index != 0 || c.Start != 0 || c.End != len(text) {
		t.Errorf("unexpected chunk: %+v", c)
	}

	if _, ok := s.Next(); ok {
		t.Error("expected splitter to be exhausted after one chunk")
	}
}

func TestSplitter_EmptyText(t *testing.T) {
	s, err := NewSplitter("", Options{MaxChars: 100, OverlapChars: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := s.Next(); ok {
		t.Error("expected no chunks for empty text")
	}
}

// reconstruct concatenates the non-overlapping span of each chunk.
func reconstruct(text string, chunks []Chunk) string {
	var b strings.Builder

	prevEnd := 0
	for _, c := range chunks {
		from := c.Start
		if prevEnd > from {
			from = prevEnd
		}

		b.WriteString(text[from:c.End])
		prevEnd = c.End
	}

	return b.String()
}

func TestSplitter_RoundTrip(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog. "
	long := strings.Repeat(sentence, 200)

	tests := []struct {
		name string
		text string
		opts Options
	}{
		{"sentences with overlap", long, Options{MaxChars: 500, OverlapChars: 50}},
		{"sentences no overlap", long, Options{MaxChars: 300, OverlapChars: 0}},
		{"no boundaries at all", strings.Repeat("x", 2500), Options{MaxChars: 400, OverlapChars: 40}},
		{"tiny chunks", long[:137], Options{MaxChars: 10, OverlapChars: 3}},
		{"exact multiple", strings.Repeat("ab", 100), Options{MaxChars: 50, OverlapChars: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSplitter(tc.text, tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			chunks := s.All()

			if got := reconstruct(tc.text, chunks); got != tc.text {
				t.Errorf("round trip failed: %d chars in, %d chars out", len(tc.text), len(got))
			}

			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}

				if len(c.Text) > tc.opts.MaxChars {
					t.Errorf("chunk %d exceeds max size: %d > %d", i, len(c.Text), tc.opts.MaxChars)
				}

				if c.Text != tc.text[c.Start:c.End] {
					t.Errorf("chunk %d text does not match its char range", i)
				}
			}
		})
	}
}

func TestSplitter_PrefersSentenceBoundary(t *testing.T) {
	// Two sentences; the hard limit falls mid-way through the second, with a
	// period inside the tolerance window.
	text := "First sentence ends here. Second sentence is much longer and keeps going for a while."

	s, err := NewSplitter(text, Options{MaxChars: 30, OverlapChars: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := s.Next()
	if !ok {
		t.Fatal("expected a chunk")
	}

	if !strings.HasSuffix(c.Text, ".") && !strings.HasSuffix(c.Text, ". ") {
		t.Errorf("expected chunk to end at a sentence boundary, got %q", c.Text)
	}
}

func TestSplitter_OverlapCarriesBoundaryText(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30)

	s, err := NewSplitter(text, Options{MaxChars: 100, OverlapChars: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := s.All()
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]

		if cur.Start != prev.End-20 {
			t.Errorf("chunk %d should start 20 chars before chunk %d ends: start=%d prev end=%d",
				i, i-1, cur.Start, prev.End)
		}

		if !strings.HasPrefix(cur.Text, prev.Text[len(prev.Text)-20:]) {
			t.Errorf("chunk %d does not begin with chunk %d's trailing overlap", i, i-1)
		}
	}
}
