// Package chunk splits normalized document text into overlapping, bounded
// windows so each classification call sees a bounded context, with enough
// overlap that risk language spanning a window boundary is not missed.
package chunk

// boundaryToleranceDivisor controls how far before the hard cut a sentence
// or paragraph boundary is preferred (MaxChars / divisor).
const boundaryToleranceDivisor = 5

// Options configures the splitter
type Options struct {
	// MaxChars is the maximum characters per chunk
	MaxChars int
	// OverlapChars is how many trailing characters of one chunk reappear at
	// the start of the next
	OverlapChars int
}

// Chunk is one bounded window of the normalized document text. Chunks are
// read-only once produced and owned by the analysis run that created them.
type Chunk struct {
	// Index is the ordinal position of the chunk in source order
	Index int
	// Text is the chunk content, including the leading overlap
	Text string
	// Start is the offset of Text in the normalized source
	Start int
	// End is the offset just past Text in the normalized source
	End int
}

// Splitter produces chunks lazily in source order. It is a finite,
// non-restartable sequence: once Next returns false it stays exhausted.
type Splitter struct {
	text   string
	opts   Options
	cursor int
	index  int
}

// NewSplitter validates the options and returns a lazy splitter over text
func NewSplitter(text string, opts Options) (*Splitter, error) {
	if opts.MaxChars <= 0 || opts.OverlapChars < 0 {
		return nil, ErrInvalidChunkSize
	}

	if opts.OverlapChars >= opts.MaxChars {
		return nil, ErrOverlapExceedsSize
	}

	return &Splitter{text: text, opts: opts}, nil
}

// Next returns the next chunk in source order, or false when the text is
// exhausted. The final chunk may be shorter than MaxChars.
func (s *Splitter) Next() (Chunk, bool) {
	if s.cursor >= len(s.text) {
		return Chunk{}, false
	}

	start := s.cursor - s.opts.OverlapChars
	if start < 0 {
		start = 0
	}

	end := start + s.opts.MaxChars
	if end >= len(s.text) {
		end = len(s.text)
	} else {
		end = s.cutPoint(start, end)
	}

	c := Chunk{
		Index: s.index,
		Text:  s.text[start:end],
		Start: start,
		End:   end,
	}

	s.cursor = end
	s.index++

	return c, true
}

// All drains the splitter into a slice
func (s *Splitter) All() []Chunk {
	var chunks []Chunk

	for {
		c, ok := s.Next()
		if !ok {
			return chunks
		}

		chunks = append(chunks, c)
	}
}

// cutPoint picks the chunk end offset. It prefers the latest sentence or
// paragraph boundary within the tolerance window before the hard limit, so a
// risk-bearing clause is not severed mid-sentence; otherwise it hard cuts.
// The returned offset always lies past the cursor, guaranteeing progress.
func (s *Splitter) cutPoint(start, limit int) int {
	tolerance := s.opts.MaxChars / boundaryToleranceDivisor

	earliest := limit - tolerance
	if earliest <= s.cursor {
		earliest = s.cursor + 1
	}

	for b := limit; b > earliest; b-- {
		if isBoundary(s.text[b-1]) {
			return b
		}
	}

	return limit
}

// isBoundary reports whether c terminates a sentence or paragraph
func isBoundary(c byte) bool {
	switch c {
	case '.', '!', '?', '\n':
		return true
	}

	return false
}
