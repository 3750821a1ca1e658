package risk

// Finding is one detected risk in a document chunk. At most one finding per
// category survives reduction.
type Finding struct {
	// Category is the risk category this finding belongs to
	Category Category `json:"category"`
	// Title is a short label for the risk
	Title string `json:"title"`
	// Description explains the risk in plain language
	Description string `json:"description"`
	// Severity rates the risk from 1 (minor) to 10 (severe)
	Severity int `json:"severity"`
	// Excerpt is a verbatim quote from the source chunk supporting the
	// finding. Empty when no verbatim evidence could be preserved; it is
	// never fabricated or paraphrased.
	Excerpt string `json:"excerpt,omitempty"`
	// SourceChunk is the index of the chunk the finding was detected in
	SourceChunk int `json:"source_chunk"`
}
