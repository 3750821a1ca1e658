package risk

// Reduce merges per-chunk findings into at most one finding per category.
// The highest-severity occurrence wins; ties resolve to the lowest chunk
// index so the earliest evidence in the document is kept. The output is
// ordered by the category definition table, making the result deterministic
// regardless of the completion order of concurrent detection calls.
func Reduce(findings []Finding) []Finding {
	best := make(map[Category]Finding, len(definitions))

	for _, f := range findings {
		if _, known := definitionIndex[f.Category]; !known {
			continue
		}

		current, seen := best[f.Category]
		if !seen {
			best[f.Category] = f
			continue
		}

		if f.Severity > current.Severity ||
			(f.Severity == current.Severity && f.SourceChunk < current.SourceChunk) {
			best[f.Category] = f
		}
	}

	reduced := make([]Finding, 0, len(best))

	for _, d := range definitions {
		if f, ok := best[d.Category]; ok {
			reduced = append(reduced, f)
		}
	}

	return reduced
}
