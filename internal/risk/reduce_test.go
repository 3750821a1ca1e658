package risk

import "testing"

func TestReduce_Empty(t *testing.T) {
	if got := Reduce(nil); len(got) != 0 {
		t.Errorf("Reduce(nil): expected empty, got %d findings", len(got))
	}
}

func TestReduce_HighestSeverityWins(t *testing.T) {
	findings := []Finding{
		{Category: CategoryDataSharing, Severity: 4, SourceChunk: 0},
		{Category: CategoryDataSharing, Severity: 8, SourceChunk: 3},
		{Category: CategoryDataSharing, Severity: 6, SourceChunk: 1},
	}

	reduced := Reduce(findings)
	if len(reduced) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(reduced))
	}

	if reduced[0].Severity != 8 || reduced[0].SourceChunk != 3 {
		t.Errorf("expected severity 8 from chunk 3, got severity %d from chunk %d",
			reduced[0].Severity, reduced[0].SourceChunk)
	}
}

func TestReduce_TieBreaksToLowestChunkIndex(t *testing.T) {
	findings := []Finding{
		{Category: CategoryAutoRenewal, Severity: 6, SourceChunk: 5},
		{Category: CategoryAutoRenewal, Severity: 6, SourceChunk: 2},
		{Category: CategoryAutoRenewal, Severity: 6, SourceChunk: 7},
	}

	reduced := Reduce(findings)
	if len(reduced) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(reduced))
	}

	if reduced[0].SourceChunk != 2 {
		t.Errorf("tie should resolve to lowest chunk index 2, got %d", reduced[0].SourceChunk)
	}
}

func TestReduce_AtMostOnePerCategory(t *testing.T) {
	var findings []Finding

	for chunk := 0; chunk < 4; chunk++ {
		for _, d := range definitions {
			findings = append(findings, Finding{
				Category:    d.Category,
				Severity:    chunk + 1,
				SourceChunk: chunk,
			})
		}
	}

	reduced := Reduce(findings)
	if len(reduced) != len(definitions) {
		t.Fatalf("expected %d findings, got %d", len(definitions), len(reduced))
	}

	seen := make(map[Category]struct{})

	for _, f := range reduced {
		if _, dup := seen[f.Category]; dup {
			t.Errorf("category %s appears more than once after reduction", f.Category)
		}

		seen[f.Category] = struct{}{}

		if f.Severity != 4 {
			t.Errorf("category %s: expected max severity 4, got %d", f.Category, f.Severity)
		}
	}
}

func TestReduce_DropsUnknownCategories(t *testing.T) {
	findings := []Finding{
		{Category: Category("made_up"), Severity: 9, SourceChunk: 0},
		{Category: CategoryContentRights, Severity: 3, SourceChunk: 1},
	}

	reduced := Reduce(findings)
	if len(reduced) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(reduced))
	}

	if reduced[0].Category != CategoryContentRights {
		t.Errorf("expected content_rights to survive, got %s", reduced[0].Category)
	}
}

func TestReduce_OrderIndependentOfInput(t *testing.T) {
	a := []Finding{
		{Category: CategoryAccountTermination, Severity: 3, SourceChunk: 2},
		{Category: CategoryDataSharing, Severity: 5, SourceChunk: 0},
	}
	b := []Finding{
		{Category: CategoryDataSharing, Severity: 5, SourceChunk: 0},
		{Category: CategoryAccountTermination, Severity: 3, SourceChunk: 2},
	}

	ra, rb := Reduce(a), Reduce(b)
	if len(ra) != len(rb) {
		t.Fatalf("reductions differ in length: %d vs %d", len(ra), len(rb))
	}

	for i := range ra {
		if ra[i] != rb[i] {
			t.Errorf("reduction order depends on input order: %+v vs %+v", ra[i], rb[i])
		}
	}
}
