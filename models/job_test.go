package models

import (
	"testing"
	"time"
)

func TestTableSitesSorted(t *testing.T) {
	table := Table{
		{Site: "linkedin", Title: "A", Company: "X", ScrapedAt: time.Now()},
		{Site: "indeed", Title: "B", Company: "Y", ScrapedAt: time.Now()},
		{Site: "linkedin", Title: "C", Company: "Z", ScrapedAt: time.Now()},
		nil,
	}

	got := table.Sites()
	want := []string{"indeed", "linkedin"}
	if len(got) != len(want) {
		t.Fatalf("sites = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sites = %v, want %v", got, want)
		}
	}
}

func TestTableBySitePreservesOrder(t *testing.T) {
	first := &Job{Site: "indeed", Title: "First"}
	second := &Job{Site: "indeed", Title: "Second"}
	table := Table{first, {Site: "linkedin", Title: "Other"}, second}

	got := table.BySite("indeed")
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("unexpected BySite result: %v", got)
	}

	if got := table.BySite("glassdoor"); len(got) != 0 {
		t.Fatalf("unknown site should filter to empty, got %v", got)
	}
}
