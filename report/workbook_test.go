package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shivani7798/go-jobspy/models"
	"github.com/xuri/excelize/v2"
)

func sampleTable() models.Table {
	scraped := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	return models.Table{
		{
			Site:      "indeed",
			Title:     "Data Engineer",
			Company:   "Acme",
			MinAmount: floatPtr(40000),
			URL:       "https://uk.indeed.com/viewjob?jk=1",
			ScrapedAt: scraped,
		},
		{
			Site:      "linkedin",
			Title:     "Senior Data Engineer",
			Company:   "Globex",
			MinAmount: floatPtr(50000),
			URL:       "https://www.linkedin.com/jobs/view/2",
			ScrapedAt: scraped,
		},
		{
			Site:      "indeed",
			Title:     "Platform Engineer",
			Company:   "Initech",
			URL:       "https://uk.indeed.com/viewjob?jk=3",
			ScrapedAt: scraped,
		},
	}
}

func TestWorkbookSheetOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := NewBuilder(sampleTable(), "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got := f.GetSheetList()
	want := []string{"Summary", "All Jobs", "Indeed", "Linkedin"}
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}
}

func TestWorkbookSummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := NewBuilder(sampleTable(), "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary rows: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("summary rows = %d, want 8", len(rows))
	}
	if rows[0][0] != "Metric" || rows[0][1] != "Value" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}

	metrics := make(map[string]string)
	for _, row := range rows[1:] {
		if len(row) >= 2 {
			metrics[row[0]] = row[1]
		}
	}
	if metrics["Total Jobs Found"] != "3" {
		t.Fatalf("total jobs = %q, want 3", metrics["Total Jobs Found"])
	}
	if metrics["Unique Job Sites"] != "2" {
		t.Fatalf("unique sites = %q, want 2", metrics["Unique Job Sites"])
	}
	if metrics["Average Min Salary (£)"] != "£45,000.00" {
		t.Fatalf("avg min salary = %q, want £45,000.00", metrics["Average Min Salary (£)"])
	}
	if metrics["Most Common Job Type"] != "N/A" {
		t.Fatalf("common job type = %q, want N/A", metrics["Most Common Job Type"])
	}
}

func TestWorkbookSiteSheetsFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := NewBuilder(sampleTable(), "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Indeed")
	if err != nil {
		t.Fatalf("read indeed rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("indeed rows = %d, want 3 (header + 2 jobs)", len(rows))
	}
	for _, row := range rows[1:] {
		if row[0] != "indeed" {
			t.Fatalf("site sheet row from wrong site: %v", row)
		}
	}

	linkedinRows, err := f.GetRows("Linkedin")
	if err != nil {
		t.Fatalf("read linkedin rows: %v", err)
	}
	if len(linkedinRows) != 2 {
		t.Fatalf("linkedin rows = %d, want 2", len(linkedinRows))
	}
}

func TestWorkbookColumnWidths(t *testing.T) {
	table := sampleTable()
	longTitle := strings.Repeat("x", 80)
	table[0].Title = longTitle

	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := NewBuilder(table, "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	// column A of All Jobs is "site": longest cell is "linkedin" (8)
	widthA, err := f.GetColWidth("All Jobs", "A")
	if err != nil {
		t.Fatalf("get width A: %v", err)
	}
	if widthA != 10 {
		t.Fatalf("site column width = %v, want 10", widthA)
	}

	// column B is "title": the 80-char title must cap at 50
	widthB, err := f.GetColWidth("All Jobs", "B")
	if err != nil {
		t.Fatalf("get width B: %v", err)
	}
	if widthB != 50 {
		t.Fatalf("title column width = %v, want 50", widthB)
	}
}

func TestSiteSheetBase(t *testing.T) {
	tests := []struct {
		site string
		want string
	}{
		{site: "indeed", want: "Indeed"},
		{site: "LINKEDIN", want: "Linkedin"},
		{site: strings.Repeat("a", 40), want: "A" + strings.Repeat("a", 30)},
	}
	for _, tt := range tests {
		if got := siteSheetBase(tt.site); got != tt.want {
			t.Fatalf("siteSheetBase(%q) = %q, want %q", tt.site, got, tt.want)
		}
	}
}

func TestSheetNamesDisambiguateAfterTruncation(t *testing.T) {
	longA := strings.Repeat("a", 35)
	longB := strings.Repeat("a", 34) + "b"

	table := models.Table{
		{Site: longA, Title: "Job A", Company: "Acme", URL: "https://example.test/a", ScrapedAt: time.Now()},
		{Site: longB, Title: "Job B", Company: "Acme", URL: "https://example.test/b", ScrapedAt: time.Now()},
	}

	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := NewBuilder(table, "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	for _, name := range f.GetSheetList() {
		if len(name) > 31 {
			t.Fatalf("sheet name %q exceeds 31 characters", name)
		}
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate sheet name %q", name)
		}
		seen[name] = struct{}{}
	}
	if len(seen) != 4 {
		t.Fatalf("sheet count = %d, want 4", len(seen))
	}
}

func TestWorkbookWriteCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "jobs.xlsx")
	if err := NewBuilder(sampleTable(), "£").Write(path); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not created: %v", err)
	}
}
