package report

import (
	"testing"
	"time"

	"github.com/shivani7798/go-jobspy/models"
)

func job(site string, minAmount *float64) *models.Job {
	return &models.Job{
		Site:      site,
		Title:     "Data Engineer",
		Company:   "Acme",
		MinAmount: minAmount,
		URL:       "https://example.test/job",
		ScrapedAt: time.Now(),
	}
}

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }

func TestComputeSummaryTotals(t *testing.T) {
	table := models.Table{
		job("indeed", floatPtr(40000)),
		job("linkedin", floatPtr(50000)),
		job("indeed", nil),
	}

	stats := ComputeSummary(table, "£")

	if stats.TotalJobs != len(table) {
		t.Fatalf("total jobs = %d, want %d", stats.TotalJobs, len(table))
	}
	if stats.UniqueSites != 2 {
		t.Fatalf("unique sites = %d, want 2", stats.UniqueSites)
	}
	if stats.UniqueCompanies != 1 {
		t.Fatalf("unique companies = %d, want 1", stats.UniqueCompanies)
	}
	if stats.AvgMinSalary != "£45,000.00" {
		t.Fatalf("avg min salary = %q, want £45,000.00", stats.AvgMinSalary)
	}
	if stats.AvgMaxSalary != "N/A" {
		t.Fatalf("avg max salary = %q, want N/A", stats.AvgMaxSalary)
	}
}

func TestComputeSummaryEmptyTable(t *testing.T) {
	stats := ComputeSummary(models.Table{}, "£")

	if stats.TotalJobs != 0 {
		t.Fatalf("total jobs = %d, want 0", stats.TotalJobs)
	}
	if stats.AvgMinSalary != "N/A" || stats.AvgMaxSalary != "N/A" {
		t.Fatalf("empty table averages = %q/%q, want N/A", stats.AvgMinSalary, stats.AvgMaxSalary)
	}
	if stats.CommonJobType != "N/A" {
		t.Fatalf("empty table job type = %q, want N/A", stats.CommonJobType)
	}
}

func TestComputeSummaryRemoteAndMode(t *testing.T) {
	a := job("indeed", nil)
	a.IsRemote = boolPtr(true)
	a.JobType = strPtr("fulltime")
	b := job("indeed", nil)
	b.IsRemote = boolPtr(false)
	b.JobType = strPtr("contract")
	c := job("linkedin", nil)
	c.JobType = strPtr("fulltime")

	stats := ComputeSummary(models.Table{a, b, c}, "£")

	if stats.RemoteJobs != 1 {
		t.Fatalf("remote jobs = %d, want 1", stats.RemoteJobs)
	}
	if stats.CommonJobType != "fulltime" {
		t.Fatalf("common job type = %q, want fulltime", stats.CommonJobType)
	}
}

func TestComputeSummaryModeTieBreaksLexicographically(t *testing.T) {
	a := job("indeed", nil)
	a.JobType = strPtr("parttime")
	b := job("indeed", nil)
	b.JobType = strPtr("contract")

	stats := ComputeSummary(models.Table{a, b}, "£")
	if stats.CommonJobType != "contract" {
		t.Fatalf("tied mode = %q, want contract", stats.CommonJobType)
	}
}

func TestComputeSummaryCurrencySymbol(t *testing.T) {
	table := models.Table{job("indeed", floatPtr(100000))}
	stats := ComputeSummary(table, "$")
	if stats.AvgMinSalary != "$100,000.00" {
		t.Fatalf("avg min salary = %q, want $100,000.00", stats.AvgMinSalary)
	}
}
