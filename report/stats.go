package report

import (
	"sort"

	"github.com/shivani7798/go-jobspy/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the aggregate snapshot rendered on the Summary sheet.
// The salary averages and modal job type are pre-rendered strings
// because absent data must show as the literal "N/A".
type Summary struct {
	TotalJobs       int
	UniqueSites     int
	UniqueCompanies int
	RemoteJobs      int
	AvgMinSalary    string
	AvgMaxSalary    string
	CommonJobType   string
}

var currencyPrinter = message.NewPrinter(language.BritishEnglish)

// ComputeSummary derives the summary statistics for table. Missing
// optional fields degrade to zero counts or "N/A" rather than failing.
func ComputeSummary(table models.Table, currencySymbol string) Summary {
	companies := make(map[string]struct{})
	jobTypes := make(map[string]int)
	remote := 0
	var minSum, maxSum float64
	var minN, maxN int

	for _, job := range table {
		if job == nil {
			continue
		}
		companies[job.Company] = struct{}{}
		if job.IsRemote != nil && *job.IsRemote {
			remote++
		}
		if job.MinAmount != nil {
			minSum += *job.MinAmount
			minN++
		}
		if job.MaxAmount != nil {
			maxSum += *job.MaxAmount
			maxN++
		}
		if job.JobType != nil {
			jobTypes[*job.JobType]++
		}
	}

	return Summary{
		TotalJobs:       len(table),
		UniqueSites:     len(table.Sites()),
		UniqueCompanies: len(companies),
		RemoteJobs:      remote,
		AvgMinSalary:    currency(currencySymbol, minSum, minN),
		AvgMaxSalary:    currency(currencySymbol, maxSum, maxN),
		CommonJobType:   mode(jobTypes),
	}
}

// currency renders a grouped two-decimal mean, e.g. "£45,000.00", or
// "N/A" when no values were present.
func currency(symbol string, sum float64, n int) string {
	if n == 0 {
		return "N/A"
	}
	return currencyPrinter.Sprintf("%s%.2f", symbol, sum/float64(n))
}

// mode returns the most frequent value; ties break toward the
// lexicographically smallest, matching the original report.
func mode(counts map[string]int) string {
	if len(counts) == 0 {
		return "N/A"
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}
