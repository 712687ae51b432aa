// Package report builds the styled multi-sheet workbook for a scrape
// run.
package report

import (
	"fmt"

	"github.com/shivani7798/go-jobspy/models"
)

// Column binds a header name to the cell value it projects from a job.
// Value returns nil for absent optional fields so the cell stays
// empty.
type Column struct {
	Name  string
	Value func(*models.Job) any
}

// displayColumnOrder is the fixed column subset and ordering of the
// All Jobs sheet.
var displayColumnOrder = []string{
	"site", "title", "company", "location", "job_type",
	"min_amount", "max_amount", "interval", "is_remote",
	"date_posted", "job_level", "company_industry",
}

// allColumnOrder covers every field; site sheets carry the full
// schema.
var allColumnOrder = append(append([]string{}, displayColumnOrder...), "url", "scraped_at")

var columnsByName = map[string]Column{
	"site":    {Name: "site", Value: func(j *models.Job) any { return j.Site }},
	"title":   {Name: "title", Value: func(j *models.Job) any { return j.Title }},
	"company": {Name: "company", Value: func(j *models.Job) any { return j.Company }},
	"location": {Name: "location", Value: func(j *models.Job) any {
		return stringValue(j.Location)
	}},
	"job_type": {Name: "job_type", Value: func(j *models.Job) any {
		return stringValue(j.JobType)
	}},
	"min_amount": {Name: "min_amount", Value: func(j *models.Job) any {
		return floatValue(j.MinAmount)
	}},
	"max_amount": {Name: "max_amount", Value: func(j *models.Job) any {
		return floatValue(j.MaxAmount)
	}},
	"interval": {Name: "interval", Value: func(j *models.Job) any {
		return stringValue(j.Interval)
	}},
	"is_remote": {Name: "is_remote", Value: func(j *models.Job) any {
		if j.IsRemote == nil {
			return nil
		}
		return *j.IsRemote
	}},
	"date_posted": {Name: "date_posted", Value: func(j *models.Job) any {
		if j.DatePosted == nil {
			return nil
		}
		return j.DatePosted.Format("2006-01-02")
	}},
	"job_level": {Name: "job_level", Value: func(j *models.Job) any {
		return stringValue(j.JobLevel)
	}},
	"company_industry": {Name: "company_industry", Value: func(j *models.Job) any {
		return stringValue(j.CompanyIndustry)
	}},
	"url": {Name: "url", Value: func(j *models.Job) any { return j.URL }},
	"scraped_at": {Name: "scraped_at", Value: func(j *models.Job) any {
		return j.ScrapedAt.Format("2006-01-02 15:04:05")
	}},
}

// SelectColumns projects the fields present in both the record schema
// and the ordered name list, preserving the list's order. Unknown
// names are skipped rather than failing the run.
func SelectColumns(names []string) []Column {
	out := make([]Column, 0, len(names))
	for _, name := range names {
		if col, ok := columnsByName[name]; ok {
			out = append(out, col)
		}
	}
	return out
}

// cellString renders a projected value the way it will appear in the
// sheet, for column width computation.
func cellString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func stringValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func floatValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
