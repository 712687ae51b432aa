// Package models defines data structures for the job scraper.
package models

import (
	"sort"
	"time"
)

// Job represents one scraped job listing. Site, Title and Company are
// always present; the remaining fields depend on what the source site
// exposes and stay nil when missing.
type Job struct {
	Site            string     `csv:"site" json:"site"`
	Title           string     `csv:"title" json:"title"`
	Company         string     `csv:"company" json:"company"`
	Location        *string    `csv:"location" json:"location,omitempty"`
	JobType         *string    `csv:"job_type" json:"job_type,omitempty"`
	MinAmount       *float64   `csv:"min_amount" json:"min_amount,omitempty"`
	MaxAmount       *float64   `csv:"max_amount" json:"max_amount,omitempty"`
	Interval        *string    `csv:"interval" json:"interval,omitempty"`
	IsRemote        *bool      `csv:"is_remote" json:"is_remote,omitempty"`
	DatePosted      *time.Time `csv:"date_posted" json:"date_posted,omitempty"`
	JobLevel        *string    `csv:"job_level" json:"job_level,omitempty"`
	CompanyIndustry *string    `csv:"company_industry" json:"company_industry,omitempty"`
	URL             string     `csv:"url" json:"url"`
	ScrapedAt       time.Time  `csv:"scraped_at" json:"scraped_at"`
}

// Table is an ordered collection of scraped jobs. Duplicates across
// sites are expected and preserved.
type Table []*Job

// Sites returns the distinct site names in lexicographic order.
func (t Table) Sites() []string {
	seen := make(map[string]struct{})
	for _, job := range t {
		if job == nil {
			continue
		}
		seen[job.Site] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BySite returns the rows scraped from site, preserving table order.
func (t Table) BySite(site string) Table {
	var out Table
	for _, job := range t {
		if job != nil && job.Site == site {
			out = append(out, job)
		}
	}
	return out
}

// FetchResult holds the overall result of a scraping run.
type FetchResult struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RetryCount   int
	RequestCount int
	PageCount    int
}
