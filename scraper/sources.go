package scraper

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/shivani7798/go-jobspy/models"
	"github.com/shivani7798/go-jobspy/parser"
)

// Source describes how to search one job site: where result pages
// live, how many cards a page carries, and how to lift a Job out of a
// result card.
type Source struct {
	Name         string
	PageSize     int
	Domains      func(country string) []string
	SearchURL    func(term, location, country string, offset int) string
	CardSelector string
	Extract      func(e *colly.HTMLElement) *models.Job
}

var sources = map[string]Source{
	"indeed": {
		Name:     "indeed",
		PageSize: 10,
		Domains: func(country string) []string {
			host := indeedHost(country)
			return []string{host}
		},
		SearchURL: func(term, location, country string, offset int) string {
			return fmt.Sprintf("https://%s/jobs?q=%s&l=%s&start=%d",
				indeedHost(country), url.QueryEscape(term), url.QueryEscape(location), offset)
		},
		CardSelector: ".job_seen_beacon",
		Extract:      extractIndeed,
	},
	"linkedin": {
		Name:     "linkedin",
		PageSize: 25,
		Domains: func(string) []string {
			return []string{"www.linkedin.com"}
		},
		SearchURL: func(term, location, _ string, offset int) string {
			return fmt.Sprintf("https://www.linkedin.com/jobs/search/?keywords=%s&location=%s&start=%d",
				url.QueryEscape(term), url.QueryEscape(location), offset)
		},
		CardSelector: ".base-search-card",
		Extract:      extractLinkedIn,
	},
	"glassdoor": {
		Name:     "glassdoor",
		PageSize: 30,
		Domains: func(string) []string {
			return []string{"www.glassdoor.com"}
		},
		SearchURL: func(term, location, _ string, offset int) string {
			page := offset/30 + 1
			return fmt.Sprintf("https://www.glassdoor.com/Job/jobs.htm?sc.keyword=%s&locKeyword=%s&p=%d",
				url.QueryEscape(term), url.QueryEscape(location), page)
		},
		CardSelector: "[data-test=jobListing]",
		Extract:      extractGlassdoor,
	},
}

// SupportedSites lists the site names this scraper understands, in
// lexicographic order.
func SupportedSites() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// indeedHost maps a country code onto the matching indeed domain.
func indeedHost(country string) string {
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case "UK", "GB":
		return "uk.indeed.com"
	case "CA":
		return "ca.indeed.com"
	case "AU":
		return "au.indeed.com"
	case "IN":
		return "in.indeed.com"
	case "DE":
		return "de.indeed.com"
	default:
		return "www.indeed.com"
	}
}

func extractIndeed(e *colly.HTMLElement) *models.Job {
	title := cleanText(e.ChildText("h2.jobTitle"))
	if title == "" {
		return nil
	}
	href := e.ChildAttr("h2.jobTitle a", "href")
	if href == "" {
		href = e.ChildAttr("a[data-jk]", "href")
	}
	if href == "" {
		return nil
	}

	now := time.Now()
	location := e.ChildText("[data-testid=text-location], .companyLocation")
	snippet := e.ChildText("[data-testid=attribute_snippet_testid], .salary-snippet-container, .metadata")
	min, max, interval := parser.ParseSalary(snippet)

	return &models.Job{
		Site:       "indeed",
		Title:      title,
		Company:    cleanText(e.ChildText("[data-testid=company-name], .companyName")),
		Location:   parser.NormalizeLocation(location),
		JobType:    parser.NormalizeJobType(snippet),
		MinAmount:  min,
		MaxAmount:  max,
		Interval:   interval,
		IsRemote:   parser.ParseRemote(title, location, snippet),
		DatePosted: parser.ParsePostedDate(e.ChildText(".date, [data-testid=myJobsStateDate]"), now),
		URL:        e.Request.AbsoluteURL(href),
		ScrapedAt:  now,
	}
}

func extractLinkedIn(e *colly.HTMLElement) *models.Job {
	title := cleanText(e.ChildText(".base-search-card__title"))
	if title == "" {
		return nil
	}
	href := e.ChildAttr("a.base-card__full-link", "href")
	if href == "" {
		href = e.ChildAttr("h3 a", "href")
	}
	if href == "" {
		return nil
	}

	now := time.Now()
	location := e.ChildText(".job-search-card__location")
	salaryText := e.ChildText(".job-search-card__salary-info")
	min, max, interval := parser.ParseSalary(salaryText)

	return &models.Job{
		Site:       "linkedin",
		Title:      title,
		Company:    cleanText(e.ChildText(".base-search-card__subtitle")),
		Location:   parser.NormalizeLocation(location),
		MinAmount:  min,
		MaxAmount:  max,
		Interval:   interval,
		IsRemote:   parser.ParseRemote(title, location),
		DatePosted: parser.ParsePostedDate(e.ChildAttr("time", "datetime"), now),
		URL:        e.Request.AbsoluteURL(href),
		ScrapedAt:  now,
	}
}

func extractGlassdoor(e *colly.HTMLElement) *models.Job {
	title := cleanText(e.ChildText("[data-test=job-title]"))
	if title == "" {
		return nil
	}
	href := e.ChildAttr("a[data-test=job-title]", "href")
	if href == "" {
		href = e.ChildAttr("a", "href")
	}
	if href == "" {
		return nil
	}

	now := time.Now()
	location := e.ChildText("[data-test=emp-location]")
	salaryText := e.ChildText("[data-test=detailSalary]")
	min, max, interval := parser.ParseSalary(salaryText)

	return &models.Job{
		Site:       "glassdoor",
		Title:      title,
		Company:    cleanText(e.ChildText("[data-test=employer-name], .employer-name")),
		Location:   parser.NormalizeLocation(location),
		MinAmount:  min,
		MaxAmount:  max,
		Interval:   interval,
		IsRemote:   parser.ParseRemote(title, location),
		DatePosted: parser.ParsePostedDate(e.ChildText("[data-test=job-age]"), now),
		URL:        e.Request.AbsoluteURL(href),
		ScrapedAt:  now,
	}
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
