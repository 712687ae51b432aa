// Package parser normalizes raw job-card text into typed fields.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shivani7798/go-jobspy/models"
)

// ValidateJob ensures the scraper captured the required fields.
func ValidateJob(j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if strings.TrimSpace(j.Site) == "" {
		return fmt.Errorf("job missing site")
	}
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("job missing title")
	}
	if strings.TrimSpace(j.Company) == "" {
		return fmt.Errorf("job missing company for %s", j.Title)
	}
	if strings.TrimSpace(j.URL) == "" {
		return fmt.Errorf("job missing url for %s", j.Title)
	}
	return nil
}

var salaryAmountRegex = regexp.MustCompile(`[\d][\d,]*(?:\.\d+)?`)

// ParseSalary extracts a salary range and pay interval from snippet
// text such as "£40,000 - £50,000 a year" or "$25 an hour". Missing
// parts stay nil; a single amount is returned as the minimum.
func ParseSalary(text string) (min, max *float64, interval *string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, nil
	}

	matches := salaryAmountRegex.FindAllString(text, 2)
	for i, raw := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		v := value
		switch i {
		case 0:
			min = &v
		case 1:
			max = &v
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "hour"):
		interval = strptr("hourly")
	case strings.Contains(lower, "day"):
		interval = strptr("daily")
	case strings.Contains(lower, "week"):
		interval = strptr("weekly")
	case strings.Contains(lower, "month"):
		interval = strptr("monthly")
	case strings.Contains(lower, "year"), strings.Contains(lower, "annum"):
		interval = strptr("yearly")
	}
	return min, max, interval
}

// NormalizeJobType maps free-form employment text onto the canonical
// job type vocabulary. Unknown text yields nil.
func NormalizeJobType(text string) *string {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	switch {
	case strings.Contains(cleaned, "fulltime"):
		return strptr("fulltime")
	case strings.Contains(cleaned, "parttime"):
		return strptr("parttime")
	case strings.Contains(cleaned, "intern"):
		return strptr("internship")
	case strings.Contains(cleaned, "contract"):
		return strptr("contract")
	case strings.Contains(cleaned, "temp"):
		return strptr("temporary")
	}
	return nil
}

// ParseRemote reports whether the listing text marks the job as
// remote. Sites that never say either way yield nil, not false.
func ParseRemote(fields ...string) *bool {
	for _, field := range fields {
		lower := strings.ToLower(field)
		if strings.Contains(lower, "remote") || strings.Contains(lower, "work from home") || strings.Contains(lower, "wfh") {
			t := true
			return &t
		}
	}
	return nil
}

// NormalizeLocation collapses whitespace in a location string and
// returns nil for empty input.
func NormalizeLocation(text string) *string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

var daysAgoRegex = regexp.MustCompile(`(\d+)\+?\s*day`)

// ParsePostedDate interprets relative posting text ("Posted 3 days
// ago", "Today", "Just posted") against now. It also accepts ISO dates
// as emitted by linkedin's <time datetime="..."> attribute.
func ParsePostedDate(text string, now time.Time) *time.Time {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	if cleaned == "" {
		return nil
	}

	if t, err := time.Parse("2006-01-02", strings.TrimSpace(text)); err == nil {
		return &t
	}

	day := now.Truncate(24 * time.Hour)
	switch {
	case strings.Contains(cleaned, "just posted"), strings.Contains(cleaned, "today"):
		return &day
	case strings.Contains(cleaned, "yesterday"):
		d := day.AddDate(0, 0, -1)
		return &d
	}

	if m := daysAgoRegex.FindStringSubmatch(cleaned); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			d := day.AddDate(0, 0, -n)
			return &d
		}
	}
	return nil
}

func strptr(s string) *string {
	return &s
}
