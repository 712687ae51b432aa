package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/shivani7798/go-jobspy/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheetName = "Summary"
	allJobsSheetName = "All Jobs"

	// workbook sheet names are capped at 31 characters
	maxSheetNameLen = 31
	maxColumnWidth  = 50.0

	summaryHeaderColor = "4CAF50"
	siteHeaderColor    = "2196F3"
)

// Builder assembles the styled workbook: a Summary sheet, an All Jobs
// sheet with the fixed column subset, and one sheet per distinct site.
type Builder struct {
	table  models.Table
	symbol string
}

// NewBuilder returns a builder over table. currencySymbol is used for
// the salary metrics on the Summary sheet.
func NewBuilder(table models.Table, currencySymbol string) *Builder {
	return &Builder{table: table, symbol: currencySymbol}
}

// Build composes the workbook fully in memory. Sheet order is Summary,
// All Jobs, then one sheet per site in lexicographic order.
func (b *Builder) Build() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	plainHeader, err := headerStyle(f, summaryHeaderColor, false)
	if err != nil {
		f.Close()
		return nil, err
	}
	greenHeader, err := headerStyle(f, summaryHeaderColor, true)
	if err != nil {
		f.Close()
		return nil, err
	}
	blueHeader, err := headerStyle(f, siteHeaderColor, true)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := b.buildSummarySheet(f, plainHeader); err != nil {
		f.Close()
		return nil, err
	}
	if err := b.buildAllJobsSheet(f, greenHeader); err != nil {
		f.Close()
		return nil, err
	}
	if err := b.buildSiteSheets(f, blueHeader); err != nil {
		f.Close()
		return nil, err
	}

	index, err := f.GetSheetIndex(summarySheetName)
	if err == nil {
		f.SetActiveSheet(index)
	}
	return f, nil
}

// Write builds the workbook and saves it to path. The file only
// materializes after every sheet is fully populated, so a failed build
// leaves nothing behind.
func (b *Builder) Write(path string) error {
	f, err := b.Build()
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (b *Builder) buildSummarySheet(f *excelize.File, style int) error {
	stats := ComputeSummary(b.table, b.symbol)

	rows := [][2]any{
		{"Total Jobs Found", stats.TotalJobs},
		{"Unique Job Sites", stats.UniqueSites},
		{"Unique Companies", stats.UniqueCompanies},
		{"Remote Jobs", stats.RemoteJobs},
		{fmt.Sprintf("Average Min Salary (%s)", b.symbol), stats.AvgMinSalary},
		{fmt.Sprintf("Average Max Salary (%s)", b.symbol), stats.AvgMaxSalary},
		{"Most Common Job Type", stats.CommonJobType},
	}

	if err := f.SetCellValue(summarySheetName, "A1", "Metric"); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := f.SetCellValue(summarySheetName, "B1", "Value"); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	for i, row := range rows {
		cellA, _ := excelize.CoordinatesToCellName(1, i+2)
		cellB, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellValue(summarySheetName, cellA, row[0]); err != nil {
			return fmt.Errorf("summary sheet: %w", err)
		}
		if err := f.SetCellValue(summarySheetName, cellB, row[1]); err != nil {
			return fmt.Errorf("summary sheet: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheetName, "A1", "B1", style); err != nil {
		return fmt.Errorf("summary sheet style: %w", err)
	}
	return nil
}

func (b *Builder) buildAllJobsSheet(f *excelize.File, style int) error {
	if _, err := f.NewSheet(allJobsSheetName); err != nil {
		return fmt.Errorf("all jobs sheet: %w", err)
	}
	cols := SelectColumns(displayColumnOrder)
	return writeJobSheet(f, allJobsSheetName, cols, b.table, style)
}

func (b *Builder) buildSiteSheets(f *excelize.File, style int) error {
	names := newSheetNames(summarySheetName, allJobsSheetName)
	cols := SelectColumns(allColumnOrder)

	for _, site := range b.table.Sites() {
		name := names.claim(siteSheetBase(site))
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("site sheet %q: %w", name, err)
		}
		if err := writeJobSheet(f, name, cols, b.table.BySite(site), style); err != nil {
			return err
		}
	}
	return nil
}

// writeJobSheet writes a styled header row, the job rows, and
// content-derived column widths: min(longest cell + 2, 50).
func writeJobSheet(f *excelize.File, sheet string, cols []Column, rows models.Table, style int) error {
	widths := make([]int, len(cols))

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return fmt.Errorf("sheet %q header: %w", sheet, err)
		}
		widths[i] = len(col.Name)
	}

	for r, job := range rows {
		for i, col := range cols {
			value := col.Value(job)
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("sheet %q row %d: %w", sheet, r+2, err)
			}
			if n := len(cellString(value)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("sheet %q style: %w", sheet, err)
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("sheet %q column %d: %w", sheet, i+1, err)
		}
		width := float64(w) + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("sheet %q width: %w", sheet, err)
		}
	}
	return nil
}

func headerStyle(f *excelize.File, color string, centered bool) (int, error) {
	style := &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
	}
	if centered {
		style.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("header style: %w", err)
	}
	return id, nil
}

// siteSheetBase capitalizes a site name and truncates it to the sheet
// name limit.
func siteSheetBase(site string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(site)))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	if len(runes) > maxSheetNameLen {
		runes = runes[:maxSheetNameLen]
	}
	return string(runes)
}

// sheetNames hands out unique sheet names, disambiguating collisions
// that appear after truncation with a numeric suffix that still fits
// the limit.
type sheetNames struct {
	taken map[string]struct{}
}

func newSheetNames(reserved ...string) *sheetNames {
	taken := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		taken[name] = struct{}{}
	}
	return &sheetNames{taken: taken}
}

func (sn *sheetNames) claim(base string) string {
	if _, ok := sn.taken[base]; !ok {
		sn.taken[base] = struct{}{}
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetNameLen {
			trimmed = trimmed[:maxSheetNameLen-len(suffix)]
		}
		candidate := trimmed + suffix
		if _, ok := sn.taken[candidate]; !ok {
			sn.taken[candidate] = struct{}{}
			return candidate
		}
	}
}
