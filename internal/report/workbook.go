// Package report owns the spreadsheet output: the visible results table, the
// hidden data sheets behind the summary charts, and the charts themselves.
// It exposes exactly the operations the pipeline needs instead of the
// underlying file handle.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"jobinsights-engine/internal/listing"
)

const (
	sheetVacancies  = "Vacancies"
	sheetSkillsData = "SkillsData"
	sheetSalaryData = "SalaryData"
	sheetRemoteData = "RemoteData"
	chartSalary     = "Salary"
	chartSkills     = "Skills"
	chartRemote     = "Remote"

	// Conditional formats cover a fixed band; runs are capped at 2000 rows
	// by the page/per-page limits anyway.
	lastFormattedRow = 2000

	topSkillCount = 20
)

var headlines = []string{
	"Title", "Salary from (net)", "Salary to (net)", "Min experience, years",
	"Remote", "Published (days ago)", "Created (days ago)", "Employer", "Details",
}

// Workbook is one report file under construction.
type Workbook struct {
	f      *excelize.File
	path   string
	query  string
	region string

	rows   int // data rows written
	remote int // of which remote

	stringStyle int
	numberStyle int
	daysStyle   int
}

// NewWorkbook creates the file skeleton: the formatted results sheet plus the
// hidden auxiliary sheets.
func NewWorkbook(path, query, region string) (*Workbook, error) {
	f := excelize.NewFile()
	w := &Workbook{f: f, path: path, query: query, region: region}

	if err := f.SetSheetName("Sheet1", sheetVacancies); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetSkillsData, sheetSalaryData, sheetRemoteData} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := f.SetSheetVisible(name, false); err != nil {
			return nil, fmt.Errorf("hide sheet %s: %w", name, err)
		}
	}

	if err := w.styleResults(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workbook) styleResults() error {
	const font = "Times New Roman"
	numFmt := "# ### ###"

	headStyle, err := w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Family: font},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if w.stringStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11, Family: font},
	}); err != nil {
		return fmt.Errorf("string style: %w", err)
	}
	if w.numberStyle, err = w.f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 11, Family: font},
		Alignment:    &excelize.Alignment{Horizontal: "center"},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return fmt.Errorf("number style: %w", err)
	}
	if w.daysStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 11, Family: font},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		NumFmt:    1,
	}); err != nil {
		return fmt.Errorf("days style: %w", err)
	}

	for i, h := range headlines {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.f.SetCellValue(sheetVacancies, cell, h); err != nil {
			return err
		}
	}
	if err := w.f.SetCellStyle(sheetVacancies, "A1", "I1", headStyle); err != nil {
		return err
	}

	widths := []struct {
		col   string
		width float64
		style int
	}{
		{"A", 75, w.stringStyle},
		{"B", 20, w.numberStyle},
		{"C", 20, w.numberStyle},
		{"D", 24, w.numberStyle},
		{"E", 11, w.numberStyle},
		{"F", 19, w.daysStyle},
		{"G", 11, w.daysStyle},
		{"H", 38, w.stringStyle},
		{"I", 40, w.stringStyle},
	}
	for _, c := range widths {
		if err := w.f.SetColWidth(sheetVacancies, c.col, c.col, c.width); err != nil {
			return err
		}
		if err := w.f.SetColStyle(sheetVacancies, c.col, c.style); err != nil {
			return err
		}
	}

	if err := w.conditionalFormats(); err != nil {
		return err
	}

	// Keep the header row visible while scrolling.
	return w.f.SetPanes(sheetVacancies, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *Workbook) conditionalFormats() error {
	scale := []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "min", MinColor: "#F8696B",
		MidType: "percentile", MidValue: "50", MidColor: "#FFEB84",
		MaxType: "max", MaxColor: "#63BE7B",
	}}
	for _, col := range []string{"B", "C"} {
		ref := fmt.Sprintf("%s2:%s%d", col, col, lastFormattedRow)
		if err := w.f.SetConditionalFormat(sheetVacancies, ref, scale); err != nil {
			return fmt.Errorf("color scale %s: %w", col, err)
		}
	}

	bar := []excelize.ConditionalFormatOptions{{
		Type:     "data_bar",
		Criteria: "=",
		MinType:  "min",
		MaxType:  "max",
		BarColor: "#008AEF", BarBorderColor: "#008AEF",
		BarSolid: true,
	}}
	if err := w.f.SetConditionalFormat(sheetVacancies,
		fmt.Sprintf("D2:D%d", lastFormattedRow), bar); err != nil {
		return fmt.Errorf("data bar: %w", err)
	}

	icons := []excelize.ConditionalFormatOptions{{
		Type:      "icon_set",
		IconStyle: "3Symbols",
		IconsOnly: true,
	}}
	if err := w.f.SetConditionalFormat(sheetVacancies,
		fmt.Sprintf("E2:E%d", lastFormattedRow), icons); err != nil {
		return fmt.Errorf("icon set: %w", err)
	}
	return nil
}

// AppendRow writes one record at the given sheet row (the first data row is
// 2, under the header). Absent salary bounds leave their cells empty.
func (w *Workbook) AppendRow(rec listing.Record, row int) error {
	set := func(col string, v any) error {
		return w.f.SetCellValue(sheetVacancies, fmt.Sprintf("%s%d", col, row), v)
	}

	if err := set("A", rec.Title); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if rec.SalaryFrom != nil {
		if err := set("B", *rec.SalaryFrom); err != nil {
			return err
		}
	}
	if rec.SalaryTo != nil {
		if err := set("C", *rec.SalaryTo); err != nil {
			return err
		}
	}
	remoteFlag := 0
	if rec.Remote {
		remoteFlag = 1
	}
	for _, c := range []struct {
		col string
		v   any
	}{
		{"D", rec.YearsExperience},
		{"E", remoteFlag},
		{"F", rec.DaysSincePublished},
		{"G", rec.DaysSinceCreated},
		{"H", rec.Employer},
		{"I", rec.URL},
	} {
		if err := set(c.col, c.v); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}

	w.rows++
	w.remote += remoteFlag
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Workbook) Rows() int { return w.rows }

// Close writes the workbook to disk and releases it.
func (w *Workbook) Close() error {
	defer w.f.Close()
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

// Path returns the output file location.
func (w *Workbook) Path() string { return w.path }

func (w *Workbook) chartTitle(kind string) string {
	return fmt.Sprintf("%s: %s (%s)", kind, w.query, w.region)
}
