package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// AttachCharts adds the three chart sheets: grouped columns for the salary
// statistics, horizontal bars for the top-20 skills, and a pie for the
// remote/office split. Ranges point at the hidden data sheets.
func (w *Workbook) AttachCharts() error {
	dim := excelize.ChartDimension{Width: 960, Height: 560}
	noLegend := excelize.ChartLegend{Position: "none"}

	salary := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Categories: fmt.Sprintf("%s!$A$2:$A$6", sheetSalaryData),
				Values:     fmt.Sprintf("%s!$B$2:$B$6", sheetSalaryData),
			},
			{
				Categories: fmt.Sprintf("%s!$A$2:$A$6", sheetSalaryData),
				Values:     fmt.Sprintf("%s!$C$2:$C$6", sheetSalaryData),
			},
		},
		Title:     []excelize.RichTextRun{{Text: w.chartTitle("Salary profile")}},
		Legend:    noLegend,
		Dimension: dim,
	}
	if err := w.addChartSheet(chartSalary, salary); err != nil {
		return err
	}

	skills := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Categories: fmt.Sprintf("%s!$A$1:$A$%d", sheetSkillsData, topSkillCount),
			Values:     fmt.Sprintf("%s!$B$1:$B$%d", sheetSkillsData, topSkillCount),
		}},
		Title:     []excelize.RichTextRun{{Text: w.chartTitle("Top-20 skills")}},
		Legend:    noLegend,
		Dimension: dim,
	}
	if err := w.addChartSheet(chartSkills, skills); err != nil {
		return err
	}

	remote := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: fmt.Sprintf("%s!$A$1:$A$2", sheetRemoteData),
			Values:     fmt.Sprintf("%s!$B$1:$B$2", sheetRemoteData),
		}},
		Title:     []excelize.RichTextRun{{Text: w.chartTitle("Work format")}},
		Legend:    noLegend,
		Dimension: dim,
	}
	return w.addChartSheet(chartRemote, remote)
}

func (w *Workbook) addChartSheet(name string, chart *excelize.Chart) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("chart sheet %s: %w", name, err)
	}
	if err := w.f.AddChart(name, "A1", chart); err != nil {
		return fmt.Errorf("chart %s: %w", name, err)
	}
	return nil
}
