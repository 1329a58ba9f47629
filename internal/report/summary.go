package report

import "fmt"

// SummarizeSkills writes the 20 most frequent skill tags to the hidden
// skills sheet, least frequent of the top-20 first so the horizontal bar
// chart reads upward.
func (w *Workbook) SummarizeSkills(occurrences []string) error {
	top := TopSkills(occurrences, topSkillCount)
	row := 1
	for i := len(top) - 1; i >= 0; i-- {
		if err := w.f.SetCellValue(sheetSkillsData, fmt.Sprintf("A%d", row), top[i].Name); err != nil {
			return fmt.Errorf("skills summary: %w", err)
		}
		if err := w.f.SetCellValue(sheetSkillsData, fmt.Sprintf("B%d", row), top[i].Count); err != nil {
			return fmt.Errorf("skills summary: %w", err)
		}
		row++
	}
	return w.f.SetColWidth(sheetSkillsData, "A", "A", 30)
}

// SummarizeSalary writes the descriptive statistics of the midpoint
// sequence. An empty sequence writes nothing: no salary rows, no summary.
func (w *Workbook) SummarizeSalary(midpoints []float64) error {
	if len(midpoints) == 0 {
		return nil
	}

	stats := []struct {
		label string
		value int
	}{
		{"Median", int(Median(midpoints))},
		{"Mean", int(Mean(midpoints))},
		{"Mode", int(Mode(midpoints))},
	}

	if err := w.f.SetCellValue(sheetSalaryData, "A1", "Salary"); err != nil {
		return fmt.Errorf("salary summary: %w", err)
	}
	for i, s := range stats {
		row := i + 2
		if err := w.f.SetCellValue(sheetSalaryData, fmt.Sprintf("A%d", row), s.label); err != nil {
			return fmt.Errorf("salary summary: %w", err)
		}
		if err := w.f.SetCellValue(sheetSalaryData, fmt.Sprintf("B%d", row), s.value); err != nil {
			return fmt.Errorf("salary summary: %w", err)
		}
	}

	// Extremes come from the visible salary columns. Maximum lands in its
	// own column so the chart can plot it as a second series.
	if err := w.f.SetCellValue(sheetSalaryData, "A5", "Minimum"); err != nil {
		return err
	}
	if err := w.f.SetCellFormula(sheetSalaryData, "B5",
		fmt.Sprintf("MIN(%s!B:B,%s!C:C)", sheetVacancies, sheetVacancies)); err != nil {
		return fmt.Errorf("salary summary: %w", err)
	}
	if err := w.f.SetCellValue(sheetSalaryData, "A6", "Maximum"); err != nil {
		return err
	}
	if err := w.f.SetCellFormula(sheetSalaryData, "C6",
		fmt.Sprintf("MAX(%s!B:B,%s!C:C)", sheetVacancies, sheetVacancies)); err != nil {
		return fmt.Errorf("salary summary: %w", err)
	}

	return w.f.SetColWidth(sheetSalaryData, "A", "A", 30)
}

// SummarizeRemote counts remote against office from the rows already
// written: office is the complement, not a second pass over the data.
func (w *Workbook) SummarizeRemote() error {
	office := w.rows - w.remote
	cells := []struct {
		cell string
		v    any
	}{
		{"A1", "Remote"}, {"B1", w.remote},
		{"A2", "Office"}, {"B2", office},
	}
	for _, c := range cells {
		if err := w.f.SetCellValue(sheetRemoteData, c.cell, c.v); err != nil {
			return fmt.Errorf("remote summary: %w", err)
		}
	}
	return nil
}
