package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vrsurvey/domain/survey"

	"github.com/xuri/excelize/v2"
)

// ExportHeaders is the column layout written by WriteRespondents, matching
// the survey_results table.
func ExportHeaders() []string {
	headers := []string{"id", "submitted_at"}
	for _, a := range survey.Attributes {
		headers = append(headers, string(a))
	}
	for _, it := range survey.AllItems {
		headers = append(headers, string(it))
	}
	return headers
}

func exportRow(r survey.Respondent) []string {
	row := []string{strconv.FormatInt(r.ID, 10), ""}
	if !r.SubmittedAt.IsZero() {
		row[1] = r.SubmittedAt.UTC().Format(time.RFC3339)
	}
	for _, a := range survey.Attributes {
		row = append(row, r.Attribute(a))
	}
	for _, it := range survey.AllItems {
		if v, ok := r.Answer(it); ok {
			row = append(row, strconv.Itoa(v))
		} else {
			row = append(row, "")
		}
	}
	return row
}

// WriteRespondents exports respondents to path as xlsx or csv, chosen by
// extension. The output reads back with DataReader.
func WriteRespondents(path string, respondents []survey.Respondent) error {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return writeCSV(path, respondents)
	}
	return writeXLSX(path, DefaultSheet, respondents)
}

func writeCSV(path string, respondents []survey.Respondent) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(ExportHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range respondents {
		if err := w.Write(exportRow(r)); err != nil {
			return fmt.Errorf("failed to write respondent %d: %w", r.ID, err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path, sheet string, respondents []survey.Respondent) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	write := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			if n, err := strconv.Atoi(v); err == nil && i != 1 {
				row[i] = n
			} else {
				row[i] = v
			}
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := write(1, ExportHeaders()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range respondents {
		if err := write(i+2, exportRow(r)); err != nil {
			return fmt.Errorf("failed to write respondent %d: %w", r.ID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
