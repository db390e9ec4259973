package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vrsurvey/domain/survey"
	"vrsurvey/internal"
	"vrsurvey/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by header.
type Row map[string]string

// Table is a sheet after header processing.
type Table struct {
	Headers []string
	Rows    []Row
}

// DataReader handles reading Excel and CSV exports of survey_results
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(ExcelConfig{FilePath: filePath}, nil)
}

// NewDataReaderWithConfig creates a reader for cfg. An empty sheet name reads
// DefaultSheet.
func NewDataReaderWithConfig(cfg ExcelConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		filePath: cfg.FilePath,
		fileType: fileType,
		sheet:    sheet,
		logger:   logger.WithComponent("DataReader"),
	}
}

// Name identifies the source in logs and reports.
func (r *DataReader) Name() string {
	return r.fileType + ":" + r.filePath
}

// Load reads the file and decodes every data row into a respondent. Rows
// with no values are skipped; a row without an id gets its 1-based data row
// number.
func (r *DataReader) Load(ctx context.Context) ([]survey.Respondent, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	respondents := make([]survey.Respondent, 0, len(data.Rows))
	for i, row := range data.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlank(row) {
			continue
		}
		resp, err := survey.FromFields(row)
		if err != nil {
			return nil, errors.ImportError(r.Name(), fmt.Errorf("row %d: %w", i+2, err))
		}
		if resp.ID == 0 {
			resp.ID = int64(i + 1)
		}
		respondents = append(respondents, resp)
	}

	r.logger.Info("decoded %d respondents from %s", len(respondents), r.filePath)
	return respondents, nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*Table, error) {
	r.logger.Debug("starting to read %s file: %s", r.fileType, r.filePath)

	// Check if file exists
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.ImportError(r.Name(), fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var (
		data *Table
		err  error
	)
	switch r.fileType {
	case "csv":
		data, err = r.readCSVData()
	default:
		data, err = r.readExcelData()
	}
	if err != nil {
		return nil, errors.ImportError(r.Name(), err)
	}
	return data, nil
}

// readExcelData reads the configured sheet into structured format
func (r *DataReader) readExcelData() (*Table, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	r.logger.Debug("Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	readStart := time.Now()
	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into Table format
func (r *DataReader) processRows(rows [][]string) (*Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		// Excel exports often carry a UTF-8 BOM on the first header.
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	var dataRows []Row
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(Row)

		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}

		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &Table{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlank(row Row) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
