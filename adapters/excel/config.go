package excel

// DefaultSheet is the worksheet read when none is configured.
const DefaultSheet = "Sheet1"

// ExcelConfig holds configuration for a spreadsheet respondent source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
}

// DefaultExcelConfig returns defaults for spreadsheet processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{Sheet: DefaultSheet}
}
