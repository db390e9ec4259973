package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vrsurvey/domain/survey"
	apperrors "vrsurvey/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVWithDisplayHeaders(t *testing.T) {
	path := writeFile(t, "responses.csv", "\ufeffGender,Age,College Degree,Occupation,Trust Analyze 2D,Trust Analyze VR\n"+
		"Female,twenty-to-forty,Master,Student,3,5\n"+
		",,,,,\n"+
		"Man,sixty-or-more,Diploma,Retired,2,\n")

	respondents, err := NewDataReader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, respondents, 2)

	assert.Equal(t, int64(1), respondents[0].ID)
	assert.Equal(t, "Female", respondents[0].Gender)
	assert.Equal(t, 5, respondents[0].Items[survey.TrustAnalyzeVR])

	assert.Equal(t, int64(3), respondents[1].ID)
	_, answered := respondents[1].Answer(survey.TrustAnalyzeVR)
	assert.False(t, answered)
}

func TestLoadCSVRejectsBadScore(t *testing.T) {
	path := writeFile(t, "bad.csv", "id,trust_view_2d\n1,7\n")

	_, err := NewDataReader(path).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeImportError, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadDataRequiresDataRow(t *testing.T) {
	path := writeFile(t, "empty.csv", "id,gender\n")

	_, err := NewDataReader(path).ReadData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least a header row and one data row")
}

func TestReadDataMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.xlsx")).ReadData()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeImportError, apperrors.GetCode(err))
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Responses")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Responses", "A1", &[]interface{}{"id", "gender", "age", "uncertainty_clarity_2d", "uncertainty_clarity_vr"}))
	require.NoError(t, f.SetSheetRow("Responses", "A2", &[]interface{}{42, "Man", "35", 4, 2}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader := NewDataReaderWithConfig(ExcelConfig{FilePath: path, Sheet: "Responses"}, nil)
	respondents, err := reader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, respondents, 1)

	r := respondents[0]
	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, "35", r.Age)
	assert.Equal(t, 4, r.Items[survey.UncertaintyClarity2D])
	assert.Equal(t, 2, r.Items[survey.UncertaintyClarityVR])
	assert.Equal(t, "xlsx:"+path, reader.Name())
}

func TestWriteRespondentsRoundTrip(t *testing.T) {
	original := []survey.Respondent{
		{
			ID:          5,
			SubmittedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			Gender:      "Female",
			Age:         "forty-to-sixty",
			VRAccess:    "No",
			Items:       map[survey.Item]int{survey.TrustDetails2D: 4, survey.TrustDetailsVR: 5},
		},
	}

	for _, name := range []string{"export.csv", "export.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteRespondents(path, original))

			loaded, err := NewDataReader(path).Load(context.Background())
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, original[0], loaded[0])
		})
	}
}
