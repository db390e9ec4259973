package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"vrsurvey/domain/survey"
)

func TestSurveyResultsDDLCoversSchema(t *testing.T) {
	ddl := SurveyResultsDDL()

	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS survey_results"))
	for _, a := range survey.Attributes {
		assert.Contains(t, ddl, string(a)+" TEXT")
	}
	for _, it := range survey.AllItems {
		assert.Contains(t, ddl, string(it)+" INT CHECK")
	}
	assert.NotContains(t, ddl, "trust_view_vr")
	assert.False(t, strings.Contains(ddl, ",\n)"), "trailing comma before closing paren")
}

func TestRunnerVersion(t *testing.T) {
	r := NewRunner(nil)
	assert.Equal(t, "1.1.0", r.Version())
}
