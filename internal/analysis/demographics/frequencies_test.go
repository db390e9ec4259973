package demographics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrsurvey/domain/core"
	"vrsurvey/domain/survey"
)

func TestFrequencies(t *testing.T) {
	respondents := []survey.Respondent{
		{Gender: "Female", Occupation: "Student"},
		{Gender: "Man", Occupation: "Freelancer"},
		{Gender: "Female", Occupation: "Student"},
		{Gender: "", Occupation: "Manager"},
	}

	gender, err := Frequencies(respondents, survey.AttrGender)
	require.NoError(t, err)
	assert.Equal(t, 4, gender.Total)
	require.Len(t, gender.Rows, 3)
	assert.Equal(t, "Man", gender.Rows[0].Category)
	assert.Equal(t, 1, gender.Rows[0].Count)
	assert.Equal(t, "Female", gender.Rows[1].Category)
	assert.Equal(t, 50.0, gender.Rows[1].Percent.Float64())
	assert.Equal(t, Unknown, gender.Rows[2].Category)

	occ, err := Frequencies(respondents, survey.AttrOccupation)
	require.NoError(t, err)
	var cats []string
	for _, r := range occ.Rows {
		cats = append(cats, r.Category)
	}
	assert.Equal(t, []string{"Student", "Employee", "Manager", "Retired", "Other", "Freelancer"}, cats)
	assert.Equal(t, 0, occ.Rows[1].Count)
}

func TestFrequenciesUnknownAttribute(t *testing.T) {
	_, err := Frequencies(nil, "income")
	assert.ErrorIs(t, err, core.ErrUnknownAttribute)
}

func TestFrequenciesEmpty(t *testing.T) {
	table, err := Frequencies(nil, survey.AttrVRAccess)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Total)
	require.Len(t, table.Rows, 2)
	assert.True(t, table.Rows[0].Percent.IsNaN())
}

func TestAll(t *testing.T) {
	tables := All([]survey.Respondent{{Gender: "Man", VRAccess: "Yes"}})
	require.Len(t, tables, len(survey.Attributes))
	assert.Equal(t, "vr_access", tables[4].Attribute)
	assert.Equal(t, 100.0, tables[4].Rows[0].Percent.Float64())
}
