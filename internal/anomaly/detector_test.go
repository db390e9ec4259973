package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	results "vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
)

func respondent(id int64, age string, answer func(i int) int) survey.Respondent {
	items := make(map[survey.Item]int, len(survey.AllItems))
	for i, it := range survey.AllItems {
		items[it] = answer(i)
	}
	return survey.Respondent{
		ID:          id,
		SubmittedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Age:         age,
		Items:       items,
	}
}

func TestStraightliningIsNeverOutlier(t *testing.T) {
	r := respondent(1, "twenty-to-forty", func(int) int { return 4 })

	entries := NewDetector(DefaultConfig()).Screen([]survey.Respondent{r})

	require.Len(t, entries, 1)
	assert.Equal(t, []string{ReasonStraightlining}, entries[0].Reasons)
	assert.True(t, entries[0].Has(results.RuleStraightlining))
	assert.False(t, entries[0].Has(results.RuleOutlier))
	assert.Equal(t, int64(1), entries[0].RespondentID)
	assert.Equal(t, r.SubmittedAt, entries[0].SubmittedAt)
}

func TestOutlier(t *testing.T) {
	r := respondent(2, "forty-to-sixty", func(i int) int {
		if i == 7 {
			return 5
		}
		return 3
	})

	entry, flagged := NewDetector(DefaultConfig()).Check(r)

	require.True(t, flagged)
	assert.Equal(t, []string{ReasonOutlier}, entry.Reasons)
	assert.Equal(t, []results.AnomalyRule{results.RuleOutlier}, entry.Rules)
}

func TestOutlierScoresOwnItemVector(t *testing.T) {
	low := respondent(3, "twenty-to-forty", func(i int) int { return 1 + i%2 })
	crowd := make([]survey.Respondent, 0, 20)
	for id := int64(10); id < 30; id++ {
		crowd = append(crowd, respondent(id, "twenty-to-forty", func(i int) int { return 4 + i%2 }))
	}

	// Composites far below everyone else's do not make an outlier; only an
	// answer far from the respondent's own mean does.
	assert.Empty(t, NewDetector(DefaultConfig()).Screen(append(crowd, low)))
}

func TestAgePlausibility(t *testing.T) {
	varied := func(i int) int { return i%5 + 1 }

	tests := []struct {
		age     string
		flagged bool
		reason  string
	}{
		{"twenty-to-forty", false, ""},
		{"35", false, ""},
		{"10", false, ""},
		{"100", false, ""},
		{"7", true, "Unrealistic age: 7"},
		{" 150 ", true, "Unrealistic age: 150"},
		{"", false, ""},
	}

	d := NewDetector(DefaultConfig())
	for _, tt := range tests {
		entry, flagged := d.Check(respondent(3, tt.age, varied))
		if flagged != tt.flagged {
			t.Errorf("age %q: expected flagged=%v, got %v (%v)", tt.age, tt.flagged, flagged, entry.Reasons)
			continue
		}
		if tt.flagged {
			assert.Equal(t, []string{tt.reason}, entry.Reasons)
		}
	}
}

func TestReasonsKeepRuleOrder(t *testing.T) {
	r := respondent(4, "5", func(int) int { return 1 })

	entry, flagged := NewDetector(DefaultConfig()).Check(r)

	require.True(t, flagged)
	assert.Equal(t, []string{ReasonStraightlining, "Unrealistic age: 5"}, entry.Reasons)
	assert.Equal(t, []results.AnomalyRule{results.RuleStraightlining, results.RuleAge}, entry.Rules)
}

func TestScreenSkipsCleanRespondents(t *testing.T) {
	clean := respondent(5, "sixty-or-more", func(i int) int { return i%5 + 1 })
	flat := respondent(6, "sixty-or-more", func(int) int { return 2 })

	entries := NewDetector(DefaultConfig()).Screen([]survey.Respondent{clean, flat, clean})

	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].RespondentID)
}

func TestMissingItemsAreSkipped(t *testing.T) {
	r := respondent(7, "", func(int) int { return 3 })
	delete(r.Items, survey.TrustView2D)
	delete(r.Items, survey.ConversationActionVR)

	entry, flagged := NewDetector(DefaultConfig()).Check(r)
	require.True(t, flagged)
	assert.Equal(t, []string{ReasonStraightlining}, entry.Reasons)

	empty := survey.Respondent{ID: 8}
	_, flagged = NewDetector(DefaultConfig()).Check(empty)
	assert.False(t, flagged)
}

func TestCustomThreshold(t *testing.T) {
	r := respondent(9, "", func(i int) int {
		if i < 3 {
			return 5
		}
		return 3
	})

	_, flagged := NewDetector(DefaultConfig()).Check(r)
	assert.False(t, flagged)

	_, flagged = NewDetector(Config{ZThreshold: 2, MinAge: 10, MaxAge: 100}).Check(r)
	assert.True(t, flagged)
}
