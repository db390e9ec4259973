package engine

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
	"vrsurvey/internal"
	"vrsurvey/internal/analysis/dist"
)

var (
	genders     = []string{"Man", "Female"}
	ages        = []string{"zero-to-twenty", "twenty-to-forty", "forty-to-sixty"}
	degrees     = []string{"Diploma", "Bachelor", "Master"}
	occupations = []string{"Student", "Employee"}
)

// sample builds n respondents who rate VR about two points above 2D.
func sample(n int) []survey.Respondent {
	out := make([]survey.Respondent, 0, n)
	for i := 0; i < n; i++ {
		items := make(map[survey.Item]int)
		for j, it := range survey.AllItems {
			base := 2
			if it.Condition() == survey.ConditionVR {
				base = 4
			}
			items[it] = base + (i+j)%2
		}
		out = append(out, survey.Respondent{
			ID:            int64(i + 1),
			SubmittedAt:   time.Date(2024, 3, 1, 0, 0, i, 0, time.UTC),
			Gender:        genders[i%len(genders)],
			Age:           ages[i%len(ages)],
			CollegeDegree: degrees[i%len(degrees)],
			Occupation:    occupations[i%len(occupations)],
			VRAccess:      "No",
			Items:         items,
		})
	}
	return out
}

func quietEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	var buf bytes.Buffer
	e, err := New(cfg, internal.NewLoggerTo(&buf, internal.LogLevelError))
	require.NoError(t, err)
	return e
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroupBy = append(cfg.GroupBy, "income")
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, core.ErrUnknownAttribute)

	cfg = DefaultConfig()
	cfg.Alpha = 0
	_, err = New(cfg, nil)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Schema = survey.NewSchema(survey.Scale{Construct: survey.ConstructTrust, Condition: survey.Condition2D, Items: []survey.Item{survey.TrustAnalyze2D}})
	_, err = New(cfg, nil)
	assert.True(t, core.IsSchemaError(err))
}

func TestDescribeAndNormalityOrder(t *testing.T) {
	e := quietEngine(t, DefaultConfig())
	respondents := sample(20)

	desc := e.Describe(respondents)
	require.Len(t, desc, 6)
	assert.Equal(t, "trust_2d", desc[0].Variable)
	assert.Equal(t, "trust_vr", desc[1].Variable)
	assert.Equal(t, "purchase_intent_vr", desc[5].Variable)
	assert.Equal(t, 20, desc[0].Count)
	assert.InDelta(t, 2.5, desc[0].Mean.Float64(), 1e-9)

	norm := e.Normality(respondents)
	require.Len(t, norm, 6)
	assert.Equal(t, "uncertainty_2d", norm[2].Variable)

	distributions := e.Distributions(respondents)
	require.Len(t, distributions, 6)
	assert.Len(t, distributions[1].Histogram, 10)
}

func TestCompareFindsVRAdvantage(t *testing.T) {
	e := quietEngine(t, DefaultConfig())

	comparisons := e.Compare(sample(30))

	require.Len(t, comparisons, 3)
	for _, c := range comparisons {
		require.NotNil(t, c.Result(), "construct %s: %s", c.Construct, c.Error)
		assert.True(t, c.Result().IsSignificant(), "construct %s", c.Construct)
		assert.Equal(t, 30, c.N)
	}
}

func TestCompareRecordsDegenerateConstruct(t *testing.T) {
	e := quietEngine(t, DefaultConfig())
	respondents := sample(4)
	for i := range respondents {
		delete(respondents[i].Items, survey.ConversationActionVR)
	}

	cmp := e.CompareConstruct(respondents, survey.ConstructPurchaseIntent)
	assert.Nil(t, cmp.Result())
	assert.NotEmpty(t, cmp.Error)
}

func TestANOVA(t *testing.T) {
	e := quietEngine(t, DefaultConfig())
	respondents := sample(24)
	respondents[0].Gender = ""

	results, err := e.ANOVA(respondents)
	require.NoError(t, err)
	require.Len(t, results, 12)

	first := results[0]
	assert.Equal(t, "gender", first.Attribute)
	assert.Equal(t, "trust_diff", first.Dependent)
	require.Len(t, first.Groups, 2)
	assert.Equal(t, 23, first.Groups[0].Count+first.Groups[1].Count)

	byAge, err := e.ANOVAFor(respondents, survey.AttrAge)
	require.NoError(t, err)
	assert.Len(t, byAge[0].Groups, 3)
}

func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = dist.MethodExact
	e := quietEngine(t, cfg)

	respondents := sample(30)
	flat := sample(1)[0]
	flat.ID = 99
	for it := range flat.Items {
		flat.Items[it] = 3
	}
	respondents = append(respondents, flat)

	report, err := e.Run(context.Background(), respondents)
	require.NoError(t, err)

	assert.False(t, core.ID(report.RunID).IsEmpty())
	assert.Equal(t, 31, report.Respondents)
	assert.Equal(t, "exact", report.Method)
	require.Len(t, report.Anomalies, 1)
	assert.Equal(t, int64(99), report.Anomalies[0].RespondentID)
	assert.Len(t, report.Descriptives, 6)
	assert.Len(t, report.Normality, 6)
	assert.Len(t, report.Comparisons, 3)
	assert.Len(t, report.ANOVA, 12)
	assert.Len(t, report.Demographics, len(survey.Attributes))
	assert.False(t, report.GeneratedAt.IsZero())

	assert.Equal(t, "trust", report.Comparisons[0].Construct)
	assert.Equal(t, "purchase_intent", report.Comparisons[2].Construct)
	assert.Equal(t, "occupation", report.ANOVA[11].Attribute)
}

func TestRunContracts(t *testing.T) {
	e := quietEngine(t, DefaultConfig())

	_, err := e.Run(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx, sample(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunIsRepeatable(t *testing.T) {
	e := quietEngine(t, DefaultConfig())
	respondents := sample(12)

	a, err := e.Run(context.Background(), respondents)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), respondents)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Descriptives, b.Descriptives)
	assert.Equal(t, a.Comparisons[0].Test, b.Comparisons[0].Test)
	assert.Equal(t, stats.TestKind(a.Comparisons[0].Test), b.Comparisons[0].Result().Kind())
}

func TestNormalityCarriesReferenceP(t *testing.T) {
	respondents := sample(40)
	for i := range respondents {
		for _, it := range survey.AllItems {
			respondents[i].Items[it] = 1 + (i*i)%5
		}
	}

	var buf bytes.Buffer
	e, err := New(DefaultConfig(), internal.NewLoggerTo(&buf, internal.LogLevelWarn))
	require.NoError(t, err)

	for _, v := range e.Normality(respondents) {
		require.False(t, v.ReferenceP.IsNaN(), v.Variable)
		assert.Less(t, v.ReferenceDrift(), 1e-3, v.Variable)
		assert.False(t, v.Fallback, v.Variable)
	}
	assert.NotContains(t, buf.String(), "differs from reference")
}

func TestNormalityWarnsOnLegacyFallback(t *testing.T) {
	respondents := sample(100)
	for i := range respondents {
		for _, it := range survey.AllItems {
			respondents[i].Items[it] = 1
			if i == 0 {
				respondents[i].Items[it] = 5
			}
		}
	}

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Method = dist.MethodLegacy
	e, err := New(cfg, internal.NewLoggerTo(&buf, internal.LogLevelWarn))
	require.NoError(t, err)

	for _, v := range e.Normality(respondents) {
		assert.True(t, v.Fallback, v.Variable)
		assert.False(t, v.IsNormal, v.Variable)
		assert.Less(t, v.PValue.Float64(), 1e-6, v.Variable)
	}
	assert.Contains(t, buf.String(), "did not converge")
}
