package testkit

import (
	"testing"

	"vrsurvey/domain/survey"
)

func TestSurveyGenerator_Deterministic(t *testing.T) {
	config := DefaultSurveyConfig()
	config.RespondentCount = 25

	first := NewSurveyGenerator(config).Generate()
	second := NewSurveyGenerator(config).Generate()

	if len(first) != 25 {
		t.Fatalf("Expected 25 respondents, got %d", len(first))
	}
	for i := range first {
		if first[i].Gender != second[i].Gender || len(first[i].Items) != len(second[i].Items) {
			t.Fatalf("Respondent %d differs between runs with the same seed", i+1)
		}
		for it, v := range first[i].Items {
			if second[i].Items[it] != v {
				t.Fatalf("Respondent %d item %s differs: %d vs %d", i+1, it, v, second[i].Items[it])
			}
		}
	}
}

func TestSurveyGenerator_ScoresInRange(t *testing.T) {
	config := DefaultSurveyConfig()
	config.RespondentCount = 200
	config.ItemNoise = 2

	for _, r := range NewSurveyGenerator(config).Generate() {
		if !r.HasDemographics() {
			t.Errorf("Respondent %d is missing demographics", r.ID)
		}
		for it, v := range r.Items {
			if v < survey.MinScore || v > survey.MaxScore {
				t.Errorf("Respondent %d item %s score %d out of range", r.ID, it, v)
			}
		}
	}
}

func TestSurveyGenerator_VRLift(t *testing.T) {
	config := DefaultSurveyConfig()
	config.RespondentCount = 300
	config.StraightlineRate = 0
	config.MissingRate = 0

	var sum2D, sumVR, n2D, nVR float64
	for _, r := range NewSurveyGenerator(config).Generate() {
		for it, v := range r.Items {
			if it.Condition() == survey.ConditionVR {
				sumVR += float64(v)
				nVR++
			} else {
				sum2D += float64(v)
				n2D++
			}
		}
	}

	if lift := sumVR/nVR - sum2D/n2D; lift < 0.3 {
		t.Errorf("Expected VR items to score higher, lift = %.3f", lift)
	}
}
