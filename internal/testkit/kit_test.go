package testkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
)

func TestNewTestKit_SeedsRespondents(t *testing.T) {
	config := DefaultSurveyConfig()
	config.RespondentCount = 10
	kit := NewTestKit(config)

	n, err := kit.Respondents.CountRespondents(context.Background())
	if err != nil {
		t.Fatalf("CountRespondents failed: %v", err)
	}
	if n != 10 {
		t.Errorf("Expected 10 respondents, got %d", n)
	}
}

func TestInMemoryRespondentRepository_AssignsIDs(t *testing.T) {
	repo := NewInMemoryRespondentRepository()
	ctx := context.Background()

	r := survey.Respondent{ID: 99, Items: map[survey.Item]int{survey.AllItems[0]: 4}}
	first, _ := repo.InsertRespondent(ctx, &r)
	second, _ := repo.InsertRespondent(ctx, &r)
	if first != 1 || second != 2 {
		t.Errorf("Expected ids 1 and 2, got %d and %d", first, second)
	}

	rows, _ := repo.ListRespondents(ctx)
	if rows[0].SubmittedAt.IsZero() {
		t.Error("Expected submission time to be stamped")
	}
	rows[0].Items[survey.AllItems[0]] = 1
	again, _ := repo.ListRespondents(ctx)
	if again[0].Items[survey.AllItems[0]] != 4 {
		t.Error("Stored answers must not alias the caller's map")
	}
}

func TestInMemoryRunRepository_ListNewestFirst(t *testing.T) {
	repo := NewInMemoryRunRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []core.RunID{"a", "b", "c"} {
		repo.SaveRun(ctx, &stats.Report{RunID: id, GeneratedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	runs, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("Unexpected run order: %+v", runs)
	}

	if _, err := repo.GetRun(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
