package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
	"vrsurvey/ports"
)

// TestKit bundles in-memory repositories seeded with synthetic respondents.
type TestKit struct {
	Respondents *InMemoryRespondentRepository
	Runs        *InMemoryRunRepository
}

// NewTestKit creates a kit whose respondent store holds the generator's
// output for config.
func NewTestKit(config SurveyGeneratorConfig) *TestKit {
	respondents := NewInMemoryRespondentRepository()
	for _, r := range NewSurveyGenerator(config).Generate() {
		r := r
		respondents.InsertRespondent(context.Background(), &r)
	}
	return &TestKit{
		Respondents: respondents,
		Runs:        NewInMemoryRunRepository(),
	}
}

// InMemoryRespondentRepository implements ports.RespondentRepository
type InMemoryRespondentRepository struct {
	rows   []survey.Respondent
	nextID int64
	mu     sync.RWMutex
}

var _ ports.RespondentRepository = (*InMemoryRespondentRepository)(nil)

func NewInMemoryRespondentRepository() *InMemoryRespondentRepository {
	return &InMemoryRespondentRepository{nextID: 1}
}

func (s *InMemoryRespondentRepository) ListRespondents(ctx context.Context) ([]survey.Respondent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]survey.Respondent, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *InMemoryRespondentRepository) CountRespondents(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

// InsertRespondent assigns the next id like a SERIAL column and stamps a
// missing submission time.
func (s *InMemoryRespondentRepository) InsertRespondent(ctx context.Context, r *survey.Respondent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.ID = s.nextID
	s.nextID++
	if stored.SubmittedAt.IsZero() {
		stored.SubmittedAt = time.Now().UTC()
	}
	stored.Items = make(map[survey.Item]int, len(r.Items))
	for it, v := range r.Items {
		stored.Items[it] = v
	}
	s.rows = append(s.rows, stored)
	r.ID = stored.ID
	return stored.ID, nil
}

// InMemoryRunRepository implements ports.RunRepository
type InMemoryRunRepository struct {
	reports map[core.RunID]*stats.Report
	mu      sync.RWMutex
}

var _ ports.RunRepository = (*InMemoryRunRepository)(nil)

func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{reports: make(map[core.RunID]*stats.Report)}
}

func (s *InMemoryRunRepository) SaveRun(ctx context.Context, report *stats.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.RunID] = report
	return nil
}

func (s *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*stats.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return report, nil
}

// ListRuns returns the newest runs first, at most limit of them.
func (s *InMemoryRunRepository) ListRuns(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.RunSummary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, ports.RunSummary{
			ID:          r.RunID,
			GeneratedAt: r.GeneratedAt,
			Respondents: r.Respondents,
			Method:      r.Method,
			Alpha:       r.Alpha,
			Significant: len(r.Significant()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
