package app

import (
	"context"
	"fmt"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/survey"
	"vrsurvey/internal/errors"
	"vrsurvey/ports"
)

var errEmptySubmission = fmt.Errorf("%w: submission has no answers", core.ErrInvalidAnswer)

// RepositorySource reads respondents from a RespondentRepository.
type RepositorySource struct {
	Repo ports.RespondentRepository
}

// Load returns every stored respondent.
func (s RepositorySource) Load(ctx context.Context) ([]survey.Respondent, error) {
	respondents, err := s.Repo.ListRespondents(ctx)
	if err != nil {
		return nil, errors.DatabaseError("failed to list survey results", err)
	}
	return respondents, nil
}

// Name identifies the source in logs.
func (s RepositorySource) Name() string { return "survey_results" }

// SubmissionService validates and stores survey submissions.
type SubmissionService struct {
	repo ports.RespondentRepository
}

// NewSubmissionService creates a submission service
func NewSubmissionService(repo ports.RespondentRepository) *SubmissionService {
	return &SubmissionService{repo: repo}
}

// Submit decodes a submission keyed by column names or display titles and
// stores it. The stored respondent is returned with its id.
func (s *SubmissionService) Submit(ctx context.Context, fields map[string]string) (*survey.Respondent, error) {
	r, err := survey.FromFields(fields)
	if err != nil {
		return nil, errors.Wrap(err, "invalid submission")
	}
	if len(r.Items) == 0 {
		return nil, errors.Wrap(errEmptySubmission, "invalid submission")
	}
	r.ID = 0
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	id, err := s.repo.InsertRespondent(ctx, &r)
	if err != nil {
		return nil, errors.DatabaseError("failed to store submission", err)
	}
	r.ID = id
	return &r, nil
}

// Count returns the number of stored submissions.
func (s *SubmissionService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.CountRespondents(ctx)
	if err != nil {
		return 0, errors.DatabaseError("failed to count submissions", err)
	}
	return n, nil
}
