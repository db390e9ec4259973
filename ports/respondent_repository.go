package ports

import (
	"context"

	"vrsurvey/domain/survey"
)

// RespondentRepository defines the interface for survey_results persistence
type RespondentRepository interface {
	// ListRespondents returns every stored response ordered by id.
	ListRespondents(ctx context.Context) ([]survey.Respondent, error)

	// CountRespondents returns the number of stored responses.
	CountRespondents(ctx context.Context) (int, error)

	// InsertRespondent stores a submission and returns its assigned id.
	InsertRespondent(ctx context.Context, r *survey.Respondent) (int64, error)
}
