package ports

import (
	"context"

	"vrsurvey/domain/survey"
)

// RespondentSource loads the full respondent set for an analysis run,
// whether from the database or a spreadsheet export.
type RespondentSource interface {
	Load(ctx context.Context) ([]survey.Respondent, error)
	Name() string
}
