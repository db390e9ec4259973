package ports

import (
	"context"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
)

// RunSummary is the listing view of a persisted analysis run.
type RunSummary struct {
	ID          core.RunID `json:"id" db:"id"`
	GeneratedAt time.Time  `json:"generated_at" db:"generated_at"`
	Respondents int        `json:"respondents" db:"respondents"`
	Method      string     `json:"method" db:"method"`
	Alpha       float64    `json:"alpha" db:"alpha"`
	Significant int        `json:"significant" db:"significant"`
}

// RunRepository stores analysis reports so results can be compared across
// data collection waves.
type RunRepository interface {
	SaveRun(ctx context.Context, report *stats.Report) error
	GetRun(ctx context.Context, id core.RunID) (*stats.Report, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
