package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vrsurvey/domain/survey"
	"vrsurvey/ports"

	"github.com/jmoiron/sqlx"
)

// respondentRepository implements ports.RespondentRepository over the
// survey_results table.
type respondentRepository struct {
	db *sqlx.DB
}

// NewRespondentRepository creates a new PostgreSQL respondent repository
func NewRespondentRepository(db *sqlx.DB) ports.RespondentRepository {
	return &respondentRepository{db: db}
}

// respondentColumns lists the survey_results columns in select order.
func respondentColumns() []string {
	cols := []string{"id", "submitted_at"}
	for _, a := range survey.Attributes {
		cols = append(cols, string(a))
	}
	for _, it := range survey.AllItems {
		cols = append(cols, string(it))
	}
	return cols
}

// ListRespondents returns every stored response ordered by id
func (r *respondentRepository) ListRespondents(ctx context.Context) ([]survey.Respondent, error) {
	query := fmt.Sprintf("SELECT %s FROM survey_results ORDER BY id", strings.Join(respondentColumns(), ", "))

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query survey results: %w", err)
	}
	defer rows.Close()

	var respondents []survey.Respondent
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan survey result: %w", err)
		}
		resp, err := respondentFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode survey result %v: %w", row["id"], err)
		}
		respondents = append(respondents, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate survey results: %w", err)
	}

	return respondents, nil
}

// CountRespondents returns the number of stored responses
func (r *respondentRepository) CountRespondents(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM survey_results"); err != nil {
		return 0, fmt.Errorf("failed to count survey results: %w", err)
	}
	return count, nil
}

// InsertRespondent stores a submission and returns the generated id
func (r *respondentRepository) InsertRespondent(ctx context.Context, resp *survey.Respondent) (int64, error) {
	cols, args := insertArgs(resp)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO survey_results (%s) VALUES (%s) RETURNING id",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert survey result: %w", err)
	}
	resp.ID = id
	return id, nil
}

// insertArgs maps a respondent onto columns. Unanswered items and empty
// demographics are stored as NULL; a zero SubmittedAt defers to the column
// default.
func insertArgs(resp *survey.Respondent) ([]string, []interface{}) {
	var cols []string
	var args []interface{}

	if !resp.SubmittedAt.IsZero() {
		cols = append(cols, "submitted_at")
		args = append(args, resp.SubmittedAt)
	}
	for _, a := range survey.Attributes {
		cols = append(cols, string(a))
		if v := strings.TrimSpace(resp.Attribute(a)); v != "" {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	for _, it := range survey.AllItems {
		cols = append(cols, string(it))
		if v, ok := resp.Answer(it); ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	return cols, args
}

// respondentFromRow converts a MapScan row into a respondent. lib/pq returns
// INT as int64, TEXT as string or []byte and TIMESTAMPTZ as time.Time.
func respondentFromRow(row map[string]interface{}) (survey.Respondent, error) {
	fields := make(map[string]string, len(row))
	var submitted time.Time
	for k, v := range row {
		switch val := v.(type) {
		case nil:
		case time.Time:
			submitted = val
		case []byte:
			fields[k] = string(val)
		case int64:
			fields[k] = fmt.Sprintf("%d", val)
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	resp, err := survey.FromFields(fields)
	if err != nil {
		return survey.Respondent{}, err
	}
	resp.SubmittedAt = submitted
	return resp, nil
}
