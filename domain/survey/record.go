package survey

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vrsurvey/domain/core"
)

// Likert bounds of every item.
const (
	MinScore = 1
	MaxScore = 5
)

var attributeLabels = map[Attribute]string{
	AttrGender:        "Gender",
	AttrAge:           "Age",
	AttrCollegeDegree: "College Degree",
	AttrOccupation:    "Occupation",
	AttrVRAccess:      "VR Access",
}

// Label returns the survey display title of the attribute.
func (a Attribute) Label() string {
	return attributeLabels[a]
}

// columnKey normalizes a header or submission key: column names and display
// titles both map to the column name.
func columnKey(s string) string {
	s = strings.TrimSpace(s)
	for a, l := range attributeLabels {
		if strings.EqualFold(l, s) || string(a) == s {
			return string(a)
		}
	}
	if it, ok := ItemByLabel(s); ok {
		return string(it)
	}
	return strings.ToLower(s)
}

// FromFields builds a respondent from column/value pairs as found in a
// spreadsheet row or a survey submission. Keys may be column names or display
// titles; unknown keys are ignored. Empty item values are treated as
// unanswered. id and submitted_at are optional.
func FromFields(fields map[string]string) (Respondent, error) {
	r := Respondent{Items: make(map[Item]int)}
	for k, raw := range fields {
		v := strings.TrimSpace(raw)
		switch key := columnKey(k); key {
		case "id":
			if v == "" {
				continue
			}
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return Respondent{}, fmt.Errorf("%w: id %q", core.ErrInvalidAnswer, v)
			}
			r.ID = id
		case "submitted_at":
			if v == "" {
				continue
			}
			ts, err := parseTimestamp(v)
			if err != nil {
				return Respondent{}, fmt.Errorf("%w: submitted_at %q", core.ErrInvalidAnswer, v)
			}
			r.SubmittedAt = ts
		case string(AttrGender):
			r.Gender = v
		case string(AttrAge):
			r.Age = v
		case string(AttrCollegeDegree):
			r.CollegeDegree = v
		case string(AttrOccupation):
			r.Occupation = v
		case string(AttrVRAccess):
			r.VRAccess = v
		default:
			it := Item(key)
			if !KnownItems()[it] || v == "" {
				continue
			}
			score, err := ParseScore(v)
			if err != nil {
				return Respondent{}, fmt.Errorf("%s: %w", it, err)
			}
			r.Items[it] = score
		}
	}
	return r, nil
}

// ParseScore parses a Likert answer. Spreadsheets often store integers as
// "4.0", so integral floats are accepted.
func ParseScore(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q is not an integer score", core.ErrInvalidAnswer, s)
	}
	score := int(f)
	if score < MinScore || score > MaxScore {
		return 0, fmt.Errorf("%w: score %d outside %d-%d", core.ErrInvalidAnswer, score, MinScore, MaxScore)
	}
	return score, nil
}

func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07", "2006-01-02 15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
