package engine

import (
	"fmt"

	"vrsurvey/domain/core"
	"vrsurvey/domain/survey"
	"vrsurvey/internal/analysis/dist"
	"vrsurvey/internal/anomaly"
)

// Config carries every statistical convention of a run.
type Config struct {
	Alpha           float64
	Method          dist.Method
	CompositeDigits int
	HistogramBins   int
	Anomaly         anomaly.Config
	// GroupBy lists the ANOVA grouping attributes.
	GroupBy []survey.Attribute
	Schema  *survey.Schema
}

// DefaultConfig is the standard analysis: α = 0.05, legacy CDFs,
// composites at three decimals, ten histogram bins, ANOVA by gender, age,
// degree and occupation.
func DefaultConfig() Config {
	return Config{
		Alpha:           0.05,
		Method:          dist.MethodLegacy,
		CompositeDigits: 3,
		HistogramBins:   10,
		Anomaly:         anomaly.DefaultConfig(),
		GroupBy: []survey.Attribute{
			survey.AttrGender,
			survey.AttrAge,
			survey.AttrCollegeDegree,
			survey.AttrOccupation,
		},
		Schema: survey.DefaultSchema(),
	}
}

func (c Config) validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha %v outside (0, 1)", c.Alpha)
	}
	if c.Method != dist.MethodLegacy && c.Method != dist.MethodExact {
		return fmt.Errorf("unknown distribution method %q", c.Method)
	}
	if c.Schema == nil {
		return fmt.Errorf("%w: no schema", core.ErrInvalidSchema)
	}
	if err := c.Schema.Validate(survey.KnownItems()); err != nil {
		return err
	}
	for _, a := range c.GroupBy {
		if _, ok := survey.ParseAttribute(string(a)); !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownAttribute, a)
		}
	}
	return nil
}
