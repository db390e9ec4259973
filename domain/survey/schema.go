package survey

import (
	"fmt"

	"vrsurvey/domain/core"
)

// Scale is the ordered item list measuring one construct under one condition.
type Scale struct {
	Construct Construct `json:"construct"`
	Condition Condition `json:"condition"`
	Items     []Item    `json:"items"`
}

// Name identifies the scale in error messages, e.g. "trust/vr".
func (s Scale) Name() string {
	return string(s.Construct) + "/" + string(s.Condition)
}

// Schema maps every construct to its 2D and VR scales. Constructs keep their
// declaration order so reports come out stable.
type Schema struct {
	constructs []Construct
	scales     map[Construct]map[Condition][]Item
}

// NewSchema builds a schema from scales in the given order. It does not
// validate; call Validate before use.
func NewSchema(scales ...Scale) *Schema {
	s := &Schema{scales: make(map[Construct]map[Condition][]Item)}
	for _, sc := range scales {
		byCond, ok := s.scales[sc.Construct]
		if !ok {
			byCond = make(map[Condition][]Item)
			s.scales[sc.Construct] = byCond
			s.constructs = append(s.constructs, sc.Construct)
		}
		byCond[sc.Condition] = append([]Item(nil), sc.Items...)
	}
	return s
}

// DefaultSchema is the questionnaire used in the study.
func DefaultSchema() *Schema {
	return NewSchema(
		Scale{ConstructTrust, Condition2D, []Item{
			TrustAnalyze2D, TrustImagination2D, TrustView2D, TrustMaterials2D, TrustDetails2D, TrustDeveloper2D,
		}},
		Scale{ConstructTrust, ConditionVR, []Item{
			TrustAnalyzeVR, TrustImaginationVR, TrustMaterialsVR, TrustDetailsVR, TrustDeveloperVR,
		}},
		Scale{ConstructUncertainty, Condition2D, []Item{
			UncertaintyRealPresence2D, UncertaintyClarity2D, UncertaintyDetailsDecision2D, UncertaintyEnoughDetails2D,
		}},
		Scale{ConstructUncertainty, ConditionVR, []Item{
			UncertaintyRealPresenceVR, UncertaintyClarityVR, UncertaintyDetailsDecisionVR, UncertaintyEnoughDetailsVR,
		}},
		Scale{ConstructPurchaseIntent, Condition2D, []Item{
			ConversationPresence2D, ConversationBuyDecision2D, ConversationAction2D,
		}},
		Scale{ConstructPurchaseIntent, ConditionVR, []Item{
			ConversationPresenceVR, ConversationBuyDecisionVR, ConversationActionVR,
		}},
	)
}

// Constructs returns the constructs in declaration order.
func (s *Schema) Constructs() []Construct {
	return append([]Construct(nil), s.constructs...)
}

// Items returns the scale for a construct and condition.
func (s *Schema) Items(c Construct, cond Condition) ([]Item, error) {
	byCond, ok := s.scales[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownConstruct, c)
	}
	return byCond[cond], nil
}

// HasConstruct reports whether the schema defines c.
func (s *Schema) HasConstruct(c Construct) bool {
	_, ok := s.scales[c]
	return ok
}

// Validate checks the schema against the record field set: each construct
// needs a non-empty scale for both conditions, with known, unique items.
func (s *Schema) Validate(known map[Item]bool) error {
	if len(s.constructs) == 0 {
		return fmt.Errorf("%w: no constructs defined", core.ErrInvalidSchema)
	}
	for _, c := range s.constructs {
		for _, cond := range Conditions {
			name := Scale{Construct: c, Condition: cond}.Name()
			items := s.scales[c][cond]
			if len(items) == 0 {
				return core.NewSchemaError(core.ErrEmptyScale, name, "no items")
			}
			seen := make(map[Item]bool, len(items))
			for _, it := range items {
				if !known[it] {
					return core.NewSchemaError(core.ErrUnknownItem, name, string(it))
				}
				if seen[it] {
					return core.NewSchemaError(core.ErrDuplicateItem, name, string(it))
				}
				seen[it] = true
			}
		}
	}
	return nil
}
