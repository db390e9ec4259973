package survey

import (
	"strings"
	"time"
)

// Condition is the presentation medium a block of items was answered under.
type Condition string

const (
	Condition2D Condition = "2d"
	ConditionVR Condition = "vr"
)

// Conditions lists both matched conditions, traditional media first.
var Conditions = []Condition{Condition2D, ConditionVR}

// Label returns the display suffix used in survey field titles.
func (c Condition) Label() string {
	return strings.ToUpper(string(c))
}

// Construct is a latent variable measured by a scale of Likert items.
type Construct string

const (
	ConstructTrust          Construct = "trust"
	ConstructUncertainty    Construct = "uncertainty"
	ConstructPurchaseIntent Construct = "purchase_intent"
)

// Variable names one composite column, e.g. "trust_vr".
type Variable string

// VariableOf builds the column name for a construct under a condition.
func VariableOf(c Construct, cond Condition) Variable {
	return Variable(string(c) + "_" + string(cond))
}

// Item is the field identifier of a single Likert question, matching the
// survey_results column name.
type Item string

// Condition derives the condition from the item suffix.
func (i Item) Condition() Condition {
	if strings.HasSuffix(string(i), "_vr") {
		return ConditionVR
	}
	return Condition2D
}

// Label renders the survey display title, e.g. "Trust Analyze 2D".
func (i Item) Label() string {
	parts := strings.Split(string(i), "_")
	for idx, p := range parts {
		if idx == len(parts)-1 {
			parts[idx] = strings.ToUpper(p)
			continue
		}
		if p == "" {
			continue
		}
		parts[idx] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Traditional-media items.
const (
	TrustAnalyze2D               Item = "trust_analyze_2d"
	TrustImagination2D           Item = "trust_imagination_2d"
	TrustView2D                  Item = "trust_view_2d"
	TrustMaterials2D             Item = "trust_materials_2d"
	TrustDetails2D               Item = "trust_details_2d"
	TrustDeveloper2D             Item = "trust_developer_2d"
	ConversationPresence2D       Item = "conversation_presence_2d"
	ConversationBuyDecision2D    Item = "conversation_buy_decision_2d"
	ConversationAction2D         Item = "conversation_action_2d"
	UncertaintyRealPresence2D    Item = "uncertainty_real_presence_2d"
	UncertaintyClarity2D         Item = "uncertainty_clarity_2d"
	UncertaintyDetailsDecision2D Item = "uncertainty_details_decision_2d"
	UncertaintyEnoughDetails2D   Item = "uncertainty_enough_details_2d"
)

// Virtual-reality items. The VR trust block has no "view" question.
const (
	TrustAnalyzeVR               Item = "trust_analyze_vr"
	TrustImaginationVR           Item = "trust_imagination_vr"
	TrustMaterialsVR             Item = "trust_materials_vr"
	TrustDetailsVR               Item = "trust_details_vr"
	TrustDeveloperVR             Item = "trust_developer_vr"
	ConversationPresenceVR       Item = "conversation_presence_vr"
	ConversationBuyDecisionVR    Item = "conversation_buy_decision_vr"
	ConversationActionVR         Item = "conversation_action_vr"
	UncertaintyRealPresenceVR    Item = "uncertainty_real_presence_vr"
	UncertaintyClarityVR         Item = "uncertainty_clarity_vr"
	UncertaintyDetailsDecisionVR Item = "uncertainty_details_decision_vr"
	UncertaintyEnoughDetailsVR   Item = "uncertainty_enough_details_vr"
)

// AllItems is the full record schema in questionnaire order. The anomaly
// detector screens answers in exactly this order.
var AllItems = []Item{
	TrustAnalyze2D, TrustImagination2D, TrustView2D, TrustMaterials2D, TrustDetails2D, TrustDeveloper2D,
	ConversationPresence2D, ConversationBuyDecision2D, ConversationAction2D,
	UncertaintyRealPresence2D, UncertaintyClarity2D, UncertaintyDetailsDecision2D, UncertaintyEnoughDetails2D,
	TrustAnalyzeVR, TrustImaginationVR, TrustMaterialsVR, TrustDetailsVR, TrustDeveloperVR,
	ConversationPresenceVR, ConversationBuyDecisionVR, ConversationActionVR,
	UncertaintyRealPresenceVR, UncertaintyClarityVR, UncertaintyDetailsDecisionVR, UncertaintyEnoughDetailsVR,
}

// KnownItems returns the record schema as a lookup set.
func KnownItems() map[Item]bool {
	known := make(map[Item]bool, len(AllItems))
	for _, it := range AllItems {
		known[it] = true
	}
	return known
}

// ItemByLabel resolves either a column name or a display title to an Item.
func ItemByLabel(s string) (Item, bool) {
	s = strings.TrimSpace(s)
	for _, it := range AllItems {
		if string(it) == s || strings.EqualFold(it.Label(), s) {
			return it, true
		}
	}
	return "", false
}

// Attribute is a demographic grouping column.
type Attribute string

const (
	AttrGender        Attribute = "gender"
	AttrAge           Attribute = "age"
	AttrCollegeDegree Attribute = "college_degree"
	AttrOccupation    Attribute = "occupation"
	AttrVRAccess      Attribute = "vr_access"
)

// Attributes lists every demographic column in questionnaire order.
var Attributes = []Attribute{AttrGender, AttrAge, AttrCollegeDegree, AttrOccupation, AttrVRAccess}

// ParseAttribute validates a demographic column name.
func ParseAttribute(s string) (Attribute, bool) {
	for _, a := range Attributes {
		if string(a) == strings.TrimSpace(s) {
			return a, true
		}
	}
	return "", false
}

// Respondent is one completed survey. Missing Likert answers are absent from
// Items; empty demographic strings mean the answer is missing.
type Respondent struct {
	ID            int64        `json:"id" db:"id"`
	SubmittedAt   time.Time    `json:"submitted_at" db:"submitted_at"`
	Gender        string       `json:"gender" db:"gender"`
	Age           string       `json:"age" db:"age"`
	CollegeDegree string       `json:"college_degree" db:"college_degree"`
	Occupation    string       `json:"occupation" db:"occupation"`
	VRAccess      string       `json:"vr_access" db:"vr_access"`
	Items         map[Item]int `json:"items"`
}

// Attribute returns the value of a demographic column.
func (r Respondent) Attribute(a Attribute) string {
	switch a {
	case AttrGender:
		return r.Gender
	case AttrAge:
		return r.Age
	case AttrCollegeDegree:
		return r.CollegeDegree
	case AttrOccupation:
		return r.Occupation
	case AttrVRAccess:
		return r.VRAccess
	}
	return ""
}

// Answer returns an item score and whether it was answered.
func (r Respondent) Answer(it Item) (int, bool) {
	v, ok := r.Items[it]
	return v, ok
}

// HasDemographics reports whether every grouping attribute used by the
// demographic analysis is present.
func (r Respondent) HasDemographics() bool {
	return strings.TrimSpace(r.Gender) != "" &&
		strings.TrimSpace(r.Age) != "" &&
		strings.TrimSpace(r.CollegeDegree) != "" &&
		strings.TrimSpace(r.Occupation) != ""
}

var categories = map[Attribute][]string{
	AttrGender:        {"Man", "Female"},
	AttrAge:           {"zero-to-twenty", "twenty-to-forty", "forty-to-sixty", "sixty-or-more"},
	AttrCollegeDegree: {"Below Diploma", "Diploma", "Bachelor", "Master", "Doctorate"},
	AttrOccupation:    {"Student", "Employee", "Manager", "Retired", "Other"},
	AttrVRAccess:      {"Yes", "No"},
}

// Categories returns the questionnaire's answer options for a in display
// order. Recorded data may contain values outside this list.
func Categories(a Attribute) []string {
	return append([]string(nil), categories[a]...)
}

var ageLabels = map[string]string{
	"zero-to-twenty":  "0-20",
	"twenty-to-forty": "20-40",
	"forty-to-sixty":  "40-60",
	"sixty-or-more":   "60+",
}

// AgeLabel renders an age bracket as a numeric range; other values pass
// through.
func AgeLabel(v string) string {
	if l, ok := ageLabels[v]; ok {
		return l
	}
	return v
}
