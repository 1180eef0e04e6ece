package scoring

import "eapmetrics/internal/model"

// Likert bounds
const (
	ScaleMin = 1
	ScaleMax = 5
	NPSMin   = 0
	NPSMax   = 10
)

// BranchField maps a branch to the key the same semantic question is stored
// under for respondents of that branch.
type BranchField map[model.Branch]string

// Key returns the field key for branch b
func (f BranchField) Key(b model.Branch) (string, bool) {
	k, ok := f[b]
	return k, ok && k != ""
}

// ComponentField is one sub-score of a composite dimension
type ComponentField struct {
	Key      string `json:"key"`
	Field    string `json:"field"`
	Inverted bool   `json:"inverted,omitempty"` // higher raw value is worse
}

// Catalog names the answer fields each scorer reads
type Catalog struct {
	// Awareness
	Understanding BranchField

	// Trust, used branch only
	Trust []ComponentField

	// Usage: binary intent for not_used, 1-5 repeat likelihood for used
	WouldUse         string
	RepeatLikelihood string

	// Impact, used branch only. The first component doubles as Satisfaction.
	Impact []ComponentField

	// NPS, used branch only, 0-10
	NPS string

	// Choice fields summarized as tallies in reports
	Choices []string

	// Legacy value remapping applied to choice answers
	Remap Remap
}

// Component keys
const (
	CompUnderstanding    = "understanding"
	CompAnonymity        = "anonymity"
	CompEmployerFear     = "employer_fear"
	CompColleagueFear    = "colleague_fear"
	CompFutureUse        = "future_use"
	CompWouldUse         = "would_use"
	CompRepeatLikelihood = "repeat_likelihood"
	CompSatisfaction     = "satisfaction"
	CompProblemSolving   = "problem_solving"
	CompWellbeing        = "wellbeing"
	CompPerformance      = "performance"
	CompConsistency      = "consistency"
)

// DefaultCatalog returns the field layout of the current questionnaire
func DefaultCatalog() Catalog {
	return Catalog{
		Understanding: BranchField{
			model.BranchUsed:    "u_awareness_understanding",
			model.BranchNotUsed: "nu_awareness_understanding",
		},
		Trust: []ComponentField{
			{Key: CompAnonymity, Field: "u_trust_anonymity"},
			{Key: CompEmployerFear, Field: "u_trust_employer_fear", Inverted: true},
			{Key: CompColleagueFear, Field: "u_trust_colleague_fear", Inverted: true},
			{Key: CompFutureUse, Field: "u_trust_future_use"},
		},
		WouldUse:         "nu_would_use",
		RepeatLikelihood: "u_usage_likelihood",
		Impact: []ComponentField{
			{Key: CompSatisfaction, Field: "u_impact_satisfaction"},
			{Key: CompProblemSolving, Field: "u_impact_problem_solving"},
			{Key: CompWellbeing, Field: "u_impact_wellbeing"},
			{Key: CompPerformance, Field: "u_impact_performance"},
			{Key: CompConsistency, Field: "u_impact_consistency"},
		},
		NPS:     "u_nps",
		Choices: []string{"nu_barriers", "u_services_used", "u_contact_channel"},
		Remap:   DefaultRemap(),
	}
}

// SatisfactionField returns the field backing the Satisfaction dimension
func (c *Catalog) SatisfactionField() string {
	for _, f := range c.Impact {
		if f.Key == CompSatisfaction {
			return f.Field
		}
	}
	return ""
}
