package model

import "time"

// Branch is the participation category a respondent was routed into
type Branch string

const (
	BranchUsed     Branch = "used"     // active or past user of the program
	BranchNotUsed  Branch = "not_used" // aware of the program, never used it
	BranchRedirect Branch = "redirect" // no prior knowledge of the program
)

// Branches lists the known branches in display order
var Branches = []Branch{BranchUsed, BranchNotUsed, BranchRedirect}

// IsKnown reports whether b is one of the three branch values
func (b Branch) IsKnown() bool {
	switch b {
	case BranchUsed, BranchNotUsed, BranchRedirect:
		return true
	}
	return false
}

// Demographics are optional respondent attributes, independent of branch
type Demographics struct {
	Gender  string `json:"gender,omitempty" bson:"gender,omitempty"`
	AgeBand string `json:"ageBand,omitempty" bson:"ageBand,omitempty"`
}

// Answers maps a field key to a number, a string or a list of strings.
// Unanswered keys are absent.
type Answers map[string]interface{}

// Response is one respondent's submission to one survey instance.
// Responses are written once and never updated.
type Response struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	SurveyID     string        `json:"surveyId" bson:"surveyId"`
	CompanyID    string        `json:"companyId,omitempty" bson:"companyId,omitempty"`
	Branch       Branch        `json:"branch" bson:"branch"`
	Answers      Answers       `json:"answers" bson:"answers"`
	Demographics *Demographics `json:"demographics,omitempty" bson:"demographics,omitempty"`
	SubmittedAt  time.Time     `json:"submittedAt" bson:"submittedAt"`
}
