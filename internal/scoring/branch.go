package scoring

import "eapmetrics/internal/model"

// Exclusion records a response left out of aggregation and why
type Exclusion struct {
	ResponseID string `json:"responseId"`
	Reason     string `json:"reason"`
}

// Partition splits a response collection by branch.
// Excluded responses appear in none of the three groups.
type Partition struct {
	Used     []*model.Response
	NotUsed  []*model.Response
	Redirect []*model.Response
	Excluded []Exclusion
	Total    int
}

// BranchCounts is the counting primitive over a partition.
// Used + NotUsed + Redirect == Valid == Total - Excluded.
// The *Pct shares are over Valid, which is the base every dimension
// scorer uses; the *TotalPct shares are over Total, malformed included.
type BranchCounts struct {
	Used     int `json:"used"`
	NotUsed  int `json:"notUsed"`
	Redirect int `json:"redirect"`
	Valid    int `json:"valid"`
	Total    int `json:"total"`
	Excluded int `json:"excluded"`

	UsedPct     float64 `json:"usedPct"`
	NotUsedPct  float64 `json:"notUsedPct"`
	RedirectPct float64 `json:"redirectPct"`

	UsedTotalPct     float64 `json:"usedTotalPct"`
	NotUsedTotalPct  float64 `json:"notUsedTotalPct"`
	RedirectTotalPct float64 `json:"redirectTotalPct"`
	ExcludedTotalPct float64 `json:"excludedTotalPct"`
}

// ValidateBranch returns a *MalformedResponseError when r has no known branch
func ValidateBranch(r *model.Response) error {
	if r.Branch.IsKnown() {
		return nil
	}
	return &MalformedResponseError{ResponseID: r.ID, Branch: r.Branch}
}

// Classify partitions responses by branch, excluding malformed ones
func Classify(responses []*model.Response) *Partition {
	p := &Partition{Total: len(responses)}
	for _, r := range responses {
		if r == nil {
			p.Excluded = append(p.Excluded, Exclusion{Reason: "nil response"})
			continue
		}
		if err := ValidateBranch(r); err != nil {
			p.Excluded = append(p.Excluded, Exclusion{ResponseID: r.ID, Reason: err.Error()})
			continue
		}
		switch r.Branch {
		case model.BranchUsed:
			p.Used = append(p.Used, r)
		case model.BranchNotUsed:
			p.NotUsed = append(p.NotUsed, r)
		case model.BranchRedirect:
			p.Redirect = append(p.Redirect, r)
		}
	}
	return p
}

// Valid returns the number of classified responses
func (p *Partition) Valid() int {
	return len(p.Used) + len(p.NotUsed) + len(p.Redirect)
}

// Aware returns the used and not_used responses, used first
func (p *Partition) Aware() []*model.Response {
	out := make([]*model.Response, 0, len(p.Used)+len(p.NotUsed))
	out = append(out, p.Used...)
	return append(out, p.NotUsed...)
}

// All returns every classified response, grouped by branch
func (p *Partition) All() []*model.Response {
	out := p.Aware()
	return append(out, p.Redirect...)
}

// Counts returns branch counts with each branch's share of the valid
// responses and of all responses
func (p *Partition) Counts() BranchCounts {
	valid := p.Valid()
	return BranchCounts{
		Used:        len(p.Used),
		NotUsed:     len(p.NotUsed),
		Redirect:    len(p.Redirect),
		Valid:       valid,
		Total:       p.Total,
		Excluded:    len(p.Excluded),
		UsedPct:     Percentage(len(p.Used), valid),
		NotUsedPct:  Percentage(len(p.NotUsed), valid),
		RedirectPct: Percentage(len(p.Redirect), valid),

		UsedTotalPct:     Percentage(len(p.Used), p.Total),
		NotUsedTotalPct:  Percentage(len(p.NotUsed), p.Total),
		RedirectTotalPct: Percentage(len(p.Redirect), p.Total),
		ExcludedTotalPct: Percentage(len(p.Excluded), p.Total),
	}
}

// CountBranches classifies responses and returns the counts
func CountBranches(responses []*model.Response) BranchCounts {
	return Classify(responses).Counts()
}

// Rounded returns the counts with percentages rounded for display
func (c BranchCounts) Rounded() BranchCounts {
	c.UsedPct = Round(c.UsedPct, 1)
	c.NotUsedPct = Round(c.NotUsedPct, 1)
	c.RedirectPct = Round(c.RedirectPct, 1)
	c.UsedTotalPct = Round(c.UsedTotalPct, 1)
	c.NotUsedTotalPct = Round(c.NotUsedTotalPct, 1)
	c.RedirectTotalPct = Round(c.RedirectTotalPct, 1)
	c.ExcludedTotalPct = Round(c.ExcludedTotalPct, 1)
	return c
}
