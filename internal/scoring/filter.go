package scoring

import (
	"strings"

	"eapmetrics/internal/model"
)

// DemographicFilter narrows responses by respondent attributes.
// Empty fields match everything.
type DemographicFilter struct {
	Gender  string `json:"gender,omitempty"`
	AgeBand string `json:"ageBand,omitempty"`
}

// IsEmpty reports whether the filter matches every response
func (f DemographicFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Gender) == "" && strings.TrimSpace(f.AgeBand) == ""
}

// Matches reports whether r satisfies the filter
func (f DemographicFilter) Matches(r *model.Response) bool {
	if f.IsEmpty() {
		return true
	}
	if r == nil || r.Demographics == nil {
		return false
	}
	return matchAttr(f.Gender, r.Demographics.Gender) && matchAttr(f.AgeBand, r.Demographics.AgeBand)
}

// Apply returns the matching subset, preserving order. The input is not modified.
func (f DemographicFilter) Apply(responses []*model.Response) []*model.Response {
	if f.IsEmpty() {
		return responses
	}
	out := make([]*model.Response, 0, len(responses))
	for _, r := range responses {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func matchAttr(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}
