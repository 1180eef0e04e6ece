package scoring

import (
	"errors"
	"reflect"
	"testing"

	"eapmetrics/internal/model"
)

func scenario() []*model.Response {
	return []*model.Response{
		resp("1", model.BranchUsed, model.Answers{"u_impact_satisfaction": 4}),
		resp("2", model.BranchUsed, model.Answers{"u_impact_satisfaction": 5}),
		resp("3", model.BranchNotUsed, model.Answers{"nu_awareness_understanding": 3}),
		resp("4", model.BranchNotUsed, model.Answers{"nu_awareness_understanding": 3}),
		resp("5", model.BranchRedirect, nil),
	}
}

func TestEngineEvaluateScenario(t *testing.T) {
	e := NewDefaultEngine()
	report, err := e.Evaluate(scenario(), Options{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	b := report.Branches
	if b.Used != 2 || b.NotUsed != 2 || b.Redirect != 1 || b.Valid != 5 || b.Excluded != 0 {
		t.Fatalf("unexpected branches %+v", b)
	}

	aw := report.Scores[DimAwareness]
	if !approx(aw.Value, 80) || aw.SampleSize != 5 {
		t.Errorf("unexpected awareness %+v", aw)
	}
	if u, _ := aw.Component(CompUnderstanding); !approx(u.Value, 3) || u.SampleSize != 2 {
		t.Errorf("unexpected understanding %+v", u)
	}

	im := report.Scores[DimImpact]
	if !approx(im.Value, 4.5) || im.SampleSize != 2 {
		t.Errorf("unexpected impact %+v", im)
	}

	if tr := report.Scores[DimTrust]; tr.SampleSize != 0 || tr.Value != 0 {
		t.Errorf("trust had no answers, got %+v", tr)
	}
	if report.NPS.Defined() {
		t.Errorf("nps had no answers, got %+v", report.NPS)
	}
	if len(report.Alerts) != 0 {
		t.Errorf("expected no alerts, got %+v", report.Alerts)
	}
	if len(report.Scores) != len(Dimensions) {
		t.Errorf("expected every dimension, got %d", len(report.Scores))
	}
}

func TestEngineEvaluateExcludesMalformed(t *testing.T) {
	e := NewDefaultEngine()
	responses := append(scenario(),
		resp("bad", "maybe", model.Answers{"u_impact_satisfaction": 1}),
		resp("blank", "", nil),
	)
	report, err := e.Evaluate(responses, Options{})
	if err != nil {
		t.Fatalf("malformed branches must not fail the run: %v", err)
	}
	if report.Branches.Excluded != 2 || len(report.Excluded) != 2 {
		t.Fatalf("expected 2 exclusions, got %+v", report.Excluded)
	}
	if report.Excluded[0].ResponseID != "bad" {
		t.Errorf("unexpected exclusion order %+v", report.Excluded)
	}
	if !approx(report.Scores[DimAwareness].Value, 80) {
		t.Errorf("excluded responses must not change awareness")
	}
	if !approx(report.Scores[DimImpact].Value, 4.5) {
		t.Errorf("excluded responses must not change impact")
	}
}

func TestEngineEvaluateStructuralViolation(t *testing.T) {
	e := NewDefaultEngine()
	_, err := e.Evaluate([]*model.Response{resp("1", model.BranchUsed, nil), nil}, Options{})
	if !errors.Is(err, ErrStructuralViolation) {
		t.Fatalf("expected structural violation, got %v", err)
	}
	_, err = e.Compare(nil, []*model.Response{nil}, Options{})
	if !errors.Is(err, ErrStructuralViolation) {
		t.Fatalf("Compare should surface structural violations, got %v", err)
	}
}

func TestEngineEvaluateEmpty(t *testing.T) {
	e := NewDefaultEngine()
	report, err := e.Evaluate(nil, Options{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	for _, dim := range Dimensions {
		if s := report.Scores[dim]; s.SampleSize != 0 || s.Value != 0 {
			t.Errorf("%s should be empty, got %+v", dim, s)
		}
	}
	if report.Excluded == nil || report.Alerts == nil {
		t.Errorf("empty collections should serialize as lists")
	}
}

func TestEngineParallelMatchesSequential(t *testing.T) {
	e := NewDefaultEngine()
	responses := append(scenario(),
		withDemo(resp("6", model.BranchUsed, model.Answers{
			"u_trust_anonymity":     2,
			"u_trust_employer_fear": 4,
			"u_usage_likelihood":    2,
			"u_nps":                 9,
			"u_services_used":       []interface{}{"counseling", "legal"},
		}), "female", "25-34"),
		resp("7", model.BranchNotUsed, model.Answers{
			"nu_would_use": "yes",
			"nu_barriers":  []interface{}{"no_time", "too_busy"},
		}),
	)

	seq, err := e.Evaluate(responses, Options{})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := e.Evaluate(responses, Options{Parallel: true})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Fatalf("parallel report differs from sequential\nseq: %+v\npar: %+v", seq, par)
	}
}

func TestEngineEvaluateFilter(t *testing.T) {
	e := NewDefaultEngine()
	responses := demoResponses()
	report, err := e.Evaluate(responses, Options{Filter: DemographicFilter{Gender: "male"}})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if report.Branches.Valid != 2 || report.Branches.Used != 1 || report.Branches.Redirect != 1 {
		t.Fatalf("unexpected filtered branches %+v", report.Branches)
	}
	if s := report.Scores[DimSatisfaction]; !approx(s.Value, 2) || s.SampleSize != 1 {
		t.Errorf("unexpected filtered satisfaction %+v", s)
	}
	if report.Filter.Gender != "male" {
		t.Errorf("report should echo its filter")
	}
}

func TestEngineChoices(t *testing.T) {
	e := NewDefaultEngine()
	responses := []*model.Response{
		resp("1", model.BranchNotUsed, model.Answers{"nu_barriers": []interface{}{"no_time", "too_busy", "stigma"}}),
		resp("2", model.BranchNotUsed, model.Answers{"nu_barriers": "privacy"}),
		resp("3", model.BranchNotUsed, model.Answers{"nu_barriers": []interface{}{}}),
	}
	report, err := e.Evaluate(responses, Options{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	var barriers *ChoiceSummary
	for i := range report.Choices {
		if report.Choices[i].Field == "nu_barriers" {
			barriers = &report.Choices[i]
		}
	}
	if barriers == nil {
		t.Fatalf("missing nu_barriers summary")
	}
	if barriers.Respondents != 2 {
		t.Errorf("expected 2 respondents, got %d", barriers.Respondents)
	}
	want := []TallyEntry{
		{Value: "time_constraints", Count: 1},
		{Value: "stigma", Count: 1},
		{Value: "confidentiality_concerns", Count: 1},
	}
	if !reflect.DeepEqual(barriers.Options, want) {
		t.Errorf("unexpected options %+v", barriers.Options)
	}
}

func TestReportRounded(t *testing.T) {
	e := NewDefaultEngine()
	responses := append(usedWith(1, "u_impact_satisfaction", 4, 4, 5),
		resp("n", model.BranchNotUsed, nil),
		resp("r", model.BranchRedirect, nil),
	)
	report, err := e.Evaluate(responses, Options{})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	r := report.Rounded()
	if got := r.Scores[DimSatisfaction].Value; got != 4.33 {
		t.Errorf("satisfaction rounded to %v", got)
	}
	if got := r.Scores[DimAwareness].Value; got != 80 {
		t.Errorf("awareness rounded to %v", got)
	}
	if got := report.Scores[DimSatisfaction].Value; got == 4.33 {
		t.Errorf("rounding must not touch the source report")
	}
}
