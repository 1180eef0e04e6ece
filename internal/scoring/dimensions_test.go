package scoring

import (
	"math/rand"
	"testing"

	"eapmetrics/internal/model"
)

func TestScoreAwareness(t *testing.T) {
	c := DefaultCatalog()
	responses := []*model.Response{
		resp("1", model.BranchUsed, model.Answers{"u_awareness_understanding": 5, "nu_awareness_understanding": 1}),
		resp("2", model.BranchNotUsed, model.Answers{"nu_awareness_understanding": 2, "u_awareness_understanding": 5}),
		resp("3", model.BranchNotUsed, model.Answers{}),
		resp("4", model.BranchRedirect, model.Answers{"nu_awareness_understanding": 1}),
	}
	got := ScoreAwareness(Classify(responses), &c)

	if !approx(got.Value, 75) || got.SampleSize != 4 || got.Unit != UnitPercent {
		t.Fatalf("unexpected awareness %+v", got)
	}
	u, ok := got.Component(CompUnderstanding)
	if !ok {
		t.Fatalf("missing understanding component")
	}
	// used reads u_ (5), not_used reads nu_ (2); redirect and skipped do not count
	if !approx(u.Value, 3.5) || u.SampleSize != 2 {
		t.Errorf("unexpected understanding %+v", u)
	}
}

func TestScoreAwarenessOrderInvariant(t *testing.T) {
	c := DefaultCatalog()
	var responses []*model.Response
	branches := []model.Branch{model.BranchUsed, model.BranchNotUsed, model.BranchRedirect, "", model.BranchUsed}
	for i := 0; i < 50; i++ {
		b := branches[i%len(branches)]
		responses = append(responses, resp(string(rune('a'+i%26))+string(rune('0'+i/26)), b,
			model.Answers{"u_awareness_understanding": float64(i%5 + 1), "nu_awareness_understanding": float64((i+2)%5 + 1)}))
	}
	want := ScoreAwareness(Classify(responses), &c)

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		shuffled := append([]*model.Response(nil), responses...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := ScoreAwareness(Classify(shuffled), &c)
		if !approx(got.Value, want.Value) || got.SampleSize != want.SampleSize {
			t.Fatalf("awareness changed under reordering: %+v vs %+v", got, want)
		}
		gu, _ := got.Component(CompUnderstanding)
		wu, _ := want.Component(CompUnderstanding)
		if !approx(gu.Value, wu.Value) || gu.SampleSize != wu.SampleSize {
			t.Fatalf("understanding changed under reordering: %+v vs %+v", gu, wu)
		}
	}
}

func TestScoreTrustInversion(t *testing.T) {
	c := DefaultCatalog()
	responses := []*model.Response{
		resp("1", model.BranchUsed, model.Answers{"u_trust_employer_fear": 5}),
	}
	got := ScoreTrust(Classify(responses), &c)
	emp, ok := got.Component(CompEmployerFear)
	if !ok || !emp.Inverted {
		t.Fatalf("missing inverted employer component: %+v", got)
	}
	if emp.Value != 0 || emp.RawMean != 5 || emp.SampleSize != 1 {
		t.Fatalf("employer fear 5 should score 0, got %+v", emp)
	}
	if got.Value != 0 || got.SampleSize != 1 {
		t.Errorf("composite should equal the only available component, got %+v", got)
	}
}

func TestScoreTrustComposite(t *testing.T) {
	c := DefaultCatalog()
	responses := []*model.Response{
		resp("1", model.BranchUsed, model.Answers{
			"u_trust_anonymity":      4,
			"u_trust_employer_fear":  2,
			"u_trust_colleague_fear": 1,
			"u_trust_future_use":     5,
		}),
		resp("2", model.BranchUsed, model.Answers{
			"u_trust_anonymity":     2,
			"u_trust_employer_fear": 4,
		}),
		// not_used answers never reach the trust scorer
		resp("3", model.BranchNotUsed, model.Answers{"u_trust_anonymity": 1}),
		resp("4", model.BranchUsed, model.Answers{}),
	}
	got := ScoreTrust(Classify(responses), &c)

	checks := map[string]struct {
		value float64
		n     int
	}{
		CompAnonymity:     {3, 2},
		CompEmployerFear:  {5 - 3, 2},
		CompColleagueFear: {5 - 1, 1},
		CompFutureUse:     {5, 1},
	}
	for key, want := range checks {
		comp, ok := got.Component(key)
		if !ok || !approx(comp.Value, want.value) || comp.SampleSize != want.n {
			t.Errorf("component %s = %+v, want value %v n %d", key, comp, want.value, want.n)
		}
	}
	if !approx(got.Value, (3.0+2.0+4.0+5.0)/4) {
		t.Errorf("unexpected composite %f", got.Value)
	}
	if got.SampleSize != 2 {
		t.Errorf("expected 2 contributing respondents, got %d", got.SampleSize)
	}
}

func TestScoreUsage(t *testing.T) {
	c := DefaultCatalog()

	t.Run("both populations", func(t *testing.T) {
		responses := []*model.Response{
			resp("1", model.BranchNotUsed, model.Answers{"nu_would_use": "yes"}),
			resp("2", model.BranchNotUsed, model.Answers{"nu_would_use": "no"}),
			resp("3", model.BranchNotUsed, model.Answers{"nu_would_use": "yes"}),
			resp("4", model.BranchNotUsed, model.Answers{"nu_would_use": "yes"}),
			resp("5", model.BranchNotUsed, model.Answers{}),
			resp("6", model.BranchUsed, model.Answers{"u_usage_likelihood": 4}),
			resp("7", model.BranchUsed, model.Answers{"u_usage_likelihood": 3}),
		}
		got := ScoreUsage(Classify(responses), &c)
		would, _ := got.Component(CompWouldUse)
		repeat, _ := got.Component(CompRepeatLikelihood)
		if !approx(would.Value, 75) || would.SampleSize != 4 {
			t.Errorf("unexpected would-use %+v", would)
		}
		if !approx(repeat.Value, 70) || !approx(repeat.RawMean, 3.5) || repeat.SampleSize != 2 {
			t.Errorf("unexpected repeat likelihood %+v", repeat)
		}
		if !approx(got.Value, 72.5) || got.SampleSize != 6 {
			t.Errorf("unexpected usage %+v", got)
		}
	})

	t.Run("only not used", func(t *testing.T) {
		responses := []*model.Response{
			resp("1", model.BranchNotUsed, model.Answers{"nu_would_use": true}),
			resp("2", model.BranchNotUsed, model.Answers{"nu_would_use": false}),
		}
		got := ScoreUsage(Classify(responses), &c)
		if !approx(got.Value, 50) || got.SampleSize != 2 {
			t.Errorf("unexpected usage %+v", got)
		}
	})

	t.Run("only used", func(t *testing.T) {
		responses := usedWith(1, "u_usage_likelihood", 5, 5)
		got := ScoreUsage(Classify(responses), &c)
		if !approx(got.Value, 100) || got.SampleSize != 2 {
			t.Errorf("unexpected usage %+v", got)
		}
	})

	t.Run("no signal", func(t *testing.T) {
		responses := []*model.Response{
			resp("1", model.BranchNotUsed, model.Answers{"nu_would_use": "unsure"}),
			resp("2", model.BranchRedirect, nil),
		}
		got := ScoreUsage(Classify(responses), &c)
		if got.Value != 0 || got.SampleSize != 0 || got.Available() {
			t.Errorf("expected empty usage, got %+v", got)
		}
	})

	t.Run("all no is a real zero", func(t *testing.T) {
		responses := []*model.Response{
			resp("1", model.BranchNotUsed, model.Answers{"nu_would_use": "no"}),
		}
		got := ScoreUsage(Classify(responses), &c)
		if got.Value != 0 || got.SampleSize != 1 || !got.Available() {
			t.Errorf("expected zero with a sample, got %+v", got)
		}
	})
}

func TestScoreImpactMeanOfMeans(t *testing.T) {
	c := DefaultCatalog()
	responses := []*model.Response{
		resp("1", model.BranchUsed, model.Answers{"u_impact_satisfaction": 5, "u_impact_wellbeing": 1}),
		resp("2", model.BranchUsed, model.Answers{"u_impact_satisfaction": 5}),
		resp("3", model.BranchUsed, model.Answers{"u_impact_satisfaction": 5}),
		resp("4", model.BranchUsed, model.Answers{"u_impact_satisfaction": 5}),
	}
	got := ScoreImpact(Classify(responses), &c)

	// pooled mean would be 21/5 = 4.2; mean of sub-score means is (5+1)/2 = 3
	if !approx(got.Value, 3) {
		t.Fatalf("expected mean of sub-score means 3, got %f", got.Value)
	}
	if got.SampleSize != 4 {
		t.Errorf("expected 4 contributing respondents, got %d", got.SampleSize)
	}
	if ps, _ := got.Component(CompProblemSolving); ps.Available() {
		t.Errorf("problem solving had no answers, got %+v", ps)
	}
}

func TestScoreSatisfactionAndUtilization(t *testing.T) {
	c := DefaultCatalog()
	responses := []*model.Response{
		resp("1", model.BranchUsed, model.Answers{"u_impact_satisfaction": 4}),
		resp("2", model.BranchUsed, model.Answers{"u_impact_satisfaction": 2}),
		resp("3", model.BranchNotUsed, model.Answers{"u_impact_satisfaction": 5}),
		resp("4", model.BranchRedirect, nil),
	}
	p := Classify(responses)

	sat := ScoreSatisfaction(p, &c)
	if !approx(sat.Value, 3) || sat.SampleSize != 2 {
		t.Errorf("unexpected satisfaction %+v", sat)
	}
	util := ScoreUtilization(p, &c)
	if !approx(util.Value, 50) || util.SampleSize != 4 {
		t.Errorf("unexpected utilization %+v", util)
	}
}
