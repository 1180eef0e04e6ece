package scoring

import "testing"

func comp(key string, value, raw float64, n int) Component {
	return Component{Key: key, Value: value, RawMean: raw, SampleSize: n, Unit: UnitScale}
}

func TestEvaluateAlerts(t *testing.T) {
	th := DefaultThresholds()
	scores := map[Dimension]ScoreResult{
		DimAwareness: {
			Dimension: DimAwareness, Value: 80, SampleSize: 10, Unit: UnitPercent,
			Components: []Component{comp(CompUnderstanding, 2.2, 2.2, 8)},
		},
		DimTrust: {
			Dimension: DimTrust, Value: 2.8, SampleSize: 5, Unit: UnitScale,
			Components: []Component{
				comp(CompAnonymity, 3.4, 3.4, 5),
				comp(CompEmployerFear, 0.5, 4.5, 5),
				comp(CompColleagueFear, 2.0, 3.0, 5),
				comp(CompFutureUse, 0, 0, 0),
			},
		},
		DimUsage: {
			Dimension: DimUsage, Value: 50, SampleSize: 6, Unit: UnitPercent,
			Components: []Component{
				{Key: CompWouldUse, Value: 40, RawMean: 40, SampleSize: 3, Unit: UnitPercent},
				{Key: CompRepeatLikelihood, Value: 56, RawMean: 2.8, SampleSize: 3, Unit: UnitPercent},
			},
		},
		DimImpact: {Dimension: DimImpact, Value: 2.0, SampleSize: 5, Unit: UnitScale},
	}

	got := EvaluateAlerts(scores, th)

	type key struct {
		sev  Severity
		dim  Dimension
		comp string
	}
	want := []key{
		{SeverityWarning, DimAwareness, CompUnderstanding},
		{SeverityCritical, DimTrust, ""},
		{SeverityWarning, DimTrust, CompEmployerFear},
		{SeverityWarning, DimTrust, CompColleagueFear},
		{SeverityWarning, DimUsage, CompRepeatLikelihood},
		{SeverityCritical, DimImpact, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d alerts, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		a := got[i]
		if a.Severity != w.sev || a.Dimension != w.dim || a.Component != w.comp {
			t.Errorf("alert %d = %+v, want %+v", i, a, w)
		}
		if a.Color != th.Color(a.Severity) {
			t.Errorf("alert %d has color %s", i, a.Color)
		}
		if a.Message == "" {
			t.Errorf("alert %d has no message", i)
		}
	}
	if got[2].Value != 4.5 {
		t.Errorf("employer fear alert should carry the raw mean, got %f", got[2].Value)
	}
}

func TestEvaluateAlertsHealthy(t *testing.T) {
	scores := map[Dimension]ScoreResult{
		DimAwareness: {
			Dimension: DimAwareness, Value: 90, SampleSize: 10, Unit: UnitPercent,
			Components: []Component{comp(CompUnderstanding, 4, 4, 8)},
		},
		DimTrust: {
			Dimension: DimTrust, Value: 3.5, SampleSize: 5, Unit: UnitScale,
			Components: []Component{comp(CompEmployerFear, 3, 2, 5)},
		},
		DimImpact: {Dimension: DimImpact, Value: 4.1, SampleSize: 5, Unit: UnitScale},
	}
	if got := EvaluateAlerts(scores, DefaultThresholds()); len(got) != 0 {
		t.Fatalf("expected no alerts, got %+v", got)
	}
}

func TestEvaluateAlertsIgnoresEmptySamples(t *testing.T) {
	scores := map[Dimension]ScoreResult{
		DimTrust:  {Dimension: DimTrust, Unit: UnitScale},
		DimImpact: {Dimension: DimImpact, Unit: UnitScale},
		DimAwareness: {
			Dimension: DimAwareness, Unit: UnitPercent,
			Components: []Component{comp(CompUnderstanding, 0, 0, 0)},
		},
	}
	got := EvaluateAlerts(scores, DefaultThresholds())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", got)
	}
}

func TestThresholdsColor(t *testing.T) {
	th := DefaultThresholds()
	if th.Color(SeverityWarning) != "#F5A623" || th.Color(SeverityCritical) != "#D0021B" {
		t.Fatalf("unexpected severity colors")
	}
}
