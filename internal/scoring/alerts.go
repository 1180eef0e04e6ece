package scoring

import "fmt"

// Severity of an alert
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds holds every fixed cutoff the alert evaluator and trend engine
// use, plus the severity display colors. Pass it by value.
type Thresholds struct {
	UnderstandingMin   float64 // awareness understanding, 1-5
	TrustSubscoreMin   float64 // trust sub-scores after inversion, 1-5
	TrustCompositeMin  float64 // trust composite, 1-5
	EmployerFearMax    float64 // employer-fear raw mean, 1-5
	ImpactMin          float64 // impact composite, 1-5
	UsageLikelihoodMin float64 // used-branch repeat likelihood raw mean, 1-5

	DeltaScale   float64 // significant trend delta on the 1-5 scale
	DeltaPercent float64 // significant trend delta in percentage points
	DeltaIndex   float64 // significant trend delta in NPS points

	WarningColor  string
	CriticalColor string
}

// DefaultThresholds returns the platform cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{
		UnderstandingMin:   2.5,
		TrustSubscoreMin:   2.5,
		TrustCompositeMin:  3.0,
		EmployerFearMax:    3.5,
		ImpactMin:          2.5,
		UsageLikelihoodMin: 3.0,

		DeltaScale:   0.5,
		DeltaPercent: 5,
		DeltaIndex:   10,

		WarningColor:  "#F5A623",
		CriticalColor: "#D0021B",
	}
}

// Color returns the display color of a severity
func (t Thresholds) Color(s Severity) string {
	if s == SeverityCritical {
		return t.CriticalColor
	}
	return t.WarningColor
}

// DeltaCutoff returns the significance cutoff for a unit
func (t Thresholds) DeltaCutoff(u Unit) float64 {
	switch u {
	case UnitPercent:
		return t.DeltaPercent
	case UnitIndex:
		return t.DeltaIndex
	default:
		return t.DeltaScale
	}
}

// Alert is an advisory annotation on a computed score
type Alert struct {
	Severity  Severity  `json:"severity"`
	Dimension Dimension `json:"dimension"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Cutoff    float64   `json:"cutoff"`
	Color     string    `json:"color"`
}

// EvaluateAlerts derives alerts from scores. Results and components without
// a sample never alert. The output order is stable.
func EvaluateAlerts(scores map[Dimension]ScoreResult, t Thresholds) []Alert {
	alerts := []Alert{}
	add := func(sev Severity, dim Dimension, comp string, value, cutoff float64, msg string) {
		alerts = append(alerts, Alert{
			Severity:  sev,
			Dimension: dim,
			Component: comp,
			Message:   msg,
			Value:     value,
			Cutoff:    cutoff,
			Color:     t.Color(sev),
		})
	}

	if aw, ok := scores[DimAwareness]; ok {
		if c, ok := aw.Component(CompUnderstanding); ok && c.Available() && c.Value < t.UnderstandingMin {
			add(SeverityWarning, DimAwareness, c.Key, c.Value, t.UnderstandingMin,
				fmt.Sprintf("Employees report limited understanding of the program (%.2f < %.1f)", c.Value, t.UnderstandingMin))
		}
	}

	if tr, ok := scores[DimTrust]; ok && tr.Available() {
		if tr.Value < t.TrustCompositeMin {
			add(SeverityCritical, DimTrust, "", tr.Value, t.TrustCompositeMin,
				fmt.Sprintf("Overall trust in the program is low (%.2f < %.1f)", tr.Value, t.TrustCompositeMin))
		}
		for _, c := range tr.Components {
			if !c.Available() {
				continue
			}
			if c.Key == CompEmployerFear {
				if c.RawMean > t.EmployerFearMax {
					add(SeverityWarning, DimTrust, c.Key, c.RawMean, t.EmployerFearMax,
						fmt.Sprintf("Users fear their employer could learn about their use (%.2f > %.1f)", c.RawMean, t.EmployerFearMax))
				}
				continue
			}
			if c.Value < t.TrustSubscoreMin {
				add(SeverityWarning, DimTrust, c.Key, c.Value, t.TrustSubscoreMin,
					fmt.Sprintf("Trust sub-score %q is low (%.2f < %.1f)", c.Key, c.Value, t.TrustSubscoreMin))
			}
		}
	}

	if us, ok := scores[DimUsage]; ok {
		if c, ok := us.Component(CompRepeatLikelihood); ok && c.Available() && c.RawMean < t.UsageLikelihoodMin {
			add(SeverityWarning, DimUsage, c.Key, c.RawMean, t.UsageLikelihoodMin,
				fmt.Sprintf("Users are unlikely to use the program again (%.2f < %.1f)", c.RawMean, t.UsageLikelihoodMin))
		}
	}

	if im, ok := scores[DimImpact]; ok && im.Available() && im.Value < t.ImpactMin {
		add(SeverityCritical, DimImpact, "", im.Value, t.ImpactMin,
			fmt.Sprintf("Perceived impact of the program is low (%.2f < %.1f)", im.Value, t.ImpactMin))
	}

	return alerts
}
