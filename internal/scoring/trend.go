package scoring

import "math"

// TrendStatus classifies a period-over-period change
type TrendStatus string

const (
	TrendSignificant TrendStatus = "significant"
	TrendStable      TrendStatus = "stable"
	TrendUndefined   TrendStatus = "undefined"
)

// Trend compares one dimension across two survey instances.
// Delta is nil when either side has no sample.
type Trend struct {
	Dimension Dimension   `json:"dimension"`
	Unit      Unit        `json:"unit"`
	Older     ScoreResult `json:"older"`
	Newer     ScoreResult `json:"newer"`
	Delta     *float64    `json:"delta"`
	Status    TrendStatus `json:"status"`
}

// CompareResults computes newer - older and classifies its magnitude
func CompareResults(older, newer ScoreResult, t Thresholds) Trend {
	tr := Trend{
		Dimension: newer.Dimension,
		Unit:      newer.Unit,
		Older:     older,
		Newer:     newer,
		Status:    TrendUndefined,
	}
	if tr.Dimension == "" {
		tr.Dimension = older.Dimension
		tr.Unit = older.Unit
	}
	if !older.Available() || !newer.Available() {
		return tr
	}
	d := newer.Value - older.Value
	tr.Delta = &d
	if math.Abs(d) > t.DeltaCutoff(tr.Unit) {
		tr.Status = TrendSignificant
	} else {
		tr.Status = TrendStable
	}
	return tr
}

// CompareReports returns one trend per dimension in report order
func CompareReports(older, newer *Report, t Thresholds) []Trend {
	trends := make([]Trend, 0, len(Dimensions))
	for _, dim := range Dimensions {
		o, ok := older.Scores[dim]
		if !ok {
			o = ScoreResult{Dimension: dim}
		}
		n, ok := newer.Scores[dim]
		if !ok {
			n = ScoreResult{Dimension: dim}
		}
		trends = append(trends, CompareResults(o, n, t))
	}
	return trends
}

// Rounded returns a copy rounded for display
func (tr Trend) Rounded() Trend {
	tr.Older = tr.Older.Rounded()
	tr.Newer = tr.Newer.Rounded()
	if tr.Delta != nil {
		d := Round(*tr.Delta, tr.Unit.Places())
		tr.Delta = &d
	}
	return tr
}
