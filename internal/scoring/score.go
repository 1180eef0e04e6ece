package scoring

// Dimension names a reported metric
type Dimension string

const (
	DimAwareness    Dimension = "awareness"
	DimTrust        Dimension = "trust"
	DimUsage        Dimension = "usage"
	DimImpact       Dimension = "impact"
	DimNPS          Dimension = "nps"
	DimUtilization  Dimension = "utilization"
	DimSatisfaction Dimension = "satisfaction"
)

// Dimensions lists every dimension in report order
var Dimensions = []Dimension{
	DimAwareness,
	DimTrust,
	DimUsage,
	DimImpact,
	DimNPS,
	DimUtilization,
	DimSatisfaction,
}

// Unit is the scale a value is expressed on
type Unit string

const (
	UnitScale   Unit = "scale_1_5" // 1-5 mean (inverted components span 0-4)
	UnitPercent Unit = "percent"   // 0-100
	UnitIndex   Unit = "index"     // -100..100
)

// Places returns the display precision of the unit
func (u Unit) Places() int {
	switch u {
	case UnitPercent:
		return 1
	case UnitIndex:
		return 0
	default:
		return 2
	}
}

// Component is a sub-score of a dimension
type Component struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	RawMean    float64 `json:"rawMean"`
	SampleSize int     `json:"sampleSize"`
	Unit       Unit    `json:"unit"`
	Inverted   bool    `json:"inverted,omitempty"`
}

// Available reports whether any response contributed to the component
func (c Component) Available() bool { return c.SampleSize > 0 }

// ScoreResult is the engine's output unit. Consumers must check SampleSize
// before treating Value as meaningful.
type ScoreResult struct {
	Dimension  Dimension   `json:"dimension"`
	Value      float64     `json:"value"`
	SampleSize int         `json:"sampleSize"`
	Unit       Unit        `json:"unit"`
	Components []Component `json:"components,omitempty"`
}

// Available reports whether the result carries a signal
func (r ScoreResult) Available() bool { return r.SampleSize > 0 }

// Component returns the named sub-score
func (r ScoreResult) Component(key string) (Component, bool) {
	for _, c := range r.Components {
		if c.Key == key {
			return c, true
		}
	}
	return Component{}, false
}

// Rounded returns a copy rounded for display
func (r ScoreResult) Rounded() ScoreResult {
	r.Value = Round(r.Value, r.Unit.Places())
	if len(r.Components) > 0 {
		comps := make([]Component, len(r.Components))
		for i, c := range r.Components {
			c.Value = Round(c.Value, c.Unit.Places())
			c.RawMean = Round(c.RawMean, 2)
			comps[i] = c
		}
		r.Components = comps
	}
	return r
}
