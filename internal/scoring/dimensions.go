package scoring

import "eapmetrics/internal/model"

// Invert maps a raw value on an inverted scale onto a higher-is-better one
func Invert(raw, scaleMax float64) float64 {
	return scaleMax - raw
}

// scoreComponents averages each component independently over responses.
// contributors counts responses that answered at least one component.
func scoreComponents(x *Extractor, responses []*model.Response, fields []ComponentField) ([]Component, int) {
	values := make([][]float64, len(fields))
	contributors := 0
	for _, r := range responses {
		answered := false
		for i, f := range fields {
			v, ok := x.Likert(r, f.Field, ScaleMin, ScaleMax)
			if !ok {
				continue
			}
			values[i] = append(values[i], v)
			answered = true
		}
		if answered {
			contributors++
		}
	}

	comps := make([]Component, len(fields))
	for i, f := range fields {
		raw := Mean(values[i])
		c := Component{
			Key:        f.Key,
			Value:      raw.Value,
			RawMean:    raw.Value,
			SampleSize: raw.N,
			Unit:       UnitScale,
			Inverted:   f.Inverted,
		}
		if f.Inverted && raw.N > 0 {
			c.Value = Invert(raw.Value, ScaleMax)
		}
		comps[i] = c
	}
	return comps, contributors
}

// meanOfComponents is the unweighted mean of the components that have data
func meanOfComponents(comps []Component) float64 {
	vals := make([]float64, 0, len(comps))
	for _, c := range comps {
		if c.Available() {
			vals = append(vals, c.Value)
		}
	}
	return Mean(vals).Value
}

// ScoreAwareness returns the share of valid responses aware of the program,
// with the branch-appropriate understanding mean as a component.
func ScoreAwareness(p *Partition, c *Catalog) ScoreResult {
	x := NewExtractor(c.Remap)
	var understanding []float64
	for _, r := range p.Aware() {
		key, ok := c.Understanding.Key(r.Branch)
		if !ok {
			continue
		}
		if v, ok := x.Likert(r, key, ScaleMin, ScaleMax); ok {
			understanding = append(understanding, v)
		}
	}
	u := Mean(understanding)
	return ScoreResult{
		Dimension:  DimAwareness,
		Value:      Percentage(len(p.Used)+len(p.NotUsed), p.Valid()),
		SampleSize: p.Valid(),
		Unit:       UnitPercent,
		Components: []Component{{
			Key:        CompUnderstanding,
			Value:      u.Value,
			RawMean:    u.Value,
			SampleSize: u.N,
			Unit:       UnitScale,
		}},
	}
}

// ScoreTrust returns the unweighted mean of the trust sub-scores of used
// respondents. Fear components are inverted.
func ScoreTrust(p *Partition, c *Catalog) ScoreResult {
	comps, n := scoreComponents(NewExtractor(c.Remap), p.Used, c.Trust)
	return ScoreResult{
		Dimension:  DimTrust,
		Value:      meanOfComponents(comps),
		SampleSize: n,
		Unit:       UnitScale,
		Components: comps,
	}
}

// ScoreUsage blends not_used intent to use with used repeat likelihood,
// both expressed as percentages.
func ScoreUsage(p *Partition, c *Catalog) ScoreResult {
	x := NewExtractor(c.Remap)

	yes, answered := 0, 0
	for _, r := range p.NotUsed {
		v, ok := x.Binary(r, c.WouldUse)
		if !ok {
			continue
		}
		answered++
		if v {
			yes++
		}
	}
	would := Component{
		Key:        CompWouldUse,
		Value:      Percentage(yes, answered),
		RawMean:    Percentage(yes, answered),
		SampleSize: answered,
		Unit:       UnitPercent,
	}

	var likelihood []float64
	for _, r := range p.Used {
		if v, ok := x.Likert(r, c.RepeatLikelihood, ScaleMin, ScaleMax); ok {
			likelihood = append(likelihood, v)
		}
	}
	l := Mean(likelihood)
	repeat := Component{
		Key:        CompRepeatLikelihood,
		Value:      l.Value / ScaleMax * 100,
		RawMean:    l.Value,
		SampleSize: l.N,
		Unit:       UnitPercent,
	}

	var value float64
	switch {
	case would.Available() && repeat.Available():
		value = (would.Value + repeat.Value) / 2
	case would.Available():
		value = would.Value
	case repeat.Available():
		value = repeat.Value
	}

	return ScoreResult{
		Dimension:  DimUsage,
		Value:      value,
		SampleSize: would.SampleSize + repeat.SampleSize,
		Unit:       UnitPercent,
		Components: []Component{would, repeat},
	}
}

// ScoreImpact returns the mean of the impact sub-score means of used
// respondents, so every sub-score weighs the same regardless of its sample.
func ScoreImpact(p *Partition, c *Catalog) ScoreResult {
	comps, n := scoreComponents(NewExtractor(c.Remap), p.Used, c.Impact)
	return ScoreResult{
		Dimension:  DimImpact,
		Value:      meanOfComponents(comps),
		SampleSize: n,
		Unit:       UnitScale,
		Components: comps,
	}
}

// ScoreSatisfaction returns the mean satisfaction of used respondents
func ScoreSatisfaction(p *Partition, c *Catalog) ScoreResult {
	x := NewExtractor(c.Remap)
	field := c.SatisfactionField()
	var values []float64
	for _, r := range p.Used {
		if v, ok := x.Likert(r, field, ScaleMin, ScaleMax); ok {
			values = append(values, v)
		}
	}
	s := Mean(values)
	return ScoreResult{
		Dimension:  DimSatisfaction,
		Value:      s.Value,
		SampleSize: s.N,
		Unit:       UnitScale,
	}
}

// ScoreUtilization returns the share of valid responses from program users
func ScoreUtilization(p *Partition, _ *Catalog) ScoreResult {
	return ScoreResult{
		Dimension:  DimUtilization,
		Value:      Percentage(len(p.Used), p.Valid()),
		SampleSize: p.Valid(),
		Unit:       UnitPercent,
	}
}
