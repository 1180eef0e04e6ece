package scoring

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"eapmetrics/internal/model"
)

// Options tune one evaluation
type Options struct {
	Filter   DemographicFilter
	Parallel bool // run scorers on separate goroutines
}

// ChoiceSummary tallies one single- or multi-choice field.
// Respondents counts responses that answered; each selected option counts once.
type ChoiceSummary struct {
	Field       string       `json:"field"`
	Respondents int          `json:"respondents"`
	Options     []TallyEntry `json:"options"`
}

// Report is everything computed for one response collection
type Report struct {
	Filter   DemographicFilter         `json:"filter"`
	Branches BranchCounts              `json:"branches"`
	Scores   map[Dimension]ScoreResult `json:"scores"`
	NPS      NPSResult                 `json:"nps"`
	Alerts   []Alert                   `json:"alerts"`
	Choices  []ChoiceSummary           `json:"choices,omitempty"`
	Excluded []Exclusion               `json:"excluded"`
}

// Comparison is a trend run over two survey instances
type Comparison struct {
	Older  *Report `json:"older"`
	Newer  *Report `json:"newer"`
	Trends []Trend `json:"trends"`
}

type scorer struct {
	dim Dimension
	fn  func(*Partition, *Catalog) ScoreResult
}

var scorers = []scorer{
	{DimAwareness, ScoreAwareness},
	{DimTrust, ScoreTrust},
	{DimUsage, ScoreUsage},
	{DimImpact, ScoreImpact},
	{DimUtilization, ScoreUtilization},
	{DimSatisfaction, ScoreSatisfaction},
}

// Engine turns response collections into reports. It holds no mutable
// state; one Engine can serve concurrent callers.
type Engine struct {
	catalog    Catalog
	thresholds Thresholds
}

// NewEngine creates an engine over a field catalog and alert thresholds
func NewEngine(catalog Catalog, thresholds Thresholds) *Engine {
	return &Engine{catalog: catalog, thresholds: thresholds}
}

// NewDefaultEngine creates an engine with the default catalog and thresholds
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultCatalog(), DefaultThresholds())
}

// Thresholds returns the engine's cutoffs
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Validate checks the structural contract of the input
func Validate(responses []*model.Response) error {
	for i, r := range responses {
		if r == nil {
			return &StructuralError{Reason: fmt.Sprintf("response at index %d is nil", i)}
		}
	}
	return nil
}

// Evaluate computes every dimension, NPS, choice tallies and alerts.
// Data-quality problems are excluded and reported; only structural
// violations return an error.
func (e *Engine) Evaluate(responses []*model.Response, opts Options) (*Report, error) {
	if err := Validate(responses); err != nil {
		return nil, err
	}

	p := Classify(opts.Filter.Apply(responses))

	results := make([]ScoreResult, len(scorers))
	var npsResult ScoreResult
	var nps NPSResult
	var choices []ChoiceSummary

	if opts.Parallel {
		var g errgroup.Group
		for i, s := range scorers {
			g.Go(func() error {
				results[i] = s.fn(p, &e.catalog)
				return nil
			})
		}
		g.Go(func() error {
			npsResult, nps = ScoreNPS(p, &e.catalog)
			return nil
		})
		g.Go(func() error {
			choices = summarizeChoices(p, &e.catalog)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, s := range scorers {
			results[i] = s.fn(p, &e.catalog)
		}
		npsResult, nps = ScoreNPS(p, &e.catalog)
		choices = summarizeChoices(p, &e.catalog)
	}

	scores := make(map[Dimension]ScoreResult, len(scorers)+1)
	for i, s := range scorers {
		scores[s.dim] = results[i]
	}
	scores[DimNPS] = npsResult

	excluded := p.Excluded
	if excluded == nil {
		excluded = []Exclusion{}
	}

	return &Report{
		Filter:   opts.Filter,
		Branches: p.Counts(),
		Scores:   scores,
		NPS:      nps,
		Alerts:   EvaluateAlerts(scores, e.thresholds),
		Choices:  choices,
		Excluded: excluded,
	}, nil
}

// Compare evaluates two chronologically ordered collections with the same
// options and returns per-dimension deltas.
func (e *Engine) Compare(older, newer []*model.Response, opts Options) (*Comparison, error) {
	o, err := e.Evaluate(older, opts)
	if err != nil {
		return nil, fmt.Errorf("older instance: %w", err)
	}
	n, err := e.Evaluate(newer, opts)
	if err != nil {
		return nil, fmt.Errorf("newer instance: %w", err)
	}
	return &Comparison{
		Older:  o,
		Newer:  n,
		Trends: CompareReports(o, n, e.thresholds),
	}, nil
}

func summarizeChoices(p *Partition, c *Catalog) []ChoiceSummary {
	x := NewExtractor(c.Remap)
	all := p.All()
	out := make([]ChoiceSummary, 0, len(c.Choices))
	for _, field := range c.Choices {
		t := NewTally()
		respondents := 0
		for _, r := range all {
			if vals, ok := x.Multi(r, field); ok {
				respondents++
				for _, v := range vals {
					t.Add(v)
				}
				continue
			}
			if v, ok := x.Choice(r, field); ok {
				respondents++
				t.Add(v)
			}
		}
		out = append(out, ChoiceSummary{Field: field, Respondents: respondents, Options: t.Entries()})
	}
	return out
}

// Rounded returns a copy of the report rounded for display
func (r *Report) Rounded() *Report {
	out := *r
	out.Branches = r.Branches.Rounded()
	out.Scores = make(map[Dimension]ScoreResult, len(r.Scores))
	for dim, s := range r.Scores {
		out.Scores[dim] = s.Rounded()
	}
	alerts := make([]Alert, len(r.Alerts))
	for i, a := range r.Alerts {
		a.Value = Round(a.Value, 2)
		alerts[i] = a
	}
	out.Alerts = alerts
	return &out
}

// Rounded returns a copy of the comparison rounded for display
func (c *Comparison) Rounded() *Comparison {
	trends := make([]Trend, len(c.Trends))
	for i, t := range c.Trends {
		trends[i] = t.Rounded()
	}
	return &Comparison{
		Older:  c.Older.Rounded(),
		Newer:  c.Newer.Rounded(),
		Trends: trends,
	}
}
