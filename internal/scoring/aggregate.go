package scoring

import "math"

// Stat is an aggregate together with the number of values behind it.
// A zero N means "no signal"; Value is then 0 and must not be read as a score.
type Stat struct {
	Value float64 `json:"value"`
	N     int     `json:"sampleSize"`
}

// Mean returns the arithmetic mean of values, or {0, 0} for an empty slice
func Mean(values []float64) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Stat{Value: sum / float64(len(values)), N: len(values)}
}

// Percentage returns count/total*100, or 0 when total is 0
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// Round rounds v half away from zero to the given number of decimal places.
// Only the presentation boundary calls this.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// TallyEntry is one distinct value and how often it occurred
type TallyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Tally counts occurrences of distinct values, remembering first-seen order
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// TallyOf tallies a slice of values
func TallyOf(values []string) *Tally {
	t := NewTally()
	for _, v := range values {
		t.Add(v)
	}
	return t
}

// Add records one occurrence of v
func (t *Tally) Add(v string) {
	if _, seen := t.counts[v]; !seen {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

// Count returns the occurrences of v
func (t *Tally) Count(v string) int {
	return t.counts[v]
}

// Len returns the number of distinct values
func (t *Tally) Len() int {
	return len(t.order)
}

// Entries returns the counts in first-seen order
func (t *Tally) Entries() []TallyEntry {
	out := make([]TallyEntry, 0, len(t.order))
	for _, v := range t.order {
		out = append(out, TallyEntry{Value: v, Count: t.counts[v]})
	}
	return out
}
