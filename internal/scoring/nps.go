package scoring

import "math"

// NPSBucket is the promoter/passive/detractor class of a 0-10 score
type NPSBucket string

const (
	Detractor NPSBucket = "detractor"
	Passive   NPSBucket = "passive"
	Promoter  NPSBucket = "promoter"
)

// ClassifyNPS buckets a 0-10 score
func ClassifyNPS(score int) NPSBucket {
	switch {
	case score >= 9:
		return Promoter
	case score >= 7:
		return Passive
	default:
		return Detractor
	}
}

// NPSResult holds the bucket counts and the index.
// Score is nil when nobody answered; 0 is a real NPS.
type NPSResult struct {
	Promoters  int  `json:"promoters"`
	Passives   int  `json:"passives"`
	Detractors int  `json:"detractors"`
	Total      int  `json:"total"`
	Score      *int `json:"score"`
}

// Defined reports whether the index could be computed
func (n NPSResult) Defined() bool { return n.Score != nil }

// ComputeNPS classifies scores and computes round((P-D)/N*100).
// Scores outside 0..10 are skipped and do not count towards N.
func ComputeNPS(scores []int) NPSResult {
	var res NPSResult
	for _, s := range scores {
		if s < 0 || s > 10 {
			continue
		}
		switch ClassifyNPS(s) {
		case Promoter:
			res.Promoters++
		case Passive:
			res.Passives++
		default:
			res.Detractors++
		}
	}
	res.Total = res.Promoters + res.Passives + res.Detractors
	if res.Total == 0 {
		return res
	}
	idx := int(math.Round(float64(res.Promoters-res.Detractors) / float64(res.Total) * 100))
	res.Score = &idx
	return res
}

// ScoreNPS computes NPS over the used branch
func ScoreNPS(p *Partition, c *Catalog) (ScoreResult, NPSResult) {
	x := NewExtractor(c.Remap)
	scores := make([]int, 0, len(p.Used))
	for _, r := range p.Used {
		if v, ok := x.Integer(r, c.NPS, NPSMin, NPSMax); ok {
			scores = append(scores, v)
		}
	}
	nps := ComputeNPS(scores)
	res := ScoreResult{
		Dimension:  DimNPS,
		SampleSize: nps.Total,
		Unit:       UnitIndex,
	}
	if nps.Defined() {
		res.Value = float64(*nps.Score)
	}
	return res, nps
}
