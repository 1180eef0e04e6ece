package scoring

import (
	"encoding/json"
	"math"
	"strings"

	"eapmetrics/internal/model"
)

// Remap maps field key -> legacy answer value -> current bucket
type Remap map[string]map[string]string

// DefaultRemap folds historical free-text barrier answers into the current
// categorical buckets.
func DefaultRemap() Remap {
	return Remap{
		"nu_barriers": {
			"no_time":        "time_constraints",
			"too_busy":       "time_constraints",
			"didnt_know_how": "unclear_access",
			"dont_know_how":  "unclear_access",
			"privacy":        "confidentiality_concerns",
			"afraid_boss":    "confidentiality_concerns",
			"other_help":     "alternative_support",
			"therapist":      "alternative_support",
		},
	}
}

// Extractor reads typed answer values out of a response
type Extractor struct {
	remap Remap
}

// NewExtractor creates an extractor applying the given remap table
func NewExtractor(remap Remap) *Extractor {
	return &Extractor{remap: remap}
}

func (x *Extractor) raw(r *model.Response, key string) (interface{}, bool) {
	if r == nil || r.Answers == nil {
		return nil, false
	}
	v, ok := r.Answers[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Scalar returns a numeric answer
func (x *Extractor) Scalar(r *model.Response, key string) (float64, bool) {
	v, ok := x.raw(r, key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Likert returns a numeric answer within [min, max]
func (x *Extractor) Likert(r *model.Response, key string, min, max float64) (float64, bool) {
	v, ok := x.Scalar(r, key)
	if !ok || v < min || v > max {
		return 0, false
	}
	return v, true
}

// Integer returns a whole-number answer within [min, max]
func (x *Extractor) Integer(r *model.Response, key string, min, max int) (int, bool) {
	v, ok := x.Likert(r, key, float64(min), float64(max))
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// Choice returns a single-choice answer after legacy remapping
func (x *Extractor) Choice(r *model.Response, key string) (string, bool) {
	v, ok := x.raw(r, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return x.mapValue(key, s), true
}

// Multi returns every selected option of a multi-choice answer, remapped and
// de-duplicated in selection order. A list holding any non-string is absent.
func (x *Extractor) Multi(r *model.Response, key string) ([]string, bool) {
	v, ok := x.raw(r, key)
	if !ok {
		return nil, false
	}
	var items []string
	switch vv := v.(type) {
	case []string:
		items = vv
	case []interface{}:
		items = make([]string, 0, len(vv))
		for _, it := range vv {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
	default:
		return nil, false
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		s = x.mapValue(key, s)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Binary returns a yes/no answer. Anything that is not clearly yes or no
// counts as an abstention.
func (x *Extractor) Binary(r *model.Response, key string) (bool, bool) {
	v, ok := x.raw(r, key)
	if !ok {
		return false, false
	}
	switch vv := v.(type) {
	case bool:
		return vv, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x.mapValue(key, vv))) {
		case "yes", "y", "true", "1":
			return true, true
		case "no", "n", "false", "0":
			return false, true
		}
		return false, false
	}
	f, ok := toFloat(v)
	if !ok {
		return false, false
	}
	switch f {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}

func (x *Extractor) mapValue(key, v string) string {
	if m, ok := x.remap[key]; ok {
		if mapped, ok := m[v]; ok {
			return mapped
		}
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
