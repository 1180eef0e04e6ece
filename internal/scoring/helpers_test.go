package scoring

import (
	"fmt"
	"math"

	"eapmetrics/internal/model"
)

func resp(id string, branch model.Branch, answers model.Answers) *model.Response {
	return &model.Response{ID: id, SurveyID: "S1", Branch: branch, Answers: answers}
}

func withDemo(r *model.Response, gender, ageBand string) *model.Response {
	r.Demographics = &model.Demographics{Gender: gender, AgeBand: ageBand}
	return r
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func usedWith(n int, key string, values ...float64) []*model.Response {
	out := make([]*model.Response, 0, len(values))
	for i, v := range values {
		out = append(out, resp(fmt.Sprintf("u%d-%d", n, i), model.BranchUsed, model.Answers{key: v}))
	}
	return out
}
