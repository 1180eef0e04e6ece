package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eapmetrics/internal/config"
	"eapmetrics/internal/model"
	"eapmetrics/internal/repository"
)

const (
	companyID    = "acme"
	employees    = 240
	perInstance  = 60
	randomSource = 2026
)

var (
	barriers = []string{"time_constraints", "stigma", "confidentiality_concerns", "not_needed", "unaware_of_services"}
	services = []string{"counseling", "legal_advice", "financial_advice", "work_life"}
	channels = []string{"phone", "video", "in_person", "chat"}
	genders  = []string{"female", "male", "non_binary"}
	ageBands = []string{"18-24", "25-34", "35-44", "45-54", "55+"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)
	companies := repository.NewCompanyRepo(db)
	surveys := repository.NewSurveyRepo(db)
	responses := repository.NewResponseRepo(db)

	if err := responses.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	if err := companies.Upsert(ctx, &model.Company{ID: companyID, Name: "Acme Corp", EmployeeCount: employees}); err != nil {
		log.Fatalf("Failed to upsert company: %v", err)
	}

	rng := rand.New(rand.NewSource(randomSource))
	now := time.Now().UTC()
	instances := []struct {
		title string
		start time.Time
		// shifts every scale answer; the later pulse scores higher
		lift int
	}{
		{"EAP pulse, spring", now.AddDate(0, -6, 0), 0},
		{"EAP pulse, autumn", now.AddDate(0, 0, -7), 1},
	}

	for _, in := range instances {
		expires := in.start.AddDate(0, 1, 0)
		survey := &model.SurveyInstance{
			CompanyID: companyID,
			Title:     in.title,
			StartDate: in.start,
			ExpiresAt: &expires,
			IsActive:  true,
		}
		id, err := surveys.Create(ctx, survey)
		if err != nil {
			log.Fatalf("Failed to create survey %q: %v", in.title, err)
		}

		for i := 0; i < perInstance; i++ {
			resp := randomResponse(rng, in.lift)
			resp.SurveyID = id
			resp.CompanyID = companyID
			resp.SubmittedAt = in.start.Add(time.Duration(i) * time.Hour)
			if err := responses.Create(ctx, resp); err != nil {
				log.Fatalf("Failed to insert response: %v", err)
			}
		}
		fmt.Printf("Created survey '%s' (%s) with %d responses\n", in.title, id, perInstance)
	}
}

func randomResponse(rng *rand.Rand, lift int) *model.Response {
	scale := func() float64 {
		v := 1 + rng.Intn(5) + lift
		if v > 5 {
			v = 5
		}
		return float64(v)
	}
	pick := func(options []string) string { return options[rng.Intn(len(options))] }
	some := func(options []string) []interface{} {
		var out []interface{}
		for _, o := range options {
			if rng.Intn(3) == 0 {
				out = append(out, o)
			}
		}
		return out
	}

	resp := &model.Response{
		Demographics: &model.Demographics{Gender: pick(genders), AgeBand: pick(ageBands)},
	}

	switch n := rng.Intn(10); {
	case n < 5:
		resp.Branch = model.BranchUsed
		resp.Answers = model.Answers{
			"u_awareness_understanding": scale(),
			"u_trust_anonymity":         scale(),
			"u_trust_employer_fear":     scale(),
			"u_trust_colleague_fear":    scale(),
			"u_trust_future_use":        scale(),
			"u_usage_likelihood":        scale(),
			"u_impact_satisfaction":     scale(),
			"u_impact_problem_solving":  scale(),
			"u_impact_wellbeing":        scale(),
			"u_impact_performance":      scale(),
			"u_impact_consistency":      scale(),
			"u_nps":                     float64(rng.Intn(11)),
			"u_services_used":           some(services),
			"u_contact_channel":         pick(channels),
		}
	case n < 8:
		resp.Branch = model.BranchNotUsed
		resp.Answers = model.Answers{
			"nu_awareness_understanding": scale(),
			"nu_would_use":               rng.Intn(2) == 0,
			"nu_barriers":                some(barriers),
		}
	default:
		resp.Branch = model.BranchRedirect
		resp.Answers = model.Answers{}
	}
	return resp
}
