package service

import (
	"context"
	"errors"
	"testing"

	"eapmetrics/internal/model"
)

func TestSurveyServiceCreate(t *testing.T) {
	before := t0.Add(-1)
	cases := []struct {
		name    string
		survey  model.SurveyInstance
		wantErr error
	}{
		{"valid", model.SurveyInstance{CompanyID: " acme ", Title: " Pulse "}, nil},
		{"missing title", model.SurveyInstance{CompanyID: "acme", Title: "  "}, ErrInvalidSurvey},
		{"missing company", model.SurveyInstance{Title: "Pulse"}, ErrInvalidSurvey},
		{"expires before start", model.SurveyInstance{CompanyID: "acme", Title: "Pulse", StartDate: t0, ExpiresAt: &before}, ErrInvalidSurvey},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := NewSurveyService(newStubSurveyRepo())
			s := c.survey
			id, err := svc.Create(context.Background(), &s)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Create error = %v, want %v", err, c.wantErr)
			}
			if c.wantErr == nil && (id == "" || s.CompanyID != "acme" || s.Title != "Pulse") {
				t.Errorf("expected trimmed stored survey, got id=%q %+v", id, s)
			}
		})
	}
}

func TestSurveyServiceClose(t *testing.T) {
	repo := newStubSurveyRepo(openSurvey("Q1", "acme", t0))
	svc := NewSurveyService(repo)
	ctx := context.Background()

	if err := svc.Close(ctx, "Q1"); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	s, err := svc.GetByID(ctx, "Q1")
	if err != nil {
		t.Fatal(err)
	}
	if s.IsActive || s.IsOpen(t0.AddDate(0, 0, 1)) {
		t.Errorf("closed survey must not accept responses")
	}

	if err := svc.Close(ctx, "missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("expected ErrSurveyNotFound, got %v", err)
	}
}
