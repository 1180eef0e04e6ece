package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"eapmetrics/internal/cache"
	"eapmetrics/internal/config"
	"eapmetrics/internal/model"
	"eapmetrics/internal/repository"
	"eapmetrics/internal/scoring"
)

var (
	ErrNoPreviousSurvey = errors.New("no earlier survey to compare with")
	ErrCompanyMismatch  = errors.New("surveys belong to different companies")
)

// Participation relates the valid responses to the company headcount.
// Rate and EstimatedUsers are nil when the headcount is unknown.
type Participation struct {
	EmployeeCount  int      `json:"employeeCount"`
	Responses      int      `json:"responses"`
	Rate           *float64 `json:"rate"`
	EstimatedUsers *int     `json:"estimatedUsers"`
}

// ReportView is the dashboard payload for one survey instance
type ReportView struct {
	SurveyID      string          `json:"surveyId"`
	CompanyID     string          `json:"companyId"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	Participation Participation   `json:"participation"`
	Report        *scoring.Report `json:"report"`
}

// BranchView is the participation breakdown of one instance
type BranchView struct {
	SurveyID string               `json:"surveyId"`
	Branches scoring.BranchCounts `json:"branches"`
}

// TrendView compares two instances of the same company
type TrendView struct {
	CompanyID   string              `json:"companyId"`
	OlderID     string              `json:"olderSurveyId"`
	NewerID     string              `json:"newerSurveyId"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Comparison  *scoring.Comparison `json:"comparison"`
}

// ReportService computes dashboards from stored responses
type ReportService struct {
	engine       *scoring.Engine
	parallel     bool
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	companyRepo  repository.CompanyRepo
	cache        cache.ReportCache
	now          func() time.Time
}

// NewReportService creates a new report service. reportCache may be nil.
func NewReportService(
	engine *scoring.Engine,
	parallel bool,
	surveyRepo repository.SurveyRepo,
	responseRepo repository.ResponseRepo,
	companyRepo repository.CompanyRepo,
	reportCache cache.ReportCache,
) *ReportService {
	return &ReportService{
		engine:       engine,
		parallel:     parallel,
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		companyRepo:  companyRepo,
		cache:        reportCache,
		now:          time.Now,
	}
}

// ThresholdsFromConfig applies non-zero configured cutoffs over the defaults
func ThresholdsFromConfig(cfg config.ScoringConfig) scoring.Thresholds {
	t := scoring.DefaultThresholds()
	override := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	override(&t.UnderstandingMin, cfg.UnderstandingMin)
	override(&t.TrustSubscoreMin, cfg.TrustSubscoreMin)
	override(&t.TrustCompositeMin, cfg.TrustCompositeMin)
	override(&t.EmployerFearMax, cfg.EmployerFearMax)
	override(&t.ImpactMin, cfg.ImpactMin)
	override(&t.UsageLikelihoodMin, cfg.UsageLikelihoodMin)
	return t
}

// Report returns the rounded report of one instance under a filter
func (s *ReportService) Report(ctx context.Context, surveyID string, filter scoring.DemographicFilter) (*ReportView, error) {
	key := cache.ReportKey(surveyID, filter)
	var cached ReportView
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	responses, err := s.responseRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	report, err := s.engine.Evaluate(responses, scoring.Options{Filter: filter, Parallel: s.parallel})
	if err != nil {
		return nil, err
	}
	logExclusions(surveyID, report.Excluded)

	employees, err := s.companyRepo.EmployeeCount(ctx, survey.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load employee count: %w", err)
	}

	view := &ReportView{
		SurveyID:      surveyID,
		CompanyID:     survey.CompanyID,
		GeneratedAt:   s.now().UTC(),
		Participation: participation(report.Branches, employees),
		Report:        report.Rounded(),
	}
	s.cacheSet(ctx, key, view, surveyID)
	return view, nil
}

// Branches returns the rounded branch breakdown of one instance
func (s *ReportService) Branches(ctx context.Context, surveyID string) (*BranchView, error) {
	key := cache.BranchesKey(surveyID)
	var cached BranchView
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	responses, err := s.responseRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	if err := scoring.Validate(responses); err != nil {
		return nil, err
	}

	view := &BranchView{
		SurveyID: surveyID,
		Branches: scoring.CountBranches(responses).Rounded(),
	}
	s.cacheSet(ctx, key, view, surveyID)
	return view, nil
}

// Trend compares newerID with olderID. An empty olderID selects the
// company's instance started just before the newer one.
func (s *ReportService) Trend(ctx context.Context, newerID, olderID string, filter scoring.DemographicFilter) (*TrendView, error) {
	newer, err := s.surveyRepo.GetByID(ctx, newerID)
	if err != nil {
		return nil, err
	}
	if newer == nil {
		return nil, ErrSurveyNotFound
	}

	older, err := s.resolveOlder(ctx, newer, olderID)
	if err != nil {
		return nil, err
	}
	if older.CompanyID != newer.CompanyID {
		return nil, ErrCompanyMismatch
	}
	// callers may pass the pair in either order
	if older.StartDate.After(newer.StartDate) {
		older, newer = newer, older
	}

	key := cache.TrendKey(older.ID, newer.ID, filter)
	var cached TrendView
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	olderResponses, err := s.responseRepo.ListBySurvey(ctx, older.ID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	newerResponses, err := s.responseRepo.ListBySurvey(ctx, newer.ID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	cmp, err := s.engine.Compare(olderResponses, newerResponses, scoring.Options{Filter: filter, Parallel: s.parallel})
	if err != nil {
		return nil, err
	}

	view := &TrendView{
		CompanyID:   newer.CompanyID,
		OlderID:     older.ID,
		NewerID:     newer.ID,
		GeneratedAt: s.now().UTC(),
		Comparison:  cmp.Rounded(),
	}
	s.cacheSet(ctx, key, view, older.ID, newer.ID)
	return view, nil
}

func (s *ReportService) resolveOlder(ctx context.Context, newer *model.SurveyInstance, olderID string) (*model.SurveyInstance, error) {
	if olderID == "" {
		prev, err := s.surveyRepo.Previous(ctx, newer)
		if err != nil {
			return nil, err
		}
		if prev == nil {
			return nil, ErrNoPreviousSurvey
		}
		return prev, nil
	}
	if olderID == newer.ID {
		return nil, fmt.Errorf("%w: cannot compare a survey with itself", ErrInvalidSurvey)
	}
	older, err := s.surveyRepo.GetByID(ctx, olderID)
	if err != nil {
		return nil, err
	}
	if older == nil {
		return nil, ErrSurveyNotFound
	}
	return older, nil
}

// Invalidate drops every cached view computed from the instance
func (s *ReportService) Invalidate(ctx context.Context, surveyID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, surveyID)
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("report cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return ok
}

func (s *ReportService) cacheSet(ctx context.Context, key string, v interface{}, surveyIDs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, surveyIDs...); err != nil {
		slog.Warn("report cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func participation(b scoring.BranchCounts, employees int) Participation {
	p := Participation{EmployeeCount: employees, Responses: b.Valid}
	if employees <= 0 {
		return p
	}
	rate := scoring.Round(scoring.Percentage(b.Valid, employees), 1)
	p.Rate = &rate
	if b.Valid > 0 {
		users := int(math.Round(float64(b.Used) / float64(b.Valid) * float64(employees)))
		p.EstimatedUsers = &users
	}
	return p
}

func logExclusions(surveyID string, excluded []scoring.Exclusion) {
	if len(excluded) == 0 {
		return
	}
	slog.Warn("responses excluded from scoring",
		slog.String("surveyId", surveyID),
		slog.Int("count", len(excluded)),
		slog.String("first", excluded[0].Reason))
}
