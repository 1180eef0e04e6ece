package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eapmetrics/internal/cache"
	"eapmetrics/internal/model"
	"eapmetrics/internal/repository"
)

var (
	ErrInvalidResponse = errors.New("invalid response")
	ErrSurveyClosed    = errors.New("survey is not accepting responses")
)

// ResponseService accepts respondent submissions
type ResponseService struct {
	responseRepo repository.ResponseRepo
	surveyRepo   repository.SurveyRepo
	feed         cache.ChangeFeed
	now          func() time.Time
}

// NewResponseService creates a new response service. feed may be nil.
func NewResponseService(responseRepo repository.ResponseRepo, surveyRepo repository.SurveyRepo, feed cache.ChangeFeed) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		surveyRepo:   surveyRepo,
		feed:         feed,
		now:          time.Now,
	}
}

// Submit validates and stores one response, then announces it on the change feed
func (s *ResponseService) Submit(ctx context.Context, surveyID string, resp *model.Response) (string, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return "", err
	}
	if survey == nil {
		return "", ErrSurveyNotFound
	}
	now := s.now().UTC()
	if !survey.IsOpen(now) {
		return "", ErrSurveyClosed
	}

	if err := normalizeSubmission(resp); err != nil {
		return "", err
	}
	resp.ID = ""
	resp.SurveyID = survey.ID
	resp.CompanyID = survey.CompanyID
	resp.SubmittedAt = now

	if err := s.responseRepo.Create(ctx, resp); err != nil {
		return "", err
	}

	if s.feed != nil {
		ev := &cache.ResponseEvent{
			SurveyID:   resp.SurveyID,
			ResponseID: resp.ID,
			Branch:     resp.Branch,
			At:         now,
		}
		if err := s.feed.Publish(ctx, ev); err != nil {
			slog.Warn("failed to publish response event",
				slog.String("surveyId", resp.SurveyID),
				slog.String("error", err.Error()))
		}
	}
	return resp.ID, nil
}

// normalizeSubmission rejects unknown branches and answer values no field
// can hold. Null answers are dropped.
func normalizeSubmission(resp *model.Response) error {
	if resp == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	if !resp.Branch.IsKnown() {
		return fmt.Errorf("%w: unknown branch %q", ErrInvalidResponse, resp.Branch)
	}
	if resp.Answers == nil {
		resp.Answers = model.Answers{}
	}
	for key, v := range resp.Answers {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty answer key", ErrInvalidResponse)
		}
		switch val := v.(type) {
		case nil:
			delete(resp.Answers, key)
		case float64, string, bool:
		case []interface{}:
			for _, item := range val {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("%w: %s must be a list of strings", ErrInvalidResponse, key)
				}
			}
		default:
			return fmt.Errorf("%w: unsupported value for %s", ErrInvalidResponse, key)
		}
	}
	if d := resp.Demographics; d != nil {
		d.Gender = strings.TrimSpace(d.Gender)
		d.AgeBand = strings.TrimSpace(d.AgeBand)
		if d.Gender == "" && d.AgeBand == "" {
			resp.Demographics = nil
		}
	}
	return nil
}
