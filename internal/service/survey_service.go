package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eapmetrics/internal/model"
	"eapmetrics/internal/repository"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrInvalidSurvey  = errors.New("invalid survey")
)

// SurveyService handles survey instance operations
type SurveyService struct {
	surveyRepo repository.SurveyRepo
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
	}
}

// Create validates and stores a new instance
func (s *SurveyService) Create(ctx context.Context, survey *model.SurveyInstance) (string, error) {
	survey.Title = strings.TrimSpace(survey.Title)
	survey.CompanyID = strings.TrimSpace(survey.CompanyID)
	if survey.Title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidSurvey)
	}
	if survey.CompanyID == "" {
		return "", fmt.Errorf("%w: companyId is required", ErrInvalidSurvey)
	}
	if survey.ExpiresAt != nil && !survey.StartDate.IsZero() && !survey.ExpiresAt.After(survey.StartDate) {
		return "", fmt.Errorf("%w: expiresAt must be after startDate", ErrInvalidSurvey)
	}
	return s.surveyRepo.Create(ctx, survey)
}

// GetByID retrieves an instance or ErrSurveyNotFound
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.SurveyInstance, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// ListByCompany retrieves a company's instances in start order
func (s *SurveyService) ListByCompany(ctx context.Context, companyID string) ([]*model.SurveyInstance, error) {
	return s.surveyRepo.ListByCompany(ctx, companyID)
}

// Close stops an instance from accepting responses
func (s *SurveyService) Close(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.surveyRepo.SetActive(ctx, id, false)
}
