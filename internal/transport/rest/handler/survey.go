package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"eapmetrics/internal/model"
	"eapmetrics/internal/service"
	"eapmetrics/internal/transport/rest/middleware"
)

// SurveyHandler handles survey instance endpoints
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// CreateSurveyRequest is the request body for deploying a survey instance
type CreateSurveyRequest struct {
	CompanyID string     `json:"companyId"`
	Title     string     `json:"title"`
	StartDate *time.Time `json:"startDate,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	companyID := strings.TrimSpace(req.CompanyID)
	if scope := middleware.GetCompanyID(r.Context()); scope != "" {
		if companyID == "" {
			companyID = scope
		}
		if companyID != scope {
			writeError(w, http.StatusForbidden, "company not accessible")
			return
		}
	}

	survey := &model.SurveyInstance{
		CompanyID: companyID,
		Title:     req.Title,
		ExpiresAt: req.ExpiresAt,
		IsActive:  true,
	}
	if req.StartDate != nil {
		survey.StartDate = req.StartDate.UTC()
	}

	id, err := h.surveySvc.Create(r.Context(), survey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"surveyId": id})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	survey, ok := loadSurvey(w, r, h.surveySvc)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// List handles GET /v1/surveys?companyId=
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("companyId")
	if scope := middleware.GetCompanyID(r.Context()); scope != "" {
		if companyID != "" && companyID != scope {
			writeError(w, http.StatusForbidden, "company not accessible")
			return
		}
		companyID = scope
	}
	if companyID == "" {
		writeError(w, http.StatusBadRequest, "companyId is required")
		return
	}

	surveys, err := h.surveySvc.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if surveys == nil {
		surveys = []*model.SurveyInstance{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Close handles POST /v1/surveys/{surveyId}/close
func (h *SurveyHandler) Close(w http.ResponseWriter, r *http.Request) {
	survey, ok := loadSurvey(w, r, h.surveySvc)
	if !ok {
		return
	}
	if err := h.surveySvc.Close(r.Context(), survey.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// loadSurvey resolves {surveyId} and enforces the admin's company scope.
// It writes the error response itself and reports whether to continue.
func loadSurvey(w http.ResponseWriter, r *http.Request, svc *service.SurveyService) (*model.SurveyInstance, bool) {
	survey, err := svc.GetByID(r.Context(), mux.Vars(r)["surveyId"])
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	if scope := middleware.GetCompanyID(r.Context()); scope != "" && scope != survey.CompanyID {
		// hide other tenants' instances
		writeError(w, http.StatusNotFound, service.ErrSurveyNotFound.Error())
		return nil, false
	}
	return survey, true
}
