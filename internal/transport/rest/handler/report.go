package handler

import (
	"net/http"

	"eapmetrics/internal/scoring"
	"eapmetrics/internal/service"
)

// ReportHandler handles dashboard report endpoints
type ReportHandler struct {
	surveySvc *service.SurveyService
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(surveySvc *service.SurveyService, reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{
		surveySvc: surveySvc,
		reportSvc: reportSvc,
	}
}

// Report handles GET /v1/surveys/{surveyId}/report?gender=&ageBand=
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	survey, ok := loadSurvey(w, r, h.surveySvc)
	if !ok {
		return
	}

	view, err := h.reportSvc.Report(r.Context(), survey.ID, filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Branches handles GET /v1/surveys/{surveyId}/branches
func (h *ReportHandler) Branches(w http.ResponseWriter, r *http.Request) {
	survey, ok := loadSurvey(w, r, h.surveySvc)
	if !ok {
		return
	}

	view, err := h.reportSvc.Branches(r.Context(), survey.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Trend handles GET /v1/surveys/{surveyId}/trend?compareTo=
func (h *ReportHandler) Trend(w http.ResponseWriter, r *http.Request) {
	survey, ok := loadSurvey(w, r, h.surveySvc)
	if !ok {
		return
	}

	view, err := h.reportSvc.Trend(r.Context(), survey.ID, r.URL.Query().Get("compareTo"), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func filterFromQuery(r *http.Request) scoring.DemographicFilter {
	q := r.URL.Query()
	return scoring.DemographicFilter{
		Gender:  q.Get("gender"),
		AgeBand: q.Get("ageBand"),
	}
}
