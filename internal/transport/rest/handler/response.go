package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"eapmetrics/internal/model"
	"eapmetrics/internal/service"
)

// maxResponseBody caps a single submission
const maxResponseBody = 64 << 10

// ResponseHandler handles respondent submissions
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SubmitRequest is the body respondents post
type SubmitRequest struct {
	Branch       model.Branch        `json:"branch"`
	Answers      model.Answers       `json:"answers"`
	Demographics *model.Demographics `json:"demographics,omitempty"`
}

// Submit handles POST /v1/surveys/{surveyId}/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	var req SubmitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResponseBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := &model.Response{
		Branch:       req.Branch,
		Answers:      req.Answers,
		Demographics: req.Demographics,
	}
	id, err := h.responseSvc.Submit(r.Context(), surveyID, resp)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"responseId": id})
}
