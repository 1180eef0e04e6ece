package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"eapmetrics/internal/model"
	"eapmetrics/internal/scoring"
	"eapmetrics/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// SurveyLookup resolves the instance a dashboard watches
type SurveyLookup interface {
	GetByID(ctx context.Context, id string) (*model.SurveyInstance, error)
}

// ReportSource yields the initial report for a freshly connected dashboard
type ReportSource interface {
	Report(ctx context.Context, surveyID string, filter scoring.DemographicFilter) (*service.ReportView, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	surveys  SurveyLookup
	reports  ReportSource
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Origins are checked against
// allowedOrigins; "*" allows any.
func NewHandler(hub *Hub, authSvc *service.AuthService, surveys SurveyLookup, reports ReportSource, allowedOrigins []string) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		surveys: surveys,
		reports: reports,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// DashboardWS handles GET /v1/ws/surveys/{surveyId}/dashboard
func (h *Handler) DashboardWS(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateAdminToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// resolve before upgrading so unknown or foreign surveys get a plain 404
	survey, err := h.surveys.GetByID(r.Context(), surveyID)
	if errors.Is(err, service.ErrSurveyNotFound) {
		http.Error(w, "survey not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("dashboard survey lookup failed", slog.String("surveyId", surveyID), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if claims.CompanyID != "" && claims.CompanyID != survey.CompanyID {
		http.Error(w, "survey not found", http.StatusNotFound)
		return
	}

	initial, err := h.reports.Report(r.Context(), survey.ID, scoring.DemographicFilter{})
	if err != nil {
		// the dashboard still receives later updates
		slog.Error("initial dashboard report failed", slog.String("surveyId", surveyID), slog.String("error", err.Error()))
		initial = nil
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := &Connection{
		ID:       uuid.NewString(),
		SurveyID: survey.ID,
		AdminID:  claims.AdminID,
		Send:     make(chan []byte, 256),
	}

	if initial != nil {
		if data, err := encodeMessage(MsgReportUpdate, initial); err == nil {
			conn.Send <- data
		}
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func encodeMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// dashboards are read-only; reading keeps pong handling alive
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket closed unexpectedly", slog.String("surveyId", conn.SurveyID), slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
