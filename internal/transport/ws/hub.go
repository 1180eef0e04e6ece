package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgReportUpdate carries a fresh report to a dashboard
const MsgReportUpdate MessageType = "report_update"

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages dashboard connections per survey instance
type Hub struct {
	// surveyID -> connID -> conn
	dashboards map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one dashboard WebSocket
type Connection struct {
	ID       string
	SurveyID string
	AdminID  string
	Send     chan []byte
}

// BroadcastMessage is a message for every dashboard of a survey
type BroadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		dashboards: make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.dashboards[conn.SurveyID] == nil {
				h.dashboards[conn.SurveyID] = make(map[string]*Connection)
			}
			h.dashboards[conn.SurveyID][conn.ID] = conn
			h.mu.Unlock()
			slog.Info("dashboard connected", slog.String("surveyId", conn.SurveyID), slog.String("adminId", conn.AdminID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.dashboards[conn.SurveyID]; ok {
				if existing, ok := conns[conn.ID]; ok && existing == conn {
					delete(conns, conn.ID)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.dashboards, conn.SurveyID)
					}
					slog.Info("dashboard disconnected", slog.String("surveyId", conn.SurveyID), slog.String("adminId", conn.AdminID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				slog.Error("failed to encode dashboard message", slog.String("error", err.Error()))
				continue
			}
			h.mu.RLock()
			for _, conn := range h.dashboards[msg.SurveyID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToDashboards sends a message to every dashboard of a survey (implements service.Broadcaster)
func (h *Hub) BroadcastToDashboards(surveyID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode dashboard payload", slog.String("surveyId", surveyID), slog.String("error", err.Error()))
		return
	}
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DashboardCount returns the number of open dashboards of a survey (implements service.Broadcaster)
func (h *Hub) DashboardCount(surveyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.dashboards[surveyID])
}
