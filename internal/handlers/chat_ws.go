package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
	"github.com/mindhaven/companion-backend/pkg/utils"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatClientMessage is what the frontend sends over the socket.
type ChatClientMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text,omitempty"`
}

// ChatServerMessage is what the backend sends back.
type ChatServerMessage struct {
	Type            string `json:"type"` // "reply", "crisis", "error", "pong"
	Text            string `json:"text,omitempty"`
	RiskLevel       string `json:"risk_level,omitempty"`
	CrisisResources string `json:"crisis_resources,omitempty"`
	GroundingPrompt string `json:"grounding_prompt,omitempty"`
	Timestamp       string `json:"timestamp"`
}

// ChatHandler runs the real-time companion conversation. Every inbound
// message is screened for crisis risk before the companion replies.
type ChatHandler struct {
	users     middleware.UserLoader
	agents    *agents.Service
	audit     services.SafetyAuditor
	jwtSecret string
	log       *zap.Logger
}

func NewChatHandler(users middleware.UserLoader, ag *agents.Service, audit services.SafetyAuditor, jwtSecret string, log *zap.Logger) *ChatHandler {
	return &ChatHandler{users: users, agents: ag, audit: audit, jwtSecret: jwtSecret, log: log}
}

// ServeWS handles GET /ws/chat.
// Authentication uses the usual Bearer token; browser WebSocket clients
// cannot set headers, so a `token` query parameter is accepted too.
func (h *ChatHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "missing access token", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ParseAccessToken(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "invalid access token", http.StatusUnauthorized)
		return
	}
	user, err := h.users.GetUser(r.Context(), claims.Subject)
	if err != nil || user == nil {
		http.Error(w, "invalid access token", http.StatusUnauthorized)
		return
	}

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		var msg ChatClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			h.handleMessage(ctx, conn, user, strings.TrimSpace(msg.Text))
		case "ping":
			_ = conn.WriteJSON(ChatServerMessage{
				Type:      "pong",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		default:
			// Ignore unknown types.
		}
	}
}

func (h *ChatHandler) handleMessage(ctx context.Context, conn *websocket.Conn, user *models.User, text string) {
	if text == "" {
		_ = conn.WriteJSON(ChatServerMessage{
			Type:      "error",
			Text:      "Message text is required",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	assessment := h.agents.AssessRisk(ctx, text)
	if assessment.RequiresImmediateAction {
		if err := h.audit.LogAssessment(ctx, user.ID, assessment.RiskLevel, assessment.Reasoning); err != nil {
			h.log.Warn("safety audit write failed",
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
		_ = conn.WriteJSON(ChatServerMessage{
			Type:            "crisis",
			Text:            "It sounds like you're going through something really difficult right now. You don't have to face this alone.",
			RiskLevel:       assessment.RiskLevel,
			CrisisResources: agents.CrisisResources(assessment.RiskLevel),
			GroundingPrompt: agents.GroundingPrompt(assessment.RiskLevel),
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	reply := h.agents.Chat(ctx, text)
	_ = conn.WriteJSON(ChatServerMessage{
		Type:      "reply",
		Text:      reply,
		RiskLevel: assessment.RiskLevel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
