package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
)

// MoodHandler owns mood analysis, logging and pattern detection.
type MoodHandler struct {
	store  services.DocumentStore
	agents *agents.Service
	log    *zap.Logger
}

func NewMoodHandler(store services.DocumentStore, ag *agents.Service, log *zap.Logger) *MoodHandler {
	return &MoodHandler{store: store, agents: ag, log: log}
}

type AnalyzeMoodRequest struct {
	Text string `json:"text"`
}

// Analyze handles POST /api/mood/analyze.
func (h *MoodHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AnalyzeMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	mood := h.agents.AnalyzeMood(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"mood":    mood,
	})
}

// Log handles POST /api/mood/log, appending one check-in.
func (h *MoodHandler) Log(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.MoodLogCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MoodScore < 1 || req.MoodScore > 10 {
		writeError(w, http.StatusBadRequest, "mood_score must be between 1 and 10")
		return
	}
	if req.MoodLabels == nil {
		req.MoodLabels = []string{}
	}

	log := &models.MoodLog{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		MoodScore:  req.MoodScore,
		MoodLabels: req.MoodLabels,
		Context:    req.Context,
		Factors:    req.Factors,
		Location:   req.Location,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.store.CreateMoodLog(r.Context(), log); err != nil {
		writeInternalError(w, r, h.log, "mood log failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"mood_log": log,
	})
}

// List handles GET /api/mood/ with skip/limit pagination, newest first.
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	skip, limit := parsePagination(r, 20)
	logs, err := h.store.ListMoodLogs(r.Context(), user.ID, skip, limit)
	if err != nil {
		writeInternalError(w, r, h.log, "mood list failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"mood_logs": logs,
	})
}

type PatternsRequest struct {
	Entries []string `json:"entries"`
}

// Patterns handles POST /api/mood/patterns over caller-supplied entries.
func (h *MoodHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PatternsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries are required")
		return
	}

	patterns := h.agents.DetectPatterns(r.Context(), req.Entries)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"patterns": patterns,
	})
}
