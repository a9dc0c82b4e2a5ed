package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
)

// MindfulnessHandler serves the exercise catalog and practice tracking.
type MindfulnessHandler struct {
	store services.DocumentStore
	log   *zap.Logger
}

func NewMindfulnessHandler(store services.DocumentStore, log *zap.Logger) *MindfulnessHandler {
	return &MindfulnessHandler{store: store, log: log}
}

// Exercise handles GET /api/mindfulness/exercise?type=.
func (h *MindfulnessHandler) Exercise(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	exerciseType := r.URL.Query().Get("type")
	guidance, err := agents.GuideExercise(exerciseType, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"guidance": guidance,
	})
}

type TrackRequest struct {
	ExerciseType    string `json:"exercise_type"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Track handles POST /api/mindfulness/track.
func (h *MindfulnessHandler) Track(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, ok := agents.LookupExercise(req.ExerciseType); !ok {
		writeError(w, http.StatusBadRequest, "unknown exercise_type")
		return
	}
	if req.DurationSeconds <= 0 {
		writeError(w, http.StatusBadRequest, "duration_seconds must be positive")
		return
	}

	session := &models.MindfulnessSession{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		ExerciseType:    req.ExerciseType,
		DurationSeconds: req.DurationSeconds,
		CompletedAt:     time.Now().UTC(),
	}
	if err := h.store.CreateMindfulnessSession(r.Context(), session); err != nil {
		writeInternalError(w, r, h.log, "mindfulness track failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"session": session,
	})
}

// Statistics handles GET /api/mindfulness/statistics.
func (h *MindfulnessHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessions, err := h.store.ListMindfulnessSessions(r.Context(), user.ID)
	if err != nil {
		writeInternalError(w, r, h.log, "mindfulness statistics failed", err)
		return
	}

	stats := models.MindfulnessStats{
		TotalSessions: len(sessions),
		Exercises:     map[string]models.ExerciseStats{},
	}
	for _, s := range sessions {
		ex := stats.Exercises[s.ExerciseType]
		ex.Count++
		ex.TotalDuration += s.DurationSeconds
		stats.Exercises[s.ExerciseType] = ex
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"statistics": stats,
	})
}
