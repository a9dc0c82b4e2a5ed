package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
)

// JournalHandler owns the journal CRUD and prompt routes.
type JournalHandler struct {
	store  services.DocumentStore
	agents *agents.Service
	audit  services.SafetyAuditor
	log    *zap.Logger
}

func NewJournalHandler(store services.DocumentStore, ag *agents.Service, audit services.SafetyAuditor, log *zap.Logger) *JournalHandler {
	return &JournalHandler{store: store, agents: ag, audit: audit, log: log}
}

// List handles GET /api/journal/ with skip/limit pagination, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	skip, limit := parsePagination(r, 10)
	entries, err := h.store.ListJournalEntries(r.Context(), user.ID, skip, limit)
	if err != nil {
		writeInternalError(w, r, h.log, "journal list failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entries": entries,
	})
}

// Create handles POST /api/journal/. The entry is stored with agent
// insights and a sentiment score; when the safety classifier flags
// moderate or high risk, crisis resources ride along in the response and
// the assessment is audited.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.JournalEntryCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.MoodScore != nil && (*req.MoodScore < 1 || *req.MoodScore > 10) {
		writeError(w, http.StatusBadRequest, "mood_score must be between 1 and 10")
		return
	}
	if req.MoodIndicators == nil {
		req.MoodIndicators = []string{}
	}

	insights := h.agents.AnalyzeEntry(r.Context(), req.Content)
	sentiment := h.agents.SentimentScore(r.Context(), req.Content)
	assessment := h.agents.AssessRisk(r.Context(), req.Content)

	entry := &models.JournalEntry{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Content:        req.Content,
		MoodIndicators: req.MoodIndicators,
		MoodScore:      req.MoodScore,
		CreatedAt:      time.Now().UTC(),
		AIInsights:     insights,
		SentimentScore: sentiment,
	}
	if err := h.store.CreateJournalEntry(r.Context(), entry); err != nil {
		writeInternalError(w, r, h.log, "journal create failed", err)
		return
	}

	payload := map[string]interface{}{
		"success": true,
		"entry":   entry,
	}
	if assessment.RequiresImmediateAction {
		payload["crisis_resources"] = agents.CrisisResources(assessment.RiskLevel)
		if err := h.audit.LogAssessment(r.Context(), user.ID, assessment.RiskLevel, assessment.Reasoning); err != nil {
			h.log.Warn("safety audit write failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, payload)
}

// Get handles GET /api/journal/{id}. Entries of other users are answered
// as not-found.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, err := h.loadOwnEntry(w, r, user.ID)
	if entry == nil || err != nil {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// Update handles PUT /api/journal/{id} as a read-modify-replace.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, err := h.loadOwnEntry(w, r, user.ID)
	if entry == nil || err != nil {
		return
	}

	var update models.JournalEntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			writeError(w, http.StatusBadRequest, "content cannot be empty")
			return
		}
		entry.Content = *update.Content
	}
	if update.MoodIndicators != nil {
		entry.MoodIndicators = update.MoodIndicators
	}
	if update.MoodScore != nil {
		if *update.MoodScore < 1 || *update.MoodScore > 10 {
			writeError(w, http.StatusBadRequest, "mood_score must be between 1 and 10")
			return
		}
		entry.MoodScore = update.MoodScore
	}
	now := time.Now().UTC()
	entry.UpdatedAt = &now

	if err := h.store.ReplaceJournalEntry(r.Context(), entry); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Journal entry not found")
			return
		}
		writeInternalError(w, r, h.log, "journal update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// Delete handles DELETE /api/journal/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entry, err := h.loadOwnEntry(w, r, user.ID)
	if entry == nil || err != nil {
		return
	}

	if err := h.store.DeleteJournalEntry(r.Context(), entry.ID, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Journal entry not found")
			return
		}
		writeInternalError(w, r, h.log, "journal delete failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Entry deleted successfully",
	})
}

type PromptRequest struct {
	Mood string `json:"mood,omitempty"`
}

// Prompt handles POST /api/journal/prompt.
func (h *JournalHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PromptRequest
	if r.Body != nil {
		// Body is optional; a missing or empty body means no mood hint.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	prompt := h.agents.CreatePrompt(r.Context(), strings.TrimSpace(req.Mood))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"prompt":  prompt,
	})
}

// loadOwnEntry fetches the {id} entry and enforces ownership. Both a
// missing document and somebody else's document yield the same 404; a
// store failure is reported as 500. The response has already been written
// whenever the returned entry is nil.
func (h *JournalHandler) loadOwnEntry(w http.ResponseWriter, r *http.Request, userID string) (*models.JournalEntry, error) {
	id := chi.URLParam(r, "id")

	entry, err := h.store.GetJournalEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Journal entry not found")
			return nil, nil
		}
		writeInternalError(w, r, h.log, "journal read failed", err)
		return nil, err
	}
	if entry.UserID != userID {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return nil, nil
	}
	return entry, nil
}
