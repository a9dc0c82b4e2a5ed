package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/services"
)

// InsightsCache is the caching contract Weekly relies on. The production
// implementation is services.Cache over Redis.
type InsightsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// InsightsHandler summarizes a user's recent activity with the
// conversation agent. Summaries are cached so repeated dashboard loads do
// not re-run the model.
type InsightsHandler struct {
	store  services.DocumentStore
	agents *agents.Service
	cache  InsightsCache
	log    *zap.Logger
}

func NewInsightsHandler(store services.DocumentStore, ag *agents.Service, cache InsightsCache, log *zap.Logger) *InsightsHandler {
	return &InsightsHandler{store: store, agents: ag, cache: cache, log: log}
}

// WeeklyInsights is the GET /api/insights/weekly payload.
type WeeklyInsights struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	EntryCount    int      `json:"entry_count"`
	MoodLogCount  int      `json:"mood_log_count"`
	AverageMood   *float64 `json:"average_mood,omitempty"`
	TopMoodLabels []string `json:"top_mood_labels"`
	Summary       string   `json:"summary"`
}

// Weekly handles GET /api/insights/weekly.
func (h *InsightsHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	now := time.Now().UTC()
	cacheKey := fmt.Sprintf("weekly_insights:%s:%s", user.ID, now.Format("2006-01-02"))

	var insights WeeklyInsights
	if hit, _ := h.cache.Get(r.Context(), cacheKey, &insights); hit {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"insights": insights,
			"cached":   true,
		})
		return
	}

	since := now.AddDate(0, 0, -7)
	logs, err := h.store.ListMoodLogsSince(r.Context(), user.ID, since)
	if err != nil {
		writeInternalError(w, r, h.log, "weekly insights: mood fetch failed", err)
		return
	}
	entries, err := h.store.ListJournalEntriesSince(r.Context(), user.ID, since, 50)
	if err != nil {
		writeInternalError(w, r, h.log, "weekly insights: journal fetch failed", err)
		return
	}

	insights = WeeklyInsights{
		From:          since.Format("2006-01-02"),
		To:            now.Format("2006-01-02"),
		EntryCount:    len(entries),
		MoodLogCount:  len(logs),
		TopMoodLabels: []string{},
	}

	labelCounts := map[string]int{}
	if len(logs) > 0 {
		total := 0
		for _, l := range logs {
			total += l.MoodScore
			for _, label := range l.MoodLabels {
				labelCounts[label]++
			}
		}
		avg := float64(total) / float64(len(logs))
		insights.AverageMood = &avg
	}
	insights.TopMoodLabels = topLabels(labelCounts, 5)

	excerpts := make([]string, 0, 3)
	for _, e := range entries {
		if len(excerpts) == 3 {
			break
		}
		excerpts = append(excerpts, truncate(e.Content, 280))
	}
	avgStr := ""
	if insights.AverageMood != nil {
		avgStr = fmt.Sprintf("%.1f", *insights.AverageMood)
	}
	insights.Summary = h.agents.SummarizeWeek(r.Context(), insights.MoodLogCount, insights.EntryCount, avgStr, excerpts)

	if err := h.cache.Set(r.Context(), cacheKey, insights, 6*time.Hour); err != nil {
		h.log.Warn("weekly insights cache write failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"insights": insights,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Patterns handles GET /api/insights/patterns over the caller's recent
// journal entries.
func (h *InsightsHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.store.ListJournalEntries(r.Context(), user.ID, 0, 10)
	if err != nil {
		writeInternalError(w, r, h.log, "patterns: journal fetch failed", err)
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"patterns": "No journal entries yet. Write a few entries to see emotional patterns.",
		})
		return
	}

	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		texts = append(texts, e.Content)
	}

	patterns := h.agents.DetectPatterns(r.Context(), texts)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"patterns": patterns,
	})
}

func topLabels(counts map[string]int, n int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	// Ties broken alphabetically for a stable payload.
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}
