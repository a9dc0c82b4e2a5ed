package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/models"
)

func newMoodHandler(store *fakeStore, byRole map[string]string) *MoodHandler {
	return NewMoodHandler(store, testAgents(byRole), zap.NewNop())
}

func TestMoodAnalyze(t *testing.T) {
	h := newMoodHandler(newFakeStore(), map[string]string{
		"classification": "anxious, hopeful",
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/analyze", strings.NewReader(`{"text":"big day tomorrow"}`)), testUser("u"))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anxious, hopeful")
}

func TestMoodAnalyzeRequiresText(t *testing.T) {
	h := newMoodHandler(newFakeStore(), nil)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/analyze", strings.NewReader(`{"text":"  "}`)), testUser("u"))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoodLogAndList(t *testing.T) {
	store := newFakeStore()
	h := newMoodHandler(store, nil)
	user := testUser("user-1")

	body := `{"mood_score":8,"mood_labels":["content"],"context":"after a walk","factors":["exercise"]}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/log", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Log(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		MoodLog models.MoodLog `json:"mood_log"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 8, created.MoodLog.MoodScore)
	assert.Equal(t, user.ID, created.MoodLog.UserID)
	assert.False(t, created.MoodLog.Timestamp.IsZero())

	listReq := withUser(httptest.NewRequest(http.MethodGet, "/api/mood/", nil), user)
	listRec := httptest.NewRecorder()
	h.List(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	var listed struct {
		MoodLogs []models.MoodLog `json:"mood_logs"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	require.Len(t, listed.MoodLogs, 1)
	assert.Equal(t, created.MoodLog.ID, listed.MoodLogs[0].ID)
}

func TestMoodLogScoreBounds(t *testing.T) {
	store := newFakeStore()
	h := newMoodHandler(store, nil)
	user := testUser("user-1")

	for _, body := range []string{
		`{"mood_score":0}`,
		`{"mood_score":11}`,
		`{"mood_score":-3}`,
	} {
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/log", strings.NewReader(body)), user)
		rec := httptest.NewRecorder()
		h.Log(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Empty(t, store.moods)
}

func TestMoodPatternsRequiresEntries(t *testing.T) {
	h := newMoodHandler(newFakeStore(), nil)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/patterns", strings.NewReader(`{"entries":[]}`)), testUser("u"))
	rec := httptest.NewRecorder()
	h.Patterns(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoodPatterns(t *testing.T) {
	h := newMoodHandler(newFakeStore(), map[string]string{
		"conversation": "Anxiety tends to spike on Sunday evenings.",
	})
	body := `{"entries":["slept badly","dreading monday"]}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mood/patterns", strings.NewReader(body)), testUser("u"))
	rec := httptest.NewRecorder()
	h.Patterns(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sunday evenings")
}
