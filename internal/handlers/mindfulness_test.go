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

func newMindfulnessHandler(store *fakeStore) *MindfulnessHandler {
	return NewMindfulnessHandler(store, zap.NewNop())
}

func TestMindfulnessExercise(t *testing.T) {
	h := newMindfulnessHandler(newFakeStore())

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/mindfulness/exercise?type=breathing", nil), testUser("u"))
	rec := httptest.NewRecorder()
	h.Exercise(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Breathe in for 4 counts")
}

func TestMindfulnessExerciseUnknownType(t *testing.T) {
	h := newMindfulnessHandler(newFakeStore())

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/mindfulness/exercise?type=levitation", nil), testUser("u"))
	rec := httptest.NewRecorder()
	h.Exercise(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "breathing")
}

func TestMindfulnessTrack(t *testing.T) {
	store := newFakeStore()
	h := newMindfulnessHandler(store)
	user := testUser("user-1")

	body := `{"exercise_type":"body_scan","duration_seconds":480}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/mindfulness/track", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Track(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, "body_scan", store.sessions[0].ExerciseType)
	assert.Equal(t, 480, store.sessions[0].DurationSeconds)
	assert.Equal(t, user.ID, store.sessions[0].UserID)
}

func TestMindfulnessTrackValidation(t *testing.T) {
	store := newFakeStore()
	h := newMindfulnessHandler(store)
	user := testUser("user-1")

	for _, body := range []string{
		`{"exercise_type":"levitation","duration_seconds":60}`,
		`{"exercise_type":"breathing","duration_seconds":0}`,
		`{"exercise_type":"breathing","duration_seconds":-10}`,
	} {
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/mindfulness/track", strings.NewReader(body)), user)
		rec := httptest.NewRecorder()
		h.Track(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Empty(t, store.sessions)
}

func TestMindfulnessStatistics(t *testing.T) {
	store := newFakeStore()
	h := newMindfulnessHandler(store)
	user := testUser("user-1")

	for _, tc := range []struct {
		exercise string
		duration int
	}{
		{"breathing", 300},
		{"breathing", 240},
		{"body_scan", 600},
	} {
		body, _ := json.Marshal(TrackRequest{ExerciseType: tc.exercise, DurationSeconds: tc.duration})
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/mindfulness/track", strings.NewReader(string(body))), user)
		h.Track(httptest.NewRecorder(), req)
	}
	// Another user's sessions are excluded.
	other := withUser(httptest.NewRequest(http.MethodPost, "/api/mindfulness/track", strings.NewReader(`{"exercise_type":"breathing","duration_seconds":120}`)), testUser("other"))
	h.Track(httptest.NewRecorder(), other)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/mindfulness/statistics", nil), user)
	rec := httptest.NewRecorder()
	h.Statistics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Statistics models.MindfulnessStats `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 3, payload.Statistics.TotalSessions)
	assert.Equal(t, 2, payload.Statistics.Exercises["breathing"].Count)
	assert.Equal(t, 540, payload.Statistics.Exercises["breathing"].TotalDuration)
	assert.Equal(t, 1, payload.Statistics.Exercises["body_scan"].Count)
}
