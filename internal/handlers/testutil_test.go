package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
)

// fakeStore is an in-memory DocumentStore for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	entries  map[string]*models.JournalEntry
	moods    []models.MoodLog
	sessions []models.MindfulnessSession
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]*models.User{},
		entries: map[string]*models.JournalEntry{},
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, services.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, services.ErrNotFound
}

func (f *fakeStore) ReplaceUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return services.ErrNotFound
	}
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeStore) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := *entry
	f.entries[entry.ID] = &e
	return nil
}

func (f *fakeStore) GetJournalEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, services.ErrNotFound
}

func (f *fakeStore) ListJournalEntries(ctx context.Context, userID string, skip, limit int) ([]models.JournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.JournalEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= len(out) {
		return []models.JournalEntry{}, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListJournalEntriesSince(ctx context.Context, userID string, since time.Time, limit int) ([]models.JournalEntry, error) {
	all, err := f.ListJournalEntries(ctx, userID, 0, limit)
	if err != nil {
		return nil, err
	}
	var out []models.JournalEntry
	for _, e := range all {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.ID]; !ok {
		return services.ErrNotFound
	}
	e := *entry
	f.entries[entry.ID] = &e
	return nil
}

func (f *fakeStore) DeleteJournalEntry(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return services.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) CreateMoodLog(ctx context.Context, log *models.MoodLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moods = append(f.moods, *log)
	return nil
}

func (f *fakeStore) ListMoodLogs(ctx context.Context, userID string, skip, limit int) ([]models.MoodLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MoodLog
	for _, m := range f.moods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if skip >= len(out) {
		return []models.MoodLog{}, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListMoodLogsSince(ctx context.Context, userID string, since time.Time) ([]models.MoodLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MoodLog
	for _, m := range f.moods {
		if m.UserID == userID && !m.Timestamp.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateMindfulnessSession(ctx context.Context, session *models.MindfulnessSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeStore) ListMindfulnessSessions(ctx context.Context, userID string) ([]models.MindfulnessSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MindfulnessSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeAuditor records safety assessments instead of writing to Postgres.
type fakeAuditor struct {
	mu      sync.Mutex
	records []string
}

func (f *fakeAuditor) LogAssessment(ctx context.Context, userID, riskLevel, reasoning string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, userID+"/"+riskLevel)
	return nil
}

func (f *fakeAuditor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// scriptedCompleter answers every role with a fixed response per role name.
type scriptedCompleter struct {
	byRole map[string]string
}

func (s *scriptedCompleter) Complete(ctx context.Context, role agents.Role, system, prompt string) (string, error) {
	if resp, ok := s.byRole[role.Name]; ok {
		return resp, nil
	}
	return "ok", nil
}

func testAgents(byRole map[string]string) *agents.Service {
	return agents.NewService(&scriptedCompleter{byRole: byRole}, zap.NewNop())
}

func testUser(id string) *models.User {
	return &models.User{
		ID:               id,
		Email:            id + "@example.com",
		CreatedAt:        time.Now().UTC(),
		SubscriptionTier: models.TierFree,
		Preferences:      map[string]interface{}{},
		Profile:          map[string]interface{}{},
	}
}

// withUser injects the authenticated user the way JWTAuth would.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
