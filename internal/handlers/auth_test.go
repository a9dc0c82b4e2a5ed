package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/pkg/utils"
)

func newAuthHandler(store *fakeStore) *AuthHandler {
	return NewAuthHandler(store, nil, "test-secret", time.Hour, zap.NewNop())
}

func registerBody(email, password string) string {
	b, _ := json.Marshal(RegisterRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	return string(b)
}

func TestRegisterSuccess(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("Alice@Example.com", "Sunrise42")))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var payload struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "alice@example.com", payload.User.Email, "email is normalized")
	assert.Equal(t, models.TierFree, payload.User.SubscriptionTier)
	assert.NotContains(t, rec.Body.String(), "hashed_password")

	stored, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Sunrise42", stored.HashedPassword)
	assert.True(t, utils.VerifyPassword("Sunrise42", stored.HashedPassword))
}

func TestRegisterPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantMsg  string
	}{
		{"too short", "Sun42", "Sun42", "at least 8 characters"},
		{"no digit", "SunriseDay", "SunriseDay", "digit"},
		{"no uppercase", "sunrise42", "sunrise42", "uppercase"},
		{"mismatch", "Sunrise42", "Sunrise43", "do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthHandler(newFakeStore())
			body, _ := json.Marshal(RegisterRequest{Email: "a@b.com", Password: tt.password, ConfirmPassword: tt.confirm})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(string(body)))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	h := newAuthHandler(newFakeStore())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("not-an-email", "Sunrise42")))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)

	first := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("alice@example.com", "Sunrise42")))
	h.Register(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("alice@example.com", "Moonset99")))
	rec := httptest.NewRecorder()
	h.Register(rec, second)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestTokenIssuesValidJWT(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)

	reg := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("alice@example.com", "Sunrise42")))
	h.Register(httptest.NewRecorder(), reg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"email":"alice@example.com","password":"Sunrise42"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := utils.ParseAccessToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	stored, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.Subject)
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)
	reg := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody("alice@example.com", "Sunrise42")))
	h.Register(httptest.NewRecorder(), reg)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"alice@example.com","password":"Wrong1234"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"Sunrise42"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Token(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid email or password")
		})
	}
}

func TestMeReturnsCurrentUser(t *testing.T) {
	h := newAuthHandler(newFakeStore())
	user := testUser("user-1")

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), user)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Email)
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)
	user := testUser("user-1")
	require.NoError(t, store.CreateUser(context.Background(), user))

	body := `{"subscription_tier":"premium","preferences":{"theme":"dark"}}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/auth/update", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPremium, stored.SubscriptionTier)
	assert.Equal(t, "dark", stored.Preferences["theme"])
}

func TestUpdateRejectsUnknownTier(t *testing.T) {
	store := newFakeStore()
	h := newAuthHandler(store)
	user := testUser("user-1")
	require.NoError(t, store.CreateUser(context.Background(), user))

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/auth/update", strings.NewReader(`{"subscription_tier":"platinum"}`)), user)
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadAvatarUnavailable(t *testing.T) {
	h := newAuthHandler(newFakeStore())
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/auth/avatar", nil), testUser("u"))
	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
