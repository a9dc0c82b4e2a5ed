package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/models"
	"github.com/mindhaven/companion-backend/internal/services"
	"github.com/mindhaven/companion-backend/pkg/utils"
)

// AuthHandler owns registration, token issuance and profile routes.
type AuthHandler struct {
	store     services.DocumentStore
	uploads   *services.CloudinaryService
	jwtSecret string
	jwtExpiry time.Duration
	log       *zap.Logger
}

func NewAuthHandler(store services.DocumentStore, uploads *services.CloudinaryService, jwtSecret string, jwtExpiry time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:     store,
		uploads:   uploads,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		log:       log,
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if err := utils.ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		writeInternalError(w, r, h.log, "register: email lookup failed", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "User with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		writeInternalError(w, r, h.log, "register: password hash failed", err)
		return
	}

	user := &models.User{
		ID:               uuid.NewString(),
		Email:            req.Email,
		HashedPassword:   hashed,
		CreatedAt:        time.Now().UTC(),
		SubscriptionTier: models.TierFree,
		Preferences:      map[string]interface{}{},
		Profile:          map[string]interface{}{},
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		writeInternalError(w, r, h.log, "register: create user failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// Token handles POST /api/auth/token, exchanging credentials for a JWT.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeInternalError(w, r, h.log, "token: user lookup failed", err)
		return
	}

	if !utils.VerifyPassword(req.Password, user.HashedPassword) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.CreateAccessToken(user.ID, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		writeInternalError(w, r, h.log, "token: signing failed", err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Success:     true,
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Update handles PUT /api/auth/update with a read-modify-replace of the
// caller's profile.
func (h *AuthHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if update.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*update.Email))
		if email == "" || !strings.Contains(email, "@") {
			writeError(w, http.StatusBadRequest, "A valid email is required")
			return
		}
		user.Email = email
	}
	if update.Preferences != nil {
		user.Preferences = update.Preferences
	}
	if update.Profile != nil {
		user.Profile = update.Profile
	}
	if update.SubscriptionTier != nil {
		tier := *update.SubscriptionTier
		if tier != models.TierFree && tier != models.TierPremium {
			writeError(w, http.StatusBadRequest, "Unknown subscription tier")
			return
		}
		user.SubscriptionTier = tier
	}

	if err := h.store.ReplaceUser(r.Context(), user); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeInternalError(w, r, h.log, "update: replace user failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UploadAvatar handles POST /api/auth/avatar with a multipart image.
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if h.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "Avatar uploads are not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	url, err := h.uploads.UploadAvatar(r.Context(), file)
	if err != nil {
		writeInternalError(w, r, h.log, "avatar: upload failed", err)
		return
	}

	if user.Profile == nil {
		user.Profile = map[string]interface{}{}
	}
	user.Profile["avatar_url"] = url
	if err := h.store.ReplaceUser(r.Context(), user); err != nil {
		writeInternalError(w, r, h.log, "avatar: replace user failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"avatar_url": url,
	})
}
