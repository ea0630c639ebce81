package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aseed/a-seed/backend/internal/model/user"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
	"github.com/aseed/a-seed/backend/pkg/utils"
)

// Handler serves account registration and login.
type Handler struct {
	users    user.Store
	sessions *authservice.Manager
}

// New creates the auth handler.
func New(users user.Store, sessions *authservice.Manager) *Handler {
	return &Handler{users: users, sessions: sessions}
}

// RegisterRoutes mounts the account endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session-check", h.handleSessionCheck)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(payload.Username)
	displayName := strings.TrimSpace(payload.DisplayName)
	password := strings.TrimSpace(payload.Password)
	if username == "" || displayName == "" || password == "" {
		respondFailure(w, http.StatusBadRequest, "All fields are required")
		return
	}

	if _, err := h.users.Register(username, displayName, password); err != nil {
		if errors.Is(err, user.ErrExists) {
			respondFailure(w, http.StatusConflict, "Username already exists")
			return
		}
		respondFailure(w, http.StatusInternalServerError, "could not create user")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "User created successfully",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, ok := h.users.Authenticate(payload.Username, payload.Password)
	if !ok {
		respondFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.sessions.SignIn(w, r, account.ID, account.DisplayName); err != nil {
		respondFailure(w, http.StatusInternalServerError, "could not establish session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"displayName": account.DisplayName,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		respondFailure(w, http.StatusInternalServerError, "could not clear session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleSessionCheck also verifies the account still exists, so a
// cookie minted before an account was removed reads as logged out.
func (h *Handler) handleSessionCheck(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Identity(r)
	if id.UserID == "" {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"logged_in": false})
		return
	}

	account, ok := h.users.FindByID(id.UserID)
	if !ok {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"logged_in": false})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"logged_in":   true,
		"displayName": account.DisplayName,
	})
}

// respondFailure keeps the {"ok": false, "error": ...} shape the login
// frontend expects.
func respondFailure(w http.ResponseWriter, status int, message string) {
	utils.RespondJSON(w, status, map[string]any{"ok": false, "error": message})
}
