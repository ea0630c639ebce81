package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aseed/a-seed/backend/internal/model/chat"
	aiservice "github.com/aseed/a-seed/backend/internal/service/ai"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
	chatservice "github.com/aseed/a-seed/backend/internal/service/chat"
	"github.com/aseed/a-seed/backend/pkg/utils"
)

// Handler serves the chat turn and transcript endpoints. All routes are
// mounted behind the user auth gate.
type Handler struct {
	store    *chatservice.Service
	ai       *aiservice.Service
	sessions *authservice.Manager
}

// New creates the chat handler.
func New(store *chatservice.Service, ai *aiservice.Service, sessions *authservice.Manager) *Handler {
	return &Handler{store: store, ai: ai, sessions: sessions}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/save", h.handleSave)
	r.Get("/sessions", h.handleSessions)
	r.Get("/load", h.handleLoad)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string      `json:"message"`
		History []chat.Turn `json:"history"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.ai.HandleTurn(r.Context(), payload.History, payload.Message)
	if err != nil {
		switch {
		case errors.Is(err, aiservice.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, "empty-message")
		case errors.Is(err, aiservice.ErrBackendTimeout):
			respondBackendFailure(w, http.StatusGatewayTimeout, err)
		default:
			respondBackendFailure(w, http.StatusBadGateway, err)
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SID   string      `json:"sid"`
		Turns []chat.Turn `json:"chat"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := h.sessions.Identity(r).UserID
	record, err := h.store.Save(r.Context(), userID, payload.SID, payload.Turns)
	if err != nil {
		if errors.Is(err, chatservice.ErrInvalidIdentifier) {
			utils.RespondError(w, http.StatusBadRequest, "invalid_session_id")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could_not_save_session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"sid":   record.SID,
		"title": record.Title,
	})
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.Identity(r).UserID
	summaries, err := h.store.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, chatservice.ErrInvalidIdentifier) {
			utils.RespondError(w, http.StatusBadRequest, "invalid_user_id")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could_not_list_sessions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sid")
	userID := h.sessions.Identity(r).UserID

	record, err := h.store.Load(r.Context(), userID, sid)
	if err != nil {
		switch {
		case errors.Is(err, chatservice.ErrInvalidIdentifier):
			utils.RespondError(w, http.StatusBadRequest, "invalid_session_id")
		case errors.Is(err, chatservice.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "not-found")
		case errors.Is(err, chatservice.ErrCorruptRecord):
			utils.RespondError(w, http.StatusInternalServerError, "corrupt-record")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "could_not_load_session")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, record)
}

// respondBackendFailure mirrors the legacy error shape: the hint gives
// the operator something actionable without leaking internals beyond
// the backend diagnostic.
func respondBackendFailure(w http.ResponseWriter, status int, err error) {
	utils.RespondJSON(w, status, map[string]string{
		"error": "backend-failed",
		"hint":  err.Error(),
	})
}
