package admin

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/aseed/a-seed/backend/internal/config"
	middlewarePkg "github.com/aseed/a-seed/backend/internal/middleware"
	authservice "github.com/aseed/a-seed/backend/internal/service/auth"
	"github.com/aseed/a-seed/backend/internal/service/stats"
	"github.com/aseed/a-seed/backend/pkg/utils"
)

// statsInterval paces websocket snapshot pushes.
const statsInterval = 5 * time.Second

// Handler serves the admin dashboard API.
type Handler struct {
	sessions *authservice.Manager
	stats    *stats.Service
	cfg      config.AdminConfig
	restart  func()
	upgrader websocket.Upgrader
}

// New creates the admin handler. restart asks the process to shut down
// gracefully so the supervisor can bring it back up; it must not block.
func New(sessions *authservice.Manager, statsSvc *stats.Service, cfg config.AdminConfig, restart func()) *Handler {
	return &Handler{
		sessions: sessions,
		stats:    statsSvc,
		cfg:      cfg,
		restart:  restart,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the admin endpoints. Login and status stay
// open; everything else sits behind the admin cookie gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)
	r.Get("/admin/status", h.handleStatus)

	r.Group(func(g chi.Router) {
		g.Use(middlewarePkg.RequireAdmin(h.sessions))
		g.Get("/admin/stats/ws", h.handleStatsStream)
		g.Post("/admin/restart", h.handleRestart)
		g.Get("/stats", h.handleStats)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Username != h.cfg.Username || payload.Password != h.cfg.Password {
		utils.RespondJSON(w, http.StatusUnauthorized, map[string]any{
			"ok":    false,
			"error": "Invalid credentials",
		})
		return
	}

	if err := h.sessions.SetAdmin(w, r, true); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "could not establish session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SetAdmin(w, r, false); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "could not clear session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"logged_in": h.sessions.Identity(r).Admin,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.stats.Snapshot(r.Context()))
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	log.Println("[admin] restart requested, handing off to supervisor")
	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true})

	// The response must flush before the listener starts draining.
	go h.restart()
}

// handleStatsStream pushes a telemetry snapshot every few seconds so
// the dashboard updates without polling.
func (h *Handler) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[admin] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	if err := conn.WriteJSON(h.stats.Snapshot(r.Context())); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(h.stats.Snapshot(r.Context())); err != nil {
				return
			}
		}
	}
}
