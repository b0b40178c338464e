package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type SessionHandler struct {
	sf      Storefront
	timeout time.Duration
}

func NewSessionHandler(sf Storefront, timeout time.Duration) *SessionHandler {
	return &SessionHandler{sf: sf, timeout: timeout}
}

type SessionResponse struct {
	State       controller.State `json:"state"`
	User        *domain.User     `json:"user"`
	DisplayName string           `json:"display_name,omitempty"`
}

// POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	if !await(ctx, w, h.sf.Register(req, controller.Callbacks{})) {
		return
	}
	respondJSON(w, http.StatusCreated, StatusResponse{Status: "registered"})
}

// POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" && req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username or email is required")
		return
	}

	if !await(ctx, w, h.sf.Login(req, controller.Callbacks{})) {
		return
	}
	// Let the cart reload started by the login land before answering.
	_ = h.sf.CartReload().Wait(ctx)

	respondJSON(w, http.StatusOK, h.session())
}

// POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sf.Logout()
	respondJSON(w, http.StatusOK, h.session())
}

// GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session())
}

func (h *SessionHandler) session() SessionResponse {
	user := h.sf.CurrentUser()
	resp := SessionResponse{State: controller.LoggedOut, User: user}
	if user != nil {
		resp.State = controller.LoggedIn
		resp.DisplayName = user.DisplayName()
	}
	return resp
}

// GET /api/v1/state
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sf.Snapshot())
}
