package http

import (
	"net/http"

	"github.com/tair/fabstock/pkg/logger"
)

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.authn.Login(r.Context(), req.Email)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if result.LinkSent {
		logger.Info(r.Context()).Msg("Sign-in link sent")
		respondMessage(w, http.StatusAccepted, "A sign-in link has been sent to your email", result)
		return
	}
	respondMessage(w, http.StatusOK, "Logged in", result)
}

// Verify handles GET /api/auth/verify?token=
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	session, err := h.authn.Verify(r.Context(), token)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Logged in", session)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, actor(r))
}
