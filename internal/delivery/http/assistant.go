package http

import (
	"net/http"
	"strings"
)

// Extract handles POST /api/assistant/extract
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	suggestion, err := h.assistant.Extract(r.Context(), req.Text)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, suggestion)
}

// Advise handles POST /api/assistant/advice
func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer := h.assistant.Advise(r.Context(), req.Question, h.store.Items())
	respondData(w, http.StatusOK, map[string]interface{}{
		"answer":  answer,
		"enabled": h.assistant.Enabled(),
	})
}
