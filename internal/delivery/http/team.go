package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/usecase/command"
)

// ListTeam handles GET /api/team
func (h *Handler) ListTeam(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.listTeam.Handle())
}

// AddMember handles POST /api/team
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Role  domain.Role `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.addMember.Handle(r.Context(), command.AddMemberCommand{
		Actor: actor(r),
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	message := "Member added"
	if result.InviteSent {
		message = "Member added and invitation sent"
	} else if result.InviteError != "" {
		message = "Member added but the invitation could not be sent"
	}
	respondMessage(w, http.StatusCreated, message, result)
}

// UpdateMember handles PATCH /api/team/{id}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           *string      `json:"name"`
		Email          *string      `json:"email"`
		Role           *domain.Role `json:"role"`
		CanManageStock *bool        `json:"canManageStock"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	member, err := h.updateMember.Handle(r.Context(), command.UpdateMemberCommand{
		Actor:          actor(r),
		MemberID:       mux.Vars(r)["id"],
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		CanManageStock: req.CanManageStock,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Member updated successfully", member)
}

// DeleteMember handles DELETE /api/team/{id}
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	err := h.deleteMember.Handle(r.Context(), command.DeleteMemberCommand{Actor: actor(r), MemberID: mux.Vars(r)["id"]})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Member deleted successfully", nil)
}

// ResendInvite handles POST /api/team/{id}/invite
func (h *Handler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	err := h.resendInvite.Handle(r.Context(), command.ResendInviteCommand{Actor: actor(r), MemberID: mux.Vars(r)["id"]})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Invitation sent", nil)
}
