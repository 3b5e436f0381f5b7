package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/usecase/command"
	"github.com/tair/fabstock/internal/usecase/query"
	"github.com/tair/fabstock/pkg/logger"
)

type ticketRequest struct {
	MachineID    string                 `json:"machineId"`
	Type         domain.MaintenanceType `json:"type"`
	Description  string                 `json:"description"`
	AssignedToID string                 `json:"assignedToId"`
	PartsUsed    string                 `json:"partsUsed"`
	Cost         *float64               `json:"cost"`
}

// ListTickets handles GET /api/tickets
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	respondData(w, http.StatusOK, h.listTickets.Handle(query.ListTicketsQuery{
		Status:    domain.TicketStatus(params.Get("status")),
		MachineID: params.Get("machineId"),
	}))
}

// CreateTicket handles POST /api/tickets
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.createTicket.Handle(r.Context(), command.CreateTicketCommand{
		Actor:        actor(r),
		MachineID:    req.MachineID,
		Type:         req.Type,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		PartsUsed:    req.PartsUsed,
		Cost:         req.Cost,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Str("ticket_id", ticket.ID).
		Str("machine_id", ticket.MachineID).
		Msg("Maintenance ticket opened")
	respondMessage(w, http.StatusCreated, "Ticket created successfully", ticket)
}

// UpdateTicket handles PUT /api/tickets/{id}
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.updateTicket.Handle(r.Context(), command.UpdateTicketCommand{
		Actor:        actor(r),
		TicketID:     mux.Vars(r)["id"],
		Type:         req.Type,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		PartsUsed:    req.PartsUsed,
		Cost:         req.Cost,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Ticket updated successfully", ticket)
}

// StartTicket handles POST /api/tickets/{id}/start
func (h *Handler) StartTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.startTicket.Handle(r.Context(), command.StartTicketCommand{
		Actor:    actor(r),
		TicketID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Ticket started", ticket)
}

// CloseTicket handles POST /api/tickets/{id}/close
func (h *Handler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Report string `json:"report"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ticket, err := h.closeTicket.Handle(r.Context(), command.CloseTicketCommand{
		Actor:    actor(r),
		TicketID: mux.Vars(r)["id"],
		Report:   req.Report,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Ticket closed", ticket)
}

// DeleteTicket handles DELETE /api/tickets/{id}
func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	err := h.deleteTicket.Handle(r.Context(), command.DeleteTicketCommand{Actor: actor(r), TicketID: mux.Vars(r)["id"]})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Ticket deleted successfully", nil)
}
