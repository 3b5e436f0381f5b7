package query

import "github.com/tair/fabstock/internal/domain"

// Unassigned is displayed for tickets without a resolvable assignee.
const Unassigned = "Non assigné"

// TicketView is a ticket with its assignee resolved for display.
type TicketView struct {
	domain.MaintenanceTicket
	AssigneeName string `json:"assigneeName"`
}

// ListTicketsQuery filters tickets by status and machine. Zero values match everything.
type ListTicketsQuery struct {
	Status    domain.TicketStatus
	MachineID string
}

// ListTicketsHandler handles list tickets query
type ListTicketsHandler struct {
	reader Reader
}

// NewListTicketsHandler creates a new list tickets handler
func NewListTicketsHandler(reader Reader) *ListTicketsHandler {
	return &ListTicketsHandler{reader: reader}
}

// Handle returns the matching tickets. Empty or dangling assignee ids resolve to Unassigned.
func (h *ListTicketsHandler) Handle(q ListTicketsQuery) []TicketView {
	team := h.reader.Team()
	views := []TicketView{}
	for _, t := range h.reader.Tickets() {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.MachineID != "" && t.MachineID != q.MachineID {
			continue
		}
		views = append(views, TicketView{MaintenanceTicket: t, AssigneeName: assigneeName(team, t.AssignedToID)})
	}
	return views
}

func assigneeName(team []domain.TeamMember, id string) string {
	if id == "" {
		return Unassigned
	}
	if m, ok := domain.ResolveMemberByID(team, id); ok {
		return m.Name
	}
	return Unassigned
}
