package query

import "github.com/tair/fabstock/internal/domain"

// ListTeamHandler handles list team query
type ListTeamHandler struct {
	reader Reader
}

// NewListTeamHandler creates a new list team handler
func NewListTeamHandler(reader Reader) *ListTeamHandler {
	return &ListTeamHandler{reader: reader}
}

// Handle returns the team in collection order.
func (h *ListTeamHandler) Handle() []domain.TeamMember {
	team := h.reader.Team()
	if team == nil {
		return []domain.TeamMember{}
	}
	return team
}
