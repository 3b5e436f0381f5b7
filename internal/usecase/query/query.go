// Package query holds the read-side views over the fab lab collections.
package query

import (
	"strings"

	"github.com/tair/fabstock/internal/domain"
)

// Reader is the read half of domain.Store.
type Reader interface {
	Items() []domain.InventoryItem
	Machines() []domain.Machine
	Tickets() []domain.MaintenanceTicket
	Team() []domain.TeamMember
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
