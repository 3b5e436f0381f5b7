package domain

import "time"

// TicketStatus is the lifecycle position of a maintenance ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketDone       TicketStatus = "done"
)

// MaintenanceType classifies maintenance work.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenanceUpgrade    MaintenanceType = "upgrade"
)

// Valid reports whether t is a known maintenance type.
func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenancePreventive, MaintenanceCorrective, MaintenanceUpgrade:
		return true
	}
	return false
}

// MaintenanceTicket tracks work on a machine. MachineName is captured at creation and never refreshed.
type MaintenanceTicket struct {
	ID             string          `json:"id"`
	MachineID      string          `json:"machineId"`
	MachineName    string          `json:"machineName"`
	DateCreated    time.Time       `json:"dateCreated"`
	Status         TicketStatus    `json:"status"`
	Type           MaintenanceType `json:"type"`
	Description    string          `json:"description"`
	AssignedToID   string          `json:"assignedToId,omitempty"`
	PerformedBy    string          `json:"performedBy,omitempty"`
	PartsUsed      string          `json:"partsUsed,omitempty"`
	Cost           *float64        `json:"cost,omitempty"`
	ResolutionDate *time.Time      `json:"resolutionDate,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

func (t MaintenanceTicket) EntityID() string { return t.ID }
