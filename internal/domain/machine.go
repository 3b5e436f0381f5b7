package domain

import "time"

// MachineStatus is the operational state of a machine.
type MachineStatus string

const (
	MachineOperational          MachineStatus = "operational"
	MachineMaintenanceRequested MachineStatus = "maintenance_requested"
	MachineInMaintenance        MachineStatus = "in_maintenance"
	MachineBroken               MachineStatus = "broken"
)

// Valid reports whether s is a known machine status.
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineOperational, MachineMaintenanceRequested, MachineInMaintenance, MachineBroken:
		return true
	}
	return false
}

// Machine is a piece of equipment in the fleet.
type Machine struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Model        string        `json:"model"`
	SerialNumber string        `json:"serialNumber,omitempty"`
	PurchaseDate *time.Time    `json:"purchaseDate,omitempty"`
	Status       MachineStatus `json:"status"`
	Location     string        `json:"location"`
	Image        string        `json:"image,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

func (m Machine) EntityID() string { return m.ID }
