package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/fabstock/internal/domain"
)

// MachineDetails are the editable fields of a machine.
type MachineDetails struct {
	Name         string
	Model        string
	SerialNumber string
	PurchaseDate *time.Time
	Status       domain.MachineStatus
	Location     string
	Image        string
	Notes        string
}

func (d MachineDetails) validate() error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	if d.Status != "" && !d.Status.Valid() {
		return &domain.ValidationError{Field: "status", Message: "is not a known machine status"}
	}
	return nil
}

func (d MachineDetails) apply(m domain.Machine) domain.Machine {
	m.Name = d.Name
	m.Model = d.Model
	m.SerialNumber = d.SerialNumber
	m.PurchaseDate = d.PurchaseDate
	m.Location = d.Location
	m.Image = d.Image
	m.Notes = d.Notes
	if d.Status != "" {
		m.Status = d.Status
	}
	return m
}

// CreateMachineCommand represents the command to register a machine
type CreateMachineCommand struct {
	Actor domain.TeamMember
	MachineDetails
}

// CreateMachineHandler handles create machine command
type CreateMachineHandler struct {
	store domain.Store
}

// NewCreateMachineHandler creates a new create machine handler
func NewCreateMachineHandler(store domain.Store) *CreateMachineHandler {
	return &CreateMachineHandler{store: store}
}

// Handle executes the create machine command. New machines are operational unless told otherwise.
func (h *CreateMachineHandler) Handle(ctx context.Context, cmd CreateMachineCommand) (*domain.Machine, error) {
	if err := requireStockManager(cmd.Actor, "manage machines"); err != nil {
		return nil, err
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	machine := cmd.apply(domain.Machine{ID: newID(), Status: domain.MachineOperational})
	err := h.store.UpdateMachines(ctx, func(machines []domain.Machine) ([]domain.Machine, bool, error) {
		return append(machines, machine), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	return &machine, nil
}

// UpdateMachineCommand represents the command to edit a machine
type UpdateMachineCommand struct {
	Actor domain.TeamMember
	ID    string
	MachineDetails
}

// UpdateMachineHandler handles update machine command
type UpdateMachineHandler struct {
	store domain.Store
}

// NewUpdateMachineHandler creates a new update machine handler
func NewUpdateMachineHandler(store domain.Store) *UpdateMachineHandler {
	return &UpdateMachineHandler{store: store}
}

// Handle executes the update machine command
func (h *UpdateMachineHandler) Handle(ctx context.Context, cmd UpdateMachineCommand) (*domain.Machine, error) {
	if err := requireStockManager(cmd.Actor, "manage machines"); err != nil {
		return nil, err
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var result domain.Machine
	err := h.store.UpdateMachines(ctx, func(machines []domain.Machine) ([]domain.Machine, bool, error) {
		current, ok := domain.Find(machines, cmd.ID)
		if !ok {
			return nil, false, domain.NotFound("machine", cmd.ID)
		}
		result = cmd.apply(current)
		next, _ := domain.Replace(machines, result)
		return next, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update machine: %w", err)
	}

	return &result, nil
}

// DeleteMachineCommand represents the command to delete a machine
type DeleteMachineCommand struct {
	Actor domain.TeamMember
	ID    string
}

// DeleteMachineHandler handles delete machine command
type DeleteMachineHandler struct {
	store domain.Store
}

// NewDeleteMachineHandler creates a new delete machine handler
func NewDeleteMachineHandler(store domain.Store) *DeleteMachineHandler {
	return &DeleteMachineHandler{store: store}
}

// Handle executes the delete machine command. Tickets referring to the machine are kept.
func (h *DeleteMachineHandler) Handle(ctx context.Context, cmd DeleteMachineCommand) error {
	if err := requireStockManager(cmd.Actor, "delete machines"); err != nil {
		return err
	}
	if err := required("id", cmd.ID); err != nil {
		return err
	}

	h.store.RemoveMachine(ctx, cmd.ID)
	return nil
}

// setMachineStatus moves one machine to status. An unknown machine id is ignored.
func setMachineStatus(ctx context.Context, store domain.Store, machineID string, status domain.MachineStatus) error {
	return store.UpdateMachines(ctx, func(machines []domain.Machine) ([]domain.Machine, bool, error) {
		current, ok := domain.Find(machines, machineID)
		if !ok || current.Status == status {
			return machines, false, nil
		}
		current.Status = status
		next, _ := domain.Replace(machines, current)
		return next, true, nil
	})
}
