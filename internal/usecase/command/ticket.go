package command

import (
	"context"
	"fmt"

	"github.com/tair/fabstock/internal/domain"
)

// CreateTicketCommand represents a maintenance request on a machine
type CreateTicketCommand struct {
	Actor        domain.TeamMember
	MachineID    string
	Type         domain.MaintenanceType
	Description  string
	AssignedToID string
	PartsUsed    string
	Cost         *float64
}

// CreateTicketHandler handles create ticket command
type CreateTicketHandler struct {
	store domain.Store
}

// NewCreateTicketHandler creates a new create ticket handler
func NewCreateTicketHandler(store domain.Store) *CreateTicketHandler {
	return &CreateTicketHandler{store: store}
}

// Handle opens a ticket and flags the machine as MaintenanceRequested, whatever
// other tickets are already open on it.
func (h *CreateTicketHandler) Handle(ctx context.Context, cmd CreateTicketCommand) (*domain.MaintenanceTicket, error) {
	if err := required("machineId", cmd.MachineID); err != nil {
		return nil, err
	}
	if err := required("description", cmd.Description); err != nil {
		return nil, err
	}
	if cmd.Type == "" {
		cmd.Type = domain.MaintenanceCorrective
	}
	if !cmd.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Message: "is not a known maintenance type"}
	}
	if err := nonNegativePrice("cost", cmd.Cost); err != nil {
		return nil, err
	}

	machine, ok := domain.Find(h.store.Machines(), cmd.MachineID)
	if !ok {
		return nil, domain.NotFound("machine", cmd.MachineID)
	}

	ticket := domain.MaintenanceTicket{
		ID:           newID(),
		MachineID:    machine.ID,
		MachineName:  machine.Name,
		DateCreated:  now(),
		Status:       domain.TicketOpen,
		Type:         cmd.Type,
		Description:  cmd.Description,
		AssignedToID: cmd.AssignedToID,
		PartsUsed:    cmd.PartsUsed,
		Cost:         cmd.Cost,
	}

	err := h.store.UpdateTickets(ctx, func(tickets []domain.MaintenanceTicket) ([]domain.MaintenanceTicket, bool, error) {
		return domain.Prepend(tickets, ticket), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	if err := setMachineStatus(ctx, h.store, machine.ID, domain.MachineMaintenanceRequested); err != nil {
		return nil, fmt.Errorf("failed to flag machine: %w", err)
	}

	return &ticket, nil
}

// StartTicketCommand represents picking up an open ticket
type StartTicketCommand struct {
	Actor    domain.TeamMember
	TicketID string
}

// StartTicketHandler handles start ticket command
type StartTicketHandler struct {
	store domain.Store
}

// NewStartTicketHandler creates a new start ticket handler
func NewStartTicketHandler(store domain.Store) *StartTicketHandler {
	return &StartTicketHandler{store: store}
}

// Handle moves an open ticket to in progress.
func (h *StartTicketHandler) Handle(ctx context.Context, cmd StartTicketCommand) (*domain.MaintenanceTicket, error) {
	return updateTicket(ctx, h.store, cmd.TicketID, func(t domain.MaintenanceTicket) (domain.MaintenanceTicket, error) {
		status, err := transition(ctx, t.Status, eventStart)
		if err != nil {
			return t, err
		}
		t.Status = status
		return t, nil
	})
}

// CloseTicketCommand represents finishing a ticket with a closure report
type CloseTicketCommand struct {
	Actor    domain.TeamMember
	TicketID string
	Report   string
}

// CloseTicketHandler handles close ticket command
type CloseTicketHandler struct {
	store domain.Store
}

// NewCloseTicketHandler creates a new close ticket handler
func NewCloseTicketHandler(store domain.Store) *CloseTicketHandler {
	return &CloseTicketHandler{store: store}
}

// Handle moves an in-progress ticket to done, stamps the resolution and sets the
// machine back to Operational even when other tickets on it are still open.
func (h *CloseTicketHandler) Handle(ctx context.Context, cmd CloseTicketCommand) (*domain.MaintenanceTicket, error) {
	if err := required("report", cmd.Report); err != nil {
		return nil, err
	}

	ticket, err := updateTicket(ctx, h.store, cmd.TicketID, func(t domain.MaintenanceTicket) (domain.MaintenanceTicket, error) {
		status, err := transition(ctx, t.Status, eventClose)
		if err != nil {
			return t, err
		}
		resolved := now()
		t.Status = status
		t.ResolutionDate = &resolved
		t.Notes = cmd.Report
		t.PerformedBy = cmd.Actor.Name
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	if err := setMachineStatus(ctx, h.store, ticket.MachineID, domain.MachineOperational); err != nil {
		return nil, fmt.Errorf("failed to restore machine status: %w", err)
	}
	return ticket, nil
}

// UpdateTicketCommand represents an edit of a ticket's details
type UpdateTicketCommand struct {
	Actor        domain.TeamMember
	TicketID     string
	Type         domain.MaintenanceType
	Description  string
	AssignedToID string
	PartsUsed    string
	Cost         *float64
}

// UpdateTicketHandler handles update ticket command
type UpdateTicketHandler struct {
	store domain.Store
}

// NewUpdateTicketHandler creates a new update ticket handler
func NewUpdateTicketHandler(store domain.Store) *UpdateTicketHandler {
	return &UpdateTicketHandler{store: store}
}

// Handle edits a ticket that is not done yet. Status only changes through start and close.
func (h *UpdateTicketHandler) Handle(ctx context.Context, cmd UpdateTicketCommand) (*domain.MaintenanceTicket, error) {
	if err := required("description", cmd.Description); err != nil {
		return nil, err
	}
	if cmd.Type != "" && !cmd.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Message: "is not a known maintenance type"}
	}
	if err := nonNegativePrice("cost", cmd.Cost); err != nil {
		return nil, err
	}

	return updateTicket(ctx, h.store, cmd.TicketID, func(t domain.MaintenanceTicket) (domain.MaintenanceTicket, error) {
		if t.Status == domain.TicketDone {
			return t, fmt.Errorf("cannot edit a closed ticket: %w", domain.ErrInvalidTransition)
		}
		if cmd.Type != "" {
			t.Type = cmd.Type
		}
		t.Description = cmd.Description
		t.AssignedToID = cmd.AssignedToID
		t.PartsUsed = cmd.PartsUsed
		t.Cost = cmd.Cost
		return t, nil
	})
}

// DeleteTicketCommand represents the command to delete a ticket
type DeleteTicketCommand struct {
	Actor    domain.TeamMember
	TicketID string
}

// DeleteTicketHandler handles delete ticket command
type DeleteTicketHandler struct {
	store domain.Store
}

// NewDeleteTicketHandler creates a new delete ticket handler
func NewDeleteTicketHandler(store domain.Store) *DeleteTicketHandler {
	return &DeleteTicketHandler{store: store}
}

// Handle executes the delete ticket command. The machine status is left as it is.
func (h *DeleteTicketHandler) Handle(ctx context.Context, cmd DeleteTicketCommand) error {
	if err := requireStockManager(cmd.Actor, "delete tickets"); err != nil {
		return err
	}
	if err := required("id", cmd.TicketID); err != nil {
		return err
	}

	h.store.RemoveTicket(ctx, cmd.TicketID)
	return nil
}

func updateTicket(ctx context.Context, store domain.Store, id string, fn func(domain.MaintenanceTicket) (domain.MaintenanceTicket, error)) (*domain.MaintenanceTicket, error) {
	var result domain.MaintenanceTicket
	err := store.UpdateTickets(ctx, func(tickets []domain.MaintenanceTicket) ([]domain.MaintenanceTicket, bool, error) {
		current, ok := domain.Find(tickets, id)
		if !ok {
			return nil, false, domain.NotFound("ticket", id)
		}
		updated, err := fn(current)
		if err != nil {
			return nil, false, err
		}
		result = updated
		next, _ := domain.Replace(tickets, updated)
		return next, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return &result, nil
}
