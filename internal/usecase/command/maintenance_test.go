package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/fabstock/internal/domain"
)

func machineStatus(t *testing.T, store *memStore, id string) domain.MachineStatus {
	t.Helper()
	m, ok := domain.Find(store.Machines(), id)
	require.True(t, ok)
	return m.Status
}

func TestCreateTicketSnapshotsMachineAndFlagsIt(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	h := NewCreateTicketHandler(store)

	ticket, err := h.Handle(context.Background(), CreateTicketCommand{
		Actor:        intern,
		MachineID:    "m1",
		Type:         domain.MaintenanceCorrective,
		Description:  "Buse bouchée",
		AssignedToID: "u1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Prusa i3 MK3S+", ticket.MachineName)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Equal(t, fixedNow, ticket.DateCreated)
	assert.Equal(t, ticket.ID, store.Tickets()[0].ID)
	assert.Equal(t, domain.MachineMaintenanceRequested, machineStatus(t, store, "m1"))
}

func TestCreateTicketNameIsNotRefreshed(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	ctx := context.Background()
	ticket, err := NewCreateTicketHandler(store).Handle(ctx, CreateTicketCommand{Actor: manager, MachineID: "m3", Description: "Courroie"})
	require.NoError(t, err)

	_, err = NewUpdateMachineHandler(store).Handle(ctx, UpdateMachineCommand{
		Actor:          manager,
		ID:             "m3",
		MachineDetails: MachineDetails{Name: "ShopBot renamed"},
	})
	require.NoError(t, err)

	stored, _ := domain.Find(store.Tickets(), ticket.ID)
	assert.Equal(t, "CNC ShopBot", stored.MachineName)
}

func TestCreateTicketUnknownMachine(t *testing.T) {
	_, err := NewCreateTicketHandler(newMemStore()).Handle(context.Background(), CreateTicketCommand{
		Actor: manager, MachineID: "m99", Description: "?",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTicketLifecycleIsForwardOnly(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	ctx := context.Background()
	start := NewStartTicketHandler(store)
	closeTicket := NewCloseTicketHandler(store)

	_, err := closeTicket.Handle(ctx, CloseTicketCommand{Actor: manager, TicketID: "mt1", Report: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "open tickets are started before they are closed")

	ticket, err := start.Handle(ctx, StartTicketCommand{Actor: manager, TicketID: "mt1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketInProgress, ticket.Status)

	_, err = start.Handle(ctx, StartTicketCommand{Actor: manager, TicketID: "mt1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	ticket, err = closeTicket.Handle(ctx, CloseTicketCommand{Actor: manager, TicketID: "mt1", Report: "Filtre changé"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketDone, ticket.Status)
	assert.Equal(t, "Filtre changé", ticket.Notes)
	assert.Equal(t, "Alex", ticket.PerformedBy)
	require.NotNil(t, ticket.ResolutionDate)
	assert.Equal(t, fixedNow, *ticket.ResolutionDate)

	_, err = start.Handle(ctx, StartTicketCommand{Actor: manager, TicketID: "mt1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = closeTicket.Handle(ctx, CloseTicketCommand{Actor: manager, TicketID: "mt1", Report: "again"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = NewUpdateTicketHandler(store).Handle(ctx, UpdateTicketCommand{Actor: manager, TicketID: "mt1", Description: "edit"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, _ := domain.Find(store.Tickets(), "mt1")
	assert.Equal(t, domain.TicketDone, stored.Status)
}

func TestCloseTicketRequiresReport(t *testing.T) {
	store := newMemStore()
	_, err := NewCloseTicketHandler(store).Handle(context.Background(), CloseTicketCommand{Actor: manager, TicketID: "mt1", Report: "  "})

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "report", validationErr.Field)
}

func TestClosingOneTicketRestoresMachineDespiteOtherOpenTickets(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	ctx := context.Background()

	second, err := NewCreateTicketHandler(store).Handle(ctx, CreateTicketCommand{Actor: manager, MachineID: "m2", Description: "Miroir rayé"})
	require.NoError(t, err)
	require.Equal(t, domain.MachineMaintenanceRequested, machineStatus(t, store, "m2"))

	_, err = NewStartTicketHandler(store).Handle(ctx, StartTicketCommand{Actor: manager, TicketID: "mt1"})
	require.NoError(t, err)
	_, err = NewCloseTicketHandler(store).Handle(ctx, CloseTicketCommand{Actor: manager, TicketID: "mt1", Report: "Filtre changé"})
	require.NoError(t, err)

	assert.Equal(t, domain.MachineOperational, machineStatus(t, store, "m2"))
	open, _ := domain.Find(store.Tickets(), second.ID)
	assert.Equal(t, domain.TicketOpen, open.Status)
}

func TestUpdateTicketDetails(t *testing.T) {
	store := newMemStore()
	cost := 42.0

	ticket, err := NewUpdateTicketHandler(store).Handle(context.Background(), UpdateTicketCommand{
		Actor:       manager,
		TicketID:    "mt1",
		Type:        domain.MaintenanceUpgrade,
		Description: "Remplacement du tube",
		PartsUsed:   "Tube CO2 40W",
		Cost:        &cost,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceUpgrade, ticket.Type)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	assert.Empty(t, ticket.AssignedToID)
	assert.Equal(t, &cost, ticket.Cost)
}

func TestDeleteTicketKeepsMachineStatus(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	h := NewDeleteTicketHandler(store)

	var permErr *domain.PermissionError
	require.True(t, errors.As(h.Handle(ctx, DeleteTicketCommand{Actor: intern, TicketID: "mt1"}), &permErr))

	require.NoError(t, h.Handle(ctx, DeleteTicketCommand{Actor: manager, TicketID: "mt1"}))
	assert.Empty(t, store.Tickets())
	assert.Equal(t, domain.MachineMaintenanceRequested, machineStatus(t, store, "m2"))
}

func TestMachineCRUD(t *testing.T) {
	freezeClock(t)
	store := newMemStore()
	ctx := context.Background()

	_, err := NewCreateMachineHandler(store).Handle(ctx, CreateMachineCommand{Actor: intern, MachineDetails: MachineDetails{Name: "Brodeuse"}})
	var permErr *domain.PermissionError
	require.True(t, errors.As(err, &permErr))

	m, err := NewCreateMachineHandler(store).Handle(ctx, CreateMachineCommand{
		Actor:          manager,
		MachineDetails: MachineDetails{Name: "Brodeuse", Model: "PR680W", Location: "Textile"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MachineOperational, m.Status)
	machines := store.Machines()
	assert.Equal(t, m.ID, machines[len(machines)-1].ID)

	updated, err := NewUpdateMachineHandler(store).Handle(ctx, UpdateMachineCommand{
		Actor:          manager,
		ID:             m.ID,
		MachineDetails: MachineDetails{Name: "Brodeuse", Status: domain.MachineBroken},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MachineBroken, updated.Status)

	_, err = NewUpdateMachineHandler(store).Handle(ctx, UpdateMachineCommand{
		Actor:          manager,
		ID:             m.ID,
		MachineDetails: MachineDetails{Name: "Brodeuse", Status: "melted"},
	})
	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))

	require.NoError(t, NewDeleteMachineHandler(store).Handle(ctx, DeleteMachineCommand{Actor: manager, ID: m.ID}))
	assert.Len(t, store.Machines(), 3)
}
