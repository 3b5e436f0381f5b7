package domain

import "context"

// Mutator transforms a collection. It returns the new records and whether anything changed;
// an unchanged result is neither stored nor written through.
type Mutator[T any] func(current []T) (next []T, changed bool, err error)

// Store is the in-memory owner of the entity collections. Every write is applied
// immediately and persisted to the active backend asynchronously.
type Store interface {
	Items() []InventoryItem
	Machines() []Machine
	Tickets() []MaintenanceTicket
	Team() []TeamMember
	Settings() AppSettings
	Mode() StorageMode

	UpdateItems(ctx context.Context, fn Mutator[InventoryItem]) error
	UpdateMachines(ctx context.Context, fn Mutator[Machine]) error
	UpdateTickets(ctx context.Context, fn Mutator[MaintenanceTicket]) error
	UpdateTeam(ctx context.Context, fn Mutator[TeamMember]) error

	RemoveItem(ctx context.Context, id string)
	RemoveMachine(ctx context.Context, id string)
	RemoveTicket(ctx context.Context, id string)
	RemoveMember(ctx context.Context, id string)
}
