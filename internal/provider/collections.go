package provider

import (
	"context"
	"slices"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

type accessor[T domain.Entity] struct {
	coll domain.Collection
	get  func(*domain.Snapshot) []T
	set  func(*domain.Snapshot, []T)
}

var (
	items = accessor[domain.InventoryItem]{
		coll: domain.CollectionInventory,
		get:  func(s *domain.Snapshot) []domain.InventoryItem { return s.Items },
		set:  func(s *domain.Snapshot, v []domain.InventoryItem) { s.Items = v },
	}
	machines = accessor[domain.Machine]{
		coll: domain.CollectionMachines,
		get:  func(s *domain.Snapshot) []domain.Machine { return s.Machines },
		set:  func(s *domain.Snapshot, v []domain.Machine) { s.Machines = v },
	}
	tickets = accessor[domain.MaintenanceTicket]{
		coll: domain.CollectionMaintenance,
		get:  func(s *domain.Snapshot) []domain.MaintenanceTicket { return s.Tickets },
		set:  func(s *domain.Snapshot, v []domain.MaintenanceTicket) { s.Tickets = v },
	}
	team = accessor[domain.TeamMember]{
		coll: domain.CollectionTeam,
		get:  func(s *domain.Snapshot) []domain.TeamMember { return s.Team },
		set:  func(s *domain.Snapshot, v []domain.TeamMember) { s.Team = v },
	}
)

func list[T domain.Entity](p *Provider, a accessor[T]) []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(a.get(&p.snap))
}

// setCollection replaces the collection in memory and queues a whole-collection write-through.
func setCollection[T domain.Entity](ctx context.Context, p *Provider, a accessor[T], records []T) {
	records = slices.Clone(records)
	rows, encErr := domain.EncodeRecords(records)

	p.mu.Lock()
	a.set(&p.snap, records)
	p.enqueue(ctx, a.coll, func(ctx context.Context, b Backend) error {
		if encErr != nil {
			return encErr
		}
		return b.WriteThrough(ctx, a.coll, rows)
	})
	p.mu.Unlock()

	p.metrics.setSize(a.coll, len(records))
}

// updateCollection applies fn to the current collection under the provider lock, so
// concurrent read-modify-write sequences do not lose updates. fn must not call back into p.
func updateCollection[T domain.Entity](ctx context.Context, p *Provider, a accessor[T], fn domain.Mutator[T]) error {
	p.mu.Lock()
	next, changed, err := fn(slices.Clone(a.get(&p.snap)))
	if err != nil || !changed {
		p.mu.Unlock()
		return err
	}
	rows, encErr := domain.EncodeRecords(next)
	a.set(&p.snap, next)
	p.enqueue(ctx, a.coll, func(ctx context.Context, b Backend) error {
		if encErr != nil {
			return encErr
		}
		return b.WriteThrough(ctx, a.coll, rows)
	})
	p.mu.Unlock()

	p.metrics.setSize(a.coll, len(next))
	return nil
}

// deleteFromCollection replaces the collection with remaining and queues the removal of id.
func deleteFromCollection[T domain.Entity](ctx context.Context, p *Provider, a accessor[T], id string, remaining []T) {
	remaining = slices.Clone(remaining)
	rows, encErr := domain.EncodeRecords(remaining)

	p.mu.Lock()
	a.set(&p.snap, remaining)
	p.enqueue(ctx, a.coll, func(ctx context.Context, b Backend) error {
		if encErr != nil {
			return encErr
		}
		return b.DeleteOne(ctx, a.coll, id, rows)
	})
	p.mu.Unlock()

	p.metrics.setSize(a.coll, len(remaining))
}

func removeFromCollection[T domain.Entity](ctx context.Context, p *Provider, a accessor[T], id string) {
	p.mu.Lock()
	remaining := domain.Without(a.get(&p.snap), id)
	rows, encErr := domain.EncodeRecords(remaining)
	a.set(&p.snap, remaining)
	p.enqueue(ctx, a.coll, func(ctx context.Context, b Backend) error {
		if encErr != nil {
			return encErr
		}
		return b.DeleteOne(ctx, a.coll, id, rows)
	})
	p.mu.Unlock()

	p.metrics.setSize(a.coll, len(remaining))
}

// enqueue runs write against the active backend in the background. Writes to the same
// collection complete in the order they were queued. Failures are logged and flagged,
// never retried, and the in-memory state is not rolled back. Callers hold p.mu.
func (p *Provider) enqueue(ctx context.Context, c domain.Collection, write func(context.Context, Backend) error) {
	backend := p.backend
	gen := p.generation
	prev := p.tails[c]
	done := make(chan struct{})
	p.tails[c] = done
	p.writes.add()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer p.writes.done()
		defer close(done)
		if prev != nil {
			<-prev
		}

		var err error
		mode := domain.StorageMode("")
		if backend == nil {
			err = &domain.ConfigurationError{Message: "no storage backend is active"}
		} else {
			mode = backend.Mode()
			err = write(ctx, backend)
		}
		p.recordWrite(gen, c, mode, err)
	}()
}

func (p *Provider) recordWrite(gen uint64, c domain.Collection, mode domain.StorageMode, err error) {
	p.mu.Lock()
	if gen == p.generation {
		p.pending[c] = err != nil
	}
	p.mu.Unlock()

	p.metrics.recordWrite(c, mode, err)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("collection", string(c)).
			Str("mode", string(mode)).
			Msg("Write-through failed, in-memory state kept")
		return
	}
	logger.Logger.Debug().
		Str("collection", string(c)).
		Str("mode", string(mode)).
		Msg("Write-through completed")
}

// Snapshot returns a copy of every collection.
func (p *Provider) Snapshot() domain.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap.Clone()
}

// Items returns a copy of the inventory.
func (p *Provider) Items() []domain.InventoryItem {
	return list(p, items)
}

// Machines returns a copy of the machines.
func (p *Provider) Machines() []domain.Machine {
	return list(p, machines)
}

// Tickets returns a copy of the maintenance tickets.
func (p *Provider) Tickets() []domain.MaintenanceTicket {
	return list(p, tickets)
}

// Team returns a copy of the team.
func (p *Provider) Team() []domain.TeamMember {
	return list(p, team)
}

// SetItems replaces the inventory and writes it through.
func (p *Provider) SetItems(ctx context.Context, v []domain.InventoryItem) {
	setCollection(ctx, p, items, v)
}

// SetMachines replaces the machines and writes them through.
func (p *Provider) SetMachines(ctx context.Context, v []domain.Machine) {
	setCollection(ctx, p, machines, v)
}

// SetTickets replaces the maintenance tickets and writes them through.
func (p *Provider) SetTickets(ctx context.Context, v []domain.MaintenanceTicket) {
	setCollection(ctx, p, tickets, v)
}

// SetTeam replaces the team and writes it through.
func (p *Provider) SetTeam(ctx context.Context, v []domain.TeamMember) {
	setCollection(ctx, p, team, v)
}

// DeleteItem replaces the inventory with remaining and deletes id from the backend.
func (p *Provider) DeleteItem(ctx context.Context, id string, remaining []domain.InventoryItem) {
	deleteFromCollection(ctx, p, items, id, remaining)
}

// DeleteMachine replaces the machines with remaining and deletes id from the backend.
func (p *Provider) DeleteMachine(ctx context.Context, id string, remaining []domain.Machine) {
	deleteFromCollection(ctx, p, machines, id, remaining)
}

// DeleteTicket replaces the tickets with remaining and deletes id from the backend.
func (p *Provider) DeleteTicket(ctx context.Context, id string, remaining []domain.MaintenanceTicket) {
	deleteFromCollection(ctx, p, tickets, id, remaining)
}

// DeleteMember replaces the team with remaining and deletes id from the backend.
func (p *Provider) DeleteMember(ctx context.Context, id string, remaining []domain.TeamMember) {
	deleteFromCollection(ctx, p, team, id, remaining)
}

func (p *Provider) UpdateItems(ctx context.Context, fn domain.Mutator[domain.InventoryItem]) error {
	return updateCollection(ctx, p, items, fn)
}

func (p *Provider) UpdateMachines(ctx context.Context, fn domain.Mutator[domain.Machine]) error {
	return updateCollection(ctx, p, machines, fn)
}

func (p *Provider) UpdateTickets(ctx context.Context, fn domain.Mutator[domain.MaintenanceTicket]) error {
	return updateCollection(ctx, p, tickets, fn)
}

func (p *Provider) UpdateTeam(ctx context.Context, fn domain.Mutator[domain.TeamMember]) error {
	return updateCollection(ctx, p, team, fn)
}

// RemoveItem deletes id from the current inventory. Unknown ids leave it unchanged.
func (p *Provider) RemoveItem(ctx context.Context, id string) {
	removeFromCollection(ctx, p, items, id)
}

func (p *Provider) RemoveMachine(ctx context.Context, id string) {
	removeFromCollection(ctx, p, machines, id)
}

func (p *Provider) RemoveTicket(ctx context.Context, id string) {
	removeFromCollection(ctx, p, tickets, id)
}

func (p *Provider) RemoveMember(ctx context.Context, id string) {
	removeFromCollection(ctx, p, team, id)
}

var _ domain.Store = (*Provider)(nil)
