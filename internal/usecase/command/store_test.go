package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tair/fabstock/internal/domain"
)

// memStore is a synchronous domain.Store that counts committed writes.
type memStore struct {
	mu       sync.Mutex
	snap     domain.Snapshot
	settings domain.AppSettings
	writes   map[domain.Collection]int
}

func newMemStore() *memStore {
	return &memStore{
		snap:     domain.SeedSnapshot(),
		settings: domain.DefaultSettings(),
		writes:   make(map[domain.Collection]int),
	}
}

func update[T any](s *memStore, c domain.Collection, cur *[]T, fn domain.Mutator[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed, err := fn(*cur)
	if err != nil || !changed {
		return err
	}
	*cur = next
	s.writes[c]++
	return nil
}

func (s *memStore) Items() []domain.InventoryItem { return s.snap.Clone().Items }
func (s *memStore) Machines() []domain.Machine { return s.snap.Clone().Machines }
func (s *memStore) Tickets() []domain.MaintenanceTicket { return s.snap.Clone().Tickets }
func (s *memStore) Team() []domain.TeamMember { return s.snap.Clone().Team }
func (s *memStore) Settings() domain.AppSettings { return s.settings }
func (s *memStore) Mode() domain.StorageMode { return s.settings.Mode }

func (s *memStore) UpdateItems(_ context.Context, fn domain.Mutator[domain.InventoryItem]) error {
	return update(s, domain.CollectionInventory, &s.snap.Items, fn)
}

func (s *memStore) UpdateMachines(_ context.Context, fn domain.Mutator[domain.Machine]) error {
	return update(s, domain.CollectionMachines, &s.snap.Machines, fn)
}

func (s *memStore) UpdateTickets(_ context.Context, fn domain.Mutator[domain.MaintenanceTicket]) error {
	return update(s, domain.CollectionMaintenance, &s.snap.Tickets, fn)
}

func (s *memStore) UpdateTeam(_ context.Context, fn domain.Mutator[domain.TeamMember]) error {
	return update(s, domain.CollectionTeam, &s.snap.Team, fn)
}

func (s *memStore) RemoveItem(ctx context.Context, id string) {
	_ = s.UpdateItems(ctx, func(cur []domain.InventoryItem) ([]domain.InventoryItem, bool, error) {
		return domain.Without(cur, id), true, nil
	})
}

func (s *memStore) RemoveMachine(ctx context.Context, id string) {
	_ = s.UpdateMachines(ctx, func(cur []domain.Machine) ([]domain.Machine, bool, error) {
		return domain.Without(cur, id), true, nil
	})
}

func (s *memStore) RemoveTicket(ctx context.Context, id string) {
	_ = s.UpdateTickets(ctx, func(cur []domain.MaintenanceTicket) ([]domain.MaintenanceTicket, bool, error) {
		return domain.Without(cur, id), true, nil
	})
}

func (s *memStore) RemoveMember(ctx context.Context, id string) {
	_ = s.UpdateTeam(ctx, func(cur []domain.TeamMember) ([]domain.TeamMember, bool, error) {
		return domain.Without(cur, id), true, nil
	})
}

func (s *memStore) writeCount(c domain.Collection) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[c]
}

var fixedNow = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

// freezeClock pins the clock and makes generated ids sequential for the test.
func freezeClock(t *testing.T) {
	t.Helper()
	prevNow, prevID := now, newID
	var n int
	now = func() time.Time { return fixedNow }
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { now, newID = prevNow, prevID })
}

var (
	admin   = domain.TeamMember{ID: "u1", Name: "Fab Admin", Email: "admin@fablab.com", Role: domain.RoleAdmin, CanManageStock: true}
	manager = domain.TeamMember{ID: "u2", Name: "Alex", Email: "alex@fablab.com", Role: domain.RoleMember, CanManageStock: true}
	intern  = domain.TeamMember{ID: "u3", Name: "Robin", Email: "robin@fablab.com", Role: domain.RoleIntern}
)
