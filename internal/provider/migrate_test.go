package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
)

func TestUploadLocalToRemoteSkipsEmptyCollections(t *testing.T) {
	ctx := context.Background()
	seed := domain.SeedSnapshot()
	seed.Tickets = nil
	fake := newFakeRemote()
	p := New(Options{Local: newTestKV(t), Connect: fake.connector(), Seed: &seed})
	t.Cleanup(func() { p.Close() })
	require.NoError(t, p.Start(ctx))

	require.NoError(t, p.UploadLocalToRemote(ctx, remoteSettings))

	assert.Equal(t, []string{"1", "2", "4", "5", "6"}, fake.ids("inventory"))
	assert.Equal(t, []string{"m1", "m2", "m3"}, fake.ids("machines"))
	assert.Equal(t, []string{"u1"}, fake.ids("team"))
	assert.Equal(t, 0, fake.upsertCount("maintenance"))
	assert.Equal(t, 1, fake.closeCount())
	assert.Equal(t, domain.ModeLocal, p.Mode(), "upload does not switch the active backend")
}

func TestUploadLocalToRemoteStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRemote()
	fake.setFailure(fake.failUpsert, "machines", errUnreachable)
	p := newTestProvider(t, newTestKV(t), fake.connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	err := p.UploadLocalToRemote(ctx, remoteSettings)

	var remoteErr *domain.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "machines", remoteErr.Table)
	assert.Len(t, fake.ids("inventory"), 5, "tables uploaded before the failure stay uploaded")
	assert.Empty(t, fake.ids("maintenance"))
	assert.Empty(t, fake.ids("team"))
}

func TestUploadRequiresRemoteConfiguration(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, newTestKV(t), newFakeRemote().connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	err := p.UploadLocalToRemote(ctx, domain.AppSettings{Mode: domain.ModeRemote, RemoteURL: "postgres://db"})

	var configErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestDownloadRemoteToLocalReplacesAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	fake := newFakeRemote()
	remoteSnap := domain.Snapshot{
		Items:    []domain.InventoryItem{{ID: "r1", Name: "Resin", Quantity: 4}},
		Machines: []domain.Machine{{ID: "rm1", Name: "Form 3"}},
	}
	seedRemote(t, fake, remoteSnap)
	p := newTestProvider(t, kv, fake.connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	require.NoError(t, p.DownloadRemoteToLocal(ctx, remoteSettings))

	assert.Equal(t, remoteSnap.Items, p.Items())
	assert.Equal(t, remoteSnap.Machines, p.Machines())
	assert.Empty(t, p.Tickets())
	assert.Empty(t, p.Team())

	stored := localstore.Load[[]domain.InventoryItem](ctx, kv, domain.KeyInventory, nil)
	assert.Equal(t, remoteSnap.Items, stored)
	team, found, err := localstore.Lookup[[]domain.TeamMember](ctx, kv, domain.KeyTeam)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, team)
}

func TestDownloadRemoteToLocalPartialFailure(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	fake := newFakeRemote()
	fake.put("inventory", []domain.Record{{ID: "r1", Data: []byte(`{"id":"r1","name":"Resin","quantity":4}`)}})
	fake.setFailure(fake.failSelect, "maintenance", errUnreachable)
	p := newTestProvider(t, kv, fake.connector(), domain.DefaultSettings())
	require.NoError(t, p.Start(ctx))

	err := p.DownloadRemoteToLocal(ctx, remoteSettings)

	var remoteErr *domain.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "maintenance", remoteErr.Table)

	// Collections before the failure were replaced, the rest keep their values.
	require.Len(t, p.Items(), 1)
	assert.Equal(t, "r1", p.Items()[0].ID)
	assert.Empty(t, p.Machines())
	assert.Equal(t, domain.SeedSnapshot().Tickets, p.Tickets())
	assert.Equal(t, domain.SeedSnapshot().Team, p.Team())
}
