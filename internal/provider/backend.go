package provider

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/localstore"
	"github.com/tair/fabstock/internal/remote"
	"github.com/tair/fabstock/pkg/logger"
)

// Backend is where collections are loaded from and written through to.
type Backend interface {
	Mode() domain.StorageMode
	// LoadAll reads the four collections.
	LoadAll(ctx context.Context) (domain.Snapshot, error)
	// LoadCollection reads one collection into dst.
	LoadCollection(ctx context.Context, c domain.Collection, dst *domain.Snapshot) error
	// WriteThrough persists the whole collection.
	WriteThrough(ctx context.Context, c domain.Collection, records []domain.Record) error
	// DeleteOne removes id; remaining is the collection after removal.
	DeleteOne(ctx context.Context, c domain.Collection, id string, remaining []domain.Record) error
	// Subscribe calls onChange when c changes outside of this process's memory.
	Subscribe(c domain.Collection, onChange func()) (func(), error)
	Close() error
}

// LocalBackend keeps each collection as one JSON array in local storage.
type LocalBackend struct {
	kv   localstore.KV
	seed domain.Snapshot
}

// NewLocalBackend creates a LocalBackend that falls back to seed for absent or unreadable collections.
func NewLocalBackend(kv localstore.KV, seed domain.Snapshot) *LocalBackend {
	return &LocalBackend{kv: kv, seed: seed}
}

func (b *LocalBackend) Mode() domain.StorageMode { return domain.ModeLocal }

// LoadAll never fails: each collection degrades to the seed on its own.
func (b *LocalBackend) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	for _, c := range domain.Collections {
		if err := b.LoadCollection(ctx, c, &snap); err != nil {
			return domain.Snapshot{}, err
		}
	}
	return snap, nil
}

func (b *LocalBackend) LoadCollection(ctx context.Context, c domain.Collection, dst *domain.Snapshot) error {
	elems, found, err := localstore.Lookup[[]json.RawMessage](ctx, b.kv, c.StorageKey())
	if err == nil && found {
		if err = dst.Decode(c, elems); err == nil {
			return nil
		}
	}
	if err != nil {
		logger.Warn(ctx).Err(err).Str("collection", string(c)).Msg("Stored collection unreadable, using defaults")
	}
	dst.CopyFrom(c, b.seed.Clone())
	return nil
}

func (b *LocalBackend) WriteThrough(ctx context.Context, c domain.Collection, records []domain.Record) error {
	return localstore.Save(ctx, b.kv, c.StorageKey(), domain.RecordData(records))
}

func (b *LocalBackend) DeleteOne(ctx context.Context, c domain.Collection, _ string, remaining []domain.Record) error {
	return localstore.Save(ctx, b.kv, c.StorageKey(), domain.RecordData(remaining))
}

// Subscribe is a no-op: nothing else writes local storage.
func (b *LocalBackend) Subscribe(domain.Collection, func()) (func(), error) {
	return func() {}, nil
}

func (b *LocalBackend) Close() error { return nil }

// RemoteBackend maps collections onto remote tables.
type RemoteBackend struct {
	client remote.Client
}

// NewRemoteBackend wraps a connected client. Close closes the client.
func NewRemoteBackend(client remote.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

func (b *RemoteBackend) Mode() domain.StorageMode { return domain.ModeRemote }

// LoadAll fetches the four tables concurrently and fails if any fetch fails.
func (b *RemoteBackend) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	results := make([][]domain.Record, len(domain.Collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range domain.Collections {
		g.Go(func() error {
			rows, err := b.client.SelectAll(gctx, c.Table())
			if err != nil {
				return asRemoteError("select", c.Table(), err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	for i, c := range domain.Collections {
		if err := snap.Decode(c, domain.RecordData(results[i])); err != nil {
			return domain.Snapshot{}, &domain.RemoteError{Op: "decode", Table: c.Table(), Err: err}
		}
	}
	return snap, nil
}

func (b *RemoteBackend) LoadCollection(ctx context.Context, c domain.Collection, dst *domain.Snapshot) error {
	rows, err := b.client.SelectAll(ctx, c.Table())
	if err != nil {
		return asRemoteError("select", c.Table(), err)
	}
	if err := dst.Decode(c, domain.RecordData(rows)); err != nil {
		return &domain.RemoteError{Op: "decode", Table: c.Table(), Err: err}
	}
	return nil
}

// WriteThrough upserts every record of the collection.
func (b *RemoteBackend) WriteThrough(ctx context.Context, c domain.Collection, records []domain.Record) error {
	return b.client.Upsert(ctx, c.Table(), records)
}

func (b *RemoteBackend) DeleteOne(ctx context.Context, c domain.Collection, id string, _ []domain.Record) error {
	return b.client.DeleteByID(ctx, c.Table(), id)
}

func (b *RemoteBackend) Subscribe(c domain.Collection, onChange func()) (func(), error) {
	return b.client.Subscribe(c.Table(), onChange)
}

func (b *RemoteBackend) Close() error {
	return b.client.Close()
}
